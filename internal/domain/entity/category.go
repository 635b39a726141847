package entity

// Category agrupa productos. Al eliminarla, sus productos quedan sin categoría.
type Category struct {
	ID          int64
	Name        string
	Description *string // opcional
}
