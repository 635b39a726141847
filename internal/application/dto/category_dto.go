package dto

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description"`
}

// UpdateCategoryRequest entrada para actualizar una categoría.
// ClearDescription deja la descripción en null; tiene prioridad sobre Description.
type UpdateCategoryRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description      *string `json:"description"`
	ClearDescription bool    `json:"clear_description"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CategoryListResponse lista de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Total int                `json:"total"`
}
