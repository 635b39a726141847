// Package catalog contiene reglas puras del catálogo de productos.
package catalog

import (
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// CodeMaxLength longitud máxima de un código de producto.
const CodeMaxLength = 50

var generatedCodePattern = regexp.MustCompile(`^P[0-9A-F]{8}$`)

// NewCode genera un código de producto: "P" + 8 hexadecimales en mayúscula tomados de un UUID aleatorio.
// Ejemplo: P5F3D2A1B. La unicidad la verifica quien persiste el producto.
func NewCode() string {
	id := uuid.New()
	return "P" + strings.ToUpper(hex.EncodeToString(id[:4]))
}

// IsGeneratedCode indica si code tiene el formato de un código autogenerado.
func IsGeneratedCode(code string) bool {
	return generatedCodePattern.MatchString(code)
}
