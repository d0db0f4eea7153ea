package entity

import "time"

// Category categoría de productos. El ID es numérico porque las reglas de costo
// (fórmula volumétrica) se definen por ID de categoría.
type Category struct {
	ID        int
	Name      string
	CreatedAt time.Time
}
