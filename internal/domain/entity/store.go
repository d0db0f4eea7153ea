package entity

import "time"

// Store representa una tienda o sucursal donde se almacenan lotes y se registran ventas.
type Store struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
