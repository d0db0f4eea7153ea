package entity

import "time"

// Client cliente de una tienda; obligatorio en ventas a crédito.
type Client struct {
	ID        string
	StoreID   string
	Name      string
	Phone     string
	Address   string
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
