package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperuser = "superuser" // todas las tiendas
	RoleAdmin     = "admin"
	RoleSeller    = "seller"
)

// Estados de User.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema (asignado a una Store).
type User struct {
	ID           string
	StoreID      string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // superuser, admin, seller
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanSeeProfit indica si el rol puede ver la ganancia pura de las ventas.
func CanSeeProfit(role string) bool {
	return role == RoleAdmin || role == RoleSuperuser
}
