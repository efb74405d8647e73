package entity

import "time"

// Estados válidos para User.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User cuenta del sistema. Cada usuario es su propio tenant: sus productos, lotes
// y ventas quedan aislados del resto.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TenantID identificador de tenant asociado a la cuenta.
func (u *User) TenantID() string {
	return u.ID
}
