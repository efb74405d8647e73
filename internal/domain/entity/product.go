package entity

import "time"

// Product representa un producto del catálogo de un tenant.
// El stock no vive aquí: es la suma de saldos de sus lotes.
type Product struct {
	ID           string
	TenantID     string
	SKU          string // código único por tenant
	Name         string
	ASIN         string
	Description  string
	MinimumStock int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
