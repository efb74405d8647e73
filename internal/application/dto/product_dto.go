package dto

import "time"

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	ASIN         string `json:"asin"`
	Description  string `json:"description"`
	MinimumStock int    `json:"minimum_stock"`
}

// UpdateProductRequest entrada para actualizar un producto; los campos nil no cambian.
type UpdateProductRequest struct {
	SKU          *string `json:"sku"`
	Name         *string `json:"name"`
	ASIN         *string `json:"asin"`
	Description  *string `json:"description"`
	MinimumStock *int    `json:"minimum_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	ASIN         string    `json:"asin,omitempty"`
	Description  string    `json:"description,omitempty"`
	MinimumStock int       `json:"minimum_stock"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
