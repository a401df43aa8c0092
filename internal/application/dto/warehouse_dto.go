package dto

import "time"

// CreateWarehouseRequest entrada para crear una bodega. ID opcional (vacío = UUID).
type CreateWarehouseRequest struct {
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseListResponse lista de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
}

// CreateItemRequest alta de material o producto. Code es el SKU en productos.
type CreateItemRequest struct {
	ID   string `json:"id,omitempty"`
	Code string `json:"code"`
	Name string `json:"name" validate:"required,min=1,max=200"`
	Unit string `json:"unit"`
}

// ItemResponse material o producto del catálogo.
type ItemResponse struct {
	ItemRef
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"created_at"`
}
