package dto

import "github.com/shopspring/decimal"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ItemRef referencia a un ítem con stock: kind MATERIAL o PRODUCT.
type ItemRef struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// LineRequest ítem y cantidad en los cuerpos de entrada.
type LineRequest struct {
	ItemRef
	Quantity decimal.Decimal `json:"quantity"`
}

// WarehouseQuantity cantidad tomada o devuelta en una bodega.
type WarehouseQuantity struct {
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}
