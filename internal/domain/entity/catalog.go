package entity

import "time"

// Warehouse bodega. Todo registro del libro pertenece a exactamente una.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaterialItem materia prima del catálogo.
type MaterialItem struct {
	ID        string
	Code      string
	Name      string
	Unit      string
	CreatedAt time.Time
}

// ProductItem producto terminado del catálogo.
type ProductItem struct {
	ID        string
	SKU       string
	Name      string
	Unit      string
	CreatedAt time.Time
}
