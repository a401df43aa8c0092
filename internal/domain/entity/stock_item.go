package entity

import (
	"fmt"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// ItemKind discrimina el tipo de ítem con stock.
type ItemKind string

// Tipos de ítem.
const (
	ItemKindMaterial ItemKind = "MATERIAL" // materia prima
	ItemKindProduct  ItemKind = "PRODUCT"  // producto terminado
)

// StockItem es una unión discriminada: exactamente un Material o un Producto.
// Construir siempre con Material(id) o Product(id).
type StockItem struct {
	Kind ItemKind
	ID   string
}

// Material construye la referencia a una materia prima.
func Material(id string) StockItem {
	return StockItem{Kind: ItemKindMaterial, ID: id}
}

// Product construye la referencia a un producto terminado.
func Product(id string) StockItem {
	return StockItem{Kind: ItemKindProduct, ID: id}
}

// ParseStockItem arma un StockItem desde el par (kind, id) que llega de la capa externa.
func ParseStockItem(kind, id string) (StockItem, error) {
	item := StockItem{Kind: ItemKind(kind), ID: id}
	if err := item.Validate(); err != nil {
		return StockItem{}, err
	}
	return item, nil
}

// Validate verifica que el ítem sea exactamente uno de los dos tipos y tenga ID.
func (s StockItem) Validate() error {
	if s.Kind != ItemKindMaterial && s.Kind != ItemKindProduct {
		return fmt.Errorf("tipo de ítem %q: %w", s.Kind, domain.ErrInvalidInput)
	}
	if s.ID == "" {
		return fmt.Errorf("ítem sin id: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (s StockItem) IsMaterial() bool { return s.Kind == ItemKindMaterial }
func (s StockItem) IsProduct() bool  { return s.Kind == ItemKindProduct }

// String devuelve "KIND:id" (útil en logs y llaves de caché).
func (s StockItem) String() string {
	return string(s.Kind) + ":" + s.ID
}
