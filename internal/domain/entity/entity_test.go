package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

func TestParseStockItem(t *testing.T) {
	item, err := ParseStockItem("MATERIAL", "M-1")
	require.NoError(t, err)
	assert.Equal(t, Material("M-1"), item)
	assert.True(t, item.IsMaterial())
	assert.Equal(t, "MATERIAL:M-1", item.String())

	_, err = ParseStockItem("SERVICE", "X")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ParseStockItem("PRODUCT", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedgerKeys(t *testing.T) {
	p := Product("P")
	assert.Equal(t, LedgerKey{WarehouseID: "W", Item: p, Pool: PoolAvailable}, AvailableKey("W", p))
	assert.Equal(t, LedgerKey{WarehouseID: "W", Item: p, Pool: PoolReserved, DemandOrderID: "S"}, ReservedKey("W", p, "S"))
	assert.NotEqual(t, ReservedKey("W", p, "S1"), ReservedKey("W", p, "S2"))

	r := &InventoryRecord{WarehouseID: "W", Item: p, Pool: PoolReserved, DemandOrderID: "S"}
	assert.Equal(t, ReservedKey("W", p, "S"), r.Key())
}

func TestDemandLine_AddReceived(t *testing.T) {
	l := &DemandLine{ID: "L", Required: decimal.NewFromInt(10), Received: decimal.Zero}
	l.Recompute()

	require.NoError(t, l.AddReceived(decimal.NewFromInt(4)))
	assert.True(t, l.Remaining.Equal(decimal.NewFromInt(6)))
	assert.False(t, l.FullyReceived())

	err := l.AddReceived(decimal.NewFromInt(7))
	assert.ErrorIs(t, err, domain.ErrOverIssue)
	assert.True(t, l.Received.Equal(decimal.NewFromInt(4)), "un rechazo no altera la línea")

	require.NoError(t, l.AddReceived(decimal.NewFromInt(6)))
	assert.True(t, l.FullyReceived())
	assert.True(t, l.Remaining.IsZero())
}

func TestSupplyLine_RemainingNuncaNegativo(t *testing.T) {
	l := &SupplyLine{Ordered: decimal.NewFromInt(5), Received: decimal.Zero}
	l.AddReceived(decimal.NewFromInt(8))

	assert.True(t, l.Remaining.IsZero())
	assert.True(t, l.FullyReceived())
}

func TestSupplyLinesComplete(t *testing.T) {
	assert.False(t, SupplyLinesComplete(nil))
	done := &SupplyLine{Ordered: decimal.NewFromInt(1), Received: decimal.NewFromInt(1)}
	open := &SupplyLine{Ordered: decimal.NewFromInt(1), Received: decimal.Zero}
	assert.True(t, SupplyLinesComplete([]*SupplyLine{done}))
	assert.False(t, SupplyLinesComplete([]*SupplyLine{done, open}))
}

func TestSalesOrder_LineForPrefiereLineaPendiente(t *testing.T) {
	m := Material("M")
	o := &SalesOrder{MaterialLines: []*DemandLine{
		{ID: "L1", Item: m, Required: decimal.NewFromInt(2), Received: decimal.NewFromInt(2)},
		{ID: "L2", Item: m, Required: decimal.NewFromInt(3), Received: decimal.Zero},
	}}

	assert.Equal(t, "L2", o.LineFor(m).ID)
	assert.Nil(t, o.LineFor(Material("X")))
	assert.Equal(t, "L1", o.FindLine("L1").ID)
}

func TestSalesOrder_CloneEsProfundo(t *testing.T) {
	o := &SalesOrder{ID: "S", ProductLines: []*DemandLine{{ID: "L", Required: decimal.NewFromInt(1)}}}

	c := o.Clone()
	c.ProductLines[0].Received = decimal.NewFromInt(1)

	assert.True(t, o.ProductLines[0].Received.IsZero())
}

func TestCheckScale(t *testing.T) {
	for _, ok := range []string{"1", "0.0001", "12.5", "1.50000"} {
		assert.NoError(t, CheckScale(decimal.RequireFromString(ok)), ok)
	}
	for _, bad := range []string{"0.00004", "3.14159"} {
		assert.ErrorIs(t, CheckScale(decimal.RequireFromString(bad)), domain.ErrInvalidInput, bad)
	}
}
