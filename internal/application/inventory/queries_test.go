package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// TotalAvailable / ByWarehouse
// ──────────────────────────────────────────────────────────────────────────────

func TestTotalAvailable_SumaBodegasSinReservas(t *testing.T) {
	f := newFixture(t, available(whA, matM, 5), available(whB, matM, 7), reserved(whA, matM, "S1", 100))

	total, err := f.svc.TotalAvailable(context.Background(), matM)

	require.NoError(t, err)
	assert.True(t, total.Equal(d(12)))
}

func TestTotalAvailable_UsaLaCacheHastaQueSeInvalida(t *testing.T) {
	f := newFixture(t, available(whA, prodP, 5))
	ctx := context.Background()

	_, err := f.svc.TotalAvailable(ctx, prodP)
	require.NoError(t, err)
	cached, _ := f.cache.GetTotal(ctx, prodP)
	require.True(t, cached.Hit)
	assert.True(t, cached.Total.Equal(d(5)))

	total, err := f.svc.TotalAvailable(ctx, prodP)
	require.NoError(t, err)
	assert.True(t, total.Equal(d(5)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheLookups.WithLabelValues("miss")))

	_, err = f.svc.Issue(ctx, inventory.IssueInput{
		WarehouseID: whA, Item: prodP, Quantity: d(2), Document: doc("IN-1", entity.DocumentIssueNote),
	})
	require.NoError(t, err)
	cached, _ = f.cache.GetTotal(ctx, prodP)
	assert.False(t, cached.Hit)

	total, err = f.svc.TotalAvailable(ctx, prodP)
	require.NoError(t, err)
	assert.True(t, total.Equal(d(3)))
}

func TestTotalAvailable_NoCacheaUnTotalInvalidadoMientrasSeCalculaba(t *testing.T) {
	f := newFixture(t, available(whA, prodP, 5))
	ctx := context.Background()
	f.cache.beforeSet = func() {
		_, err := f.svc.Issue(ctx, inventory.IssueInput{
			WarehouseID: whA, Item: prodP, Quantity: d(2), Document: doc("IN-1", entity.DocumentIssueNote),
		})
		require.NoError(t, err)
	}

	total, err := f.svc.TotalAvailable(ctx, prodP)
	require.NoError(t, err)
	assert.True(t, total.Equal(d(5)), "se leyó antes de la salida")

	cached, _ := f.cache.GetTotal(ctx, prodP)
	assert.False(t, cached.Hit, "la invalidación de la salida no se pisa")

	total, err = f.svc.TotalAvailable(ctx, prodP)
	require.NoError(t, err)
	assert.True(t, total.Equal(d(3)))
}

func TestTotalAvailable_ItemInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.TotalAvailable(context.Background(), entity.Product("NOPE"))

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestByWarehouse_MezclaElReservadoDeLaOrden(t *testing.T) {
	f := newFixture(t,
		available(whB, matM, 4),
		available(whA, matM, 1),
		reserved(whA, matM, "S1", 3),
		reserved(whA, matM, "S2", 50),
		reserved(whB, matM, "S1", 2),
	)

	rows, err := f.svc.ByWarehouse(context.Background(), matM, "S1")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, whA, rows[0].WarehouseID)
	assert.True(t, rows[0].Available.Equal(d(1)))
	assert.True(t, rows[0].Reserved.Equal(d(3)))
	assert.True(t, rows[0].Usable.Equal(d(4)))
	assert.Equal(t, whB, rows[1].WarehouseID)
	assert.True(t, rows[1].Usable.Equal(d(6)))
}

func TestByWarehouse_SinOrdenSoloDisponible(t *testing.T) {
	f := newFixture(t, available(whA, matM, 1), reserved(whA, matM, "S1", 3), reserved(whB, matM, "S1", 3))

	rows, err := f.svc.ByWarehouse(context.Background(), matM, "")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Usable.Equal(d(1)))
	assert.True(t, rows[0].Reserved.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// PeriodMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestPeriodMovement_SaldosDesdeElLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := func(n int) time.Time { return time.Date(2024, 3, n, 0, 0, 0, 0, time.UTC) }

	f.clock.Set(day(1).Add(10 * time.Hour))
	_, err := f.svc.Receive(ctx, inventory.ReceiveInput{WarehouseID: whA, Item: prodP, Quantity: d(10), Document: doc("RN-1", entity.DocumentReceiptNote)})
	require.NoError(t, err)

	f.clock.Set(day(2))
	_, err = f.svc.Issue(ctx, inventory.IssueInput{WarehouseID: whA, Item: prodP, Quantity: d(3), Document: doc("IN-1", entity.DocumentIssueNote)})
	require.NoError(t, err)

	f.clock.Set(day(3))
	_, err = f.svc.Receive(ctx, inventory.ReceiveInput{WarehouseID: whB, Item: prodP, Quantity: d(5), Document: doc("RN-2", entity.DocumentReceiptNote)})
	require.NoError(t, err)

	t.Run("el extremo final es exclusivo", func(t *testing.T) {
		mv, err := f.svc.PeriodMovement(ctx, inventory.PeriodInput{Item: prodP, From: day(2), To: day(3)})
		require.NoError(t, err)
		assert.True(t, mv.Opening.Equal(d(10)))
		assert.True(t, mv.In.IsZero())
		assert.True(t, mv.Out.Equal(d(3)))
		assert.True(t, mv.Closing.Equal(d(7)))
	})

	t.Run("período que incluye todo", func(t *testing.T) {
		mv, err := f.svc.PeriodMovement(ctx, inventory.PeriodInput{Item: prodP, From: day(1), To: day(4)})
		require.NoError(t, err)
		assert.True(t, mv.Opening.IsZero())
		assert.True(t, mv.In.Equal(d(15)))
		assert.True(t, mv.Out.Equal(d(3)))
		assert.True(t, mv.Closing.Equal(d(12)))
	})

	t.Run("filtrado por bodega", func(t *testing.T) {
		mv, err := f.svc.PeriodMovement(ctx, inventory.PeriodInput{Item: prodP, WarehouseID: whB, From: day(1), To: day(4)})
		require.NoError(t, err)
		assert.True(t, mv.In.Equal(d(5)))
		assert.True(t, mv.Out.IsZero())
	})

	t.Run("cierre igual a apertura más entradas menos salidas", func(t *testing.T) {
		mv, err := f.svc.PeriodMovement(ctx, inventory.PeriodInput{Item: prodP, From: day(2), To: day(5)})
		require.NoError(t, err)
		assert.True(t, mv.Closing.Equal(mv.Opening.Add(mv.In).Sub(mv.Out)))
	})
}

func TestPeriodMovement_RangoInvalido(t *testing.T) {
	f := newFixture(t)
	now := time.Now()

	_, err := f.svc.PeriodMovement(context.Background(), inventory.PeriodInput{Item: prodP, From: now, To: now})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.PeriodMovement(context.Background(), inventory.PeriodInput{Item: prodP, From: now})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
