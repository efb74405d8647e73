package sales_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FernandoLelis/multivendas-backend/internal/application/inventory"
	"github.com/FernandoLelis/multivendas-backend/internal/application/sales"
	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/repository"
	"github.com/FernandoLelis/multivendas-backend/internal/infrastructure/cache"
	"github.com/FernandoLelis/multivendas-backend/internal/infrastructure/memory"
)

const (
	tenantA = "00000000-0000-0000-0000-00000000000a"
	tenantB = "00000000-0000-0000-0000-00000000000b"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	lots  *inventory.LotUseCase
	sales *sales.UseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	log := zerolog.Nop()
	noCache := cache.NoopBalanceCache{}
	return &fixture{
		store: store,
		lots:  inventory.NewLotUseCase(tx, store.Lots(), store.Consumptions(), store.Products(), noCache, log),
		sales: sales.NewUseCase(tx, inventory.NewEngine(log), store.Sales(), store.Consumptions(),
			store.Products(), store.Lots(), noCache, log),
	}
}

// stocked crea un producto con dos lotes: 5 u. a 2,00 y 10 u. a 3,00.
func (f *fixture) stocked(t *testing.T, tenantID string) *entity.Product {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{ID: entity.NewID(), TenantID: tenantID, SKU: "SKU-" + tenantID[len(tenantID)-1:], Name: "Fone"}
	require.NoError(t, f.store.Products().Create(ctx, p))
	for i, l := range []struct {
		qty   int
		total string
	}{{5, "10.00"}, {10, "30.00"}} {
		_, err := f.lots.RegisterLot(ctx, tenantID, inventory.LotInput{
			ProductID:       p.ID,
			Quantity:        l.qty,
			TotalCost:       decimal.RequireFromString(l.total),
			PurchaseOrderID: fmt.Sprintf("PO-%d", i+1),
			Category:        "Eletrônicos",
			PurchasedAt:     baseTime.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	return p
}

func saleInput(productID, orderID string, qty int) sales.SaleInput {
	return sales.SaleInput{
		OrderID:                orderID,
		ProductID:              productID,
		Platform:               "mercado livre",
		Quantity:               qty,
		SoldAt:                 baseTime.Add(48 * time.Hour),
		SellPrice:              decimal.RequireFromString("100.00"),
		ShippingPaidByCustomer: decimal.RequireFromString("10.00"),
		ShippingCost:           decimal.RequireFromString("15.00"),
		PlatformFee:            decimal.RequireFromString("12.00"),
		OperatingExpenses:      decimal.RequireFromString("5.00"),
	}
}

func TestCreate_CosteaYCalculaResultados(t *testing.T) {
	f := newFixture()
	p := f.stocked(t, tenantA)
	ctx := context.Background()

	sale, err := f.sales.Create(ctx, tenantA, saleInput(p.ID, "ORD-1", 7))
	require.NoError(t, err)
	assert.Equal(t, entity.PlatformMercadoLivre, sale.Platform)
	assert.True(t, decimal.RequireFromString("16.00").Equal(sale.CostOfGoodsSold))

	calc, err := f.sales.Calculations(ctx, tenantA, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "110.00", calc.Revenue.StringFixed(2))
	assert.Equal(t, "43.00", calc.EffectiveCost.StringFixed(2))
	assert.Equal(t, "67.00", calc.GrossProfit.StringFixed(2))
	assert.Equal(t, "62.00", calc.NetProfit.StringFixed(2))
	assert.Equal(t, "144.19", calc.ROI.StringFixed(2))

	balance, err := f.lots.AvailableBalance(ctx, tenantA, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, balance)
}

func TestCreate_Rechazos(t *testing.T) {
	f := newFixture()
	p := f.stocked(t, tenantA)
	ctx := context.Background()
	_, err := f.sales.Create(ctx, tenantA, saleInput(p.ID, "ORD-1", 1))
	require.NoError(t, err)

	_, err = f.sales.Create(ctx, tenantA, saleInput(p.ID, "ORD-1", 1))
	assert.ErrorIs(t, err, domain.ErrDuplicate, "orderID repetido")

	_, err = f.sales.Create(ctx, tenantA, saleInput(p.ID, "ORD-2", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	neg := saleInput(p.ID, "ORD-3", 1)
	neg.PlatformFee = decimal.NewFromInt(-1)
	_, err = f.sales.Create(ctx, tenantA, neg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	fraction := saleInput(p.ID, "ORD-3", 1)
	fraction.SellPrice = decimal.RequireFromString("100.001")
	_, err = f.sales.Create(ctx, tenantA, fraction)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "importe con más de 2 decimales")

	_, err = f.sales.Create(ctx, tenantB, saleInput(p.ID, "ORD-4", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto de otro tenant")

	_, err = f.sales.Create(ctx, tenantA, saleInput(p.ID, "ORD-5", 15))
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 14, insufficient.Available)

	_, err = f.sales.GetByOrderID(ctx, tenantA, "ORD-5")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_ProductoYCantidadSonInmutables(t *testing.T) {
	f := newFixture()
	p := f.stocked(t, tenantA)
	ctx := context.Background()
	sale, err := f.sales.Create(ctx, tenantA, saleInput(p.ID, "ORD-1", 3))
	require.NoError(t, err)

	in := saleInput(p.ID, "ORD-1", 4)
	_, err = f.sales.Update(ctx, tenantA, sale.ID, in)
	assert.ErrorIs(t, err, domain.ErrImmutableField)

	in = saleInput(entity.NewID(), "ORD-1", 3)
	_, err = f.sales.Update(ctx, tenantA, sale.ID, in)
	assert.ErrorIs(t, err, domain.ErrImmutableField)

	in = saleInput("", "ORD-1-EDIT", 0)
	in.SellPrice = decimal.RequireFromString("120.00")
	in.Platform = "amazon"
	updated, err := f.sales.Update(ctx, tenantA, sale.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1-EDIT", updated.OrderID)
	assert.Equal(t, entity.PlatformAmazon, updated.Platform)
	assert.Equal(t, 3, updated.Quantity)
	assert.True(t, sale.CostOfGoodsSold.Equal(updated.CostOfGoodsSold), "editar no recostea")

	balance, err := f.lots.AvailableBalance(ctx, tenantA, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, balance, "editar no toca el inventario")
}

func TestUpdate_OrderIDDuplicado(t *testing.T) {
	f := newFixture()
	p := f.stocked(t, tenantA)
	ctx := context.Background()
	_, err := f.sales.Create(ctx, tenantA, saleInput(p.ID, "ORD-1", 1))
	require.NoError(t, err)
	second, err := f.sales.Create(ctx, tenantA, saleInput(p.ID, "ORD-2", 1))
	require.NoError(t, err)

	_, err = f.sales.Update(ctx, tenantA, second.ID, saleInput("", "ORD-1", 0))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestDelete_RevierteConsumo(t *testing.T) {
	f := newFixture()
	p := f.stocked(t, tenantA)
	ctx := context.Background()
	sale, err := f.sales.Create(ctx, tenantA, saleInput(p.ID, "ORD-1", 7))
	require.NoError(t, err)

	require.NoError(t, f.sales.Delete(ctx, tenantA, sale.ID))

	balance, err := f.lots.AvailableBalance(ctx, tenantA, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, balance)
	_, err = f.sales.Get(ctx, tenantA, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.sales.Delete(ctx, tenantA, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_VentaSinConsumosNoSeBorra(t *testing.T) {
	f := newFixture()
	p := f.stocked(t, tenantA)
	ctx := context.Background()
	orphan := &entity.Sale{
		ID: entity.NewID(), TenantID: tenantA, OrderID: "ORD-X", ProductID: p.ID,
		Platform: entity.PlatformShopee, Quantity: 2, SoldAt: baseTime,
	}
	require.NoError(t, f.store.Sales().Create(ctx, orphan))

	err := f.sales.Delete(ctx, tenantA, orphan.ID)
	assert.ErrorIs(t, err, domain.ErrNoConsumptionFound)
	_, err = f.sales.Get(ctx, tenantA, orphan.ID)
	assert.NoError(t, err, "la venta sigue existiendo")
}

func TestDelete_OtroTenant(t *testing.T) {
	f := newFixture()
	p := f.stocked(t, tenantA)
	ctx := context.Background()
	sale, err := f.sales.Create(ctx, tenantA, saleInput(p.ID, "ORD-1", 2))
	require.NoError(t, err)

	err = f.sales.Delete(ctx, tenantB, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.sales.Consumptions(ctx, tenantB, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_VentasConcurrentesNoSobrevenden(t *testing.T) {
	f := newFixture()
	p := f.stocked(t, tenantA)
	ctx := context.Background()

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.sales.Create(ctx, tenantA, saleInput(p.ID, fmt.Sprintf("ORD-%02d", i), 1))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 15, ok)
	assert.Equal(t, 5, rejected)
	balance, err := f.lots.AvailableBalance(ctx, tenantA, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestList_Filtros(t *testing.T) {
	f := newFixture()
	p := f.stocked(t, tenantA)
	ctx := context.Background()
	amazon := saleInput(p.ID, "ORD-1", 1)
	amazon.Platform = "AMAZON"
	amazon.SoldAt = baseTime.Add(24 * time.Hour)
	_, err := f.sales.Create(ctx, tenantA, amazon)
	require.NoError(t, err)
	_, err = f.sales.Create(ctx, tenantA, saleInput(p.ID, "ORD-2", 1))
	require.NoError(t, err)

	list, err := f.sales.List(ctx, tenantA, repository.SaleFilter{Platform: "amazon"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ORD-1", list[0].OrderID)

	from := baseTime.Add(36 * time.Hour)
	list, err = f.sales.List(ctx, tenantA, repository.SaleFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ORD-2", list[0].OrderID)

	to := baseTime
	_, err = f.sales.List(ctx, tenantA, repository.SaleFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
