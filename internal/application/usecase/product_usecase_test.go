package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FernandoLelis/multivendas-backend/internal/application/dto"
	"github.com/FernandoLelis/multivendas-backend/internal/application/usecase"
	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/FernandoLelis/multivendas-backend/internal/infrastructure/memory"
)

const (
	tenantA = "00000000-0000-0000-0000-00000000000a"
	tenantB = "00000000-0000-0000-0000-00000000000b"
)

func TestProductUseCase_CRUD(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(store.Products(), store.Lots())
	ctx := context.Background()

	created, err := uc.Create(ctx, tenantA, dto.CreateProductRequest{SKU: " FONE-01 ", Name: "Fone BT", MinimumStock: 3})
	require.NoError(t, err)
	assert.Equal(t, "FONE-01", created.SKU)

	_, err = uc.Create(ctx, tenantA, dto.CreateProductRequest{SKU: "FONE-01", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, tenantB, dto.CreateProductRequest{SKU: "FONE-01", Name: "Otro tenant"})
	assert.NoError(t, err, "el SKU es único por tenant")
	_, err = uc.Create(ctx, tenantA, dto.CreateProductRequest{SKU: "X", Name: "Neg", MinimumStock: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	name := "Fone Bluetooth"
	updated, err := uc.Update(ctx, tenantA, created.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Fone Bluetooth", updated.Name)
	assert.Equal(t, 3, updated.MinimumStock)

	missing, err := uc.GetByID(ctx, tenantB, created.ID)
	require.NoError(t, err)
	assert.Nil(t, missing, "otro tenant no ve el producto")

	list, err := uc.List(ctx, tenantA, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)

	require.NoError(t, uc.Delete(ctx, tenantA, created.ID))
	assert.ErrorIs(t, uc.Delete(ctx, tenantA, created.ID), domain.ErrNotFound)
}

func TestProductUseCase_DeleteConLotes(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(store.Products(), store.Lots())
	ctx := context.Background()
	p, err := uc.Create(ctx, tenantA, dto.CreateProductRequest{SKU: "S1", Name: "Mouse"})
	require.NoError(t, err)

	lot, err := entity.NewLot(entity.NewID(), tenantA, p.ID, 2, decimal.NewFromInt(10), time.Time{})
	require.NoError(t, err)
	lot.PurchaseOrderID = "PO-1"
	lot.Category = "Informática"
	require.NoError(t, store.Lots().Create(ctx, lot))

	assert.ErrorIs(t, uc.Delete(ctx, tenantA, p.ID), domain.ErrConflict)
}
