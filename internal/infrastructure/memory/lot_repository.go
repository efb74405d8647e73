package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	fifo "github.com/FernandoLelis/multivendas-backend/internal/domain/inventory"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo lotes en memoria.
type LotRepo struct {
	a access
}

func (r *LotRepo) Create(_ context.Context, lot *entity.Lot) error {
	return r.a.read(func(st *state) error {
		if _, ok := st.lots[lot.ID]; ok {
			return domain.ErrDuplicate
		}
		if p, ok := st.products[lot.ProductID]; !ok || p.TenantID != lot.TenantID {
			return domain.ErrNotFound
		}
		for _, l := range st.lots {
			if l.TenantID == lot.TenantID && l.PurchaseOrderID == lot.PurchaseOrderID {
				return domain.ErrDuplicate
			}
		}
		st.lots[lot.ID] = *lot
		return nil
	})
}

func (r *LotRepo) Update(_ context.Context, lot *entity.Lot) error {
	return r.a.read(func(st *state) error {
		cur, ok := st.lots[lot.ID]
		if !ok || cur.TenantID != lot.TenantID {
			return domain.ErrNotFound
		}
		for id, l := range st.lots {
			if id != lot.ID && l.TenantID == lot.TenantID && l.PurchaseOrderID == lot.PurchaseOrderID {
				return domain.ErrDuplicate
			}
		}
		st.lots[lot.ID] = *lot
		return nil
	})
}

func (r *LotRepo) UpdateBalance(_ context.Context, tenantID, lotID string, balance int) error {
	return r.a.read(func(st *state) error {
		cur, ok := st.lots[lotID]
		if !ok || cur.TenantID != tenantID {
			return domain.ErrNotFound
		}
		if balance < 0 || balance > cur.OriginalQuantity {
			return domain.ErrConflict
		}
		cur.RemainingBalance = balance
		st.lots[lotID] = cur
		return nil
	})
}

func (r *LotRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.a.read(func(st *state) error {
		cur, ok := st.lots[id]
		if !ok || cur.TenantID != tenantID {
			return domain.ErrNotFound
		}
		for _, c := range st.consumptions {
			if c.LotID == id {
				return domain.ErrConflict
			}
		}
		delete(st.lots, id)
		return nil
	})
}

func (r *LotRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.a.read(func(st *state) error {
		if l, ok := st.lots[id]; ok && l.TenantID == tenantID {
			out = &l
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: el mutex del almacén ya serializa la transacción.
func (r *LotRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Lot, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *LotRepo) GetByPurchaseOrder(_ context.Context, tenantID, purchaseOrderID string) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.a.read(func(st *state) error {
		for _, l := range st.lots {
			if l.TenantID == tenantID && l.PurchaseOrderID == purchaseOrderID {
				l := l
				out = &l
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *LotRepo) ListAvailableForUpdate(_ context.Context, tenantID, productID string) ([]*entity.Lot, error) {
	return r.collect(func(l entity.Lot) bool {
		return l.TenantID == tenantID && l.ProductID == productID && l.RemainingBalance > 0
	})
}

func (r *LotRepo) ListByProductForUpdate(ctx context.Context, tenantID, productID string) ([]*entity.Lot, error) {
	return r.ListByProduct(ctx, tenantID, productID)
}

func (r *LotRepo) ListByProduct(_ context.Context, tenantID, productID string) ([]*entity.Lot, error) {
	return r.collect(func(l entity.Lot) bool {
		return l.TenantID == tenantID && l.ProductID == productID
	})
}

func (r *LotRepo) List(_ context.Context, tenantID string, f repository.LotFilter) ([]*entity.Lot, error) {
	supplier := strings.ToLower(f.Supplier)
	lots, err := r.collect(func(l entity.Lot) bool {
		if l.TenantID != tenantID {
			return false
		}
		if f.ProductID != "" && l.ProductID != f.ProductID {
			return false
		}
		if f.Category != "" && !strings.EqualFold(l.Category, f.Category) {
			return false
		}
		if supplier != "" && !strings.Contains(strings.ToLower(l.Supplier), supplier) {
			return false
		}
		if f.LowBalance && (l.RemainingBalance <= 0 || l.RemainingBalance >= repository.LowBalanceThreshold) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	// Más recientes primero, como el listado SQL.
	sort.SliceStable(lots, func(i, j int) bool {
		if !lots[i].PurchasedAt.Equal(lots[j].PurchasedAt) {
			return lots[i].PurchasedAt.After(lots[j].PurchasedAt)
		}
		return lots[i].ID > lots[j].ID
	})
	return page(lots, f.Limit, f.Offset), nil
}

func (r *LotRepo) SumAvailable(ctx context.Context, tenantID, productID string) (int, error) {
	lots, err := r.ListByProduct(ctx, tenantID, productID)
	if err != nil {
		return 0, err
	}
	return fifo.AvailableBalance(lots), nil
}

func (r *LotRepo) CountByProduct(ctx context.Context, tenantID, productID string) (int, error) {
	lots, err := r.ListByProduct(ctx, tenantID, productID)
	return len(lots), err
}

func (r *LotRepo) BalancesByProduct(_ context.Context, tenantID string) (map[string]int, error) {
	out := map[string]int{}
	err := r.a.read(func(st *state) error {
		for _, l := range st.lots {
			if l.TenantID == tenantID && l.RemainingBalance > 0 {
				out[l.ProductID] += l.RemainingBalance
			}
		}
		return nil
	})
	return out, err
}

// collect copia los lotes que cumplen keep, en orden FIFO.
func (r *LotRepo) collect(keep func(entity.Lot) bool) ([]*entity.Lot, error) {
	var out []*entity.Lot
	err := r.a.read(func(st *state) error {
		for _, l := range st.lots {
			if keep(l) {
				l := l
				out = append(out, &l)
			}
		}
		return nil
	})
	fifo.SortFIFO(out)
	return out, err
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
