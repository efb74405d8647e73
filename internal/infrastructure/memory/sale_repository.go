package memory

import (
	"context"
	"sort"

	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct {
	a access
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.a.read(func(st *state) error {
		if _, ok := st.sales[sale.ID]; ok {
			return domain.ErrDuplicate
		}
		if p, ok := st.products[sale.ProductID]; !ok || p.TenantID != sale.TenantID {
			return domain.ErrNotFound
		}
		for _, s := range st.sales {
			if s.TenantID == sale.TenantID && s.OrderID == sale.OrderID {
				return domain.ErrDuplicate
			}
		}
		st.sales[sale.ID] = *sale
		return nil
	})
}

// Update nunca cambia producto, cantidad ni COGS: esos campos los maneja el motor.
func (r *SaleRepo) Update(_ context.Context, sale *entity.Sale) error {
	return r.a.read(func(st *state) error {
		cur, ok := st.sales[sale.ID]
		if !ok || cur.TenantID != sale.TenantID {
			return domain.ErrNotFound
		}
		for id, s := range st.sales {
			if id != sale.ID && s.TenantID == sale.TenantID && s.OrderID == sale.OrderID {
				return domain.ErrDuplicate
			}
		}
		next := *sale
		next.ProductID = cur.ProductID
		next.Quantity = cur.Quantity
		next.CostOfGoodsSold = cur.CostOfGoodsSold
		next.CreatedAt = cur.CreatedAt
		st.sales[sale.ID] = next
		return nil
	})
}

func (r *SaleRepo) UpdateCost(_ context.Context, tenantID, saleID string, cogs decimal.Decimal) error {
	return r.a.read(func(st *state) error {
		cur, ok := st.sales[saleID]
		if !ok || cur.TenantID != tenantID {
			return domain.ErrNotFound
		}
		cur.CostOfGoodsSold = cogs
		st.sales[saleID] = cur
		return nil
	})
}

func (r *SaleRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.a.read(func(st *state) error {
		cur, ok := st.sales[id]
		if !ok || cur.TenantID != tenantID {
			return domain.ErrNotFound
		}
		for _, c := range st.consumptions {
			if c.SaleID == id {
				return domain.ErrConflict
			}
		}
		delete(st.sales, id)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.a.read(func(st *state) error {
		if s, ok := st.sales[id]; ok && s.TenantID == tenantID {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *SaleRepo) GetByOrderID(_ context.Context, tenantID, orderID string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.a.read(func(st *state) error {
		for _, s := range st.sales {
			if s.TenantID == tenantID && s.OrderID == orderID {
				s := s
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) List(_ context.Context, tenantID string, f repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.a.read(func(st *state) error {
		for _, s := range st.sales {
			if s.TenantID != tenantID {
				continue
			}
			if f.Platform != "" && s.Platform != f.Platform {
				continue
			}
			if f.ProductID != "" && s.ProductID != f.ProductID {
				continue
			}
			if f.From != nil && s.SoldAt.Before(*f.From) {
				continue
			}
			if f.To != nil && s.SoldAt.After(*f.To) {
				continue
			}
			s := s
			out = append(out, &s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SoldAt.Equal(out[j].SoldAt) {
			return out[i].SoldAt.After(out[j].SoldAt)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}
