package memory

import (
	"context"
	"sort"

	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/repository"
)

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

// ConsumptionRepo registros de consumo en memoria.
type ConsumptionRepo struct {
	a access
}

func (r *ConsumptionRepo) CreateBatch(_ context.Context, records []*entity.ConsumptionRecord) error {
	return r.a.read(func(st *state) error {
		for _, c := range records {
			if _, ok := st.consumptions[c.ID]; ok {
				return domain.ErrDuplicate
			}
			sale, ok := st.sales[c.SaleID]
			if !ok || sale.TenantID != c.TenantID {
				return domain.ErrNotFound
			}
			lot, ok := st.lots[c.LotID]
			if !ok || lot.TenantID != c.TenantID {
				return domain.ErrNotFound
			}
			st.consumptions[c.ID] = *c
		}
		return nil
	})
}

func (r *ConsumptionRepo) ListBySale(_ context.Context, tenantID, saleID string) ([]*entity.ConsumptionRecord, error) {
	return r.collect(func(c entity.ConsumptionRecord) bool {
		return c.TenantID == tenantID && c.SaleID == saleID
	})
}

func (r *ConsumptionRepo) ListByLot(_ context.Context, tenantID, lotID string) ([]*entity.ConsumptionRecord, error) {
	return r.collect(func(c entity.ConsumptionRecord) bool {
		return c.TenantID == tenantID && c.LotID == lotID
	})
}

func (r *ConsumptionRepo) DeleteBySale(_ context.Context, tenantID, saleID string) (int64, error) {
	var n int64
	err := r.a.read(func(st *state) error {
		for id, c := range st.consumptions {
			if c.TenantID == tenantID && c.SaleID == saleID {
				delete(st.consumptions, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ConsumptionRepo) collect(keep func(entity.ConsumptionRecord) bool) ([]*entity.ConsumptionRecord, error) {
	var out []*entity.ConsumptionRecord
	err := r.a.read(func(st *state) error {
		for _, c := range st.consumptions {
			if keep(c) {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}
