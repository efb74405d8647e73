// Package memory implementa los puertos de persistencia en memoria de proceso.
// Sirve para tests y para levantar la API sin PostgreSQL (DB_DRIVER=memory).
package memory

import (
	"sync"

	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
)

// Store estado compartido por todos los repositorios en memoria. Un único mutex
// serializa las transacciones, lo que equivale a bloquear cualquier fila tocada.
type Store struct {
	mu sync.Mutex
	st *state
}

type state struct {
	users        map[string]entity.User
	products     map[string]entity.Product
	lots         map[string]entity.Lot
	sales        map[string]entity.Sale
	consumptions map[string]entity.ConsumptionRecord
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: &state{
		users:        map[string]entity.User{},
		products:     map[string]entity.Product{},
		lots:         map[string]entity.Lot{},
		sales:        map[string]entity.Sale{},
		consumptions: map[string]entity.ConsumptionRecord{},
	}}
}

func (s *state) clone() *state {
	c := &state{
		users:        make(map[string]entity.User, len(s.users)),
		products:     make(map[string]entity.Product, len(s.products)),
		lots:         make(map[string]entity.Lot, len(s.lots)),
		sales:        make(map[string]entity.Sale, len(s.sales)),
		consumptions: make(map[string]entity.ConsumptionRecord, len(s.consumptions)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.lots {
		c.lots[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.consumptions {
		c.consumptions[k] = v
	}
	return c
}

// access da acceso al estado. Fuera de una transacción toma el mutex en cada operación;
// dentro de TxRunner.Run el mutex ya está tomado.
type access struct {
	s    *Store
	inTx bool
}

func (a access) read(fn func(st *state) error) error {
	if !a.inTx {
		a.s.mu.Lock()
		defer a.s.mu.Unlock()
	}
	return fn(a.s.st)
}

// Lots, Sales, Consumptions, Products y Users devuelven repositorios fuera de transacción.
func (s *Store) Lots() *LotRepo                 { return &LotRepo{access{s: s}} }
func (s *Store) Sales() *SaleRepo               { return &SaleRepo{access{s: s}} }
func (s *Store) Consumptions() *ConsumptionRepo { return &ConsumptionRepo{access{s: s}} }
func (s *Store) Products() *ProductRepo         { return &ProductRepo{access{s: s}} }
func (s *Store) Users() *UserRepo               { return &UserRepo{access{s: s}} }
