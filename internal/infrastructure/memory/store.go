// Package memory implementa los puertos de persistencia en memoria de proceso.
// Las transacciones se serializan con un único candado de escritura y trabajan
// sobre una copia del estado que solo se publica al confirmar, así un error
// dentro de Run descarta todos los cambios.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type spKey struct{ storeID, variationID string }

type state struct {
	stores        map[string]entity.Store
	variations    map[string]entity.Variation
	storeProducts map[string]entity.StoreProduct
	spIndex       map[spKey]string
	movements     []entity.InventoryMovement
	priceHistory  []entity.PriceHistory
	offers        map[string]entity.SpecialOffer
	orders        map[string]entity.PurchaseOrder
	orderItems    map[string][]entity.PurchaseOrderItem
	folios        map[string]string
	transfers     map[string]entity.StoreTransfer
	transferItems map[string][]entity.StoreTransferItem
	sales         map[string]entity.Sale
	saleItems     map[string][]entity.SaleProduct
}

func newState() *state {
	return &state{
		stores:        map[string]entity.Store{},
		variations:    map[string]entity.Variation{},
		storeProducts: map[string]entity.StoreProduct{},
		spIndex:       map[spKey]string{},
		offers:        map[string]entity.SpecialOffer{},
		orders:        map[string]entity.PurchaseOrder{},
		orderItems:    map[string][]entity.PurchaseOrderItem{},
		folios:        map[string]string{},
		transfers:     map[string]entity.StoreTransfer{},
		transferItems: map[string][]entity.StoreTransferItem{},
		sales:         map[string]entity.Sale{},
		saleItems:     map[string][]entity.SaleProduct{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.stores {
		c.stores[k] = v
	}
	for k, v := range s.variations {
		c.variations[k] = v
	}
	for k, v := range s.storeProducts {
		c.storeProducts[k] = v
	}
	for k, v := range s.spIndex {
		c.spIndex[k] = v
	}
	c.movements = append([]entity.InventoryMovement(nil), s.movements...)
	c.priceHistory = append([]entity.PriceHistory(nil), s.priceHistory...)
	for k, v := range s.offers {
		c.offers[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.orderItems {
		c.orderItems[k] = append([]entity.PurchaseOrderItem(nil), v...)
	}
	for k, v := range s.folios {
		c.folios[k] = v
	}
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	for k, v := range s.transferItems {
		c.transferItems[k] = append([]entity.StoreTransferItem(nil), v...)
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.saleItems {
		c.saleItems[k] = append([]entity.SaleProduct(nil), v...)
	}
	return c
}

// Store base de datos en memoria.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// New construye un Store vacío.
func New() *Store {
	return &Store{state: newState()}
}

// Repos devuelve repositorios fuera de transacción (cada llamada toma el candado).
// No deben usarse dentro de Run.
func (s *Store) Repos() repository.Repos {
	return reposFor(&conn{db: s})
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, r repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.state.clone()
	if err := fn(ctx, reposFor(&conn{tx: work})); err != nil {
		return err
	}
	s.state = work
	return nil
}

// AddStore registra una tienda (las tiendas se administran fuera de este servicio).
func (s *Store) AddStore(st entity.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.stores[st.ID] = st
}

// AddVariation registra una variación.
func (s *Store) AddVariation(v entity.Variation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.variations[v.ID] = v
}

// conn resuelve el estado: el de la transacción o el publicado bajo candado.
type conn struct {
	db *Store
	tx *state
}

func (c *conn) read(fn func(st *state) error) error {
	if c.tx != nil {
		return fn(c.tx)
	}
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()
	return fn(c.db.state)
}

func (c *conn) write(fn func(st *state) error) error {
	if c.tx != nil {
		return fn(c.tx)
	}
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	return fn(c.db.state)
}

func reposFor(c *conn) repository.Repos {
	return repository.Repos{
		Stores:         &storeRepo{c: c},
		Variations:     &variationRepo{c: c},
		StoreProducts:  &storeProductRepo{c: c},
		Movements:      &movementRepo{c: c},
		PriceHistory:   &priceHistoryRepo{c: c},
		Offers:         &offerRepo{c: c},
		PurchaseOrders: &purchaseOrderRepo{c: c},
		Transfers:      &transferRepo{c: c},
		Sales:          &saleRepo{c: c},
	}
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
