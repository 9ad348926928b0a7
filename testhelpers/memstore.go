package testhelpers

import (
	"context"
	"errors"
	"sort"
	"sync"

	"salonstock/internal/models"
	"salonstock/internal/repositories"

	"github.com/google/uuid"
)

// ErrInjected is the cause carried by faults injected with Store.Fail.
var ErrInjected = errors.New("injected store failure")

// Store is an in-memory ledger store implementing the warehouse, product and
// transaction repositories. Individual operations can be made to fail, named
// "<relation>.<Method>", e.g. "products.UpdateQuantity".
type Store struct {
	mu           sync.Mutex
	seq          int
	order        map[uuid.UUID]int
	warehouses   map[uuid.UUID]*models.Warehouse
	products     map[uuid.UUID]*models.Product
	transactions map[uuid.UUID]*models.Transaction
	faults       map[string]*fault
	calls        map[string]int
}

type fault struct {
	after int
	times int // remaining failures, negative for unlimited
	err   error
}

func NewStore() *Store {
	return &Store{
		order:        make(map[uuid.UUID]int),
		warehouses:   make(map[uuid.UUID]*models.Warehouse),
		products:     make(map[uuid.UUID]*models.Product),
		transactions: make(map[uuid.UUID]*models.Transaction),
		faults:       make(map[string]*fault),
		calls:        make(map[string]int),
	}
}

func (s *Store) Warehouses() repositories.WarehouseRepository { return warehouseStore{s} }

func (s *Store) Products() repositories.ProductRepository { return productStore{s} }

func (s *Store) Transactions() repositories.TransactionRepository { return transactionStore{s} }

// Fail makes every following call to op fail with a StoreError of the given kind.
func (s *Store) Fail(op string, kind repositories.Kind) {
	s.FailAfter(op, 0, kind)
}

// FailAfter lets op succeed n more times, then fails it.
func (s *Store) FailAfter(op string, n int, kind repositories.Kind) {
	s.inject(op, n, -1, kind)
}

// FailOnce lets op succeed n more times, fails the next call, and succeeds afterwards.
func (s *Store) FailOnce(op string, n int, kind repositories.Kind) {
	s.inject(op, n, 1, kind)
}

func (s *Store) inject(op string, after, times int, kind repositories.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = &fault{after: after, times: times, err: &repositories.StoreError{Op: op, Kind: kind, Err: ErrInjected}}
}

// Heal removes every injected fault.
func (s *Store) Heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]*fault)
}

// Calls reports how often op was invoked, failed calls included.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// enter records the call and returns the injected error, if any. Callers hold s.mu.
func (s *Store) enter(op string) error {
	s.calls[op]++
	f, ok := s.faults[op]
	if !ok {
		return nil
	}
	if f.after > 0 {
		f.after--
		return nil
	}
	if f.times == 0 {
		return nil
	}
	if f.times > 0 {
		f.times--
	}
	return f.err
}

func (s *Store) track(id uuid.UUID) {
	if _, ok := s.order[id]; !ok {
		s.seq++
		s.order[id] = s.seq
	}
}

func notFound(op string) error {
	return &repositories.StoreError{Op: op, Kind: repositories.KindNotFound, Err: errors.New("no rows in result set")}
}

func conflict(op string) error {
	return &repositories.StoreError{Op: op, Kind: repositories.KindConflict, Err: errors.New("duplicate key")}
}

// hasDefault mirrors the one-default-per-tenant index. Callers hold s.mu.
func (s *Store) hasDefault(tenantID, except uuid.UUID) bool {
	for id, w := range s.warehouses {
		if id != except && w.TenantID == tenantID && w.IsDefault {
			return true
		}
	}
	return false
}

// AddWarehouse seeds a warehouse without fault checks.
func (s *Store) AddWarehouse(w *models.Warehouse) *models.Warehouse {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *w
	s.warehouses[c.ID] = &c
	s.track(c.ID)
	return w
}

// AddProduct seeds a product without fault checks.
func (s *Store) AddProduct(p *models.Product) *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *p
	s.products[c.ID] = &c
	s.track(c.ID)
	return p
}

// AddTransaction seeds a ledger entry without fault checks.
func (s *Store) AddTransaction(t *models.Transaction) *models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *t
	s.transactions[c.ID] = &c
	s.track(c.ID)
	return t
}

// Product returns a copy of the stored product, or nil.
func (s *Store) Product(id uuid.UUID) *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

// Warehouse returns a copy of the stored warehouse, or nil.
func (s *Store) Warehouse(id uuid.UUID) *models.Warehouse {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.warehouses[id]
	if !ok {
		return nil
	}
	c := *w
	return &c
}

// Ledger returns every transaction of the product in insertion order.
func (s *Store) Ledger(productID uuid.UUID) []*models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Transaction
	for _, t := range s.transactions {
		if t.ProductID == productID {
			c := *t
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return s.order[out[i].ID] < s.order[out[j].ID] })
	return out
}

// Counts reports the number of stored warehouses, products and transactions.
func (s *Store) Counts() (warehouses, products, transactions int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.warehouses), len(s.products), len(s.transactions)
}

func inScope(tenantID uuid.UUID, warehouseID *uuid.UUID, scope models.Scope) bool {
	if tenantID != scope.TenantID {
		return false
	}
	if scope.WarehouseID == nil {
		return true
	}
	return warehouseID != nil && *warehouseID == *scope.WarehouseID
}

type warehouseStore struct{ s *Store }

func (r warehouseStore) Probe(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.enter("warehouses.Probe")
}

func (r warehouseStore) Create(ctx context.Context, w *models.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("warehouses.Create"); err != nil {
		return err
	}
	if _, ok := r.s.warehouses[w.ID]; ok {
		return conflict("warehouses.Create")
	}
	if w.IsDefault && r.s.hasDefault(w.TenantID, w.ID) {
		return conflict("warehouses.Create")
	}
	c := *w
	r.s.warehouses[c.ID] = &c
	r.s.track(c.ID)
	return nil
}

func (r warehouseStore) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("warehouses.GetByID"); err != nil {
		return nil, err
	}
	w, ok := r.s.warehouses[id]
	if !ok || w.TenantID != tenantID {
		return nil, notFound("warehouses.GetByID")
	}
	c := *w
	return &c, nil
}

func (r warehouseStore) Update(ctx context.Context, w *models.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("warehouses.Update"); err != nil {
		return err
	}
	stored, ok := r.s.warehouses[w.ID]
	if !ok || stored.TenantID != w.TenantID {
		return notFound("warehouses.Update")
	}
	stored.Name, stored.Description, stored.Color = w.Name, w.Description, w.Color
	return nil
}

func (r warehouseStore) SetDefault(ctx context.Context, tenantID, id uuid.UUID, isDefault bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("warehouses.SetDefault"); err != nil {
		return err
	}
	stored, ok := r.s.warehouses[id]
	if !ok || stored.TenantID != tenantID {
		return notFound("warehouses.SetDefault")
	}
	if isDefault && r.s.hasDefault(tenantID, id) {
		return conflict("warehouses.SetDefault")
	}
	stored.IsDefault = isDefault
	return nil
}

func (r warehouseStore) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("warehouses.Delete"); err != nil {
		return err
	}
	if w, ok := r.s.warehouses[id]; ok && w.TenantID == tenantID {
		delete(r.s.warehouses, id)
	}
	return nil
}

func (r warehouseStore) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("warehouses.List"); err != nil {
		return nil, err
	}
	var out []*models.Warehouse
	for _, w := range r.s.warehouses {
		if w.TenantID == tenantID {
			c := *w
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return r.s.order[out[i].ID] < r.s.order[out[j].ID]
	})
	return out, nil
}

type productStore struct{ s *Store }

func (r productStore) Create(ctx context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.Create"); err != nil {
		return err
	}
	if _, ok := r.s.products[p.ID]; ok {
		return conflict("products.Create")
	}
	c := *p
	c.ImageURL = ""
	r.s.products[c.ID] = &c
	r.s.track(c.ID)
	return nil
}

func (r productStore) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.GetByID"); err != nil {
		return nil, err
	}
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, notFound("products.GetByID")
	}
	c := *p
	return &c, nil
}

func (r productStore) UpdateDetails(ctx context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.UpdateDetails"); err != nil {
		return err
	}
	stored, ok := r.s.products[p.ID]
	if !ok || stored.TenantID != p.TenantID {
		return notFound("products.UpdateDetails")
	}
	stored.Name, stored.Brand, stored.Variant = p.Name, p.Brand, p.Variant
	stored.LowStockThreshold, stored.Notes = p.LowStockThreshold, p.Notes
	return nil
}

func (r productStore) UpdateQuantity(ctx context.Context, tenantID, id uuid.UUID, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.UpdateQuantity"); err != nil {
		return err
	}
	stored, ok := r.s.products[id]
	if !ok || stored.TenantID != tenantID {
		return notFound("products.UpdateQuantity")
	}
	if quantity < 0 {
		return conflict("products.UpdateQuantity")
	}
	stored.Quantity = quantity
	return nil
}

func (r productStore) UpdateImage(ctx context.Context, tenantID, id uuid.UUID, imageRef string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.UpdateImage"); err != nil {
		return err
	}
	stored, ok := r.s.products[id]
	if !ok || stored.TenantID != tenantID {
		return notFound("products.UpdateImage")
	}
	stored.ImageRef = imageRef
	return nil
}

func (r productStore) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.Delete"); err != nil {
		return err
	}
	if p, ok := r.s.products[id]; ok && p.TenantID == tenantID {
		delete(r.s.products, id)
	}
	return nil
}

func (r productStore) DeleteByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.DeleteByWarehouse"); err != nil {
		return err
	}
	for id, p := range r.s.products {
		if p.TenantID == tenantID && p.WarehouseID != nil && *p.WarehouseID == warehouseID {
			delete(r.s.products, id)
		}
	}
	return nil
}

func (r productStore) List(ctx context.Context, scope models.Scope) ([]*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.List"); err != nil {
		return nil, err
	}
	return r.list(scope, false), nil
}

func (r productStore) ListLowStock(ctx context.Context, scope models.Scope) ([]*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.ListLowStock"); err != nil {
		return nil, err
	}
	return r.list(scope, true), nil
}

func (r productStore) list(scope models.Scope, lowOnly bool) []*models.Product {
	var out []*models.Product
	for _, p := range r.s.products {
		if !inScope(p.TenantID, p.WarehouseID, scope) || (lowOnly && !p.IsLowStock()) {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return r.s.order[out[i].ID] < r.s.order[out[j].ID]
	})
	return out
}

func (r productStore) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.ListTenantIDs"); err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, p := range r.s.products {
		if !seen[p.TenantID] {
			seen[p.TenantID] = true
			ids = append(ids, p.TenantID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

type transactionStore struct{ s *Store }

func (r transactionStore) Create(ctx context.Context, t *models.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("transactions.Create"); err != nil {
		return err
	}
	if _, ok := r.s.transactions[t.ID]; ok {
		return conflict("transactions.Create")
	}
	c := *t
	r.s.transactions[c.ID] = &c
	r.s.track(c.ID)
	return nil
}

func (r transactionStore) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("transactions.GetByID"); err != nil {
		return nil, err
	}
	t, ok := r.s.transactions[id]
	if !ok || t.TenantID != tenantID {
		return nil, notFound("transactions.GetByID")
	}
	c := *t
	return &c, nil
}

func (r transactionStore) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("transactions.Delete"); err != nil {
		return err
	}
	t, ok := r.s.transactions[id]
	if !ok || t.TenantID != tenantID {
		return notFound("transactions.Delete")
	}
	delete(r.s.transactions, id)
	return nil
}

func (r transactionStore) DeleteByProduct(ctx context.Context, tenantID, productID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("transactions.DeleteByProduct"); err != nil {
		return err
	}
	for id, t := range r.s.transactions {
		if t.TenantID == tenantID && t.ProductID == productID {
			delete(r.s.transactions, id)
		}
	}
	return nil
}

func (r transactionStore) DeleteByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("transactions.DeleteByWarehouse"); err != nil {
		return err
	}
	for id, t := range r.s.transactions {
		if t.TenantID == tenantID && t.WarehouseID != nil && *t.WarehouseID == warehouseID {
			delete(r.s.transactions, id)
		}
	}
	return nil
}

func (r transactionStore) List(ctx context.Context, scope models.Scope, filter models.TransactionFilter, newestFirst bool) ([]*models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("transactions.List"); err != nil {
		return nil, err
	}
	var out []*models.Transaction
	for _, t := range r.s.transactions {
		if !inScope(t.TenantID, t.WarehouseID, scope) {
			continue
		}
		if filter.ProductID != nil && t.ProductID != *filter.ProductID {
			continue
		}
		if filter.From != nil && t.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !t.CreatedAt.Before(*filter.To) {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if newestFirst {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if newestFirst {
			return r.s.order[a.ID] > r.s.order[b.ID]
		}
		return r.s.order[a.ID] < r.s.order[b.ID]
	})
	return out, nil
}
