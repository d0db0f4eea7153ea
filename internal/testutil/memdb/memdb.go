// Package memdb implementa los puertos de repository en memoria para tests de casos de uso.
// Run trabaja sobre una copia del estado y solo la publica si fn no devuelve error,
// igual que el TxRunner de PostgreSQL (Commit/Rollback).
package memdb

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

type state struct {
	stores     map[string]entity.Store
	categories map[int]entity.Category
	products   map[string]entity.Product
	lots       map[string]entity.StockLot
	movements  []entity.StockMovement
	recyclings []entity.Recycling
	clients    map[string]entity.Client
	sales      map[string]entity.Sale
	items      []entity.SaleItem
	payments   []entity.SalePayment
	expenses   []entity.Expense
	users      map[string]entity.User
}

func newState() *state {
	return &state{
		stores:     map[string]entity.Store{},
		categories: map[int]entity.Category{},
		products:   map[string]entity.Product{},
		lots:       map[string]entity.StockLot{},
		clients:    map[string]entity.Client{},
		sales:      map[string]entity.Sale{},
		users:      map[string]entity.User{},
	}
}

func (s *state) clone() *state {
	return &state{
		stores:     maps.Clone(s.stores),
		categories: maps.Clone(s.categories),
		products:   maps.Clone(s.products),
		lots:       maps.Clone(s.lots),
		movements:  slices.Clone(s.movements),
		recyclings: slices.Clone(s.recyclings),
		clients:    maps.Clone(s.clients),
		sales:      maps.Clone(s.sales),
		items:      slices.Clone(s.items),
		payments:   slices.Clone(s.payments),
		expenses:   slices.Clone(s.expenses),
		users:      maps.Clone(s.users),
	}
}

type handle struct {
	mu sync.Mutex
	st *state
}

func (h *handle) do(fn func(st *state) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.st)
}

// DB base de datos en memoria.
type DB struct {
	txMu sync.Mutex
	main *handle
}

// New crea una base vacía.
func New() *DB {
	return &DB{main: &handle{st: newState()}}
}

// Run ejecuta fn sobre una copia del estado; la publica solo si fn no falla.
func (db *DB) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	db.main.mu.Lock()
	h := &handle{st: db.main.st.clone()}
	db.main.mu.Unlock()

	if err := fn(txRepos(h)); err != nil {
		return err
	}
	db.main.mu.Lock()
	db.main.st = h.st
	db.main.mu.Unlock()
	return nil
}

func txRepos(h *handle) repository.Tx {
	return repository.Tx{
		Stock:     &StockRepo{h: h},
		Movements: &MovementRepo{h: h},
		Products:  &ProductRepo{h: h},
		Sales:     &SaleRepo{h: h},
		Recycling: &RecyclingRepo{h: h},
	}
}

func (db *DB) Stores() *StoreRepo { return &StoreRepo{h: db.main} }
func (db *DB) Categories() *CategoryRepo { return &CategoryRepo{h: db.main} }
func (db *DB) Products() *ProductRepo { return &ProductRepo{h: db.main} }
func (db *DB) Stock() *StockRepo { return &StockRepo{h: db.main} }
func (db *DB) Movements() *MovementRepo { return &MovementRepo{h: db.main} }
func (db *DB) Recyclings() *RecyclingRepo { return &RecyclingRepo{h: db.main} }
func (db *DB) Clients() *ClientRepo { return &ClientRepo{h: db.main} }
func (db *DB) Sales() *SaleRepo { return &SaleRepo{h: db.main} }
func (db *DB) Expenses() *ExpenseRepo { return &ExpenseRepo{h: db.main} }
func (db *DB) Users() *UserRepo { return &UserRepo{h: db.main} }
func (db *DB) Reports() *ReportRepo { return &ReportRepo{h: db.main} }

var (
	_ repository.StoreRepository         = (*StoreRepo)(nil)
	_ repository.CategoryRepository      = (*CategoryRepo)(nil)
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.StockRepository         = (*StockRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.RecyclingRepository     = (*RecyclingRepo)(nil)
	_ repository.ClientRepository        = (*ClientRepo)(nil)
	_ repository.SaleRepository          = (*SaleRepo)(nil)
	_ repository.ExpenseRepository       = (*ExpenseRepo)(nil)
	_ repository.UserRepository          = (*UserRepo)(nil)
	_ repository.ReportRepository        = (*ReportRepo)(nil)
)

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ── stores ───────────────────────────────────────────────────────────────────

type StoreRepo struct{ h *handle }

func (r *StoreRepo) Create(_ context.Context, s *entity.Store) error {
	return r.h.do(func(st *state) error {
		st.stores[s.ID] = *s
		return nil
	})
}

func (r *StoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	var out *entity.Store
	_ = r.h.do(func(st *state) error {
		if s, ok := st.stores[id]; ok {
			out = &s
		}
		return nil
	})
	return out, nil
}

func (r *StoreRepo) Update(_ context.Context, s *entity.Store) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.stores[s.ID]; !ok {
			return domain.ErrNotFound
		}
		st.stores[s.ID] = *s
		return nil
	})
}

func (r *StoreRepo) List(_ context.Context, limit, offset int) ([]*entity.Store, error) {
	var out []*entity.Store
	_ = r.h.do(func(st *state) error {
		for _, s := range st.stores {
			s := s
			out = append(out, &s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *StoreRepo) Delete(_ context.Context, id string) error {
	return r.h.do(func(st *state) error {
		for _, l := range st.lots {
			if l.StoreID == id {
				return domain.ErrConflict
			}
		}
		delete(st.stores, id)
		return nil
	})
}

// ── categories ───────────────────────────────────────────────────────────────

type CategoryRepo struct{ h *handle }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.categories[c.ID]; ok {
			return domain.ErrDuplicate
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id int) (*entity.Category, error) {
	var out *entity.Category
	_ = r.h.do(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	_ = r.h.do(func(st *state) error {
		for _, c := range st.categories {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── products ─────────────────────────────────────────────────────────────────

type ProductRepo struct{ h *handle }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.categories[p.CategoryID]; !ok {
			return domain.ErrNotFound
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	_ = r.h.do(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) UpdateAvgCost(_ context.Context, id string, cost decimal.Decimal) error {
	return r.h.do(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.AvgCost = cost
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, categoryID int, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	_ = r.h.do(func(st *state) error {
		for _, p := range st.products {
			if categoryID != 0 && p.CategoryID != categoryID {
				continue
			}
			p := p
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.h.do(func(st *state) error {
		for _, l := range st.lots {
			if l.ProductID == id {
				return domain.ErrConflict
			}
		}
		delete(st.products, id)
		return nil
	})
}

// ── stock lots ───────────────────────────────────────────────────────────────

type StockRepo struct{ h *handle }

func (r *StockRepo) Create(_ context.Context, l *entity.StockLot) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.products[l.ProductID]; !ok {
			return domain.ErrNotFound
		}
		st.lots[l.ID] = *l
		return nil
	})
}

func (r *StockRepo) GetByID(_ context.Context, id string) (*entity.StockLot, error) {
	var out *entity.StockLot
	_ = r.h.do(func(st *state) error {
		if l, ok := st.lots[id]; ok {
			out = &l
		}
		return nil
	})
	return out, nil
}

func (r *StockRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockLot, error) {
	return r.GetByID(ctx, id)
}

func (r *StockRepo) UpdateQuantity(_ context.Context, id string, q decimal.Decimal) error {
	return r.h.do(func(st *state) error {
		l, ok := st.lots[id]
		if !ok {
			return domain.ErrNotFound
		}
		l.Quantity = q
		st.lots[id] = l
		return nil
	})
}

func (r *StockRepo) UpdateCostBasis(_ context.Context, id string, qtyAtArrival, totalCost decimal.Decimal) error {
	return r.h.do(func(st *state) error {
		l, ok := st.lots[id]
		if !ok {
			return domain.ErrNotFound
		}
		l.QuantityAtArrival = qtyAtArrival
		l.TotalPurchaseCostLocal = totalCost
		st.lots[id] = l
		return nil
	})
}

func (r *StockRepo) ListByStore(_ context.Context, storeID string, onlyAvailable bool, limit, offset int) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	_ = r.h.do(func(st *state) error {
		for _, l := range st.lots {
			if (storeID != "" && l.StoreID != storeID) || (onlyAvailable && !l.Quantity.IsPositive()) {
				continue
			}
			l := l
			out = append(out, &l)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ArrivedAt.After(out[j].ArrivedAt) })
	return page(out, limit, offset), nil
}

func (r *StockRepo) OnHandByProduct(_ context.Context, productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	_ = r.h.do(func(st *state) error {
		for _, l := range st.lots {
			if l.ProductID == productID {
				total = total.Add(l.Quantity)
			}
		}
		return nil
	})
	return total, nil
}

// ── movements ────────────────────────────────────────────────────────────────

type MovementRepo struct{ h *handle }

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.h.do(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *MovementRepo) ListByStock(_ context.Context, stockID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	_ = r.h.do(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			if m := st.movements[i]; m.StockID == stockID {
				out = append(out, &m)
			}
		}
		return nil
	})
	return page(out, limit, offset), nil
}

// ── recycling ────────────────────────────────────────────────────────────────

type RecyclingRepo struct{ h *handle }

func (r *RecyclingRepo) Create(_ context.Context, rec *entity.Recycling) error {
	return r.h.do(func(st *state) error {
		st.recyclings = append(st.recyclings, *rec)
		return nil
	})
}

func (r *RecyclingRepo) LatestByProduct(_ context.Context, storeID, productID string) (*entity.Recycling, error) {
	var out *entity.Recycling
	_ = r.h.do(func(st *state) error {
		for i := len(st.recyclings) - 1; i >= 0; i-- {
			if rec := st.recyclings[i]; rec.StoreID == storeID && rec.ToProductID == productID {
				out = &rec
				return nil
			}
		}
		return nil
	})
	return out, nil
}

func (r *RecyclingRepo) ListByStore(_ context.Context, storeID string, limit, offset int) ([]*entity.Recycling, error) {
	var out []*entity.Recycling
	_ = r.h.do(func(st *state) error {
		for i := len(st.recyclings) - 1; i >= 0; i-- {
			if rec := st.recyclings[i]; storeID == "" || rec.StoreID == storeID {
				out = append(out, &rec)
			}
		}
		return nil
	})
	return page(out, limit, offset), nil
}

// ── clients ──────────────────────────────────────────────────────────────────

type ClientRepo struct{ h *handle }

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	return r.h.do(func(st *state) error {
		for _, other := range st.clients {
			if c.Phone != "" && other.StoreID == c.StoreID && other.Phone == c.Phone {
				return domain.ErrDuplicate
			}
		}
		st.clients[c.ID] = *c
		return nil
	})
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	var out *entity.Client
	_ = r.h.do(func(st *state) error {
		if c, ok := st.clients[id]; ok {
			out = &c
		}
		return nil
	})
	return out, nil
}

func (r *ClientRepo) GetByStoreAndPhone(_ context.Context, storeID, phone string) (*entity.Client, error) {
	var out *entity.Client
	_ = r.h.do(func(st *state) error {
		for _, c := range st.clients {
			if c.StoreID == storeID && c.Phone == phone {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, nil
}

func (r *ClientRepo) ListByStore(_ context.Context, storeID string, limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	_ = r.h.do(func(st *state) error {
		for _, c := range st.clients {
			if storeID == "" || c.StoreID == storeID {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.clients[c.ID]; !ok {
			return domain.ErrNotFound
		}
		st.clients[c.ID] = *c
		return nil
	})
}

// ── sales ────────────────────────────────────────────────────────────────────

type SaleRepo struct{ h *handle }

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.h.do(func(st *state) error {
		st.sales[s.ID] = *s
		return nil
	})
}

func (r *SaleRepo) Update(_ context.Context, s *entity.Sale) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.sales[s.ID]; !ok {
			return domain.ErrNotFound
		}
		st.sales[s.ID] = *s
		return nil
	})
}

func (r *SaleRepo) Delete(_ context.Context, id string) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.sales[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.sales, id)
		st.items = slices.DeleteFunc(st.items, func(it entity.SaleItem) bool { return it.SaleID == id })
		st.payments = slices.DeleteFunc(st.payments, func(p entity.SalePayment) bool { return p.SaleID == id })
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	_ = r.h.do(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = &s
		}
		return nil
	})
	return out, nil
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	_ = r.h.do(func(st *state) error {
		for _, s := range st.sales {
			if s.StoreID != f.StoreID ||
				(f.ClientID != "" && s.ClientID != f.ClientID) ||
				(f.From != nil && s.Date.Before(*f.From)) ||
				(f.To != nil && !s.Date.Before(*f.To)) {
				continue
			}
			s := s
			out = append(out, &s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *SaleRepo) CreateItem(_ context.Context, it *entity.SaleItem) error {
	return r.h.do(func(st *state) error {
		st.items = append(st.items, *it)
		return nil
	})
}

func (r *SaleRepo) ListItems(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	_ = r.h.do(func(st *state) error {
		for _, it := range st.items {
			if it.SaleID == saleID {
				it := it
				out = append(out, &it)
			}
		}
		return nil
	})
	return out, nil
}

func (r *SaleRepo) DeleteItems(_ context.Context, saleID string) error {
	return r.h.do(func(st *state) error {
		st.items = slices.DeleteFunc(st.items, func(it entity.SaleItem) bool { return it.SaleID == saleID })
		return nil
	})
}

func (r *SaleRepo) CreatePayment(_ context.Context, p *entity.SalePayment) error {
	return r.h.do(func(st *state) error {
		st.payments = append(st.payments, *p)
		return nil
	})
}

func (r *SaleRepo) ListPayments(_ context.Context, saleID string) ([]*entity.SalePayment, error) {
	var out []*entity.SalePayment
	_ = r.h.do(func(st *state) error {
		for _, p := range st.payments {
			if p.SaleID == saleID {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	return out, nil
}

func (r *SaleRepo) DeletePayments(_ context.Context, saleID string) error {
	return r.h.do(func(st *state) error {
		st.payments = slices.DeleteFunc(st.payments, func(p entity.SalePayment) bool { return p.SaleID == saleID })
		return nil
	})
}

// ── expenses ─────────────────────────────────────────────────────────────────

type ExpenseRepo struct{ h *handle }

func (r *ExpenseRepo) Create(_ context.Context, e *entity.Expense) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.stores[e.StoreID]; !ok {
			return domain.ErrNotFound
		}
		st.expenses = append(st.expenses, *e)
		return nil
	})
}

func (r *ExpenseRepo) ListByStore(_ context.Context, storeID string, from, to time.Time, limit, offset int) ([]*entity.Expense, error) {
	var out []*entity.Expense
	_ = r.h.do(func(st *state) error {
		for _, e := range st.expenses {
			if e.StoreID == storeID && !e.Date.Before(from) && e.Date.Before(to) {
				e := e
				out = append(out, &e)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, limit, offset), nil
}

// ── users ────────────────────────────────────────────────────────────────────

type UserRepo struct{ h *handle }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.h.do(func(st *state) error {
		for _, other := range st.users {
			if other.Email == u.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	_ = r.h.do(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	_ = r.h.do(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, nil
}

func (r *UserRepo) ListByStore(_ context.Context, storeID string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	_ = r.h.do(func(st *state) error {
		for _, u := range st.users {
			if storeID == "" || u.StoreID == storeID {
				u := u
				out = append(out, &u)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return page(out, limit, offset), nil
}

func (r *UserRepo) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	return r.h.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		u.Status = status
		u.UpdatedAt = updatedAt
		st.users[id] = u
		return nil
	})
}

// ── reports ──────────────────────────────────────────────────────────────────

type ReportRepo struct{ h *handle }

func inRange(t, from, to time.Time) bool { return !t.Before(from) && t.Before(to) }

func (r *ReportRepo) SalesTotals(_ context.Context, storeID string, from, to time.Time) (repository.SalesTotals, error) {
	t := repository.SalesTotals{}
	_ = r.h.do(func(st *state) error {
		for _, s := range st.sales {
			if s.StoreID != storeID || !inRange(s.Date, from, to) {
				continue
			}
			t.SalesCount++
			t.Revenue = t.Revenue.Add(s.TotalAmount)
			t.Collected = t.Collected.Add(s.TotalPaid)
			t.Debt = t.Debt.Add(s.Debt)
			t.PureRevenue = t.PureRevenue.Add(s.TotalPureRevenue)
		}
		return nil
	})
	return t, nil
}

func (r *ReportRepo) ExpensesTotal(_ context.Context, storeID string, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	_ = r.h.do(func(st *state) error {
		for _, e := range st.expenses {
			if e.StoreID == storeID && inRange(e.Date, from, to) {
				total = total.Add(e.Amount)
			}
		}
		return nil
	})
	return total, nil
}

func (r *ReportRepo) DailyIncome(_ context.Context, storeID string, from, to time.Time) ([]repository.DailyIncome, error) {
	byDay := map[time.Time]*repository.DailyIncome{}
	row := func(t time.Time) *repository.DailyIncome {
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		if d, ok := byDay[day]; ok {
			return d
		}
		d := &repository.DailyIncome{Day: day}
		byDay[day] = d
		return d
	}
	_ = r.h.do(func(st *state) error {
		for _, s := range st.sales {
			if s.StoreID == storeID && inRange(s.Date, from, to) {
				d := row(s.Date)
				d.Revenue = d.Revenue.Add(s.TotalAmount)
				d.PureRevenue = d.PureRevenue.Add(s.TotalPureRevenue)
			}
		}
		for _, e := range st.expenses {
			if e.StoreID == storeID && inRange(e.Date, from, to) {
				d := row(e.Date)
				d.Expenses = d.Expenses.Add(e.Amount)
			}
		}
		return nil
	})
	out := make([]repository.DailyIncome, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}
