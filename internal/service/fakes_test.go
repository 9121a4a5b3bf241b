package service_test

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/linemk/shop-bot/internal/domain/models"
	"github.com/linemk/shop-bot/internal/events"
	"github.com/linemk/shop-bot/internal/service"
	"github.com/linemk/shop-bot/internal/storage"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newMockDB - БД только для границ транзакций, данные живут в fakeShop
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func expectCommit(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

func expectRollback(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectRollback()
}

type cartRow struct {
	userID    int64
	productID int64
	qty       int
}

// fakeShop - хранилище в памяти с той же семантикой, что и SQL-репозитории
type fakeShop struct {
	mu sync.Mutex

	users      map[int64]*models.User // ключ: tg id
	categories []*models.Category
	products   map[int64]*models.Product
	cart       []cartRow // порядок добавления
	orders     []*models.Order
	items      []models.OrderItem
	nextID     int64

	// смещения, с которыми запрашивались страницы каталога
	offsets []int

	// ошибки по имени метода
	fail map[string]error
}

var (
	_ storage.UserStorage     = (*fakeShop)(nil)
	_ storage.CategoryStorage = (*fakeShop)(nil)
	_ storage.ProductStorage  = (*fakeShop)(nil)
	_ storage.CartStorage     = (*fakeShop)(nil)
	_ storage.OrderStorage    = (*fakeShop)(nil)
)

func newFakeShop() *fakeShop {
	return &fakeShop{
		users:    make(map[int64]*models.User),
		products: make(map[int64]*models.Product),
		fail:     make(map[string]error),
	}
}

func (f *fakeShop) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeShop) addProduct(title string, price int64, active bool, categoryID int64) *models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &models.Product{ID: f.id(), Title: title, PriceCents: price, IsActive: active, CategoryID: &categoryID}
	f.products[p.ID] = p
	return p
}

func (f *fakeShop) cartQty(tgID, productID int64) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[tgID]
	if !ok {
		return 0, false
	}
	for _, r := range f.cart {
		if r.userID == u.ID && r.productID == productID {
			return r.qty, true
		}
	}
	return 0, false
}

// users

func (f *fakeShop) EnsureUser(_ context.Context, _ *sql.Tx, tgID int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["EnsureUser"]; err != nil {
		return nil, err
	}
	if u, ok := f.users[tgID]; ok {
		return u, nil
	}
	u := &models.User{ID: f.id(), TgID: tgID, CreatedAt: time.Now()}
	f.users[tgID] = u
	return u, nil
}

func (f *fakeShop) UpdateProfile(_ context.Context, _ *sql.Tx, userID int64, name, phone, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == userID {
			u.Name, u.Phone, u.Address = name, phone, address
			return nil
		}
	}
	return storage.ErrUserNotFound
}

// categories

func (f *fakeShop) ListCategories(context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeShop) EnsureCategory(_ context.Context, _ *sql.Tx, name string) (*models.Category, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.Name == name {
			return c, false, nil
		}
	}
	c := &models.Category{ID: f.id(), Name: name}
	f.categories = append(f.categories, c)
	return c, true, nil
}

// products

func (f *fakeShop) activeIn(categoryID int64) []models.Product {
	var out []models.Product
	for _, p := range f.products {
		if p.IsActive && p.CategoryID != nil && *p.CategoryID == categoryID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakeShop) ListActiveByCategory(_ context.Context, categoryID int64, limit, offset int) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offsets = append(f.offsets, offset)
	// как Postgres: OFFSET must not be negative
	if offset < 0 {
		return nil, fmt.Errorf("negative offset %d", offset)
	}
	all := f.activeIn(categoryID)
	if offset >= len(all) {
		return []models.Product{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeShop) CountActiveByCategory(_ context.Context, categoryID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.activeIn(categoryID)), nil
}

func (f *fakeShop) GetActiveProduct(_ context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || !p.IsActive {
		return nil, storage.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeShop) GetActiveProductTx(ctx context.Context, _ *sql.Tx, id int64) (*models.Product, error) {
	return f.GetActiveProduct(ctx, id)
}

func (f *fakeShop) CreateProduct(_ context.Context, _ *sql.Tx, product *models.Product) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product.ID = f.id()
	cp := *product
	f.products[product.ID] = &cp
	return product, nil
}

func (f *fakeShop) UpdateProductColumn(_ context.Context, _ *sql.Tx, id int64, column storage.ProductColumn, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return storage.ErrProductNotFound
	}
	switch column {
	case storage.ColumnTitle:
		p.Title = value.(string)
	case storage.ColumnDescription:
		p.Description = value.(string)
	case storage.ColumnPrice:
		p.PriceCents = value.(int64)
	case storage.ColumnActive:
		p.IsActive = value.(bool)
	case storage.ColumnCategory:
		id := value.(int64)
		p.CategoryID = &id
	case storage.ColumnPhoto:
		if value == nil {
			p.PhotoURL = ""
		} else {
			p.PhotoURL = value.(string)
		}
	}
	return nil
}

// cart

func (f *fakeShop) UpsertCartItem(_ context.Context, _ *sql.Tx, userID, productID int64, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["UpsertCartItem"]; err != nil {
		return err
	}
	for i, r := range f.cart {
		if r.userID == userID && r.productID == productID {
			f.cart[i].qty = min(service.MaxCartQuantity, max(1, r.qty+qty))
			return nil
		}
	}
	f.cart = append(f.cart, cartRow{userID: userID, productID: productID, qty: max(1, qty)})
	return nil
}

func (f *fakeShop) LockCartQuantity(_ context.Context, _ *sql.Tx, userID, productID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.cart {
		if r.userID == userID && r.productID == productID {
			return r.qty, nil
		}
	}
	return 0, storage.ErrCartItemNotFound
}

func (f *fakeShop) UpdateCartQuantity(_ context.Context, _ *sql.Tx, userID, productID int64, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.cart {
		if r.userID == userID && r.productID == productID {
			f.cart[i].qty = qty
		}
	}
	return nil
}

func (f *fakeShop) DeleteCartItem(_ context.Context, _ *sql.Tx, userID, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.cart[:0]
	for _, r := range f.cart {
		if r.userID != userID || r.productID != productID {
			kept = append(kept, r)
		}
	}
	f.cart = kept
	return nil
}

func (f *fakeShop) ListCartLines(_ context.Context, _ *sql.Tx, userID int64) ([]models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["ListCartLines"]; err != nil {
		return nil, err
	}
	var lines []models.CartLine
	for _, r := range f.cart {
		if r.userID == userID {
			lines = append(lines, models.CartLine{Product: *f.products[r.productID], Quantity: r.qty})
		}
	}
	return lines, nil
}

func (f *fakeShop) ClearCart(ctx context.Context, _ *sql.Tx, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.cart[:0]
	for _, r := range f.cart {
		if r.userID != userID {
			kept = append(kept, r)
		}
	}
	f.cart = kept
	return nil
}

// orders

func (f *fakeShop) CreateOrder(_ context.Context, _ *sql.Tx, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.OrderNumber == order.OrderNumber {
			return storage.ErrOrderNumberTaken
		}
	}
	order.ID = f.id()
	order.CreatedAt = time.Now()
	cp := *order
	f.orders = append(f.orders, &cp)
	return nil
}

func (f *fakeShop) AddOrderItem(_ context.Context, _ *sql.Tx, item *models.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail["AddOrderItem"]; err != nil {
		return err
	}
	item.ID = f.id()
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeShop) ListOrders(_ context.Context, status string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for i := len(f.orders) - 1; i >= 0; i-- {
		if status == "" || f.orders[i].Status == status {
			out = append(out, *f.orders[i])
		}
	}
	return out, nil
}

func (f *fakeShop) SetOrderStatus(_ context.Context, id int64, status string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id {
			o.Status = status
			return o.OrderNumber, nil
		}
	}
	return "", storage.ErrOrderNotFound
}

func (f *fakeShop) orderItems(orderID int64) []models.OrderItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OrderItem
	for _, it := range f.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *fakePublisher) PublishOrderEvent(_ context.Context, e events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Close() error { return nil }
