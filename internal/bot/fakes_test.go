package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/linemk/shop-bot/internal/checkout"
	"github.com/linemk/shop-bot/internal/domain/models"
	"github.com/linemk/shop-bot/internal/lib/logger"
	"github.com/linemk/shop-bot/internal/lib/money"
	"github.com/linemk/shop-bot/internal/service"
	"github.com/linemk/shop-bot/internal/session"
	"github.com/linemk/shop-bot/internal/storage"
)

var (
	_ service.CatalogService = (*fakeShop)(nil)
	_ service.CartService    = (*fakeShop)(nil)
	_ service.OrderService   = (*fakeShop)(nil)
	_ service.AdminService   = (*fakeShop)(nil)
)

// fakeShop - все сервисы поверх общего состояния в памяти
type fakeShop struct {
	mu sync.Mutex

	pageSize   int
	admins     map[int64]bool
	categories []models.Category
	products   map[int64]models.Product
	carts      map[int64]map[int64]int
	orders     []models.Order
	details    []service.CustomerDetails
	edits      []string

	// err возвращается из любого обращения к "хранилищу"
	err error
	// orderErr возвращается только из CreateOrder
	orderErr error
}

func newFakeShop() *fakeShop {
	return &fakeShop{
		pageSize: 6,
		admins:   map[int64]bool{},
		products: map[int64]models.Product{},
		carts:    map[int64]map[int64]int{},
	}
}

func (f *fakeShop) addProduct(p models.Product) {
	f.products[p.ID] = p
}

func (f *fakeShop) ListCategories(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Category(nil), f.categories...), nil
}

func (f *fakeShop) activeInCategory(categoryID int64) []models.Product {
	var out []models.Product
	for _, p := range f.products {
		if p.IsActive && p.CategoryID != nil && *p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeShop) ListProducts(_ context.Context, categoryID int64, page int) (*service.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if page < 1 {
		page = 1
	}
	all := f.activeInCategory(categoryID)
	total := (len(all) + f.pageSize - 1) / f.pageSize
	if total < 1 {
		total = 1
	}
	var items []models.Product
	if page <= total {
		from := (page - 1) * f.pageSize
		items = all[from:min(from+f.pageSize, len(all))]
	}
	return &service.ProductPage{CategoryID: categoryID, Products: items, Page: page, TotalPages: total}, nil
}

func (f *fakeShop) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok || !p.IsActive {
		return nil, fmt.Errorf("fake: %w", storage.ErrProductNotFound)
	}
	return &p, nil
}

func (f *fakeShop) EnsureUser(_ context.Context, chatID int64) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: chatID, TgID: chatID}, nil
}

func (f *fakeShop) cart(chatID int64) map[int64]int {
	c, ok := f.carts[chatID]
	if !ok {
		c = map[int64]int{}
		f.carts[chatID] = c
	}
	return c
}

func (f *fakeShop) AddToCart(_ context.Context, chatID, productID int64, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if p, ok := f.products[productID]; !ok || !p.IsActive {
		return fmt.Errorf("fake: %w", storage.ErrProductNotFound)
	}
	c := f.cart(chatID)
	c[productID] = max(1, c[productID]+qty)
	return nil
}

func (f *fakeShop) ChangeQty(_ context.Context, chatID, productID int64, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	c := f.cart(chatID)
	qty, ok := c[productID]
	if !ok {
		return nil
	}
	if delta > 0 && qty > service.MaxCartQuantity-delta {
		c[productID] = service.MaxCartQuantity
		return nil
	}
	if qty+delta <= 0 {
		delete(c, productID)
		return nil
	}
	c[productID] = qty + delta
	return nil
}

func (f *fakeShop) RemoveFromCart(_ context.Context, chatID, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.cart(chatID), productID)
	return nil
}

func (f *fakeShop) lines(chatID int64) []models.CartLine {
	var out []models.CartLine
	for id, qty := range f.cart(chatID) {
		out = append(out, models.CartLine{Product: f.products[id], Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.ID < out[j].Product.ID })
	return out
}

func (f *fakeShop) GetCart(_ context.Context, chatID int64) ([]models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.lines(chatID), nil
}

func (f *fakeShop) CreateOrder(_ context.Context, chatID int64, details service.CustomerDetails) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	lines := f.lines(chatID)
	if len(lines) == 0 {
		return nil, fmt.Errorf("fake: %w", service.ErrEmptyCart)
	}

	uid := chatID
	order := models.Order{
		ID:              int64(len(f.orders) + 1),
		UserID:          &uid,
		OrderNumber:     fmt.Sprintf("240131-%06x", len(f.orders)+1),
		TotalCents:      models.CalculateTotal(lines),
		DeliveryMethod:  details.DeliveryMethod,
		Status:          models.OrderStatusNew,
		CustomerName:    details.Name,
		CustomerPhone:   details.Phone,
		CustomerAddress: details.Address,
		CreatedAt:       time.Now(),
	}
	f.orders = append(f.orders, order)
	f.details = append(f.details, details)
	delete(f.carts, chatID)
	return &order, nil
}

func (f *fakeShop) ListOrders(_ context.Context, status string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Order
	for _, o := range f.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeShop) SetStatus(_ context.Context, orderID int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			f.orders[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("fake: %w", storage.ErrOrderNotFound)
}

func (f *fakeShop) IsAdmin(chatID int64) bool {
	return f.admins[chatID]
}

func (f *fakeShop) AddCategory(_ context.Context, name string) (*models.Category, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}
	name = strings.TrimSpace(name)
	for _, c := range f.categories {
		if c.Name == name {
			return &c, false, nil
		}
	}
	c := models.Category{ID: int64(len(f.categories) + 1), Name: name}
	f.categories = append(f.categories, c)
	return &c, true, nil
}

func (f *fakeShop) AddProduct(_ context.Context, in service.NewProduct) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	price, err := money.ParseMajor(in.Price, 2)
	if err != nil {
		return nil, fmt.Errorf("service.AdminService.AddProduct: price %q: %w", in.Price, service.ErrInvalidValue)
	}
	p := models.Product{
		ID:          int64(len(f.products) + 1),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		PriceCents:  price,
		PhotoURL:    strings.TrimSpace(in.PhotoURL),
		IsActive:    true,
	}
	f.products[p.ID] = p
	return &p, nil
}

func (f *fakeShop) EditProduct(_ context.Context, productID int64, field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if field != "title" && field != "price" && field != "active" {
		return fmt.Errorf("fake: %w", service.ErrUnknownField)
	}
	p, ok := f.products[productID]
	if !ok {
		return fmt.Errorf("fake: %w", storage.ErrProductNotFound)
	}
	switch field {
	case "title":
		p.Title = value
	case "active":
		p.IsActive = value == "true"
	case "price":
		price, err := money.ParseMajor(value, 2)
		if err != nil {
			return fmt.Errorf("service.AdminService.EditProduct: price %q: %w", value, service.ErrInvalidValue)
		}
		p.PriceCents = price
	}
	f.products[productID] = p
	f.edits = append(f.edits, field+"="+value)
	return nil
}

// failingSessions - хранилище, которое недоступно
type failingSessions struct{ err error }

func (s failingSessions) Get(context.Context, int64) (checkout.Session, error) {
	return checkout.Session{}, s.err
}
func (s failingSessions) Save(context.Context, int64, checkout.Session) error { return s.err }
func (s failingSessions) Delete(context.Context, int64) error                 { return s.err }
func (s failingSessions) Close() error                                        { return nil }

func newTestBot(shop *fakeShop) (*Bot, *session.MemoryStore) {
	store := session.NewMemoryStore(0)
	return newTestBotWithStore(shop, store), store
}

func newTestBotWithStore(shop *fakeShop, store session.Store) *Bot {
	return New(logger.Discard(), Deps{
		Catalog:  shop,
		Cart:     shop,
		Orders:   shop,
		Admin:    shop,
		Sessions: store,
		Machine:  checkout.NewMachine([]string{"courier", "pickup"}),
		Currency: Currency{Symbol: "₽", Exponent: 2},
	})
}

func int64Ptr(v int64) *int64 { return &v }
