package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/domains/order"
	"marketplace-backend/internal/domains/product"
	"marketplace-backend/internal/domains/seller"
	"marketplace-backend/internal/domains/user"
	"marketplace-backend/internal/infrastructure/email"
)

// fakeStore backs the order and product repositories with one
// mutex-guarded state so the stock invariant can be checked under
// concurrent purchases.
type fakeStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]*product.Product
	orders   map[uuid.UUID]*order.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[uuid.UUID]*product.Product),
		orders:   make(map[uuid.UUID]*order.Order),
	}
}

type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) Create(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.products[o.ProductID]
	if !ok || p.Stock < o.Quantity {
		return product.ErrInsufficientStock
	}
	p.Stock -= o.Quantity

	clone := *o
	r.store.orders[o.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []order.Order
	for _, o := range r.store.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListBySeller(_ context.Context, sellerID uuid.UUID) ([]order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []order.Order
	for _, o := range r.store.orders {
		if o.SellerID == sellerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status order.Status) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) Create(_ context.Context, p *product.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	clone := *p
	r.store.products[p.ID] = &clone
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*product.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ *product.ListQuery) ([]product.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *product.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[p.ID]; !ok {
		return product.ErrProductNotFound
	}
	clone := *p
	r.store.products[p.ID] = &clone
	return nil
}

func (r *fakeProductRepo) ReplaceImages(_ context.Context, _ uuid.UUID, _ []product.Image) error {
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[id]; !ok {
		return product.ErrProductNotFound
	}
	delete(r.store.products, id)
	return nil
}

type fakeSellerRepo struct {
	sellers map[uuid.UUID]*seller.Seller
}

func (r *fakeSellerRepo) Create(_ context.Context, _ *seller.Seller) error { return nil }

func (r *fakeSellerRepo) FindByID(_ context.Context, id uuid.UUID) (*seller.Seller, error) {
	s, ok := r.sellers[id]
	if !ok {
		return nil, seller.ErrSellerNotFound
	}
	return s, nil
}

func (r *fakeSellerRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*seller.Seller, error) {
	for _, s := range r.sellers {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, seller.ErrSellerNotFound
}

type stubUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (r *stubUserRepo) Create(_ context.Context, _ *user.User) error { return nil }

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, _ string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, _ string) (bool, error) { return false, nil }
func (r *stubUserRepo) Update(_ context.Context, _ *user.User) error            { return nil }
func (r *stubUserRepo) SetResetCode(_ context.Context, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}
func (r *stubUserRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error { return nil }
func (r *stubUserRepo) Delete(_ context.Context, _ uuid.UUID) error                   { return nil }

type countingMailer struct {
	mu            sync.Mutex
	notifications []email.OrderNotificationData
}

func (m *countingMailer) SendVerificationCode(_ context.Context, _ email.VerificationCodeData) error {
	return nil
}
func (m *countingMailer) SendWelcome(_ context.Context, _ email.WelcomeData) error { return nil }
func (m *countingMailer) SendPasswordResetCode(_ context.Context, _ email.PasswordResetCodeData) error {
	return nil
}
func (m *countingMailer) SendOrderNotification(_ context.Context, data email.OrderNotificationData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, data)
	return nil
}

type fixture struct {
	svc       Service
	store     *fakeStore
	mailer    *countingMailer
	productID uuid.UUID
	sellerID  uuid.UUID
	buyerID   uuid.UUID
}

func newFixture(t *testing.T, stock int) *fixture {
	t.Helper()

	store := newFakeStore()
	sellerID := uuid.New()
	sellerUserID := uuid.New()
	productID := uuid.New()

	store.products[productID] = &product.Product{
		ID:       productID,
		SellerID: sellerID,
		Name:     "Wool Scarf",
		Price:    decimal.NewFromFloat(19.99),
		Stock:    stock,
	}

	sellers := &fakeSellerRepo{sellers: map[uuid.UUID]*seller.Seller{
		sellerID: {ID: sellerID, UserID: sellerUserID, StoreName: "Scarves & Co"},
	}}
	users := &stubUserRepo{users: map[uuid.UUID]*user.User{
		sellerUserID: {ID: sellerUserID, Email: "store@example.com"},
	}}
	mailer := &countingMailer{}

	svc := NewOrderService(
		&fakeOrderRepo{store: store},
		&fakeProductRepo{store: store},
		sellers,
		users,
		mailer,
	)

	return &fixture{
		svc:       svc,
		store:     store,
		mailer:    mailer,
		productID: productID,
		sellerID:  sellerID,
		buyerID:   uuid.New(),
	}
}

func TestBuy(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	o, err := f.svc.Buy(ctx, f.buyerID, f.productID, &order.BuyProductRequest{
		Quantity: 3,
		Address:  "42 Long Street, Springfield",
	})
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, f.sellerID, o.SellerID)
	assert.Equal(t, "59.97", o.TotalPrice.StringFixed(2))
	assert.Equal(t, 7, f.store.products[f.productID].Stock)

	require.Len(t, f.mailer.notifications, 1)
	assert.Equal(t, "store@example.com", f.mailer.notifications[0].Email)
	assert.Equal(t, "Wool Scarf", f.mailer.notifications[0].ProductName)
}

func TestBuyInsufficientStock(t *testing.T) {
	f := newFixture(t, 2)

	_, err := f.svc.Buy(context.Background(), f.buyerID, f.productID, &order.BuyProductRequest{
		Quantity: 3,
		Address:  "42 Long Street, Springfield",
	})
	assert.ErrorIs(t, err, product.ErrInsufficientStock)
	assert.Equal(t, 2, f.store.products[f.productID].Stock)
}

func TestBuyValidation(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Buy(ctx, f.buyerID, f.productID, &order.BuyProductRequest{Quantity: 0, Address: "42 Long Street, Springfield"})
	assert.Error(t, err)

	_, err = f.svc.Buy(ctx, f.buyerID, f.productID, &order.BuyProductRequest{Quantity: 1, Address: "short"})
	assert.Error(t, err)

	assert.Equal(t, 10, f.store.products[f.productID].Stock)
}

func TestBuyUnknownProduct(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.svc.Buy(context.Background(), f.buyerID, uuid.New(), &order.BuyProductRequest{
		Quantity: 1,
		Address:  "42 Long Street, Springfield",
	})
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestConcurrentBuysNeverOversell(t *testing.T) {
	const stock = 10
	const buyers = 50

	f := newFixture(t, stock)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Buy(ctx, uuid.New(), f.productID, &order.BuyProductRequest{
				Quantity: 1,
				Address:  "42 Long Street, Springfield",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var sold, rejected int
	for err := range errs {
		switch {
		case err == nil:
			sold++
		default:
			require.ErrorIs(t, err, product.ErrInsufficientStock)
			rejected++
		}
	}

	assert.Equal(t, stock, sold)
	assert.Equal(t, buyers-stock, rejected)
	assert.GreaterOrEqual(t, f.store.products[f.productID].Stock, 0)
	assert.Len(t, f.store.orders, stock)
}

func TestUpdateStatusOwnership(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	o, err := f.svc.Buy(ctx, f.buyerID, f.productID, &order.BuyProductRequest{
		Quantity: 1,
		Address:  "42 Long Street, Springfield",
	})
	require.NoError(t, err)

	t.Run("foreign seller is refused", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, uuid.New(), o.ID, &order.UpdateStatusRequest{Status: order.StatusShipped})
		assert.ErrorIs(t, err, order.ErrNotSeller)
	})

	t.Run("invalid status is refused", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, f.sellerID, o.ID, &order.UpdateStatusRequest{Status: "teleported"})
		assert.ErrorIs(t, err, order.ErrInvalidStatus)
	})

	t.Run("owner may update", func(t *testing.T) {
		updated, err := f.svc.UpdateStatus(ctx, f.sellerID, o.ID, &order.UpdateStatusRequest{Status: order.StatusShipped})
		require.NoError(t, err)
		assert.Equal(t, order.StatusShipped, updated.Status)
	})
}

func TestListScoping(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Buy(ctx, f.buyerID, f.productID, &order.BuyProductRequest{
		Quantity: 1,
		Address:  "42 Long Street, Springfield",
	})
	require.NoError(t, err)

	mine, err := f.svc.ListMine(ctx, f.buyerID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other, err := f.svc.ListMine(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)

	forSeller, err := f.svc.ListForSeller(ctx, f.sellerID)
	require.NoError(t, err)
	assert.Len(t, forSeller, 1)
}
