package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"marketplace-backend/internal/domains/order"
	"marketplace-backend/internal/domains/product"
	"marketplace-backend/internal/domains/seller"
	"marketplace-backend/internal/domains/user"
	"marketplace-backend/internal/infrastructure/email"
)

// Service covers purchasing and order listings.
type Service interface {
	// Buy purchases quantity units of a product for userID. Stock is
	// decremented atomically with the order insert.
	Buy(ctx context.Context, userID, productID uuid.UUID, req *order.BuyProductRequest) (*order.Order, error)

	ListMine(ctx context.Context, userID uuid.UUID) ([]order.Order, error)
	ListForSeller(ctx context.Context, sellerID uuid.UUID) ([]order.Order, error)

	// UpdateStatus moves an order through its lifecycle; only the seller
	// who received the order may do so.
	UpdateStatus(ctx context.Context, sellerID, orderID uuid.UUID, req *order.UpdateStatusRequest) (*order.Order, error)
}

type orderService struct {
	orders   order.Repository
	products product.Repository
	sellers  seller.Repository
	users    user.Repository
	mailer   email.Service
}

func NewOrderService(
	orders order.Repository,
	products product.Repository,
	sellers seller.Repository,
	users user.Repository,
	mailer email.Service,
) Service {
	return &orderService{
		orders:   orders,
		products: products,
		sellers:  sellers,
		users:    users,
		mailer:   mailer,
	}
}

func (s *orderService) Buy(ctx context.Context, userID, productID uuid.UUID, req *order.BuyProductRequest) (*order.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	o := &order.Order{
		ID:          uuid.New(),
		UserID:      userID,
		ProductID:   productID,
		SellerID:    p.SellerID,
		Quantity:    req.Quantity,
		TotalPrice:  p.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Address:     req.Address,
		Status:      order.StatusPending,
		ProductName: p.Name,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	// The purchase stands even if the seller notification cannot go out.
	s.notifySeller(ctx, o)

	return o, nil
}

func (s *orderService) notifySeller(ctx context.Context, o *order.Order) {
	sel, err := s.sellers.FindByID(ctx, o.SellerID)
	if err != nil {
		log.Warn().Err(err).Str("order_id", o.ID.String()).Msg("failed to resolve seller for order notification")
		return
	}
	owner, err := s.users.FindByID(ctx, sel.UserID)
	if err != nil {
		log.Warn().Err(err).Str("order_id", o.ID.String()).Msg("failed to resolve seller account for order notification")
		return
	}

	err = s.mailer.SendOrderNotification(ctx, email.OrderNotificationData{
		Email:       owner.Email,
		ProductName: o.ProductName,
		Quantity:    o.Quantity,
		TotalPrice:  o.TotalPrice.String(),
		Address:     o.Address,
	})
	if err != nil {
		log.Warn().Err(err).Str("order_id", o.ID.String()).Msg("failed to send order notification")
	}
}

func (s *orderService) ListMine(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *orderService) ListForSeller(ctx context.Context, sellerID uuid.UUID) ([]order.Order, error) {
	return s.orders.ListBySeller(ctx, sellerID)
}

func (s *orderService) UpdateStatus(ctx context.Context, sellerID, orderID uuid.UUID, req *order.UpdateStatusRequest) (*order.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.SellerID != sellerID {
		return nil, order.ErrNotSeller
	}

	if err := s.orders.UpdateStatus(ctx, orderID, req.Status); err != nil {
		return nil, err
	}
	o.Status = req.Status
	return o, nil
}
