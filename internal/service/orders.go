package service

import (
	"context"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/internal/events"
	"github.com/Skotchmaster/artshop/internal/models"
	"github.com/Skotchmaster/artshop/internal/repo"
	"github.com/Skotchmaster/artshop/internal/transport"
	"github.com/Skotchmaster/artshop/internal/validation"
	"github.com/Skotchmaster/artshop/pkg/logging"
)

type OrderService struct {
	Repo      repo.Repo
	Validator *validation.Validator
	Events    events.Publisher
}

// Create checks out the user's cart. The order keeps a copy of the lines;
// clearing the cart is a separate write and is not atomic with the insert.
func (s *OrderService) Create(ctx context.Context, u *models.User, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "orders.create", "user_id", u.ID)

	if len(u.Cart) == 0 {
		return nil, apperr.New(apperr.EmptyCart, "")
	}

	ids := make([]string, len(u.Cart))
	for i, line := range u.Cart {
		ids[i] = line.ProductID
	}
	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if p, ok := products[id]; !ok || !p.Sell {
			return nil, apperr.New(apperr.UnsellableItem, "")
		}
	}

	if err := s.Validator.Validate(req); err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:  u.ID,
		Cart:    append([]models.CartLine(nil), u.Cart...),
		Address: req.Address,
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		l.Error("order_create_failed", "reason", "cannot insert order", "error", err)
		return nil, err
	}

	u.Cart = []models.CartLine{}
	if err := s.Repo.SaveUser(ctx, u); err != nil {
		l.Error("order_create_failed", "reason", "order stored but cart not cleared", "order_id", order.ID, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicOrders, order.ID, events.Event{Type: "order_created", OrderID: order.ID, UserID: u.ID})
	return order, nil
}

// ListOwn returns the user's orders with products populated.
func (s *OrderService) ListOwn(ctx context.Context, u *models.User) ([]transport.OrderView, error) {
	orders, err := s.Repo.OrdersByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, orders, false)
}

// ListAll returns every order with products and buyer account and name.
func (s *OrderService) ListAll(ctx context.Context) ([]transport.OrderView, error) {
	orders, err := s.Repo.AllOrders(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, orders, true)
}

func (s *OrderService) views(ctx context.Context, orders []models.Order, withUsers bool) ([]transport.OrderView, error) {
	var productIDs, userIDs []string
	seen := map[string]bool{}
	for _, o := range orders {
		userIDs = append(userIDs, o.UserID)
		for _, line := range o.Cart {
			if !seen[line.ProductID] {
				seen[line.ProductID] = true
				productIDs = append(productIDs, line.ProductID)
			}
		}
	}

	products, err := s.Repo.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	var users map[string]models.UserSummary
	if withUsers {
		users, err = s.Repo.UserSummaries(ctx, userIDs)
		if err != nil {
			return nil, err
		}
	}

	out := make([]transport.OrderView, len(orders))
	for i, o := range orders {
		out[i] = transport.OrderView{
			ID:        o.ID,
			User:      o.UserID,
			Cart:      linesWith(products, o.Cart),
			Address:   o.Address,
			CreatedAt: o.CreatedAt,
		}
		if withUsers {
			if summary, ok := users[o.UserID]; ok {
				out[i].User = models.UserSummary{ID: summary.ID, Account: summary.Account, Name: summary.Name}
			}
		}
	}
	return out, nil
}
