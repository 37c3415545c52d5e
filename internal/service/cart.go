package service

import (
	"context"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/internal/domain"
	"github.com/Skotchmaster/artshop/internal/events"
	"github.com/Skotchmaster/artshop/internal/models"
	"github.com/Skotchmaster/artshop/internal/repo"
	"github.com/Skotchmaster/artshop/internal/transport"
	"github.com/Skotchmaster/artshop/internal/validation"
	"github.com/Skotchmaster/artshop/pkg/logging"
)

type CartService struct {
	Repo      repo.Repo
	Validator *validation.Validator
	Events    events.Publisher
}

// Edit applies a quantity delta and returns the cart's new total quantity.
// An existing line absorbs the delta and disappears at zero or below; a new
// line needs a listed product and a positive quantity.
func (s *CartService) Edit(ctx context.Context, u *models.User, req transport.CartRequest) (int, error) {
	l := logging.FromContext(ctx).With("svc", "cart.edit", "user_id", u.ID, "product_id", req.Product)

	if err := s.Validator.Validate(req); err != nil {
		return 0, err
	}

	cart := domain.NewCart(u.Cart)
	if cart.Has(req.Product) {
		cart.Adjust(req.Product, req.Quantity)
	} else {
		if !models.ValidID(req.Product) {
			return 0, apperr.New(apperr.ProductUnavailable, "")
		}
		p, err := s.Repo.ProductByID(ctx, req.Product)
		if err != nil {
			if apperr.KindOf(err) == apperr.NotFound {
				return 0, apperr.New(apperr.ProductUnavailable, "")
			}
			return 0, err
		}
		if !p.Sell {
			return 0, apperr.New(apperr.ProductUnavailable, "")
		}
		if err := cart.Add(p.ID, req.Quantity); err != nil {
			return 0, apperr.Invalid("quantity", "quantity must be greater than zero")
		}
	}

	u.Cart = cart.Lines()
	if err := s.Repo.SaveUser(ctx, u); err != nil {
		l.Error("cart_edit_failed", "reason", "cannot save user", "error", err)
		return 0, err
	}

	publish(ctx, s.Events, events.TopicUsers, u.ID, events.Event{
		Type:      "cart_changed",
		UserID:    u.ID,
		ProductID: req.Product,
		Quantity:  cart.Quantity(req.Product),
	})
	return cart.Total(), nil
}

// Get returns the cart with each line's current product. Lines whose
// product no longer exists come back with a null product.
func (s *CartService) Get(ctx context.Context, u *models.User) ([]transport.CartLineView, error) {
	return populateLines(ctx, s.Repo, u.Cart)
}

func populateLines(ctx context.Context, r repo.Repo, lines []models.CartLine) ([]transport.CartLineView, error) {
	ids := make([]string, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}
	products, err := r.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return linesWith(products, lines), nil
}

func linesWith(products map[string]models.Product, lines []models.CartLine) []transport.CartLineView {
	out := make([]transport.CartLineView, len(lines))
	for i, line := range lines {
		out[i] = transport.CartLineView{Quantity: line.Quantity}
		if p, ok := products[line.ProductID]; ok {
			out[i].Product = &p
		}
	}
	return out
}
