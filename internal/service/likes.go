package service

import (
	"context"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/internal/domain"
	"github.com/Skotchmaster/artshop/internal/events"
	"github.com/Skotchmaster/artshop/internal/models"
	"github.com/Skotchmaster/artshop/internal/repo"
	"github.com/Skotchmaster/artshop/internal/transport"
)

type LikesService struct {
	Repo    repo.Repo
	Catalog *CatalogService
	Events  events.Publisher
}

// Toggle makes the user's like for productID match liked. Repeating a call
// changes nothing. The requested value is echoed back.
func (s *LikesService) Toggle(ctx context.Context, u *models.User, productID string, liked bool) (bool, error) {
	if !models.ValidID(productID) {
		return false, apperr.New(apperr.Cast, "malformed product id")
	}

	likes := domain.NewLikes(u.Likes)
	if !likes.Set(productID, liked) {
		return liked, nil
	}
	u.Likes = likes.IDs()
	if err := s.Repo.SaveUser(ctx, u); err != nil {
		return false, err
	}

	typ := "product_unliked"
	if liked {
		typ = "product_liked"
	}
	publish(ctx, s.Events, events.TopicUsers, u.ID, events.Event{Type: typ, UserID: u.ID, ProductID: productID})
	return liked, nil
}

// List returns the liked products that still exist, in like order.
func (s *LikesService) List(ctx context.Context, u *models.User) ([]transport.ProductView, error) {
	found, err := s.Repo.ProductsByIDs(ctx, u.Likes)
	if err != nil {
		return nil, err
	}
	items := make([]models.Product, 0, len(found))
	for _, id := range u.Likes {
		if p, ok := found[id]; ok {
			items = append(items, p)
		}
	}
	return s.Catalog.enrich(ctx, u, items)
}
