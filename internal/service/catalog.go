package service

import (
	"context"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/internal/events"
	"github.com/Skotchmaster/artshop/internal/images"
	"github.com/Skotchmaster/artshop/internal/models"
	"github.com/Skotchmaster/artshop/internal/repo"
	"github.com/Skotchmaster/artshop/internal/search"
	"github.com/Skotchmaster/artshop/internal/transport"
	"github.com/Skotchmaster/artshop/internal/util"
	"github.com/Skotchmaster/artshop/internal/validation"
	"github.com/Skotchmaster/artshop/pkg/logging"
)

const randomSampleSize = 4

type CatalogService struct {
	Repo      repo.Repo
	Validator *validation.Validator
	Images    images.Store
	MaxUpload int64
	Events    events.Publisher
	// Index is optional; without it search runs against the repo.
	Index search.Index
}

// CatalogQuery drives the owner and admin listings.
type CatalogQuery struct {
	Search       string
	SortBy       string
	SortOrder    string
	Page         int
	ItemsPerPage int
}

func (s *CatalogService) Create(ctx context.Context, owner *models.User, req transport.CreateProductRequest, image *images.Upload) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create", "user_id", owner.ID)

	if err := s.Validator.Validate(req); err != nil {
		return nil, err
	}
	if image == nil {
		return nil, apperr.Invalid("image", "image is required")
	}

	url, err := saveImage(ctx, s.Images, *image, s.MaxUpload)
	if err != nil {
		if apperr.KindOf(err) != apperr.Validation {
			l.Error("create_failed", "reason", "cannot store image", "error", err)
		}
		return nil, err
	}

	p := &models.Product{
		User:        models.Owner{ID: owner.ID, Name: owner.Name, Avatar: owner.Avatar},
		Name:        req.Name,
		Price:       *req.Price,
		Image:       url,
		Description: req.Description,
		Category:    req.Category,
		Sell:        req.Sell,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	s.reindex(ctx, *p)
	publish(ctx, s.Events, events.TopicProducts, p.ID, events.Event{Type: "product_created", ProductID: p.ID, UserID: owner.ID})
	return p, nil
}

// List is the public storefront: listed products only, optionally one category.
func (s *CatalogService) List(ctx context.Context, viewer *models.User, category string) ([]transport.ProductView, error) {
	items, err := s.Repo.ListProducts(ctx, repo.ProductFilter{SellOnly: true, Category: category})
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, viewer, items)
}

// OwnerCatalog lists the owner's products in any sell state. Count is the
// size of the whole product collection, which the dashboard uses as its total.
func (s *CatalogService) OwnerCatalog(ctx context.Context, owner *models.User, q CatalogQuery) (*transport.CatalogPage, error) {
	return s.catalogPage(ctx, owner, owner.ID, q)
}

// AllProducts is the admin view of every product.
func (s *CatalogService) AllProducts(ctx context.Context, viewer *models.User, q CatalogQuery) (*transport.CatalogPage, error) {
	return s.catalogPage(ctx, viewer, "", q)
}

func (s *CatalogService) catalogPage(ctx context.Context, viewer *models.User, ownerID string, q CatalogQuery) (*transport.CatalogPage, error) {
	offset, limit := util.Calculate(q.Page, q.ItemsPerPage)
	items, _, err := s.Repo.SearchProducts(ctx, repo.SearchQuery{
		OwnerID: ownerID,
		Text:    q.Search,
		SortBy:  q.SortBy,
		Desc:    q.SortOrder != "asc",
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	count, err := s.Repo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}

	views, err := s.enrich(ctx, viewer, items)
	if err != nil {
		return nil, err
	}
	return &transport.CatalogPage{Data: views, Count: count}, nil
}

func (s *CatalogService) Get(ctx context.Context, viewer *models.User, id string) (*transport.ProductView, error) {
	if !models.ValidID(id) {
		return nil, apperr.New(apperr.Cast, "malformed product id")
	}
	p, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, viewer, []models.Product{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Random samples up to four listed products.
func (s *CatalogService) Random(ctx context.Context, viewer *models.User) ([]transport.ProductView, error) {
	items, err := s.Repo.RandomProducts(ctx, randomSampleSize)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, viewer, items)
}

// Edit patches a product. Only its owner or an admin may do so.
func (s *CatalogService) Edit(ctx context.Context, editor *models.User, id string, req transport.PatchProductRequest, image *images.Upload) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.edit", "user_id", editor.ID, "product_id", id)

	if !models.ValidID(id) {
		return nil, apperr.New(apperr.Cast, "malformed product id")
	}
	if err := s.Validator.Validate(req); err != nil {
		return nil, err
	}

	current, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.User.ID != editor.ID && !editor.IsAdmin() {
		return nil, apperr.New(apperr.Forbidden, "only the owner can edit this product")
	}

	patch := repo.ProductPatch{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Sell:        req.Sell,
	}
	if image != nil {
		url, err := saveImage(ctx, s.Images, *image, s.MaxUpload)
		if err != nil {
			if apperr.KindOf(err) != apperr.Validation {
				l.Error("edit_failed", "reason", "cannot store image", "error", err)
			}
			return nil, err
		}
		patch.Image = &url
	}

	p, err := s.Repo.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.reindex(ctx, *p)
	publish(ctx, s.Events, events.TopicProducts, p.ID, events.Event{Type: "product_updated", ProductID: p.ID, UserID: editor.ID})
	return p, nil
}

// Search is the public full-text search over listed products.
func (s *CatalogService) Search(ctx context.Context, viewer *models.User, query string, page, size int) (*transport.SearchPage, error) {
	offset, limit := util.Bounded(page, size)
	if page < 1 {
		page = 1
	}

	var (
		items []models.Product
		total int64
		err   error
	)
	if s.Index != nil {
		items, total, err = s.searchIndex(ctx, query, offset, limit)
	} else {
		items, total, err = s.Repo.SearchProducts(ctx, repo.SearchQuery{
			SellOnly: true,
			Text:     query,
			SortBy:   "createdAt",
			Desc:     true,
			Offset:   offset,
			Limit:    limit,
		})
	}
	if err != nil {
		return nil, err
	}

	views, err := s.enrich(ctx, viewer, items)
	if err != nil {
		return nil, err
	}
	return &transport.SearchPage{Data: views, Total: total, Page: page, Size: limit}, nil
}

func (s *CatalogService) searchIndex(ctx context.Context, query string, offset, limit int) ([]models.Product, int64, error) {
	total, ids, err := s.Index.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Unknown, "", err)
	}
	found, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	// keep relevance order; skip hits that are gone or unlisted since indexing
	items := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := found[id]; ok && p.Sell {
			items = append(items, p)
		}
	}
	return items, total, nil
}

func (s *CatalogService) reindex(ctx context.Context, p models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("index_product_failed", "product_id", p.ID, "error", err)
	}
}

// enrich attaches like counts and, for a signed-in viewer, the liked flag.
func (s *CatalogService) enrich(ctx context.Context, viewer *models.User, items []models.Product) ([]transport.ProductView, error) {
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	counts, err := s.Repo.LikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	var liked map[string]bool
	if viewer != nil {
		liked = make(map[string]bool, len(viewer.Likes))
		for _, id := range viewer.Likes {
			liked[id] = true
		}
	}

	views := make([]transport.ProductView, len(items))
	for i, p := range items {
		views[i] = transport.ProductView{Product: p, Likes: counts[p.ID]}
		if viewer != nil {
			v := liked[p.ID]
			views[i].Liked = &v
		}
	}
	return views, nil
}
