// Package repo persists users, products and orders. GormRepo and MongoRepo
// implement the same Repo contract; services only see the interface.
package repo

import (
	"context"

	"github.com/Skotchmaster/artshop/internal/models"
)

type Repo interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByAccount(ctx context.Context, account string) (*models.User, error)
	// UserByIDAndToken finds the user only while token is in their list.
	UserByIDAndToken(ctx context.Context, id, token string) (*models.User, error)
	// SaveUser replaces the stored user, including cart, likes and tokens.
	SaveUser(ctx context.Context, u *models.User) error
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) error
	UserSummaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error)

	CreateProduct(ctx context.Context, p *models.Product) error
	ProductByID(ctx context.Context, id string) (*models.Product, error)
	ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error)
	ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error)
	// SearchProducts returns one page and the number of matching products.
	SearchProducts(ctx context.Context, q SearchQuery) ([]models.Product, int64, error)
	// CountProducts counts the whole collection.
	CountProducts(ctx context.Context) (int64, error)
	RandomProducts(ctx context.Context, n int) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*models.Product, error)
	// LikeCounts returns how many users like each product. Missing keys mean zero.
	LikeCounts(ctx context.Context, productIDs []string) (map[string]int64, error)

	CreateOrder(ctx context.Context, o *models.Order) error
	OrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	AllOrders(ctx context.Context) ([]models.Order, error)
}

type ProfileUpdate struct {
	Name   string
	Email  string
	Avatar string
}

type ProductFilter struct {
	SellOnly bool
	Category string
}

type SearchQuery struct {
	OwnerID  string
	SellOnly bool
	// Text is matched case-insensitively as a substring of name,
	// description or category.
	Text   string
	SortBy string
	Desc   bool
	Offset int
	// Limit <= 0 means no limit.
	Limit int
}

type ProductPatch struct {
	Name        *string
	Price       *float64
	Image       *string
	Description *string
	Category    *string
	Sell        *bool
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Image == nil &&
		p.Description == nil && p.Category == nil && p.Sell == nil
}

type sortField struct {
	column string
	bson   string
}

var sortFields = map[string]sortField{
	"name":        {column: "name", bson: "name"},
	"price":       {column: "price", bson: "price"},
	"category":    {column: "category", bson: "category"},
	"description": {column: "description", bson: "description"},
	"sell":        {column: "sell", bson: "sell"},
	"createdAt":   {column: "created_at", bson: "createdAt"},
	"_id":         {column: "id", bson: "_id"},
}

// sortFor falls back to creation order for unknown keys.
func sortFor(key string) sortField {
	if f, ok := sortFields[key]; ok {
		return f
	}
	return sortFields["createdAt"]
}
