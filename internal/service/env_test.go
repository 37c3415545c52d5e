package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/artshop/internal/events"
	"github.com/Skotchmaster/artshop/internal/images"
	"github.com/Skotchmaster/artshop/internal/models"
	"github.com/Skotchmaster/artshop/internal/repo"
	"github.com/Skotchmaster/artshop/internal/repo/repotest"
	"github.com/Skotchmaster/artshop/internal/transport"
	"github.com/Skotchmaster/artshop/internal/validation"
)

type testEnv struct {
	repo    *repo.GormRepo
	events  *events.Recorder
	tokens  *TokenService
	users   *UserService
	catalog *CatalogService
	cart    *CartService
	orders  *OrderService
	likes   *LikesService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := repotest.NewSQLite(t)
	v := validation.New()
	rec := &events.Recorder{}
	store := &images.LocalStore{Dir: t.TempDir(), BaseURL: "/uploads"}

	tokens := &TokenService{Repo: r, Secret: []byte("test-jwt-secret"), TTL: time.Hour}
	catalog := &CatalogService{Repo: r, Validator: v, Images: store, MaxUpload: 1 << 20, Events: rec}

	return &testEnv{
		repo:    r,
		events:  rec,
		tokens:  tokens,
		users:   &UserService{Repo: r, Tokens: tokens, Validator: v, Images: store, MaxUpload: 1 << 20, Events: rec},
		catalog: catalog,
		cart:    &CartService{Repo: r, Validator: v, Events: rec},
		orders:  &OrderService{Repo: r, Validator: v, Events: rec},
		likes:   &LikesService{Repo: r, Catalog: catalog, Events: rec},
	}
}

func (e *testEnv) register(t *testing.T, account string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), transport.RegisterRequest{
		Account:  account,
		Password: "secret1",
		Email:    account + "@example.com",
	})
	require.NoError(t, err)
	return u
}

// reload mimics the auth guard handing a fresh user to each request.
func (e *testEnv) reload(t *testing.T, u *models.User) *models.User {
	t.Helper()
	got, err := e.repo.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	return got
}

func pngUpload() *images.Upload {
	return &images.Upload{Filename: "a.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}
}

func (e *testEnv) product(t *testing.T, owner *models.User, name, category string, sell bool) *models.Product {
	t.Helper()
	price := 100.0
	p, err := e.catalog.Create(context.Background(), owner, transport.CreateProductRequest{
		Name:        name,
		Price:       &price,
		Description: name + " description",
		Category:    category,
		Sell:        sell,
	}, pngUpload())
	require.NoError(t, err)
	return p
}
