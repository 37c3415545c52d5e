package repo_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/internal/models"
	"github.com/Skotchmaster/artshop/internal/repo"
	"github.com/Skotchmaster/artshop/pkg/db"
)

func newMongoRepo(t *testing.T) *repo.MongoRepo {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI is required for tests")
	}

	ctx := context.Background()
	client, database, err := db.OpenMongo(ctx, uri, "artshop_test_"+uuid.NewString()[:8])
	require.NoError(t, err)

	r := &repo.MongoRepo{DB: database}
	require.NoError(t, r.Migrate(ctx))

	t.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = db.CloseMongo(client)
	})
	return r
}

func TestMongoRepo_UserLifecycle(t *testing.T) {
	r := newMongoRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice")
	err := r.CreateUser(ctx, &models.User{Account: "alice", Email: "x@example.com", Password: "x"})
	require.ErrorIs(t, err, apperr.ErrDuplicateKey)
	assert.Equal(t, "account already registered", apperr.From(err).Message)

	err = r.CreateUser(ctx, &models.User{Account: "email1", Email: "alice@example.com", Password: "x"})
	require.ErrorIs(t, err, apperr.ErrDuplicateKey)
	assert.Equal(t, "email already registered", apperr.From(err).Message)

	u.Tokens = []string{"tok-a", "tok-b"}
	u.Likes = []string{"p1"}
	u.Cart = []models.CartLine{{ProductID: "p1", Quantity: 2}}
	require.NoError(t, r.SaveUser(ctx, u))

	got, err := r.UserByIDAndToken(ctx, u.ID, "tok-b")
	require.NoError(t, err)
	assert.Equal(t, u.Cart, got.Cart)

	_, err = r.UserByIDAndToken(ctx, u.ID, "tok-c")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	counts, err := r.LikeCounts(ctx, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts["p1"])
	assert.EqualValues(t, 0, counts["p2"])
}

func TestMongoRepo_SearchAndPatch(t *testing.T) {
	r := newMongoRepo(t)
	ctx := context.Background()
	owner := seedUser(t, r, "bob")
	seedProduct(t, r, owner, "Blue Dragon", "插畫", 30, true)
	seedProduct(t, r, owner, "a.b (c)", "素材", 10, true)
	p := seedProduct(t, r, owner, "mug", "公仔", 12, false)

	items, total, err := r.SearchProducts(ctx, repo.SearchQuery{OwnerID: owner.ID, Text: "(c)"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "a.b (c)", items[0].Name)

	random, err := r.RandomProducts(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, random, 2)

	sell := true
	got, err := r.UpdateProduct(ctx, p.ID, repo.ProductPatch{Sell: &sell})
	require.NoError(t, err)
	assert.True(t, got.Sell)
	assert.Equal(t, "mug", got.Name)
}
