package repo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/internal/models"
)

const (
	usersCollection    = "users"
	productsCollection = "products"
	ordersCollection   = "orders"
)

// MongoRepo stores users with cart, likes and tokens embedded, matching the
// document layout the API was first built on.
type MongoRepo struct {
	DB *mongo.Database
}

var _ Repo = (*MongoRepo)(nil)

func (r *MongoRepo) users() *mongo.Collection    { return r.DB.Collection(usersCollection) }
func (r *MongoRepo) products() *mongo.Collection { return r.DB.Collection(productsCollection) }
func (r *MongoRepo) orders() *mongo.Collection   { return r.DB.Collection(ordersCollection) }

func (r *MongoRepo) Migrate(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		r.users(): {
			{Keys: bson.D{{Key: "account", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "tokens", Value: 1}}},
			{Keys: bson.D{{Key: "likes", Value: 1}}},
		},
		r.products(): {
			{Keys: bson.D{{Key: "user._id", Value: 1}}},
			{Keys: bson.D{{Key: "sell", Value: 1}, {Key: "category", Value: 1}}},
		},
		r.orders(): {
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
	}
	for coll, idx := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.DB.Client().Ping(ctx, readpref.Primary())
}

func mongoErr(op, what string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return notFound(what, err)
	case mongo.IsDuplicateKeyError(err):
		return apperr.Wrap(apperr.DuplicateKey, "", err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// duplicateUserField names the unique user index a write collided with.
func duplicateUserField(err error) string {
	if strings.Contains(err.Error(), "email_1") {
		return "email"
	}
	return "account"
}

func normalizeUser(u *models.User) {
	if u.Cart == nil {
		u.Cart = []models.CartLine{}
	}
	if u.Likes == nil {
		u.Likes = []string{}
	}
	if u.Tokens == nil {
		u.Tokens = []string{}
	}
}

func (r *MongoRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = models.NewID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	normalizeUser(u)

	if _, err := r.users().InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Wrap(apperr.DuplicateKey, duplicateUserField(err)+" already registered", err)
		}
		return mongoErr("create user", "user", err)
	}
	return nil
}

func (r *MongoRepo) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.users().FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, mongoErr("find user", "user", err)
	}
	normalizeUser(&u)
	return &u, nil
}

func (r *MongoRepo) UserByID(ctx context.Context, id string) (*models.User, error) {
	return r.findUser(ctx, bson.M{"_id": id})
}

func (r *MongoRepo) UserByAccount(ctx context.Context, account string) (*models.User, error) {
	return r.findUser(ctx, bson.M{"account": account})
}

func (r *MongoRepo) UserByIDAndToken(ctx context.Context, id, token string) (*models.User, error) {
	return r.findUser(ctx, bson.M{"_id": id, "tokens": token})
}

func (r *MongoRepo) SaveUser(ctx context.Context, u *models.User) error {
	normalizeUser(u)
	res, err := r.users().ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return mongoErr("save user", "user", err)
	}
	if res.MatchedCount == 0 {
		return notFound("user", nil)
	}
	return nil
}

func (r *MongoRepo) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) error {
	res, err := r.users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":   p.Name,
		"email":  p.Email,
		"avatar": p.Avatar,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Wrap(apperr.DuplicateKey, "email already registered", err)
		}
		return mongoErr("update profile", "user", err)
	}
	if res.MatchedCount == 0 {
		return notFound("user", nil)
	}
	return nil
}

func (r *MongoRepo) UserSummaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	out := make(map[string]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{"account": 1, "name": 1, "avatar": 1})
	cur, err := r.users().Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, mongoErr("user summaries", "user", err)
	}
	var rows []models.UserSummary
	if err := cur.All(ctx, &rows); err != nil {
		return nil, mongoErr("user summaries", "user", err)
	}
	for _, s := range rows {
		out[s.ID] = s
	}
	return out, nil
}

func (r *MongoRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = models.NewID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if _, err := r.products().InsertOne(ctx, p); err != nil {
		return mongoErr("create product", "product", err)
	}
	return nil
}

func (r *MongoRepo) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.products().FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mongoErr("get product", "product", err)
	}
	return &p, nil
}

func (r *MongoRepo) findProducts(ctx context.Context, filter any, opts ...*options.FindOptions) ([]models.Product, error) {
	cur, err := r.products().Find(ctx, filter, opts...)
	if err != nil {
		return nil, mongoErr("find products", "product", err)
	}
	items := []models.Product{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, mongoErr("decode products", "product", err)
	}
	return items, nil
}

func (r *MongoRepo) ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	items, err := r.findProducts(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, p := range items {
		out[p.ID] = p
	}
	return out, nil
}

func (r *MongoRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	filter := bson.M{}
	if f.SellOnly {
		filter["sell"] = true
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.findProducts(ctx, filter, opts)
}

func (r *MongoRepo) SearchProducts(ctx context.Context, sq SearchQuery) ([]models.Product, int64, error) {
	filter := bson.M{}
	if sq.OwnerID != "" {
		filter["user._id"] = sq.OwnerID
	}
	if sq.SellOnly {
		filter["sell"] = true
	}
	if sq.Text != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(sq.Text), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"category": re},
		}
	}

	total, err := r.products().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, mongoErr("count products", "product", err)
	}

	sf := sortFor(sq.SortBy)
	dir := 1
	if sq.Desc {
		dir = -1
	}
	sort := bson.D{{Key: sf.bson, Value: dir}}
	if sf.bson != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	opts := options.Find().SetSort(sort)
	if sq.Limit > 0 {
		opts.SetSkip(int64(sq.Offset)).SetLimit(int64(sq.Limit))
	}

	items, err := r.findProducts(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MongoRepo) CountProducts(ctx context.Context) (int64, error) {
	n, err := r.products().EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, mongoErr("count products", "product", err)
	}
	return n, nil
}

func (r *MongoRepo) RandomProducts(ctx context.Context, n int) ([]models.Product, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "sell", Value: true}}}},
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: n}}}},
	}
	cur, err := r.products().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mongoErr("random products", "product", err)
	}
	items := []models.Product{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, mongoErr("random products", "product", err)
	}
	return items, nil
}

func (r *MongoRepo) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*models.Product, error) {
	if patch.Empty() {
		return r.ProductByID(ctx, id)
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Sell != nil {
		set["sell"] = *patch.Sell
	}

	var p models.Product
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.products().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p); err != nil {
		return nil, mongoErr("patch product", "product", err)
	}
	return &p, nil
}

func (r *MongoRepo) LikeCounts(ctx context.Context, productIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	in := bson.D{{Key: "likes", Value: bson.D{{Key: "$in", Value: productIDs}}}}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: in}},
		{{Key: "$unwind", Value: "$likes"}},
		{{Key: "$match", Value: in}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$likes"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.users().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mongoErr("like counts", "product", err)
	}
	var rows []struct {
		ProductID string `bson:"_id"`
		Count     int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, mongoErr("like counts", "product", err)
	}
	for _, row := range rows {
		out[row.ProductID] = row.Count
	}
	return out, nil
}

func (r *MongoRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = models.NewID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if o.Cart == nil {
		o.Cart = []models.CartLine{}
	}
	if _, err := r.orders().InsertOne(ctx, o); err != nil {
		return mongoErr("create order", "order", err)
	}
	return nil
}

func (r *MongoRepo) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.orders().Find(ctx, filter, opts)
	if err != nil {
		return nil, mongoErr("list orders", "order", err)
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, mongoErr("list orders", "order", err)
	}
	return orders, nil
}

func (r *MongoRepo) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.findOrders(ctx, bson.M{"user": userID})
}

func (r *MongoRepo) AllOrders(ctx context.Context) ([]models.Order, error) {
	return r.findOrders(ctx, bson.M{})
}
