package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/artshop/internal/models"
)

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = models.NewID()
	}
	if err := r.DB.WithContext(ctx).Create(p).Error; err != nil {
		return gormErr("create product", "product", err)
	}
	return nil
}

func (r *GormRepo) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, gormErr("get product", "product", err)
	}
	return &p, nil
}

func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, gormErr("get products", "product", err)
	}
	for _, p := range items {
		out[p.ID] = p
	}
	return out, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if f.SellOnly {
		q = q.Where("sell = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	items := []models.Product{}
	if err := q.Order("created_at ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, gormErr("list products", "product", err)
	}
	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func (r *GormRepo) SearchProducts(ctx context.Context, sq SearchQuery) ([]models.Product, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if sq.OwnerID != "" {
		q = q.Where("owner_id = ?", sq.OwnerID)
	}
	if sq.SellOnly {
		q = q.Where("sell = ?", true)
	}
	if sq.Text != "" {
		pat := likePattern(sq.Text)
		q = q.Where(
			`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\')`,
			pat, pat, pat,
		)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, gormErr("count products", "product", err)
	}

	sf := sortFor(sq.SortBy)
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: sf.column}, Desc: sq.Desc})
	if sf.column != "id" {
		q = q.Order("id ASC")
	}
	if sq.Limit > 0 {
		q = q.Offset(sq.Offset).Limit(sq.Limit)
	}

	items := []models.Product{}
	if err := q.Find(&items).Error; err != nil {
		return nil, 0, gormErr("search products", "product", err)
	}
	return items, total, nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, gormErr("count products", "product", err)
	}
	return total, nil
}

func (r *GormRepo) RandomProducts(ctx context.Context, n int) ([]models.Product, error) {
	items := []models.Product{}
	if err := r.DB.WithContext(ctx).
		Where("sell = ?", true).
		Order("RANDOM()").
		Limit(n).
		Find(&items).Error; err != nil {
		return nil, gormErr("random products", "product", err)
	}
	return items, nil
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&prod).Error; err != nil {
			return gormErr("patch product", "product", err)
		}

		applyPatch(&prod, patch)

		if err := tx.Save(&prod).Error; err != nil {
			return gormErr("patch product", "product", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

func applyPatch(p *models.Product, patch ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Sell != nil {
		p.Sell = *patch.Sell
	}
}

func (r *GormRepo) LikeCounts(ctx context.Context, productIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		ProductID string
		Count     int64
	}
	if err := r.DB.WithContext(ctx).
		Model(&models.UserLike{}).
		Select("product_id, COUNT(*) AS count").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return nil, gormErr("like counts", "product", err)
	}
	for _, row := range rows {
		out[row.ProductID] = row.Count
	}
	return out, nil
}
