package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/artshop/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = models.NewID()
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return gormErr("create order", "order", err)
		}
		if len(o.Cart) == 0 {
			return nil
		}

		lines := make([]models.OrderLine, len(o.Cart))
		for i, l := range o.Cart {
			lines[i] = models.OrderLine{OrderID: o.ID, ProductID: l.ProductID, Quantity: l.Quantity, Position: i}
		}
		if err := tx.Create(&lines).Error; err != nil {
			return gormErr("create order lines", "order", err)
		}
		return nil
	})
}

func (r *GormRepo) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.findOrders(ctx, r.DB.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *GormRepo) AllOrders(ctx context.Context) ([]models.Order, error) {
	return r.findOrders(ctx, r.DB.WithContext(ctx))
}

func (r *GormRepo) findOrders(ctx context.Context, q *gorm.DB) ([]models.Order, error) {
	orders := []models.Order{}
	if err := q.Order("created_at ASC").Order("id ASC").Find(&orders).Error; err != nil {
		return nil, gormErr("list orders", "order", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	var lines []models.OrderLine
	if err := r.DB.WithContext(ctx).
		Where("order_id IN ?", ids).
		Order("order_id").Order("position").
		Find(&lines).Error; err != nil {
		return nil, gormErr("list order lines", "order", err)
	}

	byOrder := make(map[string][]models.CartLine, len(orders))
	for _, l := range lines {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], models.CartLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	for i := range orders {
		orders[i].Cart = byOrder[orders[i].ID]
		if orders[i].Cart == nil {
			orders[i].Cart = []models.CartLine{}
		}
	}
	return orders, nil
}
