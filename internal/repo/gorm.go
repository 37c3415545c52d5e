package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

var _ Repo = (*GormRepo)(nil)

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.CartItem{},
		&models.UserLike{},
		&models.UserToken{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
	)
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func notFound(what string, err error) error {
	return apperr.Wrap(apperr.NotFound, what+" not found", err)
}

func gormErr(op, what string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(what, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.DuplicateKey, "", err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
