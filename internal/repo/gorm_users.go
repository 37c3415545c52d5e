package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = models.NewID()
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, f := range []struct{ column, value string }{
			{"account", u.Account},
			{"email", u.Email},
		} {
			var count int64
			if err := tx.Model(&models.User{}).
				Where(f.column+" = ?", f.value).
				Count(&count).Error; err != nil {
				return gormErr("create user", "user", err)
			}
			if count > 0 {
				return apperr.New(apperr.DuplicateKey, f.column+" already registered")
			}
		}

		if err := tx.Create(u).Error; err != nil {
			return gormErr("create user", "user", err)
		}
		return saveUserLists(tx, u)
	})
}

func (r *GormRepo) UserByID(ctx context.Context, id string) (*models.User, error) {
	return r.findUser(ctx, r.DB.WithContext(ctx).Where("id = ?", id))
}

func (r *GormRepo) UserByAccount(ctx context.Context, account string) (*models.User, error) {
	return r.findUser(ctx, r.DB.WithContext(ctx).Where("account = ?", account))
}

func (r *GormRepo) UserByIDAndToken(ctx context.Context, id, token string) (*models.User, error) {
	withToken := r.DB.WithContext(ctx).Model(&models.UserToken{}).Select("user_id").Where("token = ?", token)
	return r.findUser(ctx, r.DB.WithContext(ctx).Where("id = ? AND id IN (?)", id, withToken))
}

func (r *GormRepo) findUser(ctx context.Context, q *gorm.DB) (*models.User, error) {
	var u models.User
	if err := q.First(&u).Error; err != nil {
		return nil, gormErr("find user", "user", err)
	}
	if err := loadUserLists(r.DB.WithContext(ctx), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", u.ID).
			Select("account", "email", "password", "name", "avatar", "role").
			Updates(u)
		if res.Error != nil {
			return gormErr("save user", "user", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("user", nil)
		}
		return saveUserLists(tx, u)
	})
}

func (r *GormRepo) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ? AND id <> ?", p.Email, id).
			Count(&count).Error; err != nil {
			return gormErr("update profile", "user", err)
		}
		if count > 0 {
			return apperr.New(apperr.DuplicateKey, "email already registered")
		}

		res := tx.Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
			"name":   p.Name,
			"email":  p.Email,
			"avatar": p.Avatar,
		})
		if res.Error != nil {
			return gormErr("update profile", "user", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("user", nil)
		}
		return nil
	})
}

func (r *GormRepo) UserSummaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	out := make(map[string]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	if err := r.DB.WithContext(ctx).
		Select("id", "account", "name", "avatar").
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, gormErr("user summaries", "user", err)
	}
	for _, u := range users {
		out[u.ID] = models.UserSummary{ID: u.ID, Account: u.Account, Name: u.Name, Avatar: u.Avatar}
	}
	return out, nil
}

func loadUserLists(db *gorm.DB, u *models.User) error {
	var items []models.CartItem
	if err := db.Where("user_id = ?", u.ID).Order("position").Find(&items).Error; err != nil {
		return gormErr("load cart", "user", err)
	}
	u.Cart = make([]models.CartLine, 0, len(items))
	for _, it := range items {
		u.Cart = append(u.Cart, models.CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	var likes []models.UserLike
	if err := db.Where("user_id = ?", u.ID).Order("position").Find(&likes).Error; err != nil {
		return gormErr("load likes", "user", err)
	}
	u.Likes = make([]string, 0, len(likes))
	for _, l := range likes {
		u.Likes = append(u.Likes, l.ProductID)
	}

	var tokens []models.UserToken
	if err := db.Where("user_id = ?", u.ID).Order("position").Find(&tokens).Error; err != nil {
		return gormErr("load tokens", "user", err)
	}
	u.Tokens = make([]string, 0, len(tokens))
	for _, t := range tokens {
		u.Tokens = append(u.Tokens, t.Token)
	}
	return nil
}

// saveUserLists rewrites the child rows so they mirror u exactly.
func saveUserLists(tx *gorm.DB, u *models.User) error {
	for _, m := range []any{&models.CartItem{}, &models.UserLike{}, &models.UserToken{}} {
		if err := tx.Where("user_id = ?", u.ID).Delete(m).Error; err != nil {
			return gormErr("clear user lists", "user", err)
		}
	}

	if len(u.Cart) > 0 {
		items := make([]models.CartItem, len(u.Cart))
		for i, l := range u.Cart {
			items[i] = models.CartItem{UserID: u.ID, ProductID: l.ProductID, Quantity: l.Quantity, Position: i}
		}
		if err := tx.Create(&items).Error; err != nil {
			return gormErr("save cart", "user", err)
		}
	}

	if len(u.Likes) > 0 {
		likes := make([]models.UserLike, len(u.Likes))
		for i, pid := range u.Likes {
			likes[i] = models.UserLike{UserID: u.ID, ProductID: pid, Position: i}
		}
		if err := tx.Create(&likes).Error; err != nil {
			return gormErr("save likes", "user", err)
		}
	}

	if len(u.Tokens) > 0 {
		tokens := make([]models.UserToken, len(u.Tokens))
		for i, t := range u.Tokens {
			tokens[i] = models.UserToken{UserID: u.ID, Token: t, Position: i}
		}
		if err := tx.Create(&tokens).Error; err != nil {
			return gormErr("save tokens", "user", err)
		}
	}
	return nil
}
