package transport

import (
	"time"

	"github.com/Skotchmaster/artshop/internal/models"
)

type RegisterRequest struct {
	Account  string `json:"account"  validate:"required,alphanum,min=4,max=20"`
	Password string `json:"password" validate:"required,min=4,max=20"`
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Account  string `json:"account"  validate:"required"`
	Password string `json:"password" validate:"required"`
}

type EditProfileRequest struct {
	Name  string `form:"name"  validate:"omitempty,max=20"`
	Email string `form:"email" validate:"required,email"`
}

type CartRequest struct {
	Product  string `json:"product"  validate:"required"`
	Quantity int    `json:"quantity"`
}

type LikeRequest struct {
	Likes bool `json:"likes"`
}

type CreateProductRequest struct {
	Name        string   `form:"name"        validate:"required,max=100"`
	Price       *float64 `form:"price"       validate:"required,gte=0,lte=100000000"`
	Description string   `form:"description" validate:"required,max=2000"`
	Category    string   `form:"category"    validate:"required,oneof=漫畫 插畫 素材 音樂 3D模型 遊戲 公仔"`
	Sell        bool     `form:"sell"`
}

type PatchProductRequest struct {
	Name        *string  `form:"name"        validate:"omitempty,min=1,max=100"`
	Price       *float64 `form:"price"       validate:"omitempty,gte=0,lte=100000000"`
	Description *string  `form:"description" validate:"omitempty,min=1,max=2000"`
	Category    *string  `form:"category"    validate:"omitempty,oneof=漫畫 插畫 素材 音樂 3D模型 遊戲 公仔"`
	Sell        *bool    `form:"sell"`
}

type CreateOrderRequest struct {
	Address string `json:"address" validate:"required,max=200"`
}

// ProductView is a product with its like count and, for signed-in callers,
// whether they like it.
type ProductView struct {
	models.Product
	Likes int64 `json:"likes"`
	Liked *bool `json:"liked,omitempty"`
}

type CatalogPage struct {
	Data  []ProductView `json:"data"`
	Count int64         `json:"count"`
}

type SearchPage struct {
	Data  []ProductView `json:"data"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
}

type CartLineView struct {
	Product  *models.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

type OrderView struct {
	ID        string         `json:"_id"`
	User      any            `json:"user"`
	Cart      []CartLineView `json:"cart"`
	Address   string         `json:"address"`
	CreatedAt time.Time      `json:"createdAt"`
}

type Profile struct {
	Account string `json:"account"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
	Cart    int    `json:"cart"`
	Likes   int    `json:"likes"`
}

type LoginResult struct {
	Token string `json:"token"`
	Profile
}
