package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Categories a product may be listed under.
var Categories = []string{"漫畫", "插畫", "素材", "音樂", "3D模型", "遊戲", "公仔"}

type User struct {
	ID        string     `gorm:"primaryKey;size:24"       bson:"_id"       json:"_id"`
	Account   string     `gorm:"uniqueIndex;not null"     bson:"account"   json:"account"`
	Email     string     `gorm:"uniqueIndex;not null"     bson:"email"     json:"email"`
	Password  string     `gorm:"not null"                 bson:"password"  json:"-"`
	Name      string     `                                bson:"name"      json:"name"`
	Avatar    string     `                                bson:"avatar"    json:"avatar"`
	Role      string     `gorm:"not null;default:user"    bson:"role"      json:"role"`
	Cart      []CartLine `gorm:"-"                        bson:"cart"      json:"cart"`
	Likes     []string   `gorm:"-"                        bson:"likes"     json:"likes"`
	Tokens    []string   `gorm:"-"                        bson:"tokens"    json:"-"`
	CreatedAt time.Time  `                                bson:"createdAt" json:"createdAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// CartLine is one product in a cart or an order snapshot.
type CartLine struct {
	ProductID string `bson:"product"  json:"product"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// UserSummary is the slice of a user embedded in other responses.
type UserSummary struct {
	ID      string `bson:"_id"     json:"_id"`
	Account string `bson:"account" json:"account,omitempty"`
	Name    string `bson:"name"    json:"name,omitempty"`
	Avatar  string `bson:"avatar"  json:"avatar,omitempty"`
}

// Owner is the creator snapshot stored on a product.
type Owner struct {
	ID     string `gorm:"column:owner_id;size:24;index" bson:"_id"    json:"_id"`
	Name   string `gorm:"column:owner_name"             bson:"name"   json:"name"`
	Avatar string `gorm:"column:owner_avatar"           bson:"avatar" json:"avatar"`
}

type Product struct {
	ID          string    `gorm:"primaryKey;size:24" bson:"_id"         json:"_id"`
	User        Owner     `gorm:"embedded"           bson:"user"        json:"user"`
	Name        string    `gorm:"not null"           bson:"name"        json:"name"`
	Price       float64   `gorm:"not null"           bson:"price"       json:"price"`
	Image       string    `gorm:"not null"           bson:"image"       json:"image"`
	Description string    `gorm:"not null"           bson:"description" json:"description"`
	Category    string    `gorm:"not null;index"     bson:"category"    json:"category"`
	Sell        bool      `gorm:"not null;index"     bson:"sell"        json:"sell"`
	CreatedAt   time.Time `                          bson:"createdAt"   json:"createdAt"`
}

type Order struct {
	ID        string     `gorm:"primaryKey;size:24"     bson:"_id"       json:"_id"`
	UserID    string     `gorm:"size:24;index;not null" bson:"user"      json:"user"`
	Cart      []CartLine `gorm:"-"                      bson:"cart"      json:"cart"`
	Address   string     `gorm:"not null"               bson:"address"   json:"address"`
	CreatedAt time.Time  `                              bson:"createdAt" json:"createdAt"`
}
