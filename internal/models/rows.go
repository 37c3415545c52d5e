package models

// Relational rows backing the embedded lists of User and Order.
// Position keeps list order stable across saves.

type CartItem struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"size:24;index;not null"`
	ProductID string `gorm:"size:24;not null"`
	Quantity  int    `gorm:"not null;check:quantity>0"`
	Position  int    `gorm:"not null"`
}

type UserLike struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"size:24;index;not null"`
	ProductID string `gorm:"size:24;index;not null"`
	Position  int    `gorm:"not null"`
}

type UserToken struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   string `gorm:"size:24;index;not null"`
	Token    string `gorm:"index;not null"`
	Position int    `gorm:"not null"`
}

type OrderLine struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   string `gorm:"size:24;index;not null"`
	ProductID string `gorm:"size:24;not null"`
	Quantity  int    `gorm:"not null"`
	Position  int    `gorm:"not null"`
}
