package models

import "time"

type BannerStatus int

const (
	BannerInactive  BannerStatus = 0
	BannerActive    BannerStatus = 1
	BannerScheduled BannerStatus = 2
	BannerExpired   BannerStatus = 3
)

func (s BannerStatus) Valid() bool {
	return s >= BannerInactive && s <= BannerExpired
}

type Banner struct {
	ID        int64        `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Image     string       `json:"image" db:"image"`
	Status    BannerStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// BannerDetail rattache un produit à une bannière.
type BannerDetail struct {
	ID        int64 `json:"id" db:"id"`
	BannerID  int64 `json:"banner_id" db:"banner_id"`
	ProductID int64 `json:"product_id" db:"product_id"`
}

type News struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Image     string    `json:"image" db:"image"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type NewsDetail struct {
	ID        int64 `json:"id" db:"id"`
	NewsID    int64 `json:"news_id" db:"news_id"`
	ProductID int64 `json:"product_id" db:"product_id"`
}

type Feedback struct {
	ID        int64     `json:"id" db:"id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Star      int       `json:"star" db:"star"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
