package model

import "time"

// Favorite 收藏，同一用户对同一广告只有一条
type Favorite struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int64     `gorm:"uniqueIndex:idx_favorite_user_listing;not null" json:"user_id"`
	ListingID int64     `gorm:"uniqueIndex:idx_favorite_user_listing;index;not null" json:"listing_id"`
}

func (Favorite) TableName() string { return "favorites" }

// Report 举报
type Report struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ListingID int64     `gorm:"index;not null" json:"listing_id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	Reason    string    `gorm:"size:64;not null" json:"reason"`
	Message   string    `gorm:"type:text" json:"message"`
}

func (Report) TableName() string { return "listing_reports" }
