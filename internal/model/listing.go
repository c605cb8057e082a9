package model

import (
	"time"

	"gorm.io/datatypes"
)

// ListingState 广告所处集合，由 reviewed_at / archived_at 推导
type ListingState string

const (
	ListingStatePending   ListingState = "pending"
	ListingStatePublished ListingState = "published"
	ListingStateArchived  ListingState = "archived"
)

// Listing 分类广告
//   - 待审核: reviewed_at IS NULL AND archived_at IS NULL
//   - 已发布: reviewed_at IS NOT NULL AND archived_at IS NULL
//   - 已归档: archived_at IS NOT NULL
//
// 归档不清除 reviewed_at，恢复后回到原集合
type Listing struct {
	BaseModel

	UserID     int64     `gorm:"index;not null" json:"user_id"`
	CategoryID int64     `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CityID     *int64    `gorm:"index" json:"city_id"`
	City       *City     `gorm:"foreignKey:CityID" json:"city,omitempty"`

	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `gorm:"size:3" json:"currency"`

	// 分类相关的动态字段 (里程/排量/features ...)
	FieldValues datatypes.JSON `json:"field_values"`

	ViewsCount int64 `gorm:"default:0" json:"views_count"`
	LikesCount int64 `gorm:"default:0" json:"likes_count"`

	ReviewedAt *time.Time `gorm:"index" json:"reviewed_at"`
	ArchivedAt *time.Time `gorm:"index" json:"archived_at"`

	Pictures []Picture `gorm:"foreignKey:ListingID" json:"pictures,omitempty"`
}

func (Listing) TableName() string { return "listings" }

func (l *Listing) State() ListingState {
	switch {
	case l.ArchivedAt != nil:
		return ListingStateArchived
	case l.ReviewedAt != nil:
		return ListingStatePublished
	default:
		return ListingStatePending
	}
}

// Picture 图片的各尺寸地址
type Picture struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	ListingID int64  `gorm:"index;not null" json:"listing_id"`
	Position  int    `json:"position"`
	Large     string `gorm:"size:512" json:"large"`
	Medium    string `gorm:"size:512" json:"medium"`
	Small     string `gorm:"size:512" json:"small"`
	Original  string `gorm:"size:512" json:"original"`
}

func (Picture) TableName() string { return "listing_pictures" }
