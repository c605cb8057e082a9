package view

import (
	"time"

	"classifieds_app_v1_202610/pkg/market"
	"classifieds_app_v1_202610/pkg/utils"
)

// ListingView 页面直接展示的广告数据，所有字段已格式化
type ListingView struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Price        string       `json:"price"`
	PriceAmount  float64      `json:"price_amount"`
	CurrencyCode string       `json:"currency_code"`
	CategoryPath string       `json:"category_path"`
	CityName     string       `json:"city_name"`
	Latitude     *float64     `json:"latitude,omitempty"`
	Longitude    *float64     `json:"longitude,omitempty"`
	ImageURL     string       `json:"image_url,omitempty"`
	HasImage     bool         `json:"has_image"`
	ImageURLs    []string     `json:"image_urls"`
	Specs        []utils.Spec `json:"specs"`
	Features     []string     `json:"features"`
	Views        int64        `json:"views"`
	Likes        int64        `json:"likes"`
	CreatedAt    *time.Time   `json:"created_at,omitempty"`
	ArchivedAt   *time.Time   `json:"archived_at,omitempty"`
	ReviewedAt   *time.Time   `json:"reviewed_at,omitempty"`
	OwnerID      int64        `json:"owner_id"`
	Saved        bool         `json:"saved"`
}

// HasCoordinates 地图入口是否可用
func (v *ListingView) HasCoordinates() bool {
	return v.Latitude != nil && v.Longitude != nil
}

// ListingPage 一页广告
type ListingPage struct {
	Items []ListingView   `json:"items"`
	Meta  market.PageMeta `json:"meta"`
}

// FavoriteItem 收藏 + 广告详情
type FavoriteItem struct {
	FavoriteID int64       `json:"favorite_id"`
	SavedAt    *time.Time  `json:"saved_at,omitempty"`
	Listing    ListingView `json:"listing"`
}

// FavoritesPage 一页收藏，引用失效的条目已剔除
type FavoritesPage struct {
	Items   []FavoriteItem  `json:"items"`
	Meta    market.PageMeta `json:"meta"`
	Dropped int             `json:"dropped"`
}

// UserStats 用户统计
type UserStats struct {
	Published  int64 `json:"published"`
	Pending    int64 `json:"pending"`
	Archived   int64 `json:"archived"`
	Visits     int64 `json:"visits"`
	Favourites int64 `json:"favourites"`
}

// AdsOverview "我的广告" 页
// 三个集合各自来自独立请求，状态以集合为准，不从字段推算
type AdsOverview struct {
	Published []ListingView `json:"published"`
	Pending   []ListingView `json:"pending"`
	Archived  []ListingView `json:"archived"`
	Stats     UserStats     `json:"stats"`
}

// ListingDetail 详情页：广告 + 相似推荐
type ListingDetail struct {
	Listing ListingView   `json:"listing"`
	Similar []ListingView `json:"similar"`
}

// Dashboard 个人主页：我的广告 + 收藏首页
type Dashboard struct {
	Ads       AdsOverview   `json:"ads"`
	Favorites FavoritesPage `json:"favorites"`
}
