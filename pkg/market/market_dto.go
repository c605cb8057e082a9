package market

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ==========================================
// DTO: 服务端返回的原始 JSON 结构
// 字段可能缺失，调用方不能假设嵌套对象存在
// ==========================================

// ListingDTO 广告
// GET /listings/{id}
type ListingDTO struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       Amount         `json:"price"`
	Currency    string         `json:"currency"`
	Category    *CategoryDTO   `json:"category,omitempty"`
	City        *CityDTO       `json:"city,omitempty"`
	Pictures    []PictureDTO   `json:"pictures"`
	FieldValues map[string]any `json:"field_values"`
	ViewsCount  int64          `json:"views_count"`
	LikesCount  int64          `json:"likes_count"`
	CreatedAt   *time.Time     `json:"created_at"`
	ArchivedAt  *time.Time     `json:"archived_at"`
	ReviewedAt  *time.Time     `json:"reviewed_at"`
	UserID      int64          `json:"user_id"`
	IsFavorite  bool           `json:"is_favorite"` // 详情接口按当前用户填充
}

// CategoryDTO 分类，parent 为上级分类 (自引用链)
type CategoryDTO struct {
	ID     int64        `json:"id"`
	Name   string       `json:"name"`
	Parent *CategoryDTO `json:"parent,omitempty"`
}

// CityDTO 城市，坐标可选
type CityDTO struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// PictureDTO 一张图片的多个尺寸
type PictureDTO struct {
	ID       int64  `json:"id,omitempty"`
	Large    string `json:"large,omitempty"`
	Medium   string `json:"medium,omitempty"`
	Small    string `json:"small,omitempty"`
	Original string `json:"original,omitempty"`
}

// FavoriteDTO 收藏记录，只持有 listing_id，广告本体需另行拉取
// GET /favorites
type FavoriteDTO struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	ListingID int64      `json:"listing_id"`
	CreatedAt *time.Time `json:"created_at"`
}

// UserStatsDTO 用户广告统计快照，每次实时计算
// GET /users/{id}/stats
type UserStatsDTO struct {
	Published  int64 `json:"published"`
	Pending    int64 `json:"pending"`
	Archived   int64 `json:"archived"`
	Visits     int64 `json:"visits"`
	Favourites int64 `json:"favourites"`
}

// ==================== 分页信封 ====================

// PageMeta 分页信息
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// Page 分页响应信封
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// HasMore 是否还有下一页
func (p *Page[T]) HasMore() bool {
	return p.Meta.CurrentPage < p.Meta.LastPage
}

// ==================== 请求体 ====================

// FavoriteReq 添加收藏
// POST /favorites
type FavoriteReq struct {
	ListingID int64 `json:"listing_id"`
}

// ReportReq 举报广告
// POST /listings/{id}/reports
type ReportReq struct {
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
}

// ==================== 金额 ====================

// Amount 价格，兼容数字与字符串两种写法 ("1234.50" / 1234.5 / null)
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		// 无法识别的价格按 0 处理，不让整条记录解析失败
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(a))
}

// Float64 返回原始数值
func (a Amount) Float64() float64 {
	return float64(a)
}
