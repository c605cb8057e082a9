package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"classifieds_app_v1_202610/internal/model"
	"classifieds_app_v1_202610/pkg/market"

	"github.com/gin-gonic/gin"
)

// ==================== 响应 ====================

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"code":    status,
		"message": msg,
	})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

// respondPage 分页信封 {"data": [...], "meta": {...}}
func respondPage(c *gin.Context, data interface{}, page, perPage int, total int64) {
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"meta": pageMeta(page, perPage, total),
	})
}

func pageMeta(page, perPage int, total int64) market.PageMeta {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	return market.PageMeta{
		CurrentPage: page,
		LastPage:    last,
		PerPage:     perPage,
		Total:       total,
	}
}

// ==================== 参数解析 ====================

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid id.")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func queryInt64(c *gin.Context, key string) int64 {
	v, _ := strconv.ParseInt(c.Query(key), 10, 64)
	return v
}

// queryBool "1"/"true" 为真，"0"/"false" 为假，缺省为 nil
func queryBool(c *gin.Context, key string) *bool {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

func paging(c *gin.Context) (int, int) {
	perPage := queryInt(c, "per_page", defaultPerPage)
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return queryInt(c, "page", 1), perPage
}

// ==================== Model -> DTO ====================

func toListingDTO(l *model.Listing) market.ListingDTO {
	dto := market.ListingDTO{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       market.Amount(l.Price),
		Currency:    l.Currency,
		Category:    toCategoryDTO(l.Category),
		Pictures:    make([]market.PictureDTO, 0, len(l.Pictures)),
		FieldValues: map[string]any{},
		ViewsCount:  l.ViewsCount,
		LikesCount:  l.LikesCount,
		ArchivedAt:  l.ArchivedAt,
		ReviewedAt:  l.ReviewedAt,
		UserID:      l.UserID,
	}
	if !l.CreatedAt.IsZero() {
		created := l.CreatedAt
		dto.CreatedAt = &created
	}
	if l.City != nil {
		dto.City = &market.CityDTO{
			ID:        l.City.ID,
			Name:      l.City.Name,
			Latitude:  l.City.Latitude,
			Longitude: l.City.Longitude,
		}
	}
	for _, p := range l.Pictures {
		dto.Pictures = append(dto.Pictures, market.PictureDTO{
			ID:       p.ID,
			Large:    p.Large,
			Medium:   p.Medium,
			Small:    p.Small,
			Original: p.Original,
		})
	}
	if len(l.FieldValues) > 0 {
		// 脏数据按空处理
		_ = json.Unmarshal(l.FieldValues, &dto.FieldValues)
	}
	return dto
}

func toListingDTOs(listings []model.Listing) []market.ListingDTO {
	out := make([]market.ListingDTO, 0, len(listings))
	for i := range listings {
		out = append(out, toListingDTO(&listings[i]))
	}
	return out
}

func toCategoryDTO(c *model.Category) *market.CategoryDTO {
	if c == nil {
		return nil
	}
	return &market.CategoryDTO{
		ID:     c.ID,
		Name:   c.Name,
		Parent: toCategoryDTO(c.Parent),
	}
}

func toFavoriteDTO(f *model.Favorite) market.FavoriteDTO {
	created := f.CreatedAt
	return market.FavoriteDTO{
		ID:        f.ID,
		UserID:    f.UserID,
		ListingID: f.ListingID,
		CreatedAt: &created,
	}
}
