package service

import (
	"strings"

	"classifieds_app_v1_202610/internal/view"
	"classifieds_app_v1_202610/pkg/market"
	"classifieds_app_v1_202610/pkg/utils"
)

// ToListingView 原始 DTO -> 页面数据
// 缺失的嵌套对象 (分类/城市/图片) 一律给出空值，不报错
func ToListingView(dto *market.ListingDTO, pf utils.PriceFormatter) view.ListingView {
	if dto == nil {
		return view.ListingView{ImageURLs: []string{}, Specs: []utils.Spec{}, Features: []string{}}
	}

	currency := strings.ToUpper(strings.TrimSpace(dto.Currency))
	if currency == "" {
		currency = pf.Local
	}

	v := view.ListingView{
		// 核心身份
		ID:      dto.ID,
		OwnerID: dto.UserID,

		// 基础信息
		Title:       dto.Title,
		Description: dto.Description,

		// 价格
		Price:        pf.Format(dto.Price.Float64(), currency),
		PriceAmount:  dto.Price.Float64(),
		CurrencyCode: currency,

		// 分类 / 位置
		CategoryPath: utils.RenderCategoryHierarchy(dto.Category),

		// 自定义字段
		Specs:    utils.ExtractSpecs(dto.FieldValues),
		Features: utils.ExtractFeatures(dto.FieldValues),

		// 计数
		Views: dto.ViewsCount,
		Likes: dto.LikesCount,
		Saved: dto.IsFavorite,

		// 时间戳
		CreatedAt:  dto.CreatedAt,
		ArchivedAt: dto.ArchivedAt,
		ReviewedAt: dto.ReviewedAt,
	}

	if dto.City != nil {
		v.CityName = dto.City.Name
		v.Latitude = dto.City.Latitude
		v.Longitude = dto.City.Longitude
	}

	v.ImageURL, v.HasImage = utils.SelectImageURL(dto.Pictures)
	v.ImageURLs = utils.AllImageURLs(dto.Pictures)

	return v
}

// ToListingViews 批量转换，保持顺序
func ToListingViews(items []market.ListingDTO, pf utils.PriceFormatter) []view.ListingView {
	out := make([]view.ListingView, 0, len(items))
	for i := range items {
		out = append(out, ToListingView(&items[i], pf))
	}
	return out
}

// ToListingPage 分页结果转换
func ToListingPage(page *market.Page[market.ListingDTO], pf utils.PriceFormatter) view.ListingPage {
	if page == nil {
		return view.ListingPage{Items: []view.ListingView{}}
	}
	return view.ListingPage{
		Items: ToListingViews(page.Data, pf),
		Meta:  page.Meta,
	}
}

func ToUserStats(dto *market.UserStatsDTO) view.UserStats {
	if dto == nil {
		return view.UserStats{}
	}
	return view.UserStats{
		Published:  dto.Published,
		Pending:    dto.Pending,
		Archived:   dto.Archived,
		Visits:     dto.Visits,
		Favourites: dto.Favourites,
	}
}

// EditableFields 从已有广告还原完整的可编辑字段
// 归档/恢复接口要求重新提交全部字段
func EditableFields(dto *market.ListingDTO) Fields {
	if dto == nil {
		return Fields{}
	}
	f := Fields{
		"title":       dto.Title,
		"description": dto.Description,
		"price":       dto.Price.Float64(),
		"currency":    dto.Currency,
	}
	if dto.Category != nil && dto.Category.ID > 0 {
		f["category_id"] = dto.Category.ID
	}
	if dto.City != nil && dto.City.ID > 0 {
		f["city_id"] = dto.City.ID
	}
	if len(dto.FieldValues) > 0 {
		f["field_values"] = dto.FieldValues
	}
	return f
}
