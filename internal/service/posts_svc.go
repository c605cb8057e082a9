package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"classifieds_app_v1_202610/pkg/endpoint"
	"classifieds_app_v1_202610/pkg/logger"
	"classifieds_app_v1_202610/pkg/market"
	"classifieds_app_v1_202610/pkg/net"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ==================== 请求参数 ====================

// ListFilter 广告列表筛选条件，零值/nil 的条件不发送
type ListFilter struct {
	UserID     int64
	Approved   *bool
	Archived   *bool
	CategoryID int64
	Page       int
	PerPage    int
}

func (f ListFilter) query() map[string]string {
	q := make(map[string]string)
	if f.UserID > 0 {
		q["user_id"] = strconv.FormatInt(f.UserID, 10)
	}
	if f.Approved != nil {
		q["approved"] = boolParam(*f.Approved)
	}
	if f.Archived != nil {
		q["archived"] = boolParam(*f.Archived)
	}
	if f.CategoryID > 0 {
		q["category_id"] = strconv.FormatInt(f.CategoryID, 10)
	}
	pageQuery(q, f.Page, f.PerPage)
	return q
}

// GetOptions 详情请求选项
// Detailed 与 Embed 同时设置时以 Detailed 为准
type GetOptions struct {
	Detailed bool
	Embed    []string
}

// SimilarOptions 相似推荐分页
type SimilarOptions struct {
	Page    int
	PerPage int
}

// Fields 提交给服务端的可编辑字段，值为 nil 的字段不发送
type Fields map[string]any

// Image 随表单上传的图片
type Image struct {
	FileName    string
	ContentType string
	Reader      io.Reader
}

// 表单中图片字段名
const imagesParam = "images[]"

// ==================== 服务实现 ====================

// PostsService 广告资源的 REST 客户端
// 只负责发请求、返回原始信封，不缓存、不重试
type PostsService struct {
	client *resty.Client
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewPostsService(client *resty.Client, log *zap.Logger) *PostsService {
	return &PostsService{
		client: client,
		log:    logger.OrNop(log).Sugar(),
		now:    time.Now,
	}
}

// List 分页获取广告列表
func (s *PostsService) List(ctx context.Context, auth net.AuthContext, filter ListFilter) (*market.Page[market.ListingDTO], error) {
	body, err := s.do(ctx, auth, http.MethodGet, s.path(endpoint.Listings, nil), func(r *resty.Request) {
		r.SetQueryParams(filter.query())
	})
	if err != nil {
		return nil, err
	}
	return market.DecodePage[market.ListingDTO](body)
}

// GetByID 获取单条广告
func (s *PostsService) GetByID(ctx context.Context, auth net.AuthContext, id int64, opts GetOptions) (*market.ListingDTO, error) {
	body, err := s.do(ctx, auth, http.MethodGet, s.path(endpoint.Listing, endpoint.ID(id)), func(r *resty.Request) {
		switch {
		case opts.Detailed:
			r.SetQueryParam("detailed", "1")
		case len(opts.Embed) > 0:
			r.SetQueryParam("embed", strings.Join(opts.Embed, ","))
		}
	})
	if err != nil {
		return nil, err
	}
	return market.DecodeObject[market.ListingDTO](body)
}

// GetSimilar 相似推荐，相似规则由服务端决定
func (s *PostsService) GetSimilar(ctx context.Context, auth net.AuthContext, listingID int64, opts SimilarOptions) (*market.Page[market.ListingDTO], error) {
	body, err := s.do(ctx, auth, http.MethodGet, s.path(endpoint.SimilarListings, endpoint.ID(listingID)), func(r *resty.Request) {
		q := make(map[string]string)
		pageQuery(q, opts.Page, opts.PerPage)
		r.SetQueryParams(q)
	})
	if err != nil {
		return nil, err
	}
	return market.DecodePage[market.ListingDTO](body)
}

// GetFavorites 分页获取收藏记录
// 记录里只有 listing_id，广告本体需要调用方逐条拉取
func (s *PostsService) GetFavorites(ctx context.Context, auth net.AuthContext, page int) (*market.Page[market.FavoriteDTO], error) {
	body, err := s.do(ctx, auth, http.MethodGet, s.path(endpoint.Favorites, nil), func(r *resty.Request) {
		if page > 0 {
			r.SetQueryParam("page", strconv.Itoa(page))
		}
	})
	if err != nil {
		return nil, err
	}
	return market.DecodePage[market.FavoriteDTO](body)
}

// AddFavorite 添加收藏，客户端不校验是否已收藏
func (s *PostsService) AddFavorite(ctx context.Context, auth net.AuthContext, listingID int64) error {
	_, err := s.do(ctx, auth, http.MethodPost, s.path(endpoint.Favorites, nil), func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").
			SetBody(market.FavoriteReq{ListingID: listingID})
	})
	return err
}

// RemoveFavorite 取消收藏
func (s *PostsService) RemoveFavorite(ctx context.Context, auth net.AuthContext, listingID int64) error {
	_, err := s.do(ctx, auth, http.MethodDelete, s.path(endpoint.FavoritesByIDs, endpoint.IDs(listingID)), nil)
	return err
}

// Create 发布广告 (multipart)
func (s *PostsService) Create(ctx context.Context, auth net.AuthContext, fields Fields, images []Image) (*market.ListingDTO, error) {
	return s.submit(ctx, auth, http.MethodPost, s.path(endpoint.Listings, nil), fields, images)
}

// Update 编辑广告 (multipart)
func (s *PostsService) Update(ctx context.Context, auth net.AuthContext, id int64, fields Fields, images []Image) (*market.ListingDTO, error) {
	return s.submit(ctx, auth, http.MethodPut, s.path(endpoint.Listing, endpoint.ID(id)), fields, images)
}

// Delete 删除一条或多条广告，一次请求，id 逗号拼接
func (s *PostsService) Delete(ctx context.Context, auth net.AuthContext, ids ...int64) error {
	if len(ids) == 0 {
		return errors.New("delete: no listing ids")
	}
	_, err := s.do(ctx, auth, http.MethodDelete, s.path(endpoint.ListingsByIDs, endpoint.IDs(ids...)), nil)
	return err
}

// ToggleArchive 重新提交完整字段并设置 archived_at
// archivedAt 非 nil 为归档，nil 为恢复 (显式发送 null)
// 同一个接口承担两种相反的意图，业务代码请使用 Archive / Restore
func (s *PostsService) ToggleArchive(ctx context.Context, auth net.AuthContext, id int64, fields Fields, archivedAt *time.Time) (*market.ListingDTO, error) {
	payload := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		if isNil(v) {
			continue
		}
		payload[k] = v
	}
	if archivedAt != nil {
		payload["archived_at"] = archivedAt.UTC().Format(time.RFC3339)
	} else {
		payload["archived_at"] = nil
	}

	body, err := s.do(ctx, auth, http.MethodPut, s.path(endpoint.Listing, endpoint.ID(id)), func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(payload)
	})
	if err != nil {
		return nil, err
	}
	return market.DecodeObject[market.ListingDTO](body)
}

// Archive 归档广告，archived_at 为当前时间
func (s *PostsService) Archive(ctx context.Context, auth net.AuthContext, id int64, fields Fields) (*market.ListingDTO, error) {
	now := s.now().UTC()
	return s.ToggleArchive(ctx, auth, id, fields, &now)
}

// Restore 从归档恢复，回到原来的 待审核/已发布 集合
func (s *PostsService) Restore(ctx context.Context, auth net.AuthContext, id int64, fields Fields) (*market.ListingDTO, error) {
	return s.ToggleArchive(ctx, auth, id, fields, nil)
}

// GetUserStats 用户广告统计
func (s *PostsService) GetUserStats(ctx context.Context, auth net.AuthContext, userID int64) (*market.UserStatsDTO, error) {
	body, err := s.do(ctx, auth, http.MethodGet, s.path(endpoint.UserStats, endpoint.ID(userID)), nil)
	if err != nil {
		return nil, err
	}
	return market.DecodeObject[market.UserStatsDTO](body)
}

// ReportListing 举报广告
func (s *PostsService) ReportListing(ctx context.Context, auth net.AuthContext, listingID int64, reason, message string) error {
	_, err := s.do(ctx, auth, http.MethodPost, s.path(endpoint.ListingReports, endpoint.ID(listingID)), func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").
			SetBody(market.ReportReq{Reason: reason, Message: message})
	})
	return err
}

// ==================== 内部方法 ====================

func (s *PostsService) submit(ctx context.Context, auth net.AuthContext, method, path string, fields Fields, images []Image) (*market.ListingDTO, error) {
	form, err := multipartFields(fields)
	if err != nil {
		return nil, err
	}

	body, err := s.do(ctx, auth, method, path, func(r *resty.Request) {
		r.SetMultipartFormData(form)
		for i, img := range images {
			if img.Reader == nil {
				continue
			}
			name := img.FileName
			if name == "" {
				name = fmt.Sprintf("image_%d.jpg", i+1)
			}
			contentType := img.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			r.SetMultipartField(imagesParam, name, contentType, img.Reader)
		}
	})
	if err != nil {
		return nil, err
	}
	return market.DecodeObject[market.ListingDTO](body)
}

// do 发送请求并统一错误分类
//   - 无响应: ErrNetworkUnreachable
//   - HTTP >= 400: *market.APIError
func (s *PostsService) do(ctx context.Context, auth net.AuthContext, method, path string, prepare func(r *resty.Request)) ([]byte, error) {
	r := auth.Apply(s.client.R().SetContext(ctx))
	if prepare != nil {
		prepare(r)
	}

	resp, err := r.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", market.ErrNetworkUnreachable, method, path, err)
	}

	if resp.IsError() {
		apiErr := market.NewAPIError(resp.StatusCode(), method, path, resp.Body())
		s.log.Debugf("[PostsService] %v", apiErr)
		return nil, apiErr
	}

	return resp.Body(), nil
}

// path 解析路径模板，缺参数时仍返回模板原样，仅记录日志
func (s *PostsService) path(template string, params map[string]string) string {
	if missing := endpoint.Missing(template, params); len(missing) > 0 {
		s.log.Warnf("[PostsService] 路径 %s 缺少参数 %v", template, missing)
	}
	return endpoint.Resolve(template, params)
}

func pageQuery(q map[string]string, page, perPage int) {
	if page > 0 {
		q["page"] = strconv.Itoa(page)
	}
	if perPage > 0 {
		q["per_page"] = strconv.Itoa(perPage)
	}
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// multipartFields 表单只能传字符串：标量直接转换，对象/数组编码为 JSON
func multipartFields(fields Fields) (map[string]string, error) {
	form := make(map[string]string, len(fields))
	for k, v := range fields {
		if isNil(v) {
			continue
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			v = rv.Elem().Interface()
		}

		switch val := v.(type) {
		case string:
			form[k] = val
		case bool:
			form[k] = boolParam(val)
		case int:
			form[k] = strconv.Itoa(val)
		case int64:
			form[k] = strconv.FormatInt(val, 10)
		case float64:
			form[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case market.Amount:
			form[k] = strconv.FormatFloat(val.Float64(), 'f', -1, 64)
		case time.Time:
			form[k] = val.UTC().Format(time.RFC3339)
		default:
			b, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("字段 %s 编码失败: %w", k, err)
			}
			form[k] = string(b)
		}
	}
	return form, nil
}

// isNil 兼容带类型的 nil (如 (*string)(nil))
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
