package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"classifieds_app_v1_202610/internal/model"
	"classifieds_app_v1_202610/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ==================== 广告提交内容 ====================

// 可编辑字段，其余 key 忽略
var editableKeys = []string{
	"title", "description", "price", "currency",
	"category_id", "city_id", "field_values", "archived_at",
}

const (
	maxImages     = 10
	imagesField   = "images[]"
	maxImageBytes = 10 << 20
)

var errInvalidInput = errors.New("invalid input")

// listingInput 解析后的提交内容
// archived_at 出现即视为归档状态变更：null/空 为恢复，时间为归档
type listingInput struct {
	updates    map[string]interface{}
	archive    bool
	archivedAt *time.Time
}

func newListingInput() *listingInput {
	return &listingInput{updates: make(map[string]interface{})}
}

// parseFormInput multipart / urlencoded
func parseFormInput(c *gin.Context) (*listingInput, error) {
	in := newListingInput()
	for _, key := range editableKeys {
		raw, ok := c.GetPostForm(key)
		if !ok {
			continue
		}
		if err := in.set(key, raw, false); err != nil {
			return nil, err
		}
	}
	return in, nil
}

// parseJSONInput JSON body，嵌套对象按原始 JSON 处理
func parseJSONInput(body []byte) (*listingInput, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", errInvalidInput)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: body must be a JSON object", errInvalidInput)
	}

	in := newListingInput()
	for _, key := range editableKeys {
		v := root.Get(key)
		if !v.Exists() {
			continue
		}
		raw := v.String()
		if v.IsObject() || v.IsArray() {
			raw = v.Raw
		}
		if err := in.set(key, raw, v.Type == gjson.Null); err != nil {
			return nil, err
		}
	}
	return in, nil
}

func (in *listingInput) set(key, raw string, null bool) error {
	raw = strings.TrimSpace(raw)
	if null {
		raw = ""
	}

	switch key {
	case "title":
		if raw == "" {
			return fmt.Errorf("%w: The title field is required.", errInvalidInput)
		}
		in.updates[key] = raw
	case "description":
		in.updates[key] = raw
	case "price":
		if raw == "" {
			in.updates[key] = 0.0
			return nil
		}
		price, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil || price < 0 {
			return fmt.Errorf("%w: The price must be a number of at least 0.", errInvalidInput)
		}
		in.updates[key] = price
	case "currency":
		in.updates[key] = strings.ToUpper(raw)
	case "category_id":
		id, err := parseOptionalID(raw)
		if err != nil {
			return fmt.Errorf("%w: The category id is invalid.", errInvalidInput)
		}
		var v int64
		if id != nil {
			v = *id
		}
		in.updates[key] = v
	case "city_id":
		id, err := parseOptionalID(raw)
		if err != nil {
			return fmt.Errorf("%w: The city id is invalid.", errInvalidInput)
		}
		in.updates[key] = id
	case "field_values":
		if raw == "" {
			in.updates[key] = datatypes.JSON("{}")
			return nil
		}
		if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
			return fmt.Errorf("%w: The field values must be a JSON object.", errInvalidInput)
		}
		in.updates[key] = datatypes.JSON(raw)
	case "archived_at":
		in.archive = true
		in.archivedAt = nil
		if raw == "" {
			return nil
		}
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("%w: The archived at must be an RFC3339 time.", errInvalidInput)
		}
		at = at.UTC()
		in.archivedAt = &at
	}
	return nil
}

// apply 写入新建的广告
func (in *listingInput) apply(l *model.Listing) {
	for key, v := range in.updates {
		switch key {
		case "title":
			l.Title = v.(string)
		case "description":
			l.Description = v.(string)
		case "price":
			l.Price = v.(float64)
		case "currency":
			l.Currency = v.(string)
		case "category_id":
			l.CategoryID = v.(int64)
		case "city_id":
			l.CityID = v.(*int64)
		case "field_values":
			l.FieldValues = v.(datatypes.JSON)
		}
	}
	if in.archive {
		l.ArchivedAt = in.archivedAt
	}
}

func parseOptionalID(raw string) (*int64, error) {
	if raw == "" || raw == "0" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return nil, errInvalidInput
	}
	return &id, nil
}

// ==================== 图片上传 ====================

// uploadPictures 上传 images[]，非 multipart 请求返回空
// 中途失败时删除本次已上传的文件
func uploadPictures(c *gin.Context, store storage.Provider, log *zap.SugaredLogger) ([]model.Picture, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}
	files := form.File[imagesField]
	if len(files) > maxImages {
		return nil, fmt.Errorf("%w: At most %d images are allowed.", errInvalidInput, maxImages)
	}

	ctx := c.Request.Context()
	pictures := make([]model.Picture, 0, len(files))
	fail := func(err error) ([]model.Picture, error) {
		discardPictures(ctx, store, pictures, log)
		return nil, err
	}

	for _, fh := range files {
		if fh.Size > maxImageBytes {
			return fail(fmt.Errorf("%w: Image %s is too large.", errInvalidInput, fh.Filename))
		}
		f, err := fh.Open()
		if err != nil {
			return fail(err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return fail(err)
		}

		url, err := store.Upload(ctx, data, fh.Filename, fh.Header.Get("Content-Type"))
		if err != nil {
			return fail(fmt.Errorf("上传图片 %s 失败: %w", fh.Filename, err))
		}
		v := storage.VariantsOf(url)
		pictures = append(pictures, model.Picture{
			Large:    v.Large,
			Medium:   v.Medium,
			Small:    v.Small,
			Original: v.Original,
		})
	}
	return pictures, nil
}

// discardPictures 删除已存储的图片文件，失败只记录日志
// 非本存储的地址 (如演示数据的外链) 同样只记录
func discardPictures(ctx context.Context, store storage.Provider, pictures []model.Picture, log *zap.SugaredLogger) {
	for _, p := range pictures {
		if p.Original == "" {
			continue
		}
		if err := store.Delete(ctx, p.Original); err != nil {
			log.Warnf("[ListingController] 删除图片 %s 失败: %v", p.Original, err)
		}
	}
}
