package market

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// ==================== 防御性解析 ====================
// 服务端返回结构不统一：
//   - {"data": [...], "meta": {...}}        标准分页
//   - {"data": [...], "current_page": 1}    分页字段平铺在顶层
//   - [...]                                 裸数组
// 集合缺失时一律退化为空集合，不报错

// DecodePage 解析分页信封
func DecodePage[T any](body []byte) (*Page[T], error) {
	page := &Page[T]{Data: make([]T, 0)}
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return page, nil
	}

	root := gjson.ParseBytes(body)
	items := root.Get("data")
	if !items.IsArray() && root.IsArray() {
		items = root
	}

	if items.IsArray() {
		for _, item := range items.Array() {
			var v T
			// 单条坏数据直接跳过，不影响整页
			if err := json.Unmarshal([]byte(item.Raw), &v); err != nil {
				continue
			}
			page.Data = append(page.Data, v)
		}
	}

	meta := root.Get("meta")
	if !meta.IsObject() {
		meta = root
	}
	page.Meta = PageMeta{
		CurrentPage: int(meta.Get("current_page").Int()),
		LastPage:    int(meta.Get("last_page").Int()),
		PerPage:     int(meta.Get("per_page").Int()),
		Total:       meta.Get("total").Int(),
	}
	if page.Meta.CurrentPage == 0 {
		page.Meta.CurrentPage = 1
	}
	if page.Meta.LastPage < page.Meta.CurrentPage {
		page.Meta.LastPage = page.Meta.CurrentPage
	}
	if page.Meta.Total == 0 && !meta.Get("total").Exists() {
		page.Meta.Total = int64(len(page.Data))
	}

	return page, nil
}

// DecodeObject 解析单个对象，兼容 {"data": {...}} 与裸对象
func DecodeObject[T any](body []byte) (*T, error) {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}

	root := gjson.ParseBytes(body)
	obj := root.Get("data")
	if !obj.IsObject() {
		obj = root
	}
	if !obj.IsObject() {
		return nil, ErrMalformedResponse
	}

	var v T
	if err := json.Unmarshal([]byte(obj.Raw), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &v, nil
}
