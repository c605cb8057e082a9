package endpoint

import (
	"regexp"
	"strconv"
	"strings"
)

// ==================== 路径模板 ====================

// 与服务端约定的资源路径，占位符格式为 {name}
const (
	Listings        = "/listings"
	Listing         = "/listings/{id}"
	ListingsByIDs   = "/listings/{ids}"
	SimilarListings = "/listings/{id}/similar"
	ListingReports  = "/listings/{id}/reports"
	Favorites       = "/favorites"
	FavoritesByIDs  = "/favorites/{ids}"
	UserStats       = "/users/{id}/stats"
)

var tokenPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Resolve 将模板中的 {token} 替换为 params 对应的值
// 找不到对应值的 token 原样保留，不报错，调用方必须传全参数
func Resolve(template string, params map[string]string) string {
	if len(params) == 0 {
		return template
	}
	return tokenPattern.ReplaceAllStringFunc(template, func(tok string) string {
		name := tok[1 : len(tok)-1]
		if v, ok := params[name]; ok {
			return v
		}
		return tok
	})
}

// Missing 返回模板中未被 params 覆盖的 token 名称
func Missing(template string, params map[string]string) []string {
	var missing []string
	for _, m := range tokenPattern.FindAllStringSubmatch(template, -1) {
		if _, ok := params[m[1]]; !ok {
			missing = append(missing, m[1])
		}
	}
	return missing
}

// ID 单个 id 参数的快捷写法
func ID(id int64) map[string]string {
	return map[string]string{"id": strconv.FormatInt(id, 10)}
}

// IDs 多个 id 参数，服务端接收逗号拼接的列表
func IDs(ids ...int64) map[string]string {
	return map[string]string{"ids": JoinIDs(ids...)}
}

// JoinIDs 逗号拼接 id 列表: [1,2,3] -> "1,2,3"
func JoinIDs(ids ...int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

// SplitIDs JoinIDs 的逆操作，非法片段直接跳过
func SplitIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
