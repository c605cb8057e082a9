package utils

import (
	"strings"

	"classifieds_app_v1_202610/pkg/market"
)

// PictureURL 按 large -> medium -> small -> original 的优先级取一张图的地址
func PictureURL(p market.PictureDTO) (string, bool) {
	for _, u := range []string{p.Large, p.Medium, p.Small, p.Original} {
		if u = strings.TrimSpace(u); u != "" {
			return u, true
		}
	}
	return "", false
}

// SelectImageURL 选出列表的主图，没有可用地址时返回 false，不拼出无效 URL
func SelectImageURL(pictures []market.PictureDTO) (string, bool) {
	for _, p := range pictures {
		if u, ok := PictureURL(p); ok {
			return u, true
		}
	}
	return "", false
}

// AllImageURLs 保持原顺序，跳过没有任何尺寸的图片
func AllImageURLs(pictures []market.PictureDTO) []string {
	urls := make([]string, 0, len(pictures))
	for _, p := range pictures {
		if u, ok := PictureURL(p); ok {
			urls = append(urls, u)
		}
	}
	return urls
}
