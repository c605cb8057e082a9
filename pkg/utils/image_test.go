package utils

import (
	"testing"

	"classifieds_app_v1_202610/pkg/market"
)

func TestSelectImageURL(t *testing.T) {
	tests := []struct {
		name     string
		pictures []market.PictureDTO
		want     string
		wantOK   bool
	}{
		{"无图片", nil, "", false},
		{"只有 medium", []market.PictureDTO{{Medium: "https://cdn/m.jpg"}}, "https://cdn/m.jpg", true},
		{"large 优先", []market.PictureDTO{{Large: "l", Medium: "m", Small: "s"}}, "l", true},
		{"small 优先于 original", []market.PictureDTO{{Small: "s", Original: "o"}}, "s", true},
		{"只有 original", []market.PictureDTO{{Original: "o"}}, "o", true},
		{"空白地址视为缺失", []market.PictureDTO{{Large: "  ", Medium: "m"}}, "m", true},
		{"第一张为空取第二张", []market.PictureDTO{{}, {Small: "s2"}}, "s2", true},
		{"全部为空", []market.PictureDTO{{}, {Large: " "}}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectImageURL(tt.pictures)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("SelectImageURL() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAllImageURLs(t *testing.T) {
	pics := []market.PictureDTO{{Large: "a"}, {}, {Medium: "b"}}
	got := AllImageURLs(pics)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("AllImageURLs() = %v, want [a b]", got)
	}
}
