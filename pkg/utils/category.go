package utils

import (
	"strings"

	"classifieds_app_v1_202610/pkg/market"
)

// CategorySeparator 分类路径分隔符
const CategorySeparator = " > "

// RenderCategoryHierarchy 沿 parent 链向上收集名称，按 根 > ... > 叶 拼接
// 链上出现重复 id 时停止
func RenderCategoryHierarchy(c *market.CategoryDTO) string {
	return strings.Join(CategoryPath(c), CategorySeparator)
}

// CategoryPath 返回根到叶的名称列表
func CategoryPath(c *market.CategoryDTO) []string {
	var names []string
	seen := make(map[int64]bool)

	for node := c; node != nil; node = node.Parent {
		if node.ID != 0 {
			if seen[node.ID] {
				break
			}
			seen[node.ID] = true
		}
		names = append(names, node.Name)
	}

	// 叶 -> 根 反转为 根 -> 叶
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}
