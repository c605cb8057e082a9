package utils

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FeaturesField 单独处理的字段名 (大小写不敏感)
const FeaturesField = "features"

// Spec 一条展示用的规格参数
type Spec struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ExtractSpecs 从动态字段中提取规格参数
//   - 跳过 features (由 ExtractFeatures 处理)
//   - 跳过 null / 空值
//   - 标量直接输出，对象按成员值拼接
func ExtractSpecs(fields map[string]any) []Spec {
	specs := make([]Spec, 0, len(fields))
	for name, raw := range fields {
		if strings.EqualFold(strings.TrimSpace(name), FeaturesField) {
			continue
		}
		value := renderValue(raw)
		if value == "" {
			continue
		}
		specs = append(specs, Spec{Name: humanizeName(name), Value: value})
	}

	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Name < specs[j].Name
	})
	return specs
}

// ExtractFeatures 提取 features 列表
// 支持数组、对象 ({"1": "ABS"} 或 {"ABS": true}) 和逗号分隔字符串
func ExtractFeatures(fields map[string]any) []string {
	var raw any
	for name, v := range fields {
		if strings.EqualFold(strings.TrimSpace(name), FeaturesField) {
			raw = v
			break
		}
	}

	features := make([]string, 0)
	switch v := raw.(type) {
	case nil:
	case string:
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				features = append(features, part)
			}
		}
	case []any:
		for _, item := range v {
			if s := renderValue(item); s != "" {
				features = append(features, s)
			}
		}
	case map[string]any:
		for _, key := range sortedKeys(v) {
			switch member := v[key].(type) {
			case bool:
				// 勾选型: {"ABS": true, "Airbag": false}
				if member {
					features = append(features, key)
				}
			default:
				if s := renderValue(member); s != "" {
					features = append(features, s)
				}
			}
		}
	default:
		if s := renderValue(v); s != "" {
			features = append(features, s)
		}
	}
	return features
}

// renderValue 标量转字符串，对象/数组按成员拼接
func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case map[string]any:
		parts := make([]string, 0, len(val))
		for _, key := range sortedKeys(val) {
			if s := renderValue(val[key]); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := renderValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// humanizeName engine_size -> Engine size
func humanizeName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
