package market

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// ==================== 错误分类 ====================

var (
	// ErrNetworkUnreachable 请求未得到任何响应 (DNS/连接/超时)
	ErrNetworkUnreachable = errors.New("network unreachable")
	// ErrMalformedResponse 响应体缺少预期结构
	ErrMalformedResponse = errors.New("malformed response")
)

// ErrorKind 错误类别
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindServer
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// APIError 服务端以 HTTP 错误码拒绝了请求
type APIError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// NotFound 资源不存在 (收藏引用的广告可能已被删除)
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Unauthorized 未登录或 token 失效
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// NewAPIError 根据响应构造错误，尽量从 body 中提取可读信息
func NewAPIError(status int, method, path string, body []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Message:    extractMessage(body),
		Method:     method,
		Path:       path,
	}
}

// extractMessage 支持几种常见写法:
// {"message": "..."} / {"error": "..."} / {"error": {"message": "..."}} / {"errors": {"field": ["..."]}}
func extractMessage(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	res := gjson.ParseBytes(body)
	for _, path := range []string{"message", "error.message", "error_description", "error"} {
		if v := res.Get(path); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	var first string
	res.Get("errors").ForEach(func(_, value gjson.Result) bool {
		if value.IsArray() {
			first = value.Get("0").String()
		} else {
			first = value.String()
		}
		return first == ""
	})
	return first
}

// Classify 将任意错误归类
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return KindServer
	case errors.Is(err, ErrNetworkUnreachable):
		return KindNetwork
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	default:
		return KindUnknown
	}
}

// IsNotFound 便捷判断
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}
