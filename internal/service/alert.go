package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"classifieds_app_v1_202610/pkg/logger"
	"classifieds_app_v1_202610/pkg/market"

	"go.uber.org/zap"
)

// Alerter 写操作失败时通知用户，每次失败只调用一次
type Alerter interface {
	Alert(ctx context.Context, title, message string)
}

// ==================== 实现 ====================

// LogAlerter 只写日志 (后台/测试)
type LogAlerter struct {
	log *zap.SugaredLogger
}

func NewLogAlerter(log *zap.Logger) *LogAlerter {
	return &LogAlerter{log: logger.OrNop(log).Sugar()}
}

func (a *LogAlerter) Alert(_ context.Context, title, message string) {
	a.log.Errorf("[Alert] %s: %s", title, message)
}

// WriterAlerter 输出到终端
type WriterAlerter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterAlerter(w io.Writer) *WriterAlerter {
	return &WriterAlerter{w: w}
}

func (a *WriterAlerter) Alert(_ context.Context, title, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.w, "⚠ %s: %s\n", title, message)
}

// AlertMessage 按错误类别给出可读提示
func AlertMessage(err error) string {
	switch market.Classify(err) {
	case market.KindNetwork:
		return "Network error. Please check your connection and try again."
	case market.KindServer:
		var apiErr *market.APIError
		errors.As(err, &apiErr)
		switch {
		case apiErr.Message != "":
			return apiErr.Message
		case apiErr.Unauthorized():
			return "Please sign in and try again."
		case apiErr.NotFound():
			return "This listing is no longer available."
		default:
			return fmt.Sprintf("Server error (HTTP %d). Please try again later.", apiErr.StatusCode)
		}
	case market.KindMalformed:
		return "Unexpected response from server."
	default:
		return "Something went wrong. Please try again."
	}
}
