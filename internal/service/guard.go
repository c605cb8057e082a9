package service

import (
	"errors"
	"sync/atomic"
)

// ErrViewUnmounted 结果返回时页面已卸载，结果被丢弃
var ErrViewUnmounted = errors.New("view unmounted")

// ViewGuard 页面生命周期标记
// 页面卸载后到达的结果直接丢弃，不再写入
type ViewGuard struct {
	unmounted atomic.Bool
}

func NewViewGuard() *ViewGuard {
	return &ViewGuard{}
}

// Mounted nil guard 视为一直挂载
func (g *ViewGuard) Mounted() bool {
	return g == nil || !g.unmounted.Load()
}

// Unmount 标记卸载，可重复调用
func (g *ViewGuard) Unmount() {
	if g != nil {
		g.unmounted.Store(true)
	}
}
