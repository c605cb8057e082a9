package net

import (
	"github.com/go-resty/resty/v2"
)

// AuthContext 显式传入每次数据访问调用的鉴权上下文
// 零值表示匿名访问
type AuthContext struct {
	Token  string
	UserID int64
}

// Anonymous 匿名上下文
func Anonymous() AuthContext {
	return AuthContext{}
}

// IsAnonymous 是否未登录
func (a AuthContext) IsAnonymous() bool {
	return a.Token == ""
}

// Apply 统一封装鉴权头 (Authorization)
// 匿名访问时不设置任何头
func (a AuthContext) Apply(r *resty.Request) *resty.Request {
	if a.Token != "" {
		r.SetAuthToken(a.Token)
	}
	return r
}
