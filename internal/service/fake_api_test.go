package service

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"classifieds_app_v1_202610/pkg/net"
	"classifieds_app_v1_202610/pkg/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== 测试辅助 ====================

// capturedRequest 服务端收到的请求快照
type capturedRequest struct {
	Method      string
	Path        string
	Query       url.Values
	Auth        string
	ContentType string
	Body        []byte
	Form        map[string][]string
	Files       map[string][]string
}

// fakeAPI 用 gin 模拟服务端，记录所有请求
type fakeAPI struct {
	t      *testing.T
	engine *gin.Engine
	srv    *httptest.Server

	mu   sync.Mutex
	reqs []capturedRequest
}

func newFakeAPI(t *testing.T) *fakeAPI {
	f := &fakeAPI{t: t, engine: gin.New()}
	f.engine.Use(f.capture)
	f.srv = httptest.NewServer(f.engine)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) capture(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	req := capturedRequest{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Query:       c.Request.URL.Query(),
		Auth:        c.GetHeader("Authorization"),
		ContentType: c.ContentType(),
		Body:        body,
	}

	if strings.HasPrefix(req.ContentType, "multipart/") {
		if err := c.Request.ParseMultipartForm(32 << 20); err == nil {
			req.Form = c.Request.MultipartForm.Value
			req.Files = make(map[string][]string)
			for name, headers := range c.Request.MultipartForm.File {
				for _, h := range headers {
					req.Files[name] = append(req.Files[name], h.Filename)
				}
			}
		}
	}

	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()

	c.Next()
}

func (f *fakeAPI) handle(method, path string, h gin.HandlerFunc) {
	f.engine.Handle(method, path, h)
}

// json 固定返回一段 JSON
func (f *fakeAPI) json(method, path string, status int, body string) {
	f.handle(method, path, func(c *gin.Context) {
		c.Data(status, "application/json", []byte(body))
	})
}

func (f *fakeAPI) requests() []capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]capturedRequest, len(f.reqs))
	copy(out, f.reqs)
	return out
}

func (f *fakeAPI) last() capturedRequest {
	reqs := f.requests()
	if len(reqs) == 0 {
		f.t.Fatal("服务端没有收到请求")
	}
	return reqs[len(reqs)-1]
}

func (f *fakeAPI) find(method, path string) []capturedRequest {
	var out []capturedRequest
	for _, r := range f.requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeAPI) posts() *PostsService {
	return NewPostsService(net.NewClient(net.ClientConfig{BaseURL: f.srv.URL}), nil)
}

// recordingAlerter 记录提示
type recordingAlerter struct {
	mu     sync.Mutex
	titles []string
	msgs   []string
}

func (a *recordingAlerter) Alert(_ context.Context, title, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.titles = append(a.titles, title)
	a.msgs = append(a.msgs, message)
}

func (a *recordingAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.titles)
}

var testFormatter = utils.NewPriceFormatter("UGX")

var testAuth = net.AuthContext{Token: "test-token", UserID: 7}

const notFoundBody = `{"message":"Listing not found"}`

func listingJSON(id int64, title string) string {
	return `{"id":` + idStr(id) + `,"title":"` + title + `","price":"1500","currency":"UGX","user_id":7,` +
		`"category":{"id":3,"name":"Cars","parent":{"id":1,"name":"Vehicles"}},` +
		`"pictures":[{"medium":"https://cdn.test/` + idStr(id) + `_m.jpg"}]}`
}

func idStr(v int64) string {
	return strconv.FormatInt(v, 10)
}
