package controller

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"classifieds_app_v1_202610/internal/middleware"
	"classifieds_app_v1_202610/internal/repository"
	"classifieds_app_v1_202610/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// failingTxRepo 事务总是失败，其余方法不应被调用
type failingTxRepo struct {
	repository.ListingRepository
}

func (failingTxRepo) Transaction(ctx context.Context, fn func(txRepo repository.ListingRepository) error) error {
	return errors.New("tx aborted")
}

// flakyStore 第 failAt 次上传失败
type flakyStore struct {
	storage.Provider
	calls  int
	failAt int
}

func (s *flakyStore) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	s.calls++
	if s.calls == s.failAt {
		return "", errors.New("disk full")
	}
	return s.Provider.Upload(ctx, data, filename, contentType)
}

func setupCreateRouter(t *testing.T, store storage.Provider) (*gin.Engine, string) {
	tokens := middleware.NewTokenManager(&middleware.JWTConfig{SecretKey: "test", AccessTokenTTL: time.Hour})
	token, err := tokens.GenerateAccessToken(1, "owner")
	require.NoError(t, err)

	ctl := NewListingController(failingTxRepo{}, nil, nil, store, nil)
	r := gin.New()
	r.POST("/listings", middleware.JWTAuth(tokens), ctl.Create)
	return r, token
}

func multipartListing(t *testing.T, images ...string) (*bytes.Buffer, string) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("title", "Bike"))
	for _, name := range images {
		part, err := w.CreateFormFile(imagesField, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func countFiles(t *testing.T, dir string) int {
	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func TestListingController_Create_DiscardsPicturesOnFailure(t *testing.T) {
	tests := []struct {
		name   string
		failAt int
		images []string
	}{
		{"事务失败", 0, []string{"a.jpg", "b.jpg"}},
		{"第二张上传失败", 2, []string{"a.jpg", "b.jpg", "c.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			local, err := storage.NewLocalStorage(storage.Config{BasePath: dir, PublicBaseURL: "http://sandbox.test"})
			require.NoError(t, err)
			store := &flakyStore{Provider: local, failAt: tt.failAt}

			r, token := setupCreateRouter(t, store)
			body, contentType := multipartListing(t, tt.images...)
			req := httptest.NewRequest(http.MethodPost, "/listings", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Greater(t, store.calls, 0)
			assert.Equal(t, 0, countFiles(t, dir), "失败后不留下孤儿文件")
		})
	}
}
