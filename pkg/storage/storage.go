package storage

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ==================== 接口定义 ====================

// Provider 图片存储
type Provider interface {
	// Upload 上传文件，返回公开访问 URL
	Upload(ctx context.Context, data []byte, filename string, contentType string) (url string, err error)

	// Delete 删除文件
	Delete(ctx context.Context, url string) error
}

// ==================== 配置 ====================

type Config struct {
	Provider      string // "local" | "s3"
	BasePath      string // local: 根目录
	KeyPrefix     string // s3: key 前缀
	PublicBaseURL string // local: 对外访问地址
	Bucket        string
	Region        string
	AccessKey     string
	SecretKey     string
	Endpoint      string // S3 兼容服务端点 (MinIO 等)
	CDNDomain     string
}

// ==================== 工厂方法 ====================

func New(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("不支持的存储提供者: %s", cfg.Provider)
	}
}

// ==================== 图片尺寸 ====================

// Variants 一张图的各尺寸地址
// 存储只保存原图，尺寸通过 w 参数交给 CDN/图片服务处理
type Variants struct {
	Large    string
	Medium   string
	Small    string
	Original string
}

func VariantsOf(url string) Variants {
	if url == "" {
		return Variants{}
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return Variants{
		Large:    url + sep + "w=1280",
		Medium:   url + sep + "w=640",
		Small:    url + sep + "w=320",
		Original: url,
	}
}

// ==================== 工具函数 ====================

// generateKey 日期目录 + uuid 文件名
func generateKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.New().String() + ext

	datePath := time.Now().Format("2006/01/02")
	if prefix = strings.Trim(path.Clean("/"+prefix), "/"); prefix != "" {
		return fmt.Sprintf("%s/%s/%s", prefix, datePath, name)
	}
	return fmt.Sprintf("%s/%s", datePath, name)
}

func detectContentType(data []byte) string {
	return http.DetectContentType(data)
}
