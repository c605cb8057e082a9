package router

import (
	"time"

	"classifieds_app_v1_202610/internal/controller"
	"classifieds_app_v1_202610/internal/middleware"
	"classifieds_app_v1_202610/internal/repository"
	"classifieds_app_v1_202610/pkg/metrics"
	"classifieds_app_v1_202610/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 同一用户对同一广告的默认举报间隔
const defaultReportCooldown = 10 * time.Minute

// Options 沙箱服务依赖
type Options struct {
	DB         *gorm.DB
	Store      storage.Provider
	Tokens     *middleware.TokenManager
	UploadsDir string // 本地存储时对外提供 /uploads
	Logger     *zap.Logger

	ReportCooldown time.Duration
}

// NewEngine 组装仓储和控制器，返回完整路由
func NewEngine(opts Options) *gin.Engine {
	listings := repository.NewListingRepository(opts.DB)
	favorites := repository.NewFavoriteRepository(opts.DB)
	users := repository.NewUserRepository(opts.DB)
	reports := repository.NewReportRepository(opts.DB)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), metrics.GinMiddleware())
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if opts.UploadsDir != "" {
		r.Static("/uploads", opts.UploadsDir)
	}

	cooldown := opts.ReportCooldown
	if cooldown <= 0 {
		cooldown = defaultReportCooldown
	}

	InitRoutes(r, opts.Tokens, cooldown,
		controller.NewListingController(listings, favorites, reports, opts.Store, opts.Logger),
		controller.NewFavoriteController(favorites, listings, opts.Logger),
		controller.NewUserController(users, opts.Logger),
	)
	return r
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	tokens *middleware.TokenManager,
	reportCooldown time.Duration,
	listingCtl *controller.ListingController,
	favoriteCtl *controller.FavoriteController,
	userCtl *controller.UserController) {

	auth := middleware.JWTAuth(tokens)
	optional := middleware.OptionalJWT(tokens)
	limiter := middleware.NewCooldownLimiter()

	api := r.Group("/api")
	{
		// listings 匿名可读，本人可见待审核/已归档
		listings := api.Group("/listings")
		{
			listings.GET("", optional, listingCtl.List)
			listings.GET("/:id", optional, listingCtl.Show)
			listings.GET("/:id/similar", optional, listingCtl.Similar)
			listings.POST("", auth, listingCtl.Create)
			listings.PUT("/:id", auth, listingCtl.Update)
			// DELETE /api/listings/1,2,3
			listings.DELETE("/:id", auth, listingCtl.Delete)
			listings.POST("/:id/reports", auth,
				middleware.Cooldown(limiter, "report", reportCooldown), listingCtl.Report)
		}

		favorites := api.Group("/favorites", auth)
		{
			favorites.GET("", favoriteCtl.List)
			favorites.POST("", favoriteCtl.Add)
			// DELETE /api/favorites/10,11
			favorites.DELETE("/:ids", favoriteCtl.Remove)
		}

		users := api.Group("/users")
		{
			users.GET("/:id/stats", optional, userCtl.Stats)
		}
	}
}
