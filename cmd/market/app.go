package main

import (
	"context"
	"errors"
	"io"
	"os"

	"classifieds_app_v1_202610/internal/config"
	"classifieds_app_v1_202610/internal/service"
	"classifieds_app_v1_202610/pkg/logger"
	"classifieds_app_v1_202610/pkg/net"
	"classifieds_app_v1_202610/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const appKey = "app"

// app 命令共享的依赖
type app struct {
	cfg  *config.Config
	log  *zap.Logger
	auth net.AuthContext
	out  io.Writer
	json bool

	posts     *service.PostsService
	favorites *service.FavoritesService
	ads       *service.MyAdsService
	detail    *service.ListingDetailService
	dashboard *service.DashboardService
	pf        utils.PriceFormatter
}

func newApp(c *cli.Context) (*app, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	token := c.String("token")
	if token == "" {
		token = cfg.API.Token
	}
	auth := net.AuthContext{Token: token, UserID: c.Int64("user")}
	if auth.UserID == 0 && token != "" {
		auth.UserID = userIDFromToken(token)
	}

	client := net.NewClient(net.ClientConfig{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
		ProxyURL:  cfg.API.Proxy,
		Debug:     cfg.API.Debug,
	})

	out := io.Writer(os.Stdout)
	alerter := service.NewWriterAlerter(os.Stderr)
	pf := utils.NewPriceFormatter(cfg.Client.LocalCurrency)

	posts := service.NewPostsService(client, log)
	favorites := service.NewFavoritesService(posts, pf, cfg.Client.FanOutLimit, alerter, log)
	ads := service.NewMyAdsService(posts, pf, cfg.Client.PerPage, alerter, log)

	return &app{
		cfg:       cfg,
		log:       log,
		auth:      auth,
		out:       out,
		json:      c.Bool("json"),
		posts:     posts,
		favorites: favorites,
		ads:       ads,
		detail:    service.NewListingDetailService(posts, favorites, pf, cfg.Client.PerPage, alerter, log),
		dashboard: service.NewDashboardService(ads, favorites, alerter, log),
		pf:        pf,
	}, nil
}

func appFrom(c *cli.Context) *app {
	return c.App.Metadata[appKey].(*app)
}

// requireAuth 需要登录的命令
func (a *app) requireAuth() error {
	if a.auth.IsAnonymous() {
		return errors.New("this command needs a token (--token or MARKET_TOKEN)")
	}
	if a.auth.UserID == 0 {
		return errors.New("cannot determine user id, pass --user")
	}
	return nil
}

// guard Ctrl-C 时卸载，迟到的结果被丢弃
func (a *app) guard(ctx context.Context) *service.ViewGuard {
	g := service.NewViewGuard()
	go func() {
		<-ctx.Done()
		g.Unmount()
	}()
	return g
}

// userIDFromToken 只读取 claims，不校验签名，校验由服务端负责
func userIDFromToken(token string) int64 {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0
	}
	if v, ok := claims["user_id"].(float64); ok {
		return int64(v)
	}
	return 0
}
