package service

import (
	"context"
	"fmt"

	"classifieds_app_v1_202610/internal/view"
	"classifieds_app_v1_202610/pkg/logger"
	"classifieds_app_v1_202610/pkg/net"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardService 个人主页：我的广告 + 收藏首页
type DashboardService struct {
	ads       *MyAdsService
	favorites *FavoritesService
	alerter   Alerter
	log       *zap.SugaredLogger
}

func NewDashboardService(ads *MyAdsService, favorites *FavoritesService, alerter Alerter, log *zap.Logger) *DashboardService {
	l := logger.OrNop(log)
	if alerter == nil {
		alerter = NewLogAlerter(l)
	}
	return &DashboardService{
		ads:       ads,
		favorites: favorites,
		alerter:   alerter,
		log:       l.Sugar(),
	}
}

// Load 两部分并发加载，全部成功才返回
// 任一失败只触发一次提示，不返回部分结果
func (s *DashboardService) Load(ctx context.Context, auth net.AuthContext, guard *ViewGuard) (*view.Dashboard, error) {
	g, gctx := errgroup.WithContext(ctx)

	var (
		ads  *view.AdsOverview
		favs *view.FavoritesPage
	)

	g.Go(func() (err error) {
		ads, err = s.ads.fetch(gctx, auth, auth.UserID)
		if err != nil {
			return fmt.Errorf("ads: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		favs, err = s.favorites.fetchPage(gctx, auth, 1, guard)
		if err != nil {
			return fmt.Errorf("favorites: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.Errorf("[DashboardService] 用户 %d 主页加载失败: %v", auth.UserID, err)
		s.alerter.Alert(ctx, "Dashboard", AlertMessage(err))
		return nil, err
	}
	if !guard.Mounted() {
		return nil, ErrViewUnmounted
	}

	return &view.Dashboard{Ads: *ads, Favorites: *favs}, nil
}
