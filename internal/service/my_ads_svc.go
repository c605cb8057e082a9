package service

import (
	"context"
	"fmt"

	"classifieds_app_v1_202610/internal/view"
	"classifieds_app_v1_202610/pkg/logger"
	"classifieds_app_v1_202610/pkg/market"
	"classifieds_app_v1_202610/pkg/net"
	"classifieds_app_v1_202610/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MyAdsService "我的广告"
// 已发布/待审核/已归档 三个集合分别请求，广告所处集合由请求条件决定
type MyAdsService struct {
	posts   *PostsService
	pf      utils.PriceFormatter
	perPage int
	alerter Alerter
	log     *zap.SugaredLogger
}

func NewMyAdsService(posts *PostsService, pf utils.PriceFormatter, perPage int, alerter Alerter, log *zap.Logger) *MyAdsService {
	l := logger.OrNop(log)
	if alerter == nil {
		alerter = NewLogAlerter(l)
	}
	return &MyAdsService{
		posts:   posts,
		pf:      pf,
		perPage: perPage,
		alerter: alerter,
		log:     l.Sugar(),
	}
}

// Load 并发加载三个集合和统计，任一失败整体失败，只记录一次
func (s *MyAdsService) Load(ctx context.Context, auth net.AuthContext, userID int64, guard *ViewGuard) (*view.AdsOverview, error) {
	overview, err := s.fetch(ctx, auth, userID)
	if err != nil {
		s.log.Warnf("[MyAdsService] 用户 %d 广告加载失败: %v", userID, err)
		return &view.AdsOverview{
			Published: []view.ListingView{},
			Pending:   []view.ListingView{},
			Archived:  []view.ListingView{},
		}, err
	}
	if !guard.Mounted() {
		return nil, ErrViewUnmounted
	}
	return overview, nil
}

func (s *MyAdsService) fetch(ctx context.Context, auth net.AuthContext, userID int64) (*view.AdsOverview, error) {
	if userID <= 0 {
		userID = auth.UserID
	}

	g, gctx := errgroup.WithContext(ctx)

	var (
		published, pending, archived *market.Page[market.ListingDTO]
		stats                        *market.UserStatsDTO
	)

	g.Go(func() (err error) {
		published, err = s.posts.List(gctx, auth, s.filter(userID, boolPtr(true), boolPtr(false)))
		if err != nil {
			return fmt.Errorf("published: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		pending, err = s.posts.List(gctx, auth, s.filter(userID, boolPtr(false), boolPtr(false)))
		if err != nil {
			return fmt.Errorf("pending: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		archived, err = s.posts.List(gctx, auth, s.filter(userID, nil, boolPtr(true)))
		if err != nil {
			return fmt.Errorf("archived: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		stats, err = s.posts.GetUserStats(gctx, auth, userID)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &view.AdsOverview{
		Published: ToListingViews(published.Data, s.pf),
		Pending:   ToListingViews(pending.Data, s.pf),
		Archived:  ToListingViews(archived.Data, s.pf),
		Stats:     ToUserStats(stats),
	}, nil
}

// ==================== 写操作 (失败时提示一次) ====================

// Archive 归档
func (s *MyAdsService) Archive(ctx context.Context, auth net.AuthContext, id int64) (*view.ListingView, error) {
	return s.toggle(ctx, auth, id, true)
}

// Restore 恢复
func (s *MyAdsService) Restore(ctx context.Context, auth net.AuthContext, id int64) (*view.ListingView, error) {
	return s.toggle(ctx, auth, id, false)
}

// Delete 批量删除
func (s *MyAdsService) Delete(ctx context.Context, auth net.AuthContext, ids ...int64) error {
	if err := s.posts.Delete(ctx, auth, ids...); err != nil {
		s.log.Errorf("[MyAdsService] 删除广告 %v 失败: %v", ids, err)
		s.alerter.Alert(ctx, "Delete listing", AlertMessage(err))
		return err
	}
	s.log.Infof("[MyAdsService] 已删除广告 %v", ids)
	return nil
}

// toggle 先取当前字段，再整体提交
func (s *MyAdsService) toggle(ctx context.Context, auth net.AuthContext, id int64, archive bool) (*view.ListingView, error) {
	title := "Restore listing"
	if archive {
		title = "Archive listing"
	}

	current, err := s.posts.GetByID(ctx, auth, id, GetOptions{Detailed: true})
	if err == nil {
		fields := EditableFields(current)
		if archive {
			current, err = s.posts.Archive(ctx, auth, id, fields)
		} else {
			current, err = s.posts.Restore(ctx, auth, id, fields)
		}
	}
	if err != nil {
		s.log.Errorf("[MyAdsService] %s %d 失败: %v", title, id, err)
		s.alerter.Alert(ctx, title, AlertMessage(err))
		return nil, err
	}

	v := ToListingView(current, s.pf)
	return &v, nil
}

func (s *MyAdsService) filter(userID int64, approved, archived *bool) ListFilter {
	return ListFilter{
		UserID:   userID,
		Approved: approved,
		Archived: archived,
		PerPage:  s.perPage,
	}
}

func boolPtr(b bool) *bool {
	return &b
}
