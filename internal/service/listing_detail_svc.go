package service

import (
	"context"

	"classifieds_app_v1_202610/internal/view"
	"classifieds_app_v1_202610/pkg/logger"
	"classifieds_app_v1_202610/pkg/net"
	"classifieds_app_v1_202610/pkg/utils"

	"go.uber.org/zap"
)

// ListingDetailService 详情页
type ListingDetailService struct {
	posts     *PostsService
	favorites *FavoritesService
	pf        utils.PriceFormatter
	perPage   int
	alerter   Alerter
	log       *zap.SugaredLogger
}

func NewListingDetailService(posts *PostsService, favorites *FavoritesService, pf utils.PriceFormatter, perPage int, alerter Alerter, log *zap.Logger) *ListingDetailService {
	l := logger.OrNop(log)
	if alerter == nil {
		alerter = NewLogAlerter(l)
	}
	return &ListingDetailService{
		posts:     posts,
		favorites: favorites,
		pf:        pf,
		perPage:   perPage,
		alerter:   alerter,
		log:       l.Sugar(),
	}
}

// Load 详情与相似推荐并发加载
// 详情失败返回错误；相似推荐失败只记录日志，返回空列表
func (s *ListingDetailService) Load(ctx context.Context, auth net.AuthContext, id int64, guard *ViewGuard) (*view.ListingDetail, error) {
	similarCh := make(chan []view.ListingView, 1)
	go func() {
		similarCh <- s.similar(ctx, auth, id)
	}()

	listing, err := s.posts.GetByID(ctx, auth, id, GetOptions{Detailed: true})
	similar := <-similarCh
	if err != nil {
		s.log.Warnf("[ListingDetailService] 广告 %d 加载失败: %v", id, err)
		return nil, err
	}
	if !guard.Mounted() {
		return nil, ErrViewUnmounted
	}

	return &view.ListingDetail{
		Listing: ToListingView(listing, s.pf),
		Similar: similar,
	}, nil
}

// Similar 单独加载相似推荐 (详情页滚动到底部时)
func (s *ListingDetailService) Similar(ctx context.Context, auth net.AuthContext, id int64) []view.ListingView {
	return s.similar(ctx, auth, id)
}

// ToggleFavorite 详情页收藏按钮
func (s *ListingDetailService) ToggleFavorite(ctx context.Context, auth net.AuthContext, id int64, saved bool) error {
	return s.favorites.Toggle(ctx, auth, id, saved)
}

// Report 举报，失败时提示一次
func (s *ListingDetailService) Report(ctx context.Context, auth net.AuthContext, id int64, reason, message string) error {
	if err := s.posts.ReportListing(ctx, auth, id, reason, message); err != nil {
		s.log.Errorf("[ListingDetailService] 举报广告 %d 失败: %v", id, err)
		s.alerter.Alert(ctx, "Report listing", AlertMessage(err))
		return err
	}
	return nil
}

func (s *ListingDetailService) similar(ctx context.Context, auth net.AuthContext, id int64) []view.ListingView {
	page, err := s.posts.GetSimilar(ctx, auth, id, SimilarOptions{PerPage: s.perPage})
	if err != nil {
		s.log.Warnf("[ListingDetailService] 广告 %d 相似推荐加载失败: %v", id, err)
		return []view.ListingView{}
	}
	return ToListingViews(page.Data, s.pf)
}
