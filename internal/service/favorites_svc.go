package service

import (
	"context"
	"sync"

	"classifieds_app_v1_202610/internal/view"
	"classifieds_app_v1_202610/pkg/logger"
	"classifieds_app_v1_202610/pkg/market"
	"classifieds_app_v1_202610/pkg/net"
	"classifieds_app_v1_202610/pkg/utils"

	"go.uber.org/zap"
)

// DefaultFanOutLimit 收藏详情并发拉取上限
const DefaultFanOutLimit = 6

// FavoritesService 收藏页
// 收藏记录只有 listing_id，每条再单独拉详情 (N+1)，并发受 fanOutLimit 约束
type FavoritesService struct {
	posts       *PostsService
	pf          utils.PriceFormatter
	fanOutLimit int
	alerter     Alerter
	log         *zap.SugaredLogger
}

func NewFavoritesService(posts *PostsService, pf utils.PriceFormatter, fanOutLimit int, alerter Alerter, log *zap.Logger) *FavoritesService {
	if fanOutLimit <= 0 {
		fanOutLimit = DefaultFanOutLimit
	}
	l := logger.OrNop(log)
	if alerter == nil {
		alerter = NewLogAlerter(l)
	}
	return &FavoritesService{
		posts:       posts,
		pf:          pf,
		fanOutLimit: fanOutLimit,
		alerter:     alerter,
		log:         l.Sugar(),
	}
}

// LoadPage 加载一页收藏
// 收藏列表本身失败时返回空页和错误 (只记录日志，不弹提示)
// 单条详情失败 (已删除/404 等) 剔除该条，其余照常返回
func (s *FavoritesService) LoadPage(ctx context.Context, auth net.AuthContext, page int, guard *ViewGuard) (*view.FavoritesPage, error) {
	result, err := s.fetchPage(ctx, auth, page, guard)
	if err != nil {
		s.log.Warnf("[FavoritesService] 收藏列表加载失败 page=%d: %v", page, err)
		return &view.FavoritesPage{Items: []view.FavoriteItem{}}, err
	}
	if !guard.Mounted() {
		return nil, ErrViewUnmounted
	}
	return result, nil
}

// Toggle 收藏/取消收藏，saved 为当前状态
func (s *FavoritesService) Toggle(ctx context.Context, auth net.AuthContext, listingID int64, saved bool) error {
	var err error
	if saved {
		err = s.posts.RemoveFavorite(ctx, auth, listingID)
	} else {
		err = s.posts.AddFavorite(ctx, auth, listingID)
	}
	if err != nil {
		s.log.Errorf("[FavoritesService] 广告 %d 收藏状态切换失败: %v", listingID, err)
		s.alerter.Alert(ctx, "Favorites", AlertMessage(err))
		return err
	}
	return nil
}

// fetchPage 不吞错误，供组合加载使用
func (s *FavoritesService) fetchPage(ctx context.Context, auth net.AuthContext, page int, guard *ViewGuard) (*view.FavoritesPage, error) {
	favs, err := s.posts.GetFavorites(ctx, auth, page)
	if err != nil {
		return nil, err
	}

	listings := s.fanOut(ctx, auth, favs.Data, guard)

	result := &view.FavoritesPage{
		Items: make([]view.FavoriteItem, 0, len(favs.Data)),
		Meta:  favs.Meta,
	}
	// 按收藏原顺序输出
	for i, fav := range favs.Data {
		if listings[i] == nil {
			result.Dropped++
			continue
		}
		result.Items = append(result.Items, view.FavoriteItem{
			FavoriteID: fav.ID,
			SavedAt:    fav.CreatedAt,
			Listing:    ToListingView(listings[i], s.pf),
		})
	}
	return result, nil
}

// fanOut 并发拉取详情，返回与 favs 等长的切片，失败位置为 nil
func (s *FavoritesService) fanOut(ctx context.Context, auth net.AuthContext, favs []market.FavoriteDTO, guard *ViewGuard) []*market.ListingDTO {
	listings := make([]*market.ListingDTO, len(favs))

	sem := make(chan struct{}, s.fanOutLimit)
	var wg sync.WaitGroup

	var (
		failCount int
		mu        sync.Mutex
	)

	for i := range favs {
		fav := favs[i]
		if !guard.Mounted() {
			s.log.Debugf("[FavoritesService] 页面已卸载，停止拉取")
			break
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return listings
		case sem <- struct{}{}:
		}
		wg.Add(1)

		go func(idx int, f market.FavoriteDTO) {
			defer wg.Done()
			defer func() { <-sem }()

			l, err := s.posts.GetByID(ctx, auth, f.ListingID, GetOptions{Detailed: true})

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failCount++
				if market.IsNotFound(err) {
					s.log.Infof("[FavoritesService] 收藏 %d 引用的广告 %d 已不存在", f.ID, f.ListingID)
				} else {
					s.log.Warnf("[FavoritesService] 广告 %d 加载失败: %v", f.ListingID, err)
				}
				return
			}
			listings[idx] = l
		}(i, fav)
	}

	wg.Wait()
	if failCount > 0 {
		s.log.Infof("[FavoritesService] %d/%d 条收藏被剔除", failCount, len(favs))
	}
	return listings
}
