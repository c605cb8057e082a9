package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"classifieds_app_v1_202610/internal/model"
)

// ==================== 接口定义 ====================

// FavoriteRepository 收藏仓储接口
type FavoriteRepository interface {
	List(ctx context.Context, userID int64, page, pageSize int) ([]model.Favorite, int64, error)
	Add(ctx context.Context, userID, listingID int64) (*model.Favorite, bool, error)
	RemoveByListingIDs(ctx context.Context, userID int64, listingIDs []int64) (int64, error)
	IsFavorite(ctx context.Context, userID, listingID int64) (bool, error)
}

// ==================== 仓储实现 ====================

type favoriteRepo struct {
	db *gorm.DB
}

// NewFavoriteRepository 创建收藏仓储
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepo{db: db}
}

func (r *favoriteRepo) List(ctx context.Context, userID int64, page, pageSize int) ([]model.Favorite, int64, error) {
	var favs []model.Favorite
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
	if err := r.db.WithContext(ctx).Model(&model.Favorite{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize = normalizePage(page, pageSize)
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&favs).Error
	return favs, total, err
}

// Add 幂等：已收藏时返回已有记录，created=false
// 新增时同步 likes_count
func (r *favoriteRepo) Add(ctx context.Context, userID, listingID int64) (*model.Favorite, bool, error) {
	var fav model.Favorite
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND listing_id = ?", userID, listingID).First(&fav).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		fav = model.Favorite{UserID: userID, ListingID: listingID}
		if err := tx.Create(&fav).Error; err != nil {
			return err
		}
		created = true
		return tx.Model(&model.Listing{}).
			Where("id = ?", listingID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &fav, created, nil
}

// RemoveByListingIDs 按广告 id 批量取消收藏
func (r *favoriteRepo) RemoveByListingIDs(ctx context.Context, userID int64, listingIDs []int64) (int64, error) {
	if len(listingIDs) == 0 {
		return 0, nil
	}

	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []int64
		if err := tx.Model(&model.Favorite{}).
			Where("user_id = ? AND listing_id IN ?", userID, listingIDs).
			Pluck("listing_id", &existing).Error; err != nil {
			return err
		}
		if len(existing) == 0 {
			return nil
		}

		res := tx.Where("user_id = ? AND listing_id IN ?", userID, existing).Delete(&model.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		return tx.Model(&model.Listing{}).
			Where("id IN ? AND likes_count > 0", existing).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
	})
	return removed, err
}

func (r *favoriteRepo) IsFavorite(ctx context.Context, userID, listingID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&n).Error
	return n > 0, err
}
