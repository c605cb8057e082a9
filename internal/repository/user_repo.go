package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"classifieds_app_v1_202610/internal/model"
)

// ==================== UserRepository 用户仓库 ====================

// UserRepository 用户仓库接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Stats(ctx context.Context, userID int64) (*UserStats, error)
}

// UserStats 用户广告统计，每次实时计算
type UserStats struct {
	Published  int64
	Pending    int64
	Archived   int64
	Visits     int64
	Favourites int64
}

// ==================== 实现 ====================

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID 根据 ID 获取用户，不存在返回 nil, nil
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Stats 按状态统计用户广告，visits 为浏览量之和，favourites 为被收藏次数
func (r *userRepository) Stats(ctx context.Context, userID int64) (*UserStats, error) {
	var row struct {
		Published int64
		Pending   int64
		Archived  int64
		Visits    int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Select(`
			COALESCE(SUM(CASE WHEN archived_at IS NULL AND reviewed_at IS NOT NULL THEN 1 ELSE 0 END), 0) AS published,
			COALESCE(SUM(CASE WHEN archived_at IS NULL AND reviewed_at IS NULL THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN archived_at IS NOT NULL THEN 1 ELSE 0 END), 0) AS archived,
			COALESCE(SUM(views_count), 0) AS visits`).
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	var favourites int64
	err = r.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Joins("JOIN listings ON listings.id = favorites.listing_id AND listings.deleted_at IS NULL").
		Where("listings.user_id = ?", userID).
		Count(&favourites).Error
	if err != nil {
		return nil, err
	}

	return &UserStats{
		Published:  row.Published,
		Pending:    row.Pending,
		Archived:   row.Archived,
		Visits:     row.Visits,
		Favourites: favourites,
	}, nil
}
