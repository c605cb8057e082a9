package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"classifieds_app_v1_202610/internal/model"
)

// ==================== 接口定义 ====================

// ListingRepository 广告仓储接口
type ListingRepository interface {
	// 基础 CRUD
	Create(ctx context.Context, listing *model.Listing) error
	GetByID(ctx context.Context, id int64) (*model.Listing, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	AddPictures(ctx context.Context, listingID int64, pictures []model.Picture) error
	DeleteByIDs(ctx context.Context, ownerID int64, ids []int64) (int64, error)
	ListPictures(ctx context.Context, ownerID int64, ids []int64) ([]model.Picture, error)

	// 列表查询
	List(ctx context.Context, filter ListingFilter) ([]model.Listing, int64, error)
	Similar(ctx context.Context, listing *model.Listing, page, pageSize int) ([]model.Listing, int64, error)

	// 状态
	SetArchivedAt(ctx context.Context, id int64, at *time.Time) error
	ListPendingOlderThan(ctx context.Context, before time.Time, limit int) ([]model.Listing, error)
	MarkReviewed(ctx context.Context, ids []int64, at time.Time) (int64, error)

	// 计数
	IncrementViews(ctx context.Context, id int64) error

	// 分类层级
	CategoryChain(ctx context.Context, categoryID int64) (*model.Category, error)

	// 事务
	WithTx(tx *gorm.DB) ListingRepository
	Transaction(ctx context.Context, fn func(txRepo ListingRepository) error) error
}

// ==================== 过滤条件 ====================

// ListingFilter 广告过滤条件，nil 表示不限
type ListingFilter struct {
	UserID     int64
	Approved   *bool
	Archived   *bool
	CategoryID int64
	Page       int
	PageSize   int
}

// 分类链最大深度，防止脏数据成环
const maxCategoryDepth = 16

// ==================== 仓储实现 ====================

type listingRepo struct {
	db *gorm.DB
}

// NewListingRepository 创建广告仓储
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepo{db: db}
}

func (r *listingRepo) Create(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepo) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	var listing model.Listing
	err := r.db.WithContext(ctx).
		Preload("City").
		Preload("Pictures", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		First(&listing, id).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachCategories(ctx, []*model.Listing{&listing}); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *listingRepo) AddPictures(ctx context.Context, listingID int64, pictures []model.Picture) error {
	if len(pictures) == 0 {
		return nil
	}
	var maxPos int
	err := r.db.WithContext(ctx).
		Model(&model.Picture{}).
		Where("listing_id = ?", listingID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPos).Error
	if err != nil {
		return err
	}

	for i := range pictures {
		pictures[i].ListingID = listingID
		pictures[i].Position = maxPos + i + 1
	}
	return r.db.WithContext(ctx).Create(&pictures).Error
}

// DeleteByIDs 只删除 owner 自己的广告，返回实际删除条数
func (r *listingRepo) DeleteByIDs(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", ownerID, ids).
		Delete(&model.Listing{})
	return res.RowsAffected, res.Error
}

// ListPictures owner 名下指定广告 (未删除) 的全部图片
func (r *listingRepo) ListPictures(ctx context.Context, ownerID int64, ids []int64) ([]model.Picture, error) {
	var pictures []model.Picture
	if len(ids) == 0 {
		return pictures, nil
	}
	owned := r.db.Model(&model.Listing{}).
		Select("id").
		Where("user_id = ? AND id IN ?", ownerID, ids)
	err := r.db.WithContext(ctx).
		Where("listing_id IN (?)", owned).
		Order("listing_id ASC, position ASC").
		Find(&pictures).Error
	return pictures, err
}

func (r *listingRepo) List(ctx context.Context, filter ListingFilter) ([]model.Listing, int64, error) {
	return r.page(ctx, filter.Page, filter.PageSize, func(db *gorm.DB) *gorm.DB {
		if filter.UserID > 0 {
			db = db.Where("user_id = ?", filter.UserID)
		}
		if filter.CategoryID > 0 {
			db = db.Where("category_id = ?", filter.CategoryID)
		}
		if filter.Approved != nil {
			if *filter.Approved {
				db = db.Where("reviewed_at IS NOT NULL")
			} else {
				db = db.Where("reviewed_at IS NULL")
			}
		}
		if filter.Archived != nil {
			if *filter.Archived {
				db = db.Where("archived_at IS NOT NULL")
			} else {
				db = db.Where("archived_at IS NULL")
			}
		}
		return db
	})
}

// Similar 同分类下其他已发布广告
func (r *listingRepo) Similar(ctx context.Context, listing *model.Listing, page, pageSize int) ([]model.Listing, int64, error) {
	return r.page(ctx, page, pageSize, func(db *gorm.DB) *gorm.DB {
		return db.
			Where("id <> ?", listing.ID).
			Where("category_id = ?", listing.CategoryID).
			Where("reviewed_at IS NOT NULL AND archived_at IS NULL")
	})
}

// page 计数 + 分页查询，条件由 scope 给出
func (r *listingRepo) page(ctx context.Context, page, pageSize int, scope func(db *gorm.DB) *gorm.DB) ([]model.Listing, int64, error) {
	var listings []model.Listing
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.Listing{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize = normalizePage(page, pageSize)
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("City").
		Preload("Pictures", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}

	if err := r.attachCategories(ctx, listingPtrs(listings)); err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// SetArchivedAt at 为 nil 时清空 (恢复)，reviewed_at 保持不变
func (r *listingRepo) SetArchivedAt(ctx context.Context, id int64, at *time.Time) error {
	var value interface{} = gorm.Expr("NULL")
	if at != nil {
		value = *at
	}
	return r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ?", id).
		Update("archived_at", value).Error
}

func (r *listingRepo) ListPendingOlderThan(ctx context.Context, before time.Time, limit int) ([]model.Listing, error) {
	var listings []model.Listing
	err := r.db.WithContext(ctx).
		Where("reviewed_at IS NULL AND archived_at IS NULL").
		Where("created_at <= ?", before).
		Order("created_at ASC").
		Limit(limit).
		Find(&listings).Error
	return listings, err
}

func (r *listingRepo) MarkReviewed(ctx context.Context, ids []int64, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id IN ? AND reviewed_at IS NULL", ids).
		Update("reviewed_at", at)
	return res.RowsAffected, res.Error
}

func (r *listingRepo) IncrementViews(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

// CategoryChain 加载分类及其全部上级，Parent 逐级挂好
func (r *listingRepo) CategoryChain(ctx context.Context, categoryID int64) (*model.Category, error) {
	if categoryID <= 0 {
		return nil, nil
	}

	var root *model.Category
	var tail *model.Category
	seen := make(map[int64]bool)

	for id := categoryID; id > 0 && !seen[id] && len(seen) < maxCategoryDepth; {
		var c model.Category
		err := r.db.WithContext(ctx).First(&c, id).Error
		if err == gorm.ErrRecordNotFound {
			break
		}
		if err != nil {
			return nil, err
		}
		seen[id] = true

		node := &model.Category{ID: c.ID, Name: c.Name, ParentID: c.ParentID}
		if root == nil {
			root = node
		} else {
			tail.Parent = node
		}
		tail = node

		if c.ParentID == nil {
			break
		}
		id = *c.ParentID
	}
	return root, nil
}

func (r *listingRepo) WithTx(tx *gorm.DB) ListingRepository {
	return &listingRepo{db: tx}
}

func (r *listingRepo) Transaction(ctx context.Context, fn func(txRepo ListingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// ==================== 内部方法 ====================

// attachCategories 同一分类只查一次
func (r *listingRepo) attachCategories(ctx context.Context, listings []*model.Listing) error {
	cache := make(map[int64]*model.Category)
	for _, l := range listings {
		if l.CategoryID <= 0 {
			continue
		}
		chain, ok := cache[l.CategoryID]
		if !ok {
			var err error
			chain, err = r.CategoryChain(ctx, l.CategoryID)
			if err != nil {
				return err
			}
			cache[l.CategoryID] = chain
		}
		l.Category = chain
	}
	return nil
}

func listingPtrs(listings []model.Listing) []*model.Listing {
	out := make([]*model.Listing, len(listings))
	for i := range listings {
		out[i] = &listings[i]
	}
	return out
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
