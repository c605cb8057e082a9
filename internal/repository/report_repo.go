package repository

import (
	"context"

	"gorm.io/gorm"

	"classifieds_app_v1_202610/internal/model"
)

// ReportRepository 举报仓储
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	CountByListing(ctx context.Context, listingID int64) (int64, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepo) CountByListing(ctx context.Context, listingID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Report{}).Where("listing_id = ?", listingID).Count(&n).Error
	return n, err
}
