package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"classifieds_app_v1_202610/internal/model"
)

// ==================== 测试辅助 ====================

func setupTestDB(t *testing.T) *gorm.DB {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// seedCategories Vehicles > Cars > Sedans
func seedCategories(t *testing.T, db *gorm.DB) (vehicles, cars, sedans model.Category) {
	vehicles = model.Category{Name: "Vehicles"}
	require.NoError(t, db.Create(&vehicles).Error)
	cars = model.Category{Name: "Cars", ParentID: &vehicles.ID}
	require.NoError(t, db.Create(&cars).Error)
	sedans = model.Category{Name: "Sedans", ParentID: &cars.ID}
	require.NoError(t, db.Create(&sedans).Error)
	return
}

func newListing(userID, categoryID int64, title string, reviewed, archived bool) *model.Listing {
	now := time.Now()
	l := &model.Listing{
		UserID:      userID,
		CategoryID:  categoryID,
		Title:       title,
		Price:       1000,
		Currency:    "UGX",
		FieldValues: datatypes.JSON(`{"mileage":"12000"}`),
	}
	if reviewed {
		l.ReviewedAt = &now
	}
	if archived {
		l.ArchivedAt = &now
	}
	return l
}

func boolRef(b bool) *bool { return &b }

// ==================== 单元测试 ====================

func TestListingRepository_GetByID_CategoryChain(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()
	_, _, sedans := seedCategories(t, db)

	l := newListing(1, sedans.ID, "Corolla", true, false)
	l.Pictures = []model.Picture{{Medium: "m.jpg"}}
	require.NoError(t, repo.Create(ctx, l))

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Sedans", got.Category.Name)
	require.NotNil(t, got.Category.Parent)
	assert.Equal(t, "Cars", got.Category.Parent.Name)
	require.NotNil(t, got.Category.Parent.Parent)
	assert.Equal(t, "Vehicles", got.Category.Parent.Parent.Name)
	assert.Nil(t, got.Category.Parent.Parent.Parent)
	assert.Len(t, got.Pictures, 1)
	assert.JSONEq(t, `{"mileage":"12000"}`, string(got.FieldValues))
}

func TestListingRepository_CategoryChain_Cycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)

	a := model.Category{Name: "A"}
	require.NoError(t, db.Create(&a).Error)
	b := model.Category{Name: "B", ParentID: &a.ID}
	require.NoError(t, db.Create(&b).Error)
	require.NoError(t, db.Model(&a).Update("parent_id", b.ID).Error)

	chain, err := repo.CategoryChain(context.Background(), b.ID)
	require.NoError(t, err)
	depth := 0
	for c := chain; c != nil; c = c.Parent {
		depth++
	}
	assert.Equal(t, 2, depth)
}

func TestListingRepository_List_States(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newListing(1, 0, "published", true, false)))
	require.NoError(t, repo.Create(ctx, newListing(1, 0, "pending", false, false)))
	require.NoError(t, repo.Create(ctx, newListing(1, 0, "archived", true, true)))
	require.NoError(t, repo.Create(ctx, newListing(2, 0, "other", true, false)))

	tests := []struct {
		name   string
		filter ListingFilter
		want   []string
	}{
		{"已发布", ListingFilter{UserID: 1, Approved: boolRef(true), Archived: boolRef(false)}, []string{"published"}},
		{"待审核", ListingFilter{UserID: 1, Approved: boolRef(false), Archived: boolRef(false)}, []string{"pending"}},
		{"已归档", ListingFilter{UserID: 1, Archived: boolRef(true)}, []string{"archived"}},
		{"全部", ListingFilter{UserID: 1}, []string{"archived", "pending", "published"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)
			titles := make([]string, 0, len(items))
			for _, l := range items {
				titles = append(titles, l.Title)
			}
			assert.ElementsMatch(t, tt.want, titles)
		})
	}
}

func TestListingRepository_ArchiveRestoreKeepsReview(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	l := newListing(1, 0, "sofa", true, false)
	require.NoError(t, repo.Create(ctx, l))

	now := time.Now()
	require.NoError(t, repo.SetArchivedAt(ctx, l.ID, &now))
	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ListingStateArchived, got.State())

	require.NoError(t, repo.SetArchivedAt(ctx, l.ID, nil))
	got, err = repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ArchivedAt)
	assert.Equal(t, model.ListingStatePublished, got.State(), "恢复后回到已发布")
}

func TestListingRepository_Similar(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()
	_, cars, sedans := seedCategories(t, db)

	self := newListing(1, cars.ID, "self", true, false)
	require.NoError(t, repo.Create(ctx, self))
	require.NoError(t, repo.Create(ctx, newListing(2, cars.ID, "same", true, false)))
	require.NoError(t, repo.Create(ctx, newListing(2, cars.ID, "pending", false, false)))
	require.NoError(t, repo.Create(ctx, newListing(2, cars.ID, "archived", true, true)))
	require.NoError(t, repo.Create(ctx, newListing(2, sedans.ID, "other", true, false)))

	items, total, err := repo.Similar(ctx, self, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "same", items[0].Title)
}

func TestListingRepository_DeleteByIDs_OwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	mine := newListing(1, 0, "mine", true, false)
	theirs := newListing(2, 0, "theirs", true, false)
	require.NoError(t, repo.Create(ctx, mine))
	require.NoError(t, repo.Create(ctx, theirs))

	n, err := repo.DeleteByIDs(ctx, 1, []int64{mine.ID, theirs.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByID(ctx, mine.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.GetByID(ctx, theirs.ID)
	assert.NoError(t, err)
}

func TestListingRepository_PendingReview(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	old := newListing(1, 0, "old", false, false)
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, db.Model(old).UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)
	require.NoError(t, repo.Create(ctx, newListing(1, 0, "fresh", false, false)))

	pending, err := repo.ListPendingOlderThan(ctx, time.Now().Add(-10*time.Minute), 50)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "old", pending[0].Title)

	n, err := repo.MarkReviewed(ctx, []int64{old.ID}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ListingStatePublished, got.State())
}

func TestListingRepository_AddPicturesAndViews(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	l := newListing(1, 0, "bike", true, false)
	l.Pictures = []model.Picture{{Large: "1.jpg", Position: 1}}
	require.NoError(t, repo.Create(ctx, l))
	require.NoError(t, repo.AddPictures(ctx, l.ID, []model.Picture{{Large: "2.jpg"}, {Large: "3.jpg"}}))
	require.NoError(t, repo.IncrementViews(ctx, l.ID))

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, got.Pictures, 3)
	assert.Equal(t, "1.jpg", got.Pictures[0].Large)
	assert.Equal(t, "3.jpg", got.Pictures[2].Large)
	assert.Equal(t, int64(1), got.ViewsCount)
}

func TestListingRepository_AddPictures_PositionQueryError(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	l := newListing(1, 0, "lamp", true, false)
	require.NoError(t, repo.Create(ctx, l))

	require.NoError(t, db.Callback().Row().Before("gorm:row").Register("test:fail_max_position", func(tx *gorm.DB) {
		if tx.Statement.Table == "listing_pictures" {
			tx.AddError(errors.New("max position unavailable"))
		}
	}))

	err := repo.AddPictures(ctx, l.ID, []model.Picture{{Large: "1.jpg"}})
	assert.ErrorContains(t, err, "max position unavailable")

	var n int64
	require.NoError(t, db.Model(&model.Picture{}).Where("listing_id = ?", l.ID).Count(&n).Error)
	assert.Equal(t, int64(0), n, "查询失败时不写入图片")
}

func TestListingRepository_ListPictures_OwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	mine := newListing(1, 0, "mine", true, false)
	mine.Pictures = []model.Picture{{Original: "a.jpg", Position: 1}, {Original: "b.jpg", Position: 2}}
	require.NoError(t, repo.Create(ctx, mine))
	theirs := newListing(2, 0, "theirs", true, false)
	theirs.Pictures = []model.Picture{{Original: "c.jpg", Position: 1}}
	require.NoError(t, repo.Create(ctx, theirs))

	pictures, err := repo.ListPictures(ctx, 1, []int64{mine.ID, theirs.ID})
	require.NoError(t, err)
	require.Len(t, pictures, 2)
	assert.Equal(t, "a.jpg", pictures[0].Original)
	assert.Equal(t, "b.jpg", pictures[1].Original)

	empty, err := repo.ListPictures(ctx, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
