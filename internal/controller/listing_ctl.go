package controller

import (
	"errors"
	"net/http"
	"strings"

	"classifieds_app_v1_202610/internal/middleware"
	"classifieds_app_v1_202610/internal/model"
	"classifieds_app_v1_202610/internal/repository"
	"classifieds_app_v1_202610/pkg/endpoint"
	"classifieds_app_v1_202610/pkg/logger"
	"classifieds_app_v1_202610/pkg/market"
	"classifieds_app_v1_202610/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ==================== 控制器 ====================

// ListingController 广告接口
// 非本人只能看到已发布的广告，本人可以看到待审核和已归档
type ListingController struct {
	listings  repository.ListingRepository
	favorites repository.FavoriteRepository
	reports   repository.ReportRepository
	store     storage.Provider
	log       *zap.SugaredLogger
}

func NewListingController(listings repository.ListingRepository, favorites repository.FavoriteRepository, reports repository.ReportRepository, store storage.Provider, log *zap.Logger) *ListingController {
	return &ListingController{
		listings:  listings,
		favorites: favorites,
		reports:   reports,
		store:     store,
		log:       logger.OrNop(log).Sugar(),
	}
}

// ==================== 查询 ====================

// List 广告列表
// @Summary 广告列表
// @Tags Listing
// @Param user_id query int false "发布者"
// @Param approved query int false "1 已审核 / 0 待审核"
// @Param archived query int false "1 已归档 / 0 未归档"
// @Param category_id query int false "分类"
// @Router /api/listings [get]
func (ctrl *ListingController) List(c *gin.Context) {
	viewer := middleware.GetUserID(c)
	page, perPage := paging(c)

	filter := repository.ListingFilter{
		UserID:     queryInt64(c, "user_id"),
		CategoryID: queryInt64(c, "category_id"),
		Page:       page,
		PageSize:   perPage,
	}
	if viewer > 0 && filter.UserID == viewer {
		filter.Approved = queryBool(c, "approved")
		filter.Archived = queryBool(c, "archived")
	} else {
		published, active := true, false
		filter.Approved = &published
		filter.Archived = &active
	}

	listings, total, err := ctrl.listings.List(c.Request.Context(), filter)
	if err != nil {
		ctrl.serverError(c, "查询广告列表失败", err)
		return
	}
	respondPage(c, toListingDTOs(listings), page, perPage, total)
}

// Show 广告详情
// 沙箱总是返回完整对象，detailed / embed 参数不影响结果
// @Summary 广告详情
// @Tags Listing
// @Param id path int true "广告ID"
// @Router /api/listings/{id} [get]
func (ctrl *ListingController) Show(c *gin.Context) {
	l, ok := ctrl.loadVisible(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	viewer := middleware.GetUserID(c)
	if viewer != l.UserID {
		if err := ctrl.listings.IncrementViews(ctx, l.ID); err != nil {
			ctrl.log.Warnf("[ListingController] 广告 %d 浏览数更新失败: %v", l.ID, err)
		} else {
			l.ViewsCount++
		}
	}

	dto := toListingDTO(l)
	if viewer > 0 {
		saved, err := ctrl.favorites.IsFavorite(ctx, viewer, l.ID)
		if err != nil {
			ctrl.log.Warnf("[ListingController] 广告 %d 收藏状态查询失败: %v", l.ID, err)
		}
		dto.IsFavorite = saved
	}
	respondData(c, http.StatusOK, dto)
}

// Similar 同分类的其他已发布广告
// @Summary 相似广告
// @Tags Listing
// @Param id path int true "广告ID"
// @Router /api/listings/{id}/similar [get]
func (ctrl *ListingController) Similar(c *gin.Context) {
	l, ok := ctrl.loadVisible(c)
	if !ok {
		return
	}

	page, perPage := paging(c)
	similar, total, err := ctrl.listings.Similar(c.Request.Context(), l, page, perPage)
	if err != nil {
		ctrl.serverError(c, "查询相似广告失败", err)
		return
	}
	respondPage(c, toListingDTOs(similar), page, perPage, total)
}

// ==================== 写入 ====================

// Create 发布广告，新广告进入待审核
// @Summary 发布广告
// @Tags Listing
// @Accept multipart/form-data
// @Router /api/listings [post]
func (ctrl *ListingController) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	in, err := parseFormInput(c)
	if err != nil {
		respondInputError(c, err)
		return
	}
	if _, ok := in.updates["title"]; !ok {
		respondError(c, http.StatusUnprocessableEntity, "The title field is required.")
		return
	}

	pictures, err := uploadPictures(c, ctrl.store, ctrl.log)
	if err != nil {
		ctrl.inputOrServerError(c, err)
		return
	}

	listing := model.Listing{UserID: userID}
	in.apply(&listing)

	ctx := c.Request.Context()
	err = ctrl.listings.Transaction(ctx, func(tx repository.ListingRepository) error {
		if err := tx.Create(ctx, &listing); err != nil {
			return err
		}
		return tx.AddPictures(ctx, listing.ID, pictures)
	})
	if err != nil {
		discardPictures(ctx, ctrl.store, pictures, ctrl.log)
		ctrl.serverError(c, "创建广告失败", err)
		return
	}

	created, err := ctrl.listings.GetByID(ctx, listing.ID)
	if err != nil {
		ctrl.serverError(c, "读取广告失败", err)
		return
	}
	ctrl.log.Infof("[ListingController] 用户 %d 发布广告 %d", userID, listing.ID)
	respondData(c, http.StatusCreated, toListingDTO(created))
}

// Update 修改广告
// JSON 用于归档/恢复 (archived_at 为 null 即恢复)，multipart 用于编辑和追加图片
// @Summary 修改广告
// @Tags Listing
// @Param id path int true "广告ID"
// @Router /api/listings/{id} [put]
func (ctrl *ListingController) Update(c *gin.Context) {
	l, ok := ctrl.loadOwned(c)
	if !ok {
		return
	}

	var in *listingInput
	var err error
	if strings.HasPrefix(c.ContentType(), "application/json") {
		body, readErr := c.GetRawData()
		if readErr != nil {
			respondError(c, http.StatusBadRequest, "Unable to read request body.")
			return
		}
		in, err = parseJSONInput(body)
	} else {
		in, err = parseFormInput(c)
	}
	if err != nil {
		respondInputError(c, err)
		return
	}

	pictures, err := uploadPictures(c, ctrl.store, ctrl.log)
	if err != nil {
		ctrl.inputOrServerError(c, err)
		return
	}

	ctx := c.Request.Context()
	err = ctrl.listings.Transaction(ctx, func(tx repository.ListingRepository) error {
		if err := tx.UpdateFields(ctx, l.ID, in.updates); err != nil {
			return err
		}
		if in.archive {
			if err := tx.SetArchivedAt(ctx, l.ID, in.archivedAt); err != nil {
				return err
			}
		}
		return tx.AddPictures(ctx, l.ID, pictures)
	})
	if err != nil {
		discardPictures(ctx, ctrl.store, pictures, ctrl.log)
		ctrl.serverError(c, "更新广告失败", err)
		return
	}

	updated, err := ctrl.listings.GetByID(ctx, l.ID)
	if err != nil {
		ctrl.serverError(c, "读取广告失败", err)
		return
	}
	if in.archive {
		ctrl.log.Infof("[ListingController] 广告 %d 状态变更为 %s", l.ID, updated.State())
	}
	respondData(c, http.StatusOK, toListingDTO(updated))
}

// Delete 批量删除，路径为逗号分隔的 ID，只删除本人的广告
// @Summary 删除广告
// @Tags Listing
// @Param id path string true "广告ID，逗号分隔"
// @Router /api/listings/{id} [delete]
func (ctrl *ListingController) Delete(c *gin.Context) {
	ids := endpoint.SplitIDs(c.Param("id"))
	if len(ids) == 0 {
		respondError(c, http.StatusBadRequest, "Invalid id.")
		return
	}

	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	pictures, err := ctrl.listings.ListPictures(ctx, userID, ids)
	if err != nil {
		ctrl.serverError(c, "查询广告图片失败", err)
		return
	}
	deleted, err := ctrl.listings.DeleteByIDs(ctx, userID, ids)
	if err != nil {
		ctrl.serverError(c, "删除广告失败", err)
		return
	}
	if deleted == 0 {
		respondError(c, http.StatusNotFound, "Listing not found")
		return
	}
	discardPictures(ctx, ctrl.store, pictures, ctrl.log)

	ctrl.log.Infof("[ListingController] 用户 %d 删除广告 %v，实际删除 %d 条", userID, ids, deleted)
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "deleted",
		"data":    gin.H{"deleted": deleted},
	})
}

// Report 举报广告
// @Summary 举报广告
// @Tags Listing
// @Param id path int true "广告ID"
// @Param body body market.ReportReq true "举报内容"
// @Router /api/listings/{id}/reports [post]
func (ctrl *ListingController) Report(c *gin.Context) {
	l, ok := ctrl.loadVisible(c)
	if !ok {
		return
	}

	var req market.ReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		respondError(c, http.StatusUnprocessableEntity, "The reason field is required.")
		return
	}

	report := &model.Report{
		ListingID: l.ID,
		UserID:    middleware.GetUserID(c),
		Reason:    req.Reason,
		Message:   strings.TrimSpace(req.Message),
	}
	if err := ctrl.reports.Create(c.Request.Context(), report); err != nil {
		ctrl.serverError(c, "保存举报失败", err)
		return
	}
	ctrl.log.Infof("[ListingController] 广告 %d 被用户 %d 举报: %s", l.ID, report.UserID, report.Reason)
	respondData(c, http.StatusCreated, report)
}

// ==================== 内部方法 ====================

// loadVisible 非本人只能访问已发布广告，其余一律 404
func (ctrl *ListingController) loadVisible(c *gin.Context) (*model.Listing, bool) {
	l, ok := ctrl.load(c)
	if !ok {
		return nil, false
	}
	if l.UserID != middleware.GetUserID(c) && l.State() != model.ListingStatePublished {
		respondError(c, http.StatusNotFound, "Listing not found")
		return nil, false
	}
	return l, true
}

// loadOwned 只允许本人修改
func (ctrl *ListingController) loadOwned(c *gin.Context) (*model.Listing, bool) {
	l, ok := ctrl.load(c)
	if !ok {
		return nil, false
	}
	if l.UserID != middleware.GetUserID(c) {
		respondError(c, http.StatusForbidden, "You do not own this listing.")
		return nil, false
	}
	return l, true
}

func (ctrl *ListingController) load(c *gin.Context) (*model.Listing, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}
	l, err := ctrl.listings.GetByID(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, "Listing not found")
		return nil, false
	}
	if err != nil {
		ctrl.serverError(c, "查询广告失败", err)
		return nil, false
	}
	return l, true
}

func (ctrl *ListingController) inputOrServerError(c *gin.Context, err error) {
	if errors.Is(err, errInvalidInput) {
		respondInputError(c, err)
		return
	}
	ctrl.serverError(c, "处理图片失败", err)
}

func (ctrl *ListingController) serverError(c *gin.Context, what string, err error) {
	ctrl.log.Errorf("[ListingController] %s: %v", what, err)
	respondError(c, http.StatusInternalServerError, "Server error.")
}

// respondInputError 校验失败返回 422，去掉内部前缀
func respondInputError(c *gin.Context, err error) {
	msg := strings.TrimPrefix(err.Error(), errInvalidInput.Error()+": ")
	respondError(c, http.StatusUnprocessableEntity, msg)
}
