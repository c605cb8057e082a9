package controller

import (
	"errors"
	"net/http"

	"classifieds_app_v1_202610/internal/middleware"
	"classifieds_app_v1_202610/internal/model"
	"classifieds_app_v1_202610/internal/repository"
	"classifieds_app_v1_202610/pkg/endpoint"
	"classifieds_app_v1_202610/pkg/logger"
	"classifieds_app_v1_202610/pkg/market"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FavoriteController 收藏接口
// 收藏记录只返回 listing_id，已删除的广告仍保留在收藏里
type FavoriteController struct {
	favorites repository.FavoriteRepository
	listings  repository.ListingRepository
	log       *zap.SugaredLogger
}

func NewFavoriteController(favorites repository.FavoriteRepository, listings repository.ListingRepository, log *zap.Logger) *FavoriteController {
	return &FavoriteController{
		favorites: favorites,
		listings:  listings,
		log:       logger.OrNop(log).Sugar(),
	}
}

// List 当前用户的收藏
// @Summary 收藏列表
// @Tags Favorite
// @Param page query int false "页码"
// @Router /api/favorites [get]
func (ctrl *FavoriteController) List(c *gin.Context) {
	page, perPage := paging(c)
	favs, total, err := ctrl.favorites.List(c.Request.Context(), middleware.GetUserID(c), page, perPage)
	if err != nil {
		ctrl.log.Errorf("[FavoriteController] 查询收藏失败: %v", err)
		respondError(c, http.StatusInternalServerError, "Server error.")
		return
	}

	data := make([]market.FavoriteDTO, 0, len(favs))
	for i := range favs {
		data = append(data, toFavoriteDTO(&favs[i]))
	}
	respondPage(c, data, page, perPage, total)
}

// Add 收藏，重复收藏返回已有记录
// @Summary 添加收藏
// @Tags Favorite
// @Param body body market.FavoriteReq true "广告"
// @Router /api/favorites [post]
func (ctrl *FavoriteController) Add(c *gin.Context) {
	var req market.FavoriteReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ListingID <= 0 {
		respondError(c, http.StatusUnprocessableEntity, "The listing id field is required.")
		return
	}

	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	l, err := ctrl.listings.GetByID(ctx, req.ListingID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && l.UserID != userID && l.State() != model.ListingStatePublished) {
		respondError(c, http.StatusNotFound, "Listing not found")
		return
	}
	if err != nil {
		ctrl.log.Errorf("[FavoriteController] 查询广告 %d 失败: %v", req.ListingID, err)
		respondError(c, http.StatusInternalServerError, "Server error.")
		return
	}

	fav, created, err := ctrl.favorites.Add(ctx, userID, req.ListingID)
	if err != nil {
		ctrl.log.Errorf("[FavoriteController] 收藏广告 %d 失败: %v", req.ListingID, err)
		respondError(c, http.StatusInternalServerError, "Server error.")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondData(c, status, toFavoriteDTO(fav))
}

// Remove 取消收藏，路径为逗号分隔的广告 ID
// @Summary 取消收藏
// @Tags Favorite
// @Param ids path string true "广告ID，逗号分隔"
// @Router /api/favorites/{ids} [delete]
func (ctrl *FavoriteController) Remove(c *gin.Context) {
	ids := endpoint.SplitIDs(c.Param("ids"))
	if len(ids) == 0 {
		respondError(c, http.StatusBadRequest, "Invalid id.")
		return
	}

	removed, err := ctrl.favorites.RemoveByListingIDs(c.Request.Context(), middleware.GetUserID(c), ids)
	if err != nil {
		ctrl.log.Errorf("[FavoriteController] 取消收藏 %v 失败: %v", ids, err)
		respondError(c, http.StatusInternalServerError, "Server error.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "removed",
		"data":    gin.H{"removed": removed},
	})
}
