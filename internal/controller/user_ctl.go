package controller

import (
	"net/http"

	"classifieds_app_v1_202610/internal/repository"
	"classifieds_app_v1_202610/pkg/logger"
	"classifieds_app_v1_202610/pkg/market"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserController 用户接口
type UserController struct {
	users repository.UserRepository
	log   *zap.SugaredLogger
}

func NewUserController(users repository.UserRepository, log *zap.Logger) *UserController {
	return &UserController{users: users, log: logger.OrNop(log).Sugar()}
}

// Stats 用户广告统计，每次实时计算
// @Summary 用户统计
// @Tags User
// @Param id path int true "用户ID"
// @Success 200 {object} market.UserStatsDTO
// @Router /api/users/{id}/stats [get]
func (ctrl *UserController) Stats(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := ctrl.users.GetByID(ctx, id)
	if err != nil {
		ctrl.log.Errorf("[UserController] 查询用户 %d 失败: %v", id, err)
		respondError(c, http.StatusInternalServerError, "Server error.")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	stats, err := ctrl.users.Stats(ctx, id)
	if err != nil {
		ctrl.log.Errorf("[UserController] 统计用户 %d 失败: %v", id, err)
		respondError(c, http.StatusInternalServerError, "Server error.")
		return
	}

	respondData(c, http.StatusOK, market.UserStatsDTO{
		Published:  stats.Published,
		Pending:    stats.Pending,
		Archived:   stats.Archived,
		Visits:     stats.Visits,
		Favourites: stats.Favourites,
	})
}
