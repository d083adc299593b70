package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nd_motors_backend/internal/middleware"
	"nd_motors_backend/internal/service"
)

// ActivityController 经销商操作记录接口
type ActivityController struct {
	activityService *service.ActivityService
}

func NewActivityController(s *service.ActivityService) *ActivityController {
	return &ActivityController{activityService: s}
}

// Recent
// @Summary 最近操作记录
// @Description 返回当前经销商最近 10 条操作记录，新的在前
// @Tags Activity (操作记录模块)
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Activity "操作记录列表"
// @Failure 401 {object} map[string]string "未认证"
// @Router /api/activities [get]
func (ctrl *ActivityController) Recent(c *gin.Context) {
	dealerID := middleware.GetDealerID(c)

	activities, err := ctrl.activityService.Recent(c.Request.Context(), dealerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch activities"})
		return
	}

	c.JSON(http.StatusOK, activities)
}
