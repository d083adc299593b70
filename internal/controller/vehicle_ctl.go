package controller

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nd_motors_backend/internal/api/dto"
	"nd_motors_backend/internal/middleware"
	"nd_motors_backend/internal/repository"
	"nd_motors_backend/internal/service"
)

// 单次上传图片数量上限
const maxImagesPerUpload = 10

// VehicleController 车辆目录接口
type VehicleController struct {
	vehicleService *service.VehicleService
}

func NewVehicleController(s *service.VehicleService) *VehicleController {
	return &VehicleController{vehicleService: s}
}

// List
// @Summary 车辆检索
// @Description 公开接口，支持关键字 + 筛选 + 分页；默认只返回在售车辆
// @Tags Vehicle (车辆模块)
// @Produce json
// @Param page query int false "页码，默认 1"
// @Param limit query int false "每页数量，默认 10，最大 100"
// @Param search query string false "关键字，匹配 title/make/model/description"
// @Param make query string false "品牌"
// @Param model query string false "型号"
// @Param minPrice query number false "最低价"
// @Param maxPrice query number false "最高价"
// @Param minYear query int false "最早年份"
// @Param maxYear query int false "最晚年份"
// @Param fuelType query string false "燃料类型"
// @Param transmission query string false "变速箱"
// @Param condition query string false "车况"
// @Param status query string false "状态，默认 active"
// @Success 200 {object} dto.VehicleListResponse "分页结果"
// @Failure 400 {object} map[string]string "参数错误"
// @Router /api/vehicles [get]
func (ctrl *VehicleController) List(c *gin.Context) {
	var req dto.VehicleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid query: " + err.Error()})
		return
	}

	filter := repository.VehicleFilter{
		Status:       req.Status,
		Search:       req.Search,
		Make:         req.Make,
		Model:        req.Model,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		Condition:    req.Condition,
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		MinYear:      req.MinYear,
		MaxYear:      req.MaxYear,
		Page:         req.Page,
		PageSize:     req.Limit,
	}

	resp, err := ctrl.vehicleService.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch vehicles"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetByID
// @Summary 车辆详情
// @Description 公开接口，返回车辆及其图片（按 order 升序）
// @Tags Vehicle (车辆模块)
// @Produce json
// @Param id path int true "车辆 ID"
// @Success 200 {object} model.Vehicle "车辆详情"
// @Failure 404 {object} map[string]string "不存在"
// @Router /api/vehicles/{id} [get]
func (ctrl *VehicleController) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	vehicle, err := ctrl.vehicleService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Vehicle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch vehicle"})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// Create
// @Summary 新建车辆
// @Description multipart 表单，images 字段可携带最多 10 张图片，首张为主图
// @Tags Vehicle (车辆模块)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} model.Vehicle "新建的车辆"
// @Failure 400 {object} map[string]string "参数错误/图片超限"
// @Failure 401 {object} map[string]string "未认证"
// @Router /api/vehicles [post]
func (ctrl *VehicleController) Create(c *gin.Context) {
	var req dto.VehicleCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request: " + err.Error()})
		return
	}

	files, ok := readImageFiles(c)
	if !ok {
		return
	}

	dealerID := middleware.GetDealerID(c)

	vehicle, err := ctrl.vehicleService.Create(c.Request.Context(), dealerID, &req, files)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create vehicle"})
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

// Update
// @Summary 更新车辆
// @Description 部分更新；multipart 携带的新图片只追加到相册末尾
// @Tags Vehicle (车辆模块)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆 ID"
// @Success 200 {object} model.Vehicle "更新后的车辆"
// @Failure 401 {object} map[string]string "未认证"
// @Failure 404 {object} map[string]string "不存在或不属于当前经销商"
// @Router /api/vehicles/{id} [put]
func (ctrl *VehicleController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.VehicleUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request: " + err.Error()})
		return
	}

	files, ok := readImageFiles(c)
	if !ok {
		return
	}

	dealerID := middleware.GetDealerID(c)

	vehicle, err := ctrl.vehicleService.Update(c.Request.Context(), id, dealerID, &req, files)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Vehicle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update vehicle"})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// Delete
// @Summary 删除车辆
// @Description 连同图片行与图片文件一并删除
// @Tags Vehicle (车辆模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆 ID"
// @Success 200 {object} map[string]string "删除成功"
// @Failure 401 {object} map[string]string "未认证"
// @Failure 404 {object} map[string]string "不存在或不属于当前经销商"
// @Router /api/vehicles/{id} [delete]
func (ctrl *VehicleController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	dealerID := middleware.GetDealerID(c)

	if err := ctrl.vehicleService.Delete(c.Request.Context(), id, dealerID); err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Vehicle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete vehicle"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted successfully"})
}

// AddImages
// @Summary 追加车辆图片
// @Description 新图片追加到相册末尾；相册为空时首张补位主图
// @Tags Vehicle (车辆模块)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆 ID"
// @Success 200 {object} model.Vehicle "更新后的车辆"
// @Failure 400 {object} map[string]string "未携带图片/图片超限"
// @Failure 401 {object} map[string]string "未认证"
// @Failure 404 {object} map[string]string "不存在或不属于当前经销商"
// @Router /api/vehicles/{id}/images [put]
func (ctrl *VehicleController) AddImages(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	files, ok := readImageFiles(c)
	if !ok {
		return
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No images provided"})
		return
	}

	dealerID := middleware.GetDealerID(c)

	vehicle, err := ctrl.vehicleService.AddImages(c.Request.Context(), id, dealerID, files)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Vehicle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add images"})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// RemoveImage
// @Summary 删除车辆单张图片
// @Tags Vehicle (车辆模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆 ID"
// @Param imageId path int true "图片 ID"
// @Success 200 {object} map[string]string "删除成功"
// @Failure 401 {object} map[string]string "未认证"
// @Failure 404 {object} map[string]string "图片不存在或车辆不属于当前经销商"
// @Router /api/vehicles/{id}/images/{imageId} [delete]
func (ctrl *VehicleController) RemoveImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "imageId")
	if !ok {
		return
	}

	dealerID := middleware.GetDealerID(c)

	if err := ctrl.vehicleService.RemoveImage(c.Request.Context(), id, imageID, dealerID); err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

// ==================== 辅助方法 ====================

// parseIDParam 解析路径中的数字 ID，失败时直接写 400 响应
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// readImageFiles 读取 multipart 的 images 字段
// 没有表单或没有 images 字段返回空切片；超过上限写 400 并返回 false。
func readImageFiles(c *gin.Context) ([]service.UploadedFile, bool) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, true
	}

	headers := form.File["images"]
	if len(headers) == 0 {
		return nil, true
	}
	if len(headers) > maxImagesPerUpload {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Maximum 10 images allowed"})
		return nil, false
	}

	files := make([]service.UploadedFile, 0, len(headers))
	for _, header := range headers {
		data, err := readFileHeader(header)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to read uploaded file"})
			return nil, false
		}
		files = append(files, service.UploadedFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	return files, true
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
