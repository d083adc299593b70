package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"nd_motors_backend/internal/controller"
	"nd_motors_backend/internal/middleware"
	"nd_motors_backend/internal/repository"
)

// Controllers 路由依赖的全部控制器
type Controllers struct {
	Dealer   *controller.DealerController
	Vehicle  *controller.VehicleController
	Activity *controller.ActivityController
}

// Config 路由配置
type Config struct {
	AllowedOrigins []string
	UploadDir      string
}

// SetupRouter 注册全部路由
func SetupRouter(
	ctrls Controllers,
	dealerRepo repository.DealerRepository,
	cfg Config,
	log *logrus.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 本地存储的图片静态目录
	uploads := r.Group("/uploads", middleware.StaticAssetHeaders(cfg.AllowedOrigins))
	uploads.Static("/", cfg.UploadDir)

	auth := middleware.JWTAuth(dealerRepo)

	api := r.Group("/api")
	{
		// dealer 经销商账户
		dealers := api.Group("/dealers")
		{
			dealers.POST("/register", ctrls.Dealer.Register)
			dealers.POST("/login", ctrls.Dealer.Login)
			dealers.GET("/profile", auth, ctrls.Dealer.GetProfile)
			dealers.PUT("/profile", auth, ctrls.Dealer.UpdateProfile)
		}

		// vehicle 车辆目录；检索与详情公开，写操作需认证
		vehicles := api.Group("/vehicles")
		{
			vehicles.GET("", ctrls.Vehicle.List)
			vehicles.GET("/:id", ctrls.Vehicle.GetByID)
			vehicles.POST("", auth, ctrls.Vehicle.Create)
			vehicles.PUT("/:id", auth, ctrls.Vehicle.Update)
			vehicles.DELETE("/:id", auth, ctrls.Vehicle.Delete)
			vehicles.PUT("/:id/images", auth, ctrls.Vehicle.AddImages)
			vehicles.DELETE("/:id/images/:imageId", auth, ctrls.Vehicle.RemoveImage)
		}

		// activity 操作记录
		api.GET("/activities", auth, ctrls.Activity.Recent)
	}

	return r
}
