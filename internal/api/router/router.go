package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anushka-2626/Seat-booking-system/config"
	"github.com/anushka-2626/Seat-booking-system/internal/api/handler"
	"github.com/anushka-2626/Seat-booking-system/internal/api/middleware"
	"github.com/anushka-2626/Seat-booking-system/internal/model"
	"github.com/anushka-2626/Seat-booking-system/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时订座接口不限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, limiter middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	if cfg.Server.MaxBodyBytes > 0 {
		r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	}

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	admin := middleware.RoleAuth(model.RoleAdmin)
	bookLimit := middleware.RateLimit(limiter, cfg.Booking.RateLimit, cfg.Booking.RateWindow)

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		// 员工目录
		employees := v1.Group("/employees")
		{
			employees.GET("/me", h.Employee.Me)
			employees.GET("", admin, h.Employee.List)
		}

		// 批次排班
		schedule := v1.Group("/schedule")
		{
			schedule.GET("/working-days", h.Schedule.WorkingDays)
			schedule.GET("/allowed-seats", h.Schedule.AllowedSeats)
		}

		// 座位设置
		settings := v1.Group("/settings")
		{
			settings.GET("", h.Settings.Get)
			settings.PUT("", admin, h.Settings.Update)
		}

		// 节假日
		holidays := v1.Group("/holidays")
		{
			holidays.GET("", h.Holiday.List)
			holidays.POST("", admin, h.Holiday.Create)
			holidays.POST("/import", admin, h.Holiday.Import)
			holidays.DELETE("/:id", admin, h.Holiday.Delete)
		}

		// 座位分配
		allocations := v1.Group("/allocations")
		{
			allocations.GET("", h.Allocation.ListDay)
			allocations.GET("/me", h.Allocation.ListMine)
			allocations.POST("/seed", h.Allocation.Seed)
			allocations.POST("/check", h.Allocation.Check)
			allocations.POST("/book", bookLimit, h.Allocation.Book)
			allocations.POST("/release", h.Allocation.Release)
		}

		// 管理员座位操作
		adminAllocations := v1.Group("/admin/allocations", admin)
		{
			adminAllocations.GET("", h.Allocation.ListWeek)
			adminAllocations.POST("/seed-week", h.Allocation.SeedWeek)
			adminAllocations.POST("/:id/force-release", h.Allocation.ForceRelease)
			adminAllocations.POST("/:id/lock", h.Allocation.Lock)
			adminAllocations.POST("/:id/unlock", h.Allocation.Unlock)
		}

		// 报表
		reports := v1.Group("/reports/weeks/:week")
		{
			reports.GET("/summary", h.Report.WeekSummary)
			reports.GET("/export", admin, h.Report.ExportWeek)
		}
	}

	return r
}
