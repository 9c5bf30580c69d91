package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/culturalhub/culturalhub/config"
	"github.com/culturalhub/culturalhub/controllers"
	"github.com/culturalhub/culturalhub/middleware"
	"github.com/culturalhub/culturalhub/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Resolve session identity on every request; record PV afterwards.
	r.Use(middleware.SessionLoader())
	r.Use(middleware.PageViewRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	profileController := controllers.NewProfileController(db)
	contentController := controllers.NewContentController(db)
	commentController := controllers.NewCommentController(db)
	statsController := controllers.NewStatsController(db)

	r.GET("/stats", statsController.GetStats)

	authGroup := r.Group("")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.GET("/login/", authController.LoginPage)
	authGroup.POST("/login/", authController.Login)
	authGroup.POST("/register/", authController.Register)
	r.GET("/logout/", authController.Logout)

	r.GET("/main/", contentController.MainPage)
	r.GET("/user/:user_id/", profileController.Show)
	r.GET("/category/:category", contentController.ByCategory)
	r.GET("/content/:content_id/", contentController.Detail)

	protected := r.Group("")
	protected.Use(middleware.LoginRequired())
	protected.GET("/edit/user/:user_id", profileController.EditForm)
	protected.POST("/edit/user/:user_id", profileController.Edit)
	protected.POST("/content/", contentController.Create)
	protected.GET("/content/:content_id/edit", contentController.EditForm)
	protected.POST("/content/:content_id/edit", contentController.Update)
	protected.POST("/content/:content_id/delete", contentController.Delete)
	protected.POST("/content/:content_id/comment", commentController.Create)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
