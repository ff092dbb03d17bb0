package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/middleware"
	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/internal/service"
	"github.com/coursedeck/coursedeck-api/pkg/config"
	"github.com/coursedeck/coursedeck-api/pkg/logger"
	corsmiddleware "github.com/coursedeck/coursedeck-api/pkg/middleware/cors"
	reqidmiddleware "github.com/coursedeck/coursedeck-api/pkg/middleware/requestid"
)

// Router bundles everything needed to assemble the HTTP surface.
type Router struct {
	Config    *config.Config
	Logger    *zap.Logger
	Tokens    *service.TokenService
	Metrics   *service.MetricsService
	Accounts  *AccountHandler
	Courses   *CourseHandler
	Purchases *PurchaseHandler
}

// Build assembles the gin engine with ambient middleware and all routes.
func (r *Router) Build() *gin.Engine {
	if r.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(reqidmiddleware.Middleware())
	engine.Use(logger.GinMiddleware(r.Logger))
	engine.Use(corsmiddleware.New(r.Config.CORS.AllowedOrigins))
	engine.Use(middleware.Metrics(r.Metrics))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if r.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(r.Metrics.Handler()))
	}

	if r.Config.Env != config.EnvProduction {
		engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireUser := middleware.RequireRole(r.Tokens, models.RoleUser)
	requireAdmin := middleware.RequireRole(r.Tokens, models.RoleAdmin)

	user := engine.Group("/user")
	{
		user.POST("/signup", r.Accounts.Signup(models.RoleUser))
		user.POST("/signin", r.Accounts.Signin(models.RoleUser))
		user.GET("/purchases", requireUser, r.Purchases.List)
		user.GET("/purchases/:id/receipt", requireUser, r.Purchases.Receipt)
	}

	course := engine.Group("/course")
	{
		course.GET("/preview", r.Courses.Preview)
		course.POST("/purchase", requireUser, r.Purchases.Purchase)
	}

	admin := engine.Group("/admin")
	{
		admin.POST("/signup", r.Accounts.Signup(models.RoleAdmin))
		admin.POST("/signin", r.Accounts.Signin(models.RoleAdmin))
		admin.POST("/course", requireAdmin, r.Courses.Create)
		admin.PUT("/course", requireAdmin, r.Courses.Update)
		admin.GET("/course", requireAdmin, r.Courses.List)
	}

	return engine
}
