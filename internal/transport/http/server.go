package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "jobtracker/internal/app"
	"jobtracker/internal/bootstrap"
	"jobtracker/internal/cache"
	rabbitmqClient "jobtracker/internal/platform/rabbitmq"
	"jobtracker/internal/repository"
	"jobtracker/internal/transport/http/handler"
	"jobtracker/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.DB)
	roleRepo := repository.NewRoleRepository(app.DB)
	appRepo := repository.NewJobApplicationRepository(app.DB)
	activityRepo := repository.NewActivityRepository(app.DB)

	publisher := rabbitmqClient.NewActivityPublisher(app.MQConn, app.Config.RabbitMQ.ActivityQueue)
	statsCache := cache.NewStatsCache(app.Redis, time.Duration(app.Config.Redis.StatsTTLSeconds)*time.Second)

	authService := appsvc.NewAuthService(
		app.DB,
		userRepo,
		roleRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	applicationService := appsvc.NewJobApplicationService(app.DB, appRepo, activityRepo, publisher, statsCache)

	authHandler := handler.NewAuthHandler(authService)
	applicationHandler := handler.NewApplicationHandler(applicationService)

	api := router.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	applications := api.Group("/applications")
	applications.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	applications.GET("", applicationHandler.List)
	applications.GET("/stats", applicationHandler.Statistics)
	applications.GET("/activity", applicationHandler.RecentActivity)
	applications.GET("/:id", applicationHandler.Get)
	applications.POST("", applicationHandler.Create)
	applications.PUT("/:id", applicationHandler.Update)
	applications.DELETE("/:id", applicationHandler.Delete)

	return router
}
