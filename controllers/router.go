package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/srad/techhub/conf"
	v1 "github.com/srad/techhub/controllers/api/v1"
	"github.com/srad/techhub/docs"
	"github.com/srad/techhub/jobs"
	"github.com/srad/techhub/middlewares"
)

// @title           TechHub API
// @version         1.0
// @description     Asynchronous job orchestration for the TechHub backend.
//
// @contact.name   API Support
// @contact.url    https://github.com/srad
//
// @host      localhost:3000
// @BasePath  /api/v1

func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
		AllowWebSockets:  true,
	}

	if origin == "" || origin == "*" {
		cfg.AllowOriginFunc = func(origin string) bool {
			return true
		}
	} else {
		cfg.AllowOrigins = strings.Split(origin, ",")
	}

	return cfg
}

// Setup initializes the routes. Job processing must be started before
// requests arrive, handlers answer 503 otherwise.
func Setup(version, commit string) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(conf.AppCfg.CorsOrigin)))

	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	health := router.Group("/api/health")
	{
		health.GET("", v1.Health(version, commit))
		health.GET("/ready", v1.Ready)
	}

	apiV1 := router.Group("/api/v1")
	apiV1.Use(middlewares.Identity)
	{
		// Auth
		apiV1.POST("/auth/signup", v1.CreateUser)
		apiV1.POST("/auth/login", v1.Login)
		apiV1.GET("/user/profile", middlewares.CheckAuthorizationHeader, v1.GetUserProfile)

		// Jobs
		apiV1.POST("/jobs", v1.CreateJob)
		apiV1.GET("/jobs", v1.ListJobs)
		apiV1.GET("/jobs/processors", v1.GetProcessors)
		apiV1.GET("/jobs/:jobId", v1.GetJob)
		apiV1.DELETE("/jobs/:jobId", v1.CancelJob)

		// Deferrable processors
		apiV1.POST("/reports", v1.Deferrable(jobs.ProcessorKey("ReportController", "GenerateReport")))
		apiV1.POST("/data/process", v1.Deferrable(jobs.ProcessorKey("DataController", "ProcessData")))
		apiV1.POST("/ml/train", v1.Deferrable(jobs.ProcessorKey("TrainingController", "TrainModel")))

		apiV1.GET("/ws", v1.SocketHandler)
	}

	return router
}
