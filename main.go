package main

import (
	"log"
	"net/http"
	"os"

	"media/config"

	"media/jobs"
	"media/routes"
	"media/services"
	"media/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func migrateTables() {
	// if err := config.DB.AutoMigrate(&models.Business{}, &models.MediaAsset{}, &models.Collection{}, &models.MemberEarning{}, &models.Transaction{}, &models.PayoutHistory{}, &models.BusinessRevenue{}); err != nil {
	// 	panic("Failed to migrate tables: " + err.Error())
	// }
}

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: không load được file .env, sử dụng biến môi trường có sẵn: %v", err)
	}

	router, m, c, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	services.ConnectElastic()

	revenueService := services.NewRevenueService(services.RevenueServiceOptions{
		DB:     config.DB,
		Logger: logger.NewDefaultLogger(logger.InfoLevel),
	})
	revenueServiceAdapter := services.NewRevenueServiceAdapter(revenueService)
	jobs.SetRevenueSnapshotter(revenueServiceAdapter)

	migrateTables()

	if err := jobs.InitCronJobs(c, m); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	config.InitWebSocket(router, m)

	routes.SetupRoutes(router, config.DB, config.RedisClient, config.Cloudinary, m)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8083"
	}

	log.Println("Server starting on port " + port + "...")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
