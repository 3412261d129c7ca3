package routes

import (
	"context"
	"fmt"
	"net/http"

	"media/config"
	"media/controllers"
	middlewares "media/middleware"
	"media/services"
	"media/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/redis/go-redis/v9"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, redisCli *redis.Client, cld *cloudinary.Cloudinary, m *melody.Melody) {

	gateway := services.NewStripeService(services.StripeServiceOptions{
		APIKey:      config.GetEnv("STRIPE_SECRET_KEY"),
		FrontendURL: config.GetEnv("FRONTEND_URL"),
		Logger:      logger.NewDefaultLogger(logger.InfoLevel),
	})

	businessController := controllers.NewBusinessController(db, redisCli)
	collectionController := controllers.NewCollectionController(db, redisCli)
	licenseController := controllers.NewLicenseController(db, redisCli, gateway, m)
	payoutController := controllers.NewPayoutController(db, gateway)
	subscriptionController := controllers.NewSubscriptionController(db, gateway)

	v1 := router.Group("/api/v1")
	v1.Use(middlewares.SessionMiddleware())

	v1.POST("/auth/register", controllers.RegisterBusiness)
	v1.POST("/auth/login", controllers.Login)
	v1.DELETE("/auth/logout", controllers.Logout)
	v1.POST("/auth/google", controllers.AuthGoogle)

	v1.GET("/businesses", middlewares.AuthMiddleware(1), businessController.GetBusinesses)
	v1.GET("/businesses/:id", businessController.GetBusinessByID)
	v1.PUT("/businesses", businessController.UpdateBusiness)
	v1.PUT("/businessStatus", middlewares.AuthMiddleware(1), businessController.ChangeBusinessStatus)
	v1.GET("/profile", businessController.GetProfile)

	v1.GET("/media", controllers.GetAllMedia)
	v1.POST("/media", controllers.CreateMedia)
	v1.GET("/media/:id", controllers.GetMediaDetail)
	v1.PUT("/media/:id", controllers.UpdateMedia)
	v1.PUT("/mediaStatus", controllers.ChangeMediaStatus)

	v1.GET("/search", controllers.SearchMedia)
	v1.GET("/autocomplete", controllers.AutocompleteMedia)
	v1.POST("/reindex", middlewares.AuthMiddleware(1), controllers.ReindexMedia)

	v1.GET("/collections", collectionController.GetCollections)
	v1.POST("/collections", collectionController.CreateCollection)
	v1.GET("/collections/:id", collectionController.GetCollectionDetail)
	v1.PUT("/collections/:id", collectionController.UpdateCollection)
	v1.POST("/collections/:id/members", collectionController.AddCollectionMember)
	v1.POST("/collections/:id/media", collectionController.AddCollectionMedia)
	v1.GET("/collections/:id/earnings", collectionController.GetCollectionEarnings)

	v1.POST("/licenses", licenseController.PurchaseLicense)
	v1.POST("/refunds", licenseController.RefundTransaction)
	v1.GET("/transactions", licenseController.GetTransactions)
	v1.GET("/transactions/:id", licenseController.GetTransactionDetail)

	v1.POST("/connect/onboarding", payoutController.StartConnectOnboarding)
	v1.POST("/payouts", payoutController.CreatePayout)
	v1.GET("/payouts", payoutController.GetPayoutHistory)

	v1.POST("/subscriptions", subscriptionController.CreateSubscription)
	v1.DELETE("/subscriptions/:id", subscriptionController.CancelSubscription)

	//doanh thu
	v1.GET("/revenue", controllers.GetTotalRevenue)
	v1.GET("/businessRevenue", controllers.GetBusinessRevenue)

	v1.POST("/img/multi-upload", func(c *gin.Context) {
		form, er := c.MultipartForm()
		if er != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Không có file"})
		}
		files := form.File["files"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Không có file"})
			return
		}

		var urls []string
		for _, file := range files {
			src, err := file.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Lỗi khi mở file"})
				return
			}
			defer src.Close()

			ctx := context.Background()
			resp, err := cld.Upload.Upload(ctx, src, uploader.UploadParams{Folder: "uploads"})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload thất bại"})
				return
			}
			urls = append(urls, resp.SecureURL)
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Upload thành công",
			"urls":    urls,
		})
	})

	//ws
	v1.GET("/test-broadcast", func(c *gin.Context) {
		message := []byte("Thông báo từ backend: Tin nhắn mới!")
		fmt.Println("Broadcasting message:", string(message))
		m.Broadcast(message)
		c.String(200, "Broadcast message sent!")
	})

}
