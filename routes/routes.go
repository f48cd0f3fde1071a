package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/local-fix/api-go/config"
	"github.com/local-fix/api-go/controllers"
	"github.com/local-fix/api-go/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	storage := controllers.NewStorageService(config.GetStorageConfig())

	// Initialize controllers
	authController := controllers.NewAuthController(db)
	issueController := controllers.NewIssueController(db)
	applicationController := controllers.NewApplicationController(db)
	proofController := controllers.NewProofController(db, storage)
	paymentController := controllers.NewPaymentController(db)
	uploadController := controllers.NewUploadController(storage)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/auth/register", authController.Register)
		public.POST("/auth/login", authController.Login)
		public.GET("/auth/check-email/:email", authController.CheckEmail)
		public.GET("/uploads/image/:folder/:filename", uploadController.ServeImage)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/auth/logout", authController.Logout)
		protected.GET("/auth/profile", authController.GetProfile)
		protected.PUT("/auth/profile", authController.UpdateProfile)
		protected.DELETE("/auth/account", authController.DeleteAccount)

		// Setup other routes within the protected group
		SetupIssueRoutes(protected, issueController, applicationController)
		SetupProofRoutes(protected, proofController)
		SetupPaymentRoutes(protected, paymentController)
		SetupUploadRoutes(protected, uploadController)
	}
}
