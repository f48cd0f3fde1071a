package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/local-fix/api-go/controllers"
)

func SetupUploadRoutes(protected *gin.RouterGroup, uploadController *controllers.UploadController) {
	uploads := protected.Group("/uploads")
	{
		// Profile and issue images; proof photos go through the proof
		// submission endpoint
		uploads.POST("/image", uploadController.UploadImage)
	}
}
