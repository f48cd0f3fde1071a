package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/local-fix/api-go/controllers"
	"github.com/local-fix/api-go/middleware"
	"github.com/local-fix/api-go/models"
)

func SetupPaymentRoutes(protected *gin.RouterGroup, paymentController *controllers.PaymentController) {
	payments := protected.Group("/payments")
	{
		payments.GET("", middleware.RequireRole(models.RoleAdmin), paymentController.GetPendingPayments)
		payments.POST("", middleware.RequireRole(models.RoleAdmin), paymentController.CreatePayments)

		// Worker earnings and withdrawals
		payments.GET("/worker/summary", middleware.RequireRole(models.RoleWorker), paymentController.GetWorkerSummary)
		payments.GET("/worker/withdrawals", middleware.RequireRole(models.RoleWorker), paymentController.GetWorkerWithdrawals)
		payments.POST("/worker/withdrawals", middleware.RequireRole(models.RoleWorker), paymentController.CreateWithdrawal)
	}
}
