package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/local-fix/api-go/controllers"
	"github.com/local-fix/api-go/middleware"
	"github.com/local-fix/api-go/models"
)

func SetupProofRoutes(protected *gin.RouterGroup, proofController *controllers.ProofController) {
	issues := protected.Group("/issues")
	{
		issues.PUT("/:id/start", middleware.RequireRole(models.RoleWorker), proofController.StartWork)
		issues.POST("/:id/proof", middleware.RequireRole(models.RoleWorker), proofController.SubmitProof)
		issues.GET("/:id/proof", proofController.GetIssueProof)
	}

	proofs := protected.Group("/proofs")
	{
		proofs.GET("/pending", middleware.RequireRole(models.RoleAdmin), proofController.GetPendingProofs)
		proofs.PUT("/:id/approve", middleware.RequireRole(models.RoleAdmin), proofController.ApproveProof)
		proofs.PUT("/:id/reject", middleware.RequireRole(models.RoleAdmin), proofController.RejectProof)
	}
}
