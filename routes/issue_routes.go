package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/local-fix/api-go/controllers"
	"github.com/local-fix/api-go/middleware"
	"github.com/local-fix/api-go/models"
)

func SetupIssueRoutes(protected *gin.RouterGroup, issueController *controllers.IssueController, applicationController *controllers.ApplicationController) {
	issues := protected.Group("/issues")
	{
		issues.POST("", middleware.RequireRole(models.RoleCitizen), issueController.CreateIssue)
		issues.GET("", issueController.GetAllIssues)
		issues.GET("/:id", issueController.GetIssueByID)
		issues.PUT("/:id", issueController.UpdateIssue)
		issues.DELETE("/:id", issueController.DeleteIssue)
		issues.PUT("/:id/status", middleware.RequireRole(models.RoleAdmin), issueController.UpdateIssueStatus)

		// Citizen dashboard
		issues.GET("/user/stats", middleware.RequireRole(models.RoleCitizen), issueController.GetUserIssueStats)
		issues.GET("/user/recent", middleware.RequireRole(models.RoleCitizen), issueController.GetUserRecentIssues)

		// Application workflow
		issues.POST("/:id/apply", middleware.RequireRole(models.RoleWorker), applicationController.ApplyForIssue)
		issues.GET("/:id/applications", middleware.RequireRole(models.RoleAdmin), applicationController.GetIssueApplications)
		issues.PUT("/:id/applications/:applicationId/accept", middleware.RequireRole(models.RoleAdmin), applicationController.AcceptApplication)
		issues.PUT("/:id/applications/:applicationId/reject", middleware.RequireRole(models.RoleAdmin), applicationController.RejectApplication)
	}

	applications := protected.Group("/applications")
	{
		applications.GET("/pending", middleware.RequireRole(models.RoleAdmin), applicationController.GetPendingApplications)
		applications.GET("/worker", middleware.RequireRole(models.RoleWorker), applicationController.GetWorkerApplications)
		applications.DELETE("/:applicationId", middleware.RequireRole(models.RoleWorker), applicationController.DeleteApplication)
	}
}
