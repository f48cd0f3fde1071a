package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/local-fix/api-go/models"
	"github.com/local-fix/api-go/utils"
	"gorm.io/gorm"
)

type ApplicationController struct {
	DB *gorm.DB
}

type ApplyRequest struct {
	EstimatedCost float64 `json:"estimated_cost" binding:"required,gt=0"`
	EstimatedTime string  `json:"estimated_time" binding:"required"`
	Proposal      string  `json:"proposal"`
}

type RejectApplicationRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// Feedback written onto sibling applications when one is accepted.
const autoRejectFeedback = "Another application has been accepted for this issue"

func NewApplicationController(db *gorm.DB) *ApplicationController {
	return &ApplicationController{DB: db}
}

// applicationRow joins the worker onto the application for admin listings.
type applicationRow struct {
	models.Application
	WorkerName  string `json:"worker_name"`
	WorkerPhone string `json:"worker_phone"`
	IssueTitle  string `json:"issue_title"`
}

// ApplyForIssue godoc
// @Summary Apply to fix an issue
// @Description Worker submits a bid; first application flips the issue to applied
// @Tags applications
// @Accept json
// @Produce json
// @Param id path string true "Issue ID"
// @Param application body ApplyRequest true "Application request"
// @Success 201 {object} models.Application
// @Router /issues/{id}/apply [post]
func (ac *ApplicationController) ApplyForIssue(c *gin.Context) {
	user := utils.GetUser(c)
	issueID := c.Param("id")

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var issue models.Issue
	if err := ac.DB.First(&issue, issueID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		return
	}

	if issue.Status != models.IssueSubmitted && issue.Status != models.IssueApplied {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Issue is no longer accepting applications"})
		return
	}

	var existing models.Application
	err := ac.DB.Where("issue_id = ? AND worker_id = ?", issue.ID, user.UserID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "You have already applied for this issue"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to check existing application"})
		return
	}

	// Start transaction
	tx := ac.DB.Begin()

	application := models.Application{
		IssueID:       issue.ID,
		WorkerID:      user.UserID,
		EstimatedCost: req.EstimatedCost,
		EstimatedTime: req.EstimatedTime,
		Proposal:      req.Proposal,
		Status:        models.ApplicationSubmitted,
	}

	if err := tx.Create(&application).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create application"})
		return
	}

	// First application moves the issue out of submitted. Conditional so a
	// concurrent applicant cannot clobber a later status.
	if issue.Status == models.IssueSubmitted {
		if err := tx.Model(&models.Issue{}).
			Where("id = ? AND status = ?", issue.ID, models.IssueSubmitted).
			Update("status", models.IssueApplied).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update issue status"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Application submitted successfully",
		"application": application,
	})
}

func (ac *ApplicationController) GetIssueApplications(c *gin.Context) {
	issueID := c.Param("id")

	var issue models.Issue
	if err := ac.DB.First(&issue, issueID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		return
	}

	var applications []applicationRow
	result := ac.DB.Model(&models.Application{}).
		Select("applications.*, users.name as worker_name, users.phone as worker_phone, issues.title as issue_title").
		Joins("JOIN users ON applications.worker_id = users.id").
		Joins("JOIN issues ON applications.issue_id = issues.id").
		Where("applications.issue_id = ?", issue.ID).
		Order("applications.created_at ASC").
		Find(&applications)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "applications": applications})
}

func (ac *ApplicationController) GetPendingApplications(c *gin.Context) {
	var applications []applicationRow
	result := ac.DB.Model(&models.Application{}).
		Select("applications.*, users.name as worker_name, users.phone as worker_phone, issues.title as issue_title").
		Joins("JOIN users ON applications.worker_id = users.id").
		Joins("JOIN issues ON applications.issue_id = issues.id").
		Where("applications.status = ?", models.ApplicationSubmitted).
		Order("applications.created_at ASC").
		Find(&applications)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "applications": applications})
}

func (ac *ApplicationController) GetWorkerApplications(c *gin.Context) {
	user := utils.GetUser(c)

	var applications []applicationRow
	result := ac.DB.Model(&models.Application{}).
		Select("applications.*, users.name as worker_name, users.phone as worker_phone, issues.title as issue_title").
		Joins("JOIN users ON applications.worker_id = users.id").
		Joins("JOIN issues ON applications.issue_id = issues.id").
		Where("applications.worker_id = ?", user.UserID).
		Order("applications.created_at DESC").
		Find(&applications)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "applications": applications})
}

// AcceptApplication accepts one application, assigns the worker, and
// auto-rejects every sibling. Both status flips are conditional updates so
// that when two admins race, exactly one acceptance wins.
func (ac *ApplicationController) AcceptApplication(c *gin.Context) {
	applicationID := c.Param("applicationId")

	var application models.Application
	if err := ac.DB.First(&application, applicationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Application not found"})
		return
	}

	if application.Status.Terminal() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Application has already been decided"})
		return
	}

	// Start transaction
	tx := ac.DB.Begin()

	accept := tx.Model(&models.Application{}).
		Where("id = ? AND status = ?", application.ID, models.ApplicationSubmitted).
		Update("status", models.ApplicationAccepted)
	if accept.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to accept application"})
		return
	}
	if accept.RowsAffected == 0 {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Application has already been decided"})
		return
	}

	assign := tx.Model(&models.Issue{}).
		Where("id = ? AND status IN ? AND assigned_worker_id IS NULL",
			application.IssueID, []models.IssueStatus{models.IssueSubmitted, models.IssueApplied}).
		Updates(map[string]interface{}{
			"status":             models.IssueAssigned,
			"assigned_worker_id": application.WorkerID,
		})
	if assign.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to assign worker"})
		return
	}
	if assign.RowsAffected == 0 {
		// Another acceptance got there first.
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Issue is no longer open for assignment"})
		return
	}

	if err := tx.Model(&models.Application{}).
		Where("issue_id = ? AND id <> ? AND status = ?",
			application.IssueID, application.ID, models.ApplicationSubmitted).
		Updates(map[string]interface{}{
			"status":   models.ApplicationRejected,
			"feedback": autoRejectFeedback,
		}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to reject other applications"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Application accepted",
		"application": gin.H{
			"id":        application.ID,
			"issue_id":  application.IssueID,
			"worker_id": application.WorkerID,
			"status":    models.ApplicationAccepted,
		},
	})
}

func (ac *ApplicationController) RejectApplication(c *gin.Context) {
	applicationID := c.Param("applicationId")

	var req RejectApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Feedback is required"})
		return
	}

	var application models.Application
	if err := ac.DB.First(&application, applicationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Application not found"})
		return
	}

	if application.Status.Terminal() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Application has already been decided"})
		return
	}

	result := ac.DB.Model(&models.Application{}).
		Where("id = ? AND status = ?", application.ID, models.ApplicationSubmitted).
		Updates(map[string]interface{}{
			"status":   models.ApplicationRejected,
			"feedback": req.Feedback,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to reject application"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Application has already been decided"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Application rejected"})
}

// DeleteApplication lets a worker withdraw a rejected application from
// their history.
func (ac *ApplicationController) DeleteApplication(c *gin.Context) {
	user := utils.GetUser(c)
	applicationID := c.Param("applicationId")

	var application models.Application
	if err := ac.DB.First(&application, applicationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Application not found"})
		return
	}

	if application.WorkerID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You can only delete your own applications"})
		return
	}

	if application.Status != models.ApplicationRejected {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Only rejected applications can be deleted"})
		return
	}

	if err := ac.DB.Delete(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete application"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Application deleted"})
}
