package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/local-fix/api-go/models"
	"github.com/local-fix/api-go/utils"
	"gorm.io/gorm"
)

type IssueController struct {
	DB *gorm.DB
}

type CreateIssueRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Priority    string   `json:"priority"`
	Image       string   `json:"image"`
	Upazila     string   `json:"upazila" binding:"required"`
	District    string   `json:"district" binding:"required"`
	FullAddress string   `json:"full_address" binding:"required"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type UpdateIssueRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Image       string `json:"image"`
}

func NewIssueController(db *gorm.DB) *IssueController {
	return &IssueController{DB: db}
}

// issueRow is the denormalized issue+citizen+location shape every listing
// endpoint returns.
type issueRow struct {
	models.Issue
	CitizenName string `json:"citizen_name"`
	WorkerName  string `json:"worker_name,omitempty"`
	Upazila     string `json:"upazila"`
	District    string `json:"district"`
	FullAddress string `json:"full_address"`
}

func issueListQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Issue{}).
		Select(`
			issues.*,
			citizens.name as citizen_name,
			workers.name as worker_name,
			locations.upazila,
			locations.district,
			locations.full_address
		`).
		Joins("JOIN users citizens ON issues.citizen_id = citizens.id").
		Joins("LEFT JOIN users workers ON issues.assigned_worker_id = workers.id").
		Joins("JOIN locations ON issues.location_id = locations.id")
}

// CreateIssue godoc
// @Summary Report a new issue
// @Description Creates an issue with its location in one transaction
// @Tags issues
// @Accept json
// @Produce json
// @Param issue body CreateIssueRequest true "Issue creation request"
// @Success 201 {object} models.Issue
// @Router /issues [post]
func (ic *IssueController) CreateIssue(c *gin.Context) {
	user := utils.GetUser(c)
	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	priority := models.IssuePriority(req.Priority)
	if req.Priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid priority"})
		return
	}

	// Start transaction
	tx := ic.DB.Begin()

	location := models.Location{
		Upazila:     req.Upazila,
		District:    req.District,
		FullAddress: req.FullAddress,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	if err := tx.Create(&location).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create location"})
		return
	}

	issue := models.Issue{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    priority,
		Status:      models.IssueSubmitted,
		Image:       req.Image,
		CitizenID:   user.UserID,
		LocationID:  location.ID,
	}

	if err := tx.Create(&issue).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create issue"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to commit transaction"})
		return
	}

	issue.Location = location

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Issue reported successfully",
		"issue":   issue,
	})
}

// GetAllIssues godoc
// @Summary List issues
// @Description Returns paginated denormalized issues, filterable by status, category, priority and district
// @Tags issues
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /issues [get]
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := issueListQuery(ic.DB)

	if status := c.Query("status"); status != "" {
		query = query.Where("issues.status = ?", status)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("issues.category = ?", category)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("issues.priority = ?", priority)
	}
	if district := c.Query("district"); district != "" {
		query = query.Where("locations.district = ?", district)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	query.Count(&total)

	var issues []issueRow
	result := query.
		Order("issues.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&issues)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"issues":  issues,
		"pagination": &PaginationMeta{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalItems:  total,
			TotalPages:  int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

func (ic *IssueController) GetIssueByID(c *gin.Context) {
	issueID := c.Param("id")

	var issue issueRow
	err := issueListQuery(ic.DB).Where("issues.id = ?", issueID).First(&issue).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching issue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "issue": issue})
}

// UpdateIssueStatus moves an issue one step along its lifecycle. The
// transition table rejects skips and regressions, and the conditional
// update means a concurrent caller who already moved the row loses.
func (ic *IssueController) UpdateIssueStatus(c *gin.Context) {
	issueID := c.Param("id")

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	next := models.IssueStatus(input.Status)
	if !next.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status"})
		return
	}

	var issue models.Issue
	if err := ic.DB.First(&issue, issueID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		return
	}

	if !issue.Status.CanTransition(next) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Cannot move issue from " + string(issue.Status) + " to " + string(next),
		})
		return
	}

	result := ic.DB.Model(&models.Issue{}).
		Where("id = ? AND status = ?", issue.ID, issue.Status).
		Update("status", next)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update status"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Issue was updated concurrently"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated", "status": next})
}

func (ic *IssueController) UpdateIssue(c *gin.Context) {
	user := utils.GetUser(c)
	issueID := c.Param("id")

	var req UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var issue models.Issue
	if err := ic.DB.First(&issue, issueID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		return
	}

	if issue.CitizenID != user.UserID && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You can only update your own issues"})
		return
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Priority != "" {
		if !models.IssuePriority(req.Priority).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid priority"})
			return
		}
		updates["priority"] = req.Priority
	}
	if req.Image != "" {
		updates["image"] = req.Image
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No fields to update"})
		return
	}

	if err := ic.DB.Model(&issue).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update issue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Issue updated successfully", "issue": issue})
}

func (ic *IssueController) DeleteIssue(c *gin.Context) {
	user := utils.GetUser(c)
	issueID := c.Param("id")

	var issue models.Issue
	if err := ic.DB.First(&issue, issueID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		return
	}

	if issue.CitizenID != user.UserID && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You can only delete your own issues"})
		return
	}

	// Start transaction
	tx := ic.DB.Begin()

	if err := tx.Where("issue_id = ?", issue.ID).Delete(&models.Application{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete applications"})
		return
	}

	if err := tx.Where("issue_id = ?", issue.ID).Delete(&models.IssueProof{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete proof"})
		return
	}

	if err := tx.Delete(&issue).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete issue"})
		return
	}

	if err := tx.Where("id = ?", issue.LocationID).Delete(&models.Location{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete location"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Issue deleted successfully"})
}

func (ic *IssueController) GetUserIssueStats(c *gin.Context) {
	user := utils.GetUser(c)

	var stats struct {
		Total      int64 `json:"total"`
		Submitted  int64 `json:"submitted"`
		InProgress int64 `json:"in_progress"`
		Resolved   int64 `json:"resolved"`
		Closed     int64 `json:"closed"`
	}

	// Session makes the base query reusable for each count.
	base := ic.DB.Model(&models.Issue{}).Where("citizen_id = ?", user.UserID).Session(&gorm.Session{})
	base.Count(&stats.Total)
	base.Where("status IN ?", []models.IssueStatus{models.IssueSubmitted, models.IssueApplied}).Count(&stats.Submitted)
	base.Where("status IN ?", []models.IssueStatus{models.IssueAssigned, models.IssueInProgress, models.IssueUnderReview}).Count(&stats.InProgress)
	base.Where("status = ?", models.IssueResolved).Count(&stats.Resolved)
	base.Where("status = ?", models.IssueClosed).Count(&stats.Closed)

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (ic *IssueController) GetUserRecentIssues(c *gin.Context) {
	user := utils.GetUser(c)

	var issues []issueRow
	result := issueListQuery(ic.DB).
		Where("issues.citizen_id = ?", user.UserID).
		Order("issues.created_at DESC").
		Limit(5).
		Find(&issues)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "issues": issues})
}
