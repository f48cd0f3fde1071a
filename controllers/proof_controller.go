package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/local-fix/api-go/models"
	"github.com/local-fix/api-go/utils"
	"gorm.io/gorm"
)

type ProofController struct {
	DB      *gorm.DB
	Storage *StorageService
}

type RejectProofRequest struct {
	Note string `json:"note" binding:"required"`
}

// Proof descriptions shorter than this are rejected so admins get enough
// context to review against.
const minProofDescriptionLen = 20

func NewProofController(db *gorm.DB, storage *StorageService) *ProofController {
	return &ProofController{DB: db, Storage: storage}
}

// StartWork flips the worker's assigned issue into in_progress.
func (pc *ProofController) StartWork(c *gin.Context) {
	user := utils.GetUser(c)
	issueID := c.Param("id")

	var issue models.Issue
	if err := pc.DB.First(&issue, issueID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		return
	}

	if issue.AssignedWorkerID == nil || *issue.AssignedWorkerID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Issue is not assigned to you"})
		return
	}

	if !issue.Status.CanTransition(models.IssueInProgress) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Work can only start on an assigned issue"})
		return
	}

	result := pc.DB.Model(&models.Issue{}).
		Where("id = ? AND status = ?", issue.ID, issue.Status).
		Update("status", models.IssueInProgress)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update status"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Issue was updated concurrently"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Work started", "status": models.IssueInProgress})
}

// SubmitProof godoc
// @Summary Submit proof of completed work
// @Description Worker uploads a photo with a description; issue moves to under_review
// @Tags proofs
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Issue ID"
// @Param photo formData file true "Proof photo"
// @Param description formData string true "Work description (min 20 chars)"
// @Success 201 {object} models.IssueProof
// @Router /issues/{id}/proof [post]
func (pc *ProofController) SubmitProof(c *gin.Context) {
	user := utils.GetUser(c)
	issueID := c.Param("id")

	description := c.PostForm("description")
	if len(description) < minProofDescriptionLen {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Description must be at least 20 characters"})
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Proof photo is required"})
		return
	}

	var issue models.Issue
	if err := pc.DB.First(&issue, issueID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		return
	}

	if issue.AssignedWorkerID == nil || *issue.AssignedWorkerID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Issue is not assigned to you"})
		return
	}

	if !issue.Status.CanTransition(models.IssueUnderReview) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Proof can only be submitted for work in progress"})
		return
	}

	// Rejected proofs don't count: the worker is expected to resubmit.
	var existing models.IssueProof
	err = pc.DB.Where("issue_id = ? AND verification_status <> ?", issue.ID, models.ProofRejected).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Proof has already been submitted for this issue"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to check existing proof"})
		return
	}

	photoPath, err := pc.Storage.SaveUpload(c, file, FolderProofs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	// Start transaction
	tx := pc.DB.Begin()

	proof := models.IssueProof{
		IssueID:            issue.ID,
		WorkerID:           user.UserID,
		Photo:              photoPath,
		Description:        description,
		VerificationStatus: models.ProofPending,
	}

	if err := tx.Create(&proof).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save proof"})
		return
	}

	if err := tx.Model(&models.Issue{}).
		Where("id = ? AND status = ?", issue.ID, issue.Status).
		Update("status", models.IssueUnderReview).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update issue status"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Proof submitted for review",
		"proof":   proof,
	})
}

// ApproveProof marks the proof approved and resolves the issue in one
// transaction.
func (pc *ProofController) ApproveProof(c *gin.Context) {
	user := utils.GetUser(c)
	proofID := c.Param("id")

	var proof models.IssueProof
	if err := pc.DB.First(&proof, proofID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Proof not found"})
		return
	}

	if proof.VerificationStatus != models.ProofPending {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Proof has already been reviewed"})
		return
	}

	// Start transaction
	tx := pc.DB.Begin()

	now := time.Now()
	review := tx.Model(&models.IssueProof{}).
		Where("id = ? AND verification_status = ?", proof.ID, models.ProofPending).
		Updates(map[string]interface{}{
			"verification_status": models.ProofApproved,
			"reviewer_id":         user.UserID,
			"reviewed_at":         now,
		})
	if review.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to approve proof"})
		return
	}
	if review.RowsAffected == 0 {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Proof has already been reviewed"})
		return
	}

	if err := tx.Model(&models.Issue{}).
		Where("id = ? AND status = ?", proof.IssueID, models.IssueUnderReview).
		Update("status", models.IssueResolved).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to resolve issue"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Proof approved, issue resolved"})
}

// RejectProof sends the issue back to in_progress so the worker can redo
// and resubmit.
func (pc *ProofController) RejectProof(c *gin.Context) {
	user := utils.GetUser(c)
	proofID := c.Param("id")

	var req RejectProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Review note is required"})
		return
	}

	var proof models.IssueProof
	if err := pc.DB.First(&proof, proofID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Proof not found"})
		return
	}

	if proof.VerificationStatus != models.ProofPending {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Proof has already been reviewed"})
		return
	}

	// Start transaction
	tx := pc.DB.Begin()

	now := time.Now()
	review := tx.Model(&models.IssueProof{}).
		Where("id = ? AND verification_status = ?", proof.ID, models.ProofPending).
		Updates(map[string]interface{}{
			"verification_status": models.ProofRejected,
			"reviewer_id":         user.UserID,
			"review_note":         req.Note,
			"reviewed_at":         now,
		})
	if review.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to reject proof"})
		return
	}
	if review.RowsAffected == 0 {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Proof has already been reviewed"})
		return
	}

	if err := tx.Model(&models.Issue{}).
		Where("id = ? AND status = ?", proof.IssueID, models.IssueUnderReview).
		Update("status", models.IssueInProgress).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update issue status"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Proof rejected, issue returned to in progress"})
}

func (pc *ProofController) GetPendingProofs(c *gin.Context) {
	var proofs []struct {
		models.IssueProof
		WorkerName string `json:"worker_name"`
		IssueTitle string `json:"issue_title"`
	}

	result := pc.DB.Model(&models.IssueProof{}).
		Select("issue_proofs.*, users.name as worker_name, issues.title as issue_title").
		Joins("JOIN users ON issue_proofs.worker_id = users.id").
		Joins("JOIN issues ON issue_proofs.issue_id = issues.id").
		Where("issue_proofs.verification_status = ?", models.ProofPending).
		Order("issue_proofs.created_at ASC").
		Find(&proofs)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching proofs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "proofs": proofs})
}

func (pc *ProofController) GetIssueProof(c *gin.Context) {
	issueID := c.Param("id")

	var proof models.IssueProof
	err := pc.DB.Where("issue_id = ?", issueID).Order("created_at DESC").First(&proof).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No proof submitted for this issue"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching proof"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "proof": proof})
}
