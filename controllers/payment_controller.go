package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/local-fix/api-go/models"
	"github.com/local-fix/api-go/utils"
	"gorm.io/gorm"
)

type PaymentController struct {
	DB *gorm.DB
}

type PaymentItem struct {
	IssueID uint   `json:"issue_id" binding:"required"`
	Method  string `json:"method" binding:"required"`
}

type CreatePaymentsRequest struct {
	Payments []PaymentItem `json:"payments" binding:"required,min=1,dive"`
}

type CreateWithdrawalRequest struct {
	Method        string  `json:"method" binding:"required"`
	AccountNumber string  `json:"account_number" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db}
}

// pendingPayment is the synthetic payable row: a resolved issue with an
// approved proof, no payment yet, priced by its accepted application.
type pendingPayment struct {
	IssueID     uint    `json:"issue_id"`
	IssueTitle  string  `json:"issue_title"`
	CitizenID   uint    `json:"citizen_id"`
	WorkerID    uint    `json:"worker_id"`
	WorkerName  string  `json:"worker_name"`
	Amount      float64 `json:"amount"`
}

func pendingPaymentsQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Issue{}).
		Select(`
			issues.id as issue_id,
			issues.title as issue_title,
			issues.citizen_id,
			issues.assigned_worker_id as worker_id,
			workers.name as worker_name,
			applications.estimated_cost as amount
		`).
		Joins("JOIN users workers ON issues.assigned_worker_id = workers.id").
		Joins("JOIN applications ON applications.issue_id = issues.id AND applications.status = ?", models.ApplicationAccepted).
		Joins("JOIN issue_proofs ON issue_proofs.issue_id = issues.id AND issue_proofs.verification_status = ?", models.ProofApproved).
		Where("issues.status = ?", models.IssueResolved).
		Where("NOT EXISTS (SELECT 1 FROM payments WHERE payments.issue_id = issues.id)")
}

// GetPendingPayments godoc
// @Summary List payable resolved issues
// @Description Resolved issues with an approved proof and no payment row yet
// @Tags payments
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /payments [get]
func (pc *PaymentController) GetPendingPayments(c *gin.Context) {
	var pending []pendingPayment
	if err := pendingPaymentsQuery(pc.DB).Order("issues.created_at ASC").Find(&pending).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching pending payments"})
		return
	}

	var remainingBalance float64
	for _, p := range pending {
		remainingBalance += p.Amount
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"payments":         pending,
		"remainingBalance": remainingBalance,
	})
}

// CreatePayments records one disbursement per requested issue inside a
// single transaction, then closes each paid issue.
func (pc *PaymentController) CreatePayments(c *gin.Context) {
	var req CreatePaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "At least one payment is required"})
		return
	}

	// Start transaction
	tx := pc.DB.Begin()

	created := make([]models.Payment, 0, len(req.Payments))
	for _, item := range req.Payments {
		// Re-check payability inside the transaction so a duplicate item
		// in the same request cannot pay an issue twice.
		var pending pendingPayment
		err := pendingPaymentsQuery(tx).Where("issues.id = ?", item.IssueID).First(&pending).Error
		if err != nil {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Issue is not payable",
				"issueId": item.IssueID,
			})
			return
		}

		payment := models.Payment{
			IssueID:       pending.IssueID,
			CitizenID:     pending.CitizenID,
			WorkerID:      pending.WorkerID,
			Amount:        pending.Amount,
			Method:        item.Method,
			Status:        models.PaymentCompleted,
			TransactionID: "TXN-" + uuid.New().String(),
		}

		if err := tx.Create(&payment).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to record payment"})
			return
		}

		// Completed payment closes out the issue.
		if err := tx.Model(&models.Issue{}).
			Where("id = ? AND status = ?", pending.IssueID, models.IssueResolved).
			Update("status", models.IssueClosed).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to close issue"})
			return
		}

		created = append(created, payment)
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Payments recorded",
		"payments": created,
	})
}

func (pc *PaymentController) workerBalance(workerID uint) (totalEarnings, currentBalance float64) {
	var withdrawn float64

	pc.DB.Model(&models.Payment{}).
		Where("worker_id = ? AND status = ?", workerID, models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalEarnings)

	pc.DB.Model(&models.Withdrawal{}).
		Where("worker_id = ? AND status IN ?", workerID, []string{models.WithdrawalSuccessful, models.WithdrawalProcessing}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&withdrawn)

	currentBalance = totalEarnings - withdrawn
	if currentBalance < 0 {
		currentBalance = 0
	}
	return totalEarnings, currentBalance
}

func (pc *PaymentController) GetWorkerSummary(c *gin.Context) {
	user := utils.GetUser(c)

	totalEarnings, currentBalance := pc.workerBalance(user.UserID)

	var incomes []struct {
		models.Payment
		IssueTitle string `json:"issue_title"`
	}
	pc.DB.Model(&models.Payment{}).
		Select("payments.*, issues.title as issue_title").
		Joins("JOIN issues ON payments.issue_id = issues.id").
		Where("payments.worker_id = ?", user.UserID).
		Order("payments.created_at DESC").
		Limit(10).
		Find(&incomes)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"totalEarnings":  totalEarnings,
		"currentBalance": currentBalance,
		"recentIncomes":  incomes,
	})
}

func (pc *PaymentController) CreateWithdrawal(c *gin.Context) {
	user := utils.GetUser(c)

	var req CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if !models.ValidWithdrawalMethod(req.Method) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unsupported withdrawal method"})
		return
	}

	_, currentBalance := pc.workerBalance(user.UserID)
	if req.Amount > currentBalance {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":          false,
			"message":          "Requested amount exceeds available balance",
			"availableBalance": currentBalance,
		})
		return
	}

	withdrawal := models.Withdrawal{
		WorkerID:      user.UserID,
		Method:        req.Method,
		AccountNumber: req.AccountNumber,
		Amount:        req.Amount,
		Status:        models.WithdrawalProcessing,
	}

	if err := pc.DB.Create(&withdrawal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create withdrawal"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Withdrawal request submitted",
		"withdrawal": withdrawal,
	})
}

func (pc *PaymentController) GetWorkerWithdrawals(c *gin.Context) {
	user := utils.GetUser(c)

	var withdrawals []models.Withdrawal
	result := pc.DB.
		Where("worker_id = ?", user.UserID).
		Order("created_at DESC").
		Limit(10).
		Find(&withdrawals)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching withdrawals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "withdrawals": withdrawals})
}
