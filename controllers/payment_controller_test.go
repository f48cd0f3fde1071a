package controllers_test

import (
	"net/http"
	"testing"

	"github.com/local-fix/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedPayableIssue builds a resolved issue with an accepted application and
// approved proof, ready for disbursement.
func seedPayableIssue(t *testing.T, env *testEnv, citizen, worker *models.User, cost float64) *models.Issue {
	t.Helper()

	issue := env.seedIssue(t, citizen, models.IssueResolved)
	require.NoError(t, env.DB.Model(issue).Update("assigned_worker_id", worker.ID).Error)

	application := models.Application{
		IssueID:       issue.ID,
		WorkerID:      worker.ID,
		EstimatedCost: cost,
		EstimatedTime: "2 days",
		Status:        models.ApplicationAccepted,
	}
	require.NoError(t, env.DB.Create(&application).Error)

	proof := models.IssueProof{
		IssueID:            issue.ID,
		WorkerID:           worker.ID,
		Photo:              "/api/uploads/image/proofs/p.jpg",
		Description:        "Filled the pothole and sealed the surface",
		VerificationStatus: models.ProofApproved,
	}
	require.NoError(t, env.DB.Create(&proof).Error)

	return issue
}

func TestGetPendingPayments(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.createUser(t, "Citizen", "citizen@example.com", models.RoleCitizen)
	worker := env.createUser(t, "Worker", "worker@example.com", models.RoleWorker)
	admin := env.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)

	seedPayableIssue(t, env, citizen, worker, 500)
	seedPayableIssue(t, env, citizen, worker, 700)

	// An unresolved issue must not appear.
	env.seedIssue(t, citizen, models.IssueUnderReview)

	rr := env.request(t, "GET", "/api/payments", nil, env.token(t, admin))
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	payments := body["payments"].([]interface{})
	assert.Len(t, payments, 2)
	assert.Equal(t, float64(1200), body["remainingBalance"])
}

func TestCreatePayments_EmptyList(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)

	rr := env.request(t, "POST", "/api/payments", map[string]interface{}{
		"payments": []interface{}{},
	}, env.token(t, admin))

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var count int64
	env.DB.Model(&models.Payment{}).Count(&count)
	assert.Equal(t, int64(0), count, "empty request must write nothing")
}

func TestCreatePayments_ClosesIssue(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.createUser(t, "Citizen", "citizen@example.com", models.RoleCitizen)
	worker := env.createUser(t, "Worker", "worker@example.com", models.RoleWorker)
	admin := env.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	issue := seedPayableIssue(t, env, citizen, worker, 500)

	rr := env.request(t, "POST", "/api/payments", map[string]interface{}{
		"payments": []map[string]interface{}{
			{"issue_id": issue.ID, "method": "bkash"},
		},
	}, env.token(t, admin))
	require.Equal(t, http.StatusCreated, rr.Code)

	var payment models.Payment
	require.NoError(t, env.DB.Where("issue_id = ?", issue.ID).First(&payment).Error)
	assert.Equal(t, float64(500), payment.Amount)
	assert.Equal(t, worker.ID, payment.WorkerID)
	assert.NotEmpty(t, payment.TransactionID)

	var updated models.Issue
	require.NoError(t, env.DB.First(&updated, issue.ID).Error)
	assert.Equal(t, models.IssueClosed, updated.Status)

	// Paying the same issue again is refused.
	rr = env.request(t, "POST", "/api/payments", map[string]interface{}{
		"payments": []map[string]interface{}{
			{"issue_id": issue.ID, "method": "bkash"},
		},
	}, env.token(t, admin))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWorkerSummary_Balance(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.createUser(t, "Citizen", "citizen@example.com", models.RoleCitizen)
	worker := env.createUser(t, "Worker", "worker@example.com", models.RoleWorker)

	issue := seedPayableIssue(t, env, citizen, worker, 1000)
	require.NoError(t, env.DB.Create(&models.Payment{
		IssueID: issue.ID, CitizenID: citizen.ID, WorkerID: worker.ID,
		Amount: 1000, Method: "bkash", Status: models.PaymentCompleted,
		TransactionID: "TXN-test-1",
	}).Error)

	require.NoError(t, env.DB.Create(&models.Withdrawal{
		WorkerID: worker.ID, Method: "bkash", AccountNumber: "01712345678",
		Amount: 300, Status: models.WithdrawalProcessing,
	}).Error)
	require.NoError(t, env.DB.Create(&models.Withdrawal{
		WorkerID: worker.ID, Method: "bkash", AccountNumber: "01712345678",
		Amount: 200, Status: models.WithdrawalSuccessful,
	}).Error)
	// Failed withdrawals do not count against the balance.
	require.NoError(t, env.DB.Create(&models.Withdrawal{
		WorkerID: worker.ID, Method: "bkash", AccountNumber: "01712345678",
		Amount: 400, Status: models.WithdrawalFailed,
	}).Error)

	rr := env.request(t, "GET", "/api/payments/worker/summary", nil, env.token(t, worker))
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	assert.Equal(t, float64(1000), body["totalEarnings"])
	assert.Equal(t, float64(500), body["currentBalance"])
}

func TestCreateWithdrawal(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.createUser(t, "Citizen", "citizen@example.com", models.RoleCitizen)
	worker := env.createUser(t, "Worker", "worker@example.com", models.RoleWorker)
	token := env.token(t, worker)

	issue := seedPayableIssue(t, env, citizen, worker, 500)
	require.NoError(t, env.DB.Create(&models.Payment{
		IssueID: issue.ID, CitizenID: citizen.ID, WorkerID: worker.ID,
		Amount: 500, Method: "bkash", Status: models.PaymentCompleted,
		TransactionID: "TXN-test-2",
	}).Error)

	// Unsupported method.
	rr := env.request(t, "POST", "/api/payments/worker/withdrawals", map[string]interface{}{
		"method": "paypal", "account_number": "01712345678", "amount": 100,
	}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// More than the available balance.
	rr = env.request(t, "POST", "/api/payments/worker/withdrawals", map[string]interface{}{
		"method": "bkash", "account_number": "01712345678", "amount": 600,
	}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.request(t, "POST", "/api/payments/worker/withdrawals", map[string]interface{}{
		"method": "bkash", "account_number": "01712345678", "amount": 400,
	}, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var withdrawal models.Withdrawal
	require.NoError(t, env.DB.Where("worker_id = ?", worker.ID).First(&withdrawal).Error)
	assert.Equal(t, models.WithdrawalProcessing, withdrawal.Status)

	// The processing withdrawal reduces what can be requested next.
	rr = env.request(t, "POST", "/api/payments/worker/withdrawals", map[string]interface{}{
		"method": "bkash", "account_number": "01712345678", "amount": 200,
	}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetWorkerWithdrawals_CapsAtTen(t *testing.T) {
	env := newTestEnv(t)
	worker := env.createUser(t, "Worker", "worker@example.com", models.RoleWorker)

	for i := 0; i < 12; i++ {
		require.NoError(t, env.DB.Create(&models.Withdrawal{
			WorkerID: worker.ID, Method: "bkash", AccountNumber: "01712345678",
			Amount: 10, Status: models.WithdrawalSuccessful,
		}).Error)
	}

	rr := env.request(t, "GET", "/api/payments/worker/withdrawals", nil, env.token(t, worker))
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	assert.Len(t, body["withdrawals"].([]interface{}), 10)
}
