package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/local-fix/api-go/config"
	"github.com/local-fix/api-go/models"
	"github.com/local-fix/api-go/routes"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

type testEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// newTestEnv wires the full route table onto an in-memory database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	t.Setenv("UPLOADS_DIR", t.TempDir())

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, config.Migrate(db))

	r := gin.New()
	routes.SetupRoutes(r, db)

	return &testEnv{DB: db, Router: r}
}

func (e *testEnv) createUser(t *testing.T, name, email, role string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		Status:   "active",
	}
	require.NoError(t, e.DB.Create(user).Error)
	return user
}

func (e *testEnv) token(t *testing.T, user *models.User) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	require.NoError(t, err)
	return signed
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.Router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) multipart(t *testing.T, method, path string, fields map[string]string, fileField, fileName string, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fileField, fileName))
		h.Set("Content-Type", "image/jpeg")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake-jpeg-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.Router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

// seedIssue creates a citizen-reported issue with its location.
func (e *testEnv) seedIssue(t *testing.T, citizen *models.User, status models.IssueStatus) *models.Issue {
	t.Helper()

	location := models.Location{
		Upazila:     "Gulshan",
		District:    "Dhaka",
		FullAddress: "Road 5",
	}
	require.NoError(t, e.DB.Create(&location).Error)

	issue := &models.Issue{
		Title:       "Pothole",
		Description: "Large pothole on the main road",
		Category:    "Infrastructure",
		Priority:    models.PriorityMedium,
		Status:      status,
		CitizenID:   citizen.ID,
		LocationID:  location.ID,
	}
	require.NoError(t, e.DB.Create(issue).Error)
	return issue
}
