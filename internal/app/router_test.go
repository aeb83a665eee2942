package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/testutil"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const routerSecret = "router-test-secret"

type stubDetector []float64

func (d stubDetector) Describe(context.Context, string) ([]float64, error) { return d, nil }

type harness struct {
	t       *testing.T
	app     *App
	db      *gorm.DB
	course  *model.Course
	branch  *model.Branch
	admin   string
	student string
	other   string

	studentID string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT:    config.JWTConfig{Secret: routerSecret, ExpireTime: time.Hour},
		Face:   config.FaceConfig{Threshold: config.DefaultFaceThreshold},
	}

	branch := testutil.SeedBranch(t, db, "Main")
	h := &harness{
		t:      t,
		app:    New(cfg, db, nil, stubDetector{0.1, 0.2}),
		db:     db,
		branch: branch,
		course: testutil.SeedCourse(t, db, branch, "Go basics"),
	}
	h.admin = h.tokenFor(testutil.SeedUser(t, db, "admin@example.com", model.Admin))
	student := testutil.SeedUser(t, db, "student@example.com", model.Student)
	h.student, h.studentID = h.tokenFor(student), student.ID
	h.other = h.tokenFor(testutil.SeedUser(t, db, "other@example.com", model.Student))
	return h
}

func (h *harness) tokenFor(u *model.User) string {
	tok, err := util.GenerateJWT(u, routerSecret, time.Hour)
	require.NoError(h.t, err)
	return tok
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (h *harness) do(method, path, token string, body interface{}) (int, envelope) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.app.Router.ServeHTTP(w, req)

	var env envelope
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (h *harness) createTest() string {
	h.t.Helper()
	code, env := h.do(http.MethodPost, "/api/tests", h.admin, gin.H{
		"title":    "Quiz",
		"course":   h.course.ID,
		"branch":   h.branch.ID,
		"duration": 20,
		"questions": []gin.H{
			{"questionText": "1+1", "options": []string{"1", "2"}, "correctAnswer": "2"},
			{"questionText": "2+2", "options": []string{"4", "5"}, "correctAnswer": "4"},
		},
	})
	require.Equal(h.t, http.StatusCreated, code, env.Message)

	var test model.Test
	require.NoError(h.t, json.Unmarshal(env.Data, &test))
	return test.ID
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	code, env := h.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok","components":{"database":"up","cache":"disabled"}}`, string(env.Data))
}

func TestAuthGates(t *testing.T) {
	h := newHarness(t)

	code, _ := h.do(http.MethodGet, "/api/tests/results", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = h.do(http.MethodPost, "/api/tests", h.student, gin.H{})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = h.do(http.MethodGet, "/api/tests/all-results", h.student, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestCreateTestRejectsUnmatchedAnswer(t *testing.T) {
	h := newHarness(t)
	code, env := h.do(http.MethodPost, "/api/tests", h.admin, gin.H{
		"title":  "Quiz",
		"course": h.course.ID,
		"branch": h.branch.ID,
		"questions": []gin.H{
			{"questionText": "1+1", "options": []string{"1", "2"}, "correctAnswer": "3"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Message, `"3"`)

	var count int64
	require.NoError(t, h.db.Model(&model.Test{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitAndFetchResult(t *testing.T) {
	h := newHarness(t)
	testID := h.createTest()

	code, env := h.do(http.MethodPost, "/api/tests/submit", h.student, gin.H{
		"testId":  testID,
		"answers": []interface{}{"1", nil},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var outcome struct {
		ResultID   string `json:"resultId"`
		Score      int    `json:"score"`
		TotalMarks int    `json:"totalMarks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &outcome))
	assert.Equal(t, 1, outcome.Score)
	assert.Equal(t, 2, outcome.TotalMarks)

	code, _ = h.do(http.MethodPost, "/api/tests/submit", h.student, gin.H{
		"testId":  testID,
		"answers": []interface{}{"x"},
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.do(http.MethodGet, "/api/tests/results/"+outcome.ResultID, h.other, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = h.do(http.MethodGet, "/api/tests/results/"+outcome.ResultID, h.admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = h.do(http.MethodDelete, "/api/tests/"+testID, h.admin, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = h.do(http.MethodGet, "/api/tests/results/"+outcome.ResultID, h.student, nil)
	assert.Equal(t, http.StatusNotFound, code)
	var missing struct {
		Result      model.Result `json:"result"`
		TestMissing bool         `json:"testMissing"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &missing))
	assert.True(t, missing.TestMissing)
	assert.Equal(t, outcome.ResultID, missing.Result.ID)
	assert.Equal(t, 1, missing.Result.Score)
}

func TestEnrollmentFlow(t *testing.T) {
	h := newHarness(t)

	code, env := h.do(http.MethodPost, "/api/enrollments", h.student, gin.H{"courseId": h.course.ID})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var enrollment model.Enrollment
	require.NoError(t, json.Unmarshal(env.Data, &enrollment))

	code, _ = h.do(http.MethodPost, "/api/enrollments", h.student, gin.H{"courseId": h.course.ID})
	assert.Equal(t, http.StatusConflict, code)

	path := "/api/enrollments/" + enrollment.ID
	videoID := h.course.Videos[0].ID

	code, _ = h.do(http.MethodPost, path+"/complete", h.other, gin.H{"contentId": videoID})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = h.do(http.MethodPost, path+"/complete", h.student, gin.H{"contentId": model.GenerateUUID()})
	assert.Equal(t, http.StatusNotFound, code)

	code, env = h.do(http.MethodPost, path+"/complete", h.student, gin.H{"contentId": videoID})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &enrollment))
	assert.Equal(t, []string{videoID}, enrollment.CompletedContent)

	code, _ = h.do(http.MethodDelete, path, h.other, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = h.do(http.MethodDelete, path, h.student, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = h.do(http.MethodDelete, path, h.student, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLoginWithFace(t *testing.T) {
	h := newHarness(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		FirstName:      "Ada",
		LastName:       "L",
		Email:          "ada@example.com",
		Password:       string(hash),
		Role:           model.Student,
		FaceDescriptor: []float64{0.1, 0.25},
	}
	require.NoError(t, h.db.Create(u).Error)

	code, _ := h.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@example.com", "password": "wrong", "faceImage": "img"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = h.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := h.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@example.com", "password": "secret123", "faceImage": "img"})
	require.Equal(t, http.StatusOK, code, env.Message)
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))

	code, _ = h.do(http.MethodGet, "/api/auth/profile", res.Token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminManagesUsers(t *testing.T) {
	h := newHarness(t)
	path := "/api/admin/users/" + h.studentID

	code, _ := h.do(http.MethodGet, path, h.student, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := h.do(http.MethodGet, path, h.admin, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Contains(t, string(env.Data), "student@example.com")

	code, env = h.do(http.MethodPut, path, h.admin, gin.H{"email": "other@example.com"})
	assert.Equal(t, http.StatusConflict, code, env.Message)

	code, env = h.do(http.MethodPut, path, h.admin, gin.H{"firstName": "Renamed", "branchId": ""})
	require.Equal(t, http.StatusOK, code, env.Message)
	var user model.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "Renamed", user.FirstName)
	assert.Nil(t, user.BranchID)
}

func TestUpdateOwnProfile(t *testing.T) {
	h := newHarness(t)

	code, env := h.do(http.MethodPut, "/api/auth/profile", h.student, gin.H{"lastName": "   "})
	assert.Equal(t, http.StatusBadRequest, code, env.Message)

	code, env = h.do(http.MethodPut, "/api/auth/profile", h.student, gin.H{"lastName": "Lovelace", "role": "admin"})
	require.Equal(t, http.StatusOK, code, env.Message)
	var user model.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "Lovelace", user.LastName)
	assert.Equal(t, model.Student, user.Role)
}

func TestDeletedUserTokenIsRejected(t *testing.T) {
	h := newHarness(t)

	code, _ := h.do(http.MethodGet, "/api/auth/profile", h.student, nil)
	require.Equal(t, http.StatusOK, code)

	code, env := h.do(http.MethodDelete, "/api/admin/users/"+h.studentID, h.admin, nil)
	require.Equal(t, http.StatusOK, code, env.Message)

	code, _ = h.do(http.MethodGet, "/api/auth/profile", h.student, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestBranchWithCoursesCannotBeDeleted(t *testing.T) {
	h := newHarness(t)

	code, env := h.do(http.MethodDelete, "/api/branches/"+h.branch.ID, h.admin, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, env.Message, "1 courses are associated")
}
