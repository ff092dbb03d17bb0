package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/middleware"
	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/internal/service"
	"github.com/coursedeck/coursedeck-api/pkg/config"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/export"
)

type stubAccountService struct {
	identities map[string]string // role:email -> id
}

func (s *stubAccountService) Signup(ctx context.Context, role models.Role, req models.SignupRequest) (*models.IdentityInfo, error) {
	if s.identities == nil {
		s.identities = make(map[string]string)
	}
	key := string(role) + ":" + req.Email
	if _, exists := s.identities[key]; exists {
		return nil, appErrors.ErrConflict
	}
	id := "identity-" + strconv.Itoa(len(s.identities)+1)
	s.identities[key] = id
	return &models.IdentityInfo{ID: id, Email: req.Email, Role: role}, nil
}

func (s *stubAccountService) Signin(ctx context.Context, role models.Role, req models.SigninRequest) (*models.SigninResponse, error) {
	id, ok := s.identities[string(role)+":"+req.Email]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return &models.SigninResponse{
		Token:    "stub-token",
		Identity: models.IdentityInfo{ID: id, Email: req.Email, Role: role},
	}, nil
}

type stubCourseService struct {
	courses []models.Course
	next    int
}

func (s *stubCourseService) Create(ctx context.Context, adminID string, req models.CreateCourseRequest) (*models.Course, error) {
	s.next++
	course := models.Course{
		ID:           "course-" + strconv.Itoa(s.next),
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		OwnerAdminID: adminID,
	}
	s.courses = append(s.courses, course)
	return &course, nil
}

func (s *stubCourseService) Update(ctx context.Context, adminID string, req models.UpdateCourseRequest) (*models.Course, error) {
	for i, course := range s.courses {
		if course.ID == req.CourseID && course.OwnerAdminID == adminID {
			s.courses[i].Title = req.Title
			return &s.courses[i], nil
		}
	}
	return nil, appErrors.ErrNotFound
}

func (s *stubCourseService) ListByOwner(ctx context.Context, adminID string) ([]models.Course, error) {
	owned := []models.Course{}
	for _, course := range s.courses {
		if course.OwnerAdminID == adminID {
			owned = append(owned, course)
		}
	}
	return owned, nil
}

func (s *stubCourseService) Preview(ctx context.Context) ([]models.Course, error) {
	return s.courses, nil
}

type stubPurchaseService struct {
	owned map[string]bool // userID:courseID
}

func (s *stubPurchaseService) Purchase(ctx context.Context, userID string, req models.PurchaseRequest) (*models.Purchase, error) {
	if s.owned == nil {
		s.owned = make(map[string]bool)
	}
	key := userID + ":" + req.CourseID
	if s.owned[key] {
		return nil, appErrors.ErrAlreadyPurchased
	}
	s.owned[key] = true
	return &models.Purchase{ID: "purchase-" + key, UserID: userID, CourseID: req.CourseID}, nil
}

func (s *stubPurchaseService) List(ctx context.Context, userID string) ([]models.PurchaseDetail, error) {
	return []models.PurchaseDetail{}, nil
}

func (s *stubPurchaseService) ReceiptData(ctx context.Context, userID, purchaseID string) (*models.PurchaseDetail, *models.IdentityInfo, error) {
	if purchaseID == "missing" {
		return nil, nil, appErrors.ErrNotFound
	}
	return &models.PurchaseDetail{
			Purchase: models.Purchase{ID: purchaseID, UserID: userID},
			Course:   models.Course{Title: "Intro", Price: 10},
		},
		&models.IdentityInfo{ID: userID, Email: "buyer@x.com", Role: models.RoleUser},
		nil
}

type routerFixture struct {
	engine *gin.Engine
	tokens *service.TokenService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := service.NewTokenService(service.TokenConfig{
		UserSecret:  "user-secret",
		AdminSecret: "admin-secret",
		Issuer:      "test",
	})

	r := &Router{
		Config: &config.Config{Env: config.EnvDevelopment},
		Logger: zap.NewNop(),
		Tokens: tokens,
		Accounts: NewAccountHandler(&stubAccountService{}),
		Courses:  NewCourseHandler(&stubCourseService{}),
		Purchases: NewPurchaseHandler(
			&stubPurchaseService{},
			export.NewReceiptExporter(),
		),
	}

	return &routerFixture{engine: r.Build(), tokens: tokens}
}

func (f *routerFixture) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}

	resp := httptest.NewRecorder()
	f.engine.ServeHTTP(resp, req)
	return resp
}

func (f *routerFixture) userToken(t *testing.T, id string) string {
	t.Helper()
	token, err := f.tokens.Issue(id, models.RoleUser)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) adminToken(t *testing.T, id string) string {
	t.Helper()
	token, err := f.tokens.Issue(id, models.RoleAdmin)
	require.NoError(t, err)
	return token
}

func TestRouterHealthAndReady(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.request(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRouterSignupAndSignin(t *testing.T) {
	f := newRouterFixture(t)

	payload := gin.H{"email": "a@x.com", "password": "secret1", "first_name": "Ada", "last_name": "Lovelace"}

	resp := f.request(t, http.MethodPost, "/user/signup", "", payload)
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), "signup successful")

	resp = f.request(t, http.MethodPost, "/user/signin", "", gin.H{"email": "a@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "stub-token")

	// The admin table knows nothing about this email.
	resp = f.request(t, http.MethodPost, "/admin/signin", "", gin.H{"email": "a@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRouterProtectedRoutesRequireToken(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.request(t, http.MethodGet, "/user/purchases", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = f.request(t, http.MethodPost, "/admin/course", "", gin.H{"title": "Intro", "price": 10})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// A user token on an admin route is rejected, not just missing.
	resp = f.request(t, http.MethodPost, "/admin/course", f.userToken(t, "user-1"), gin.H{"title": "Intro", "price": 10})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = f.request(t, http.MethodGet, "/user/purchases", f.adminToken(t, "admin-1"), nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestRouterPreviewIsPublic(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.request(t, http.MethodGet, "/course/preview", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRouterAdminCourseListIsOwnerScoped(t *testing.T) {
	f := newRouterFixture(t)

	tokenA := f.adminToken(t, "admin-a")
	tokenB := f.adminToken(t, "admin-b")

	resp := f.request(t, http.MethodPost, "/admin/course", tokenA, gin.H{"title": "Only A Sees This", "price": 10})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = f.request(t, http.MethodGet, "/admin/course", tokenA, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Only A Sees This")

	resp = f.request(t, http.MethodGet, "/admin/course", tokenB, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "Only A Sees This")
}

func TestRouterDuplicatePurchase(t *testing.T) {
	f := newRouterFixture(t)
	token := f.userToken(t, "user-1")

	payload := gin.H{"course_id": "4f2d6c8a-1b3e-4a5c-8d7f-0e9a8b7c6d5e"}

	resp := f.request(t, http.MethodPost, "/course/purchase", token, payload)
	assert.Equal(t, http.StatusCreated, resp.Code)

	resp = f.request(t, http.MethodPost, "/course/purchase", token, payload)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "ALREADY_PURCHASED")
}

func TestRouterReceiptDownload(t *testing.T) {
	f := newRouterFixture(t)
	token := f.userToken(t, "user-1")

	resp := f.request(t, http.MethodGet, "/user/purchases/purchase-1/receipt", token, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "receipt-purchase-1.pdf")

	resp = f.request(t, http.MethodGet, "/user/purchases/missing/receipt", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
