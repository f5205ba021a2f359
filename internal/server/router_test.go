package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lotoracle/lotoracle-backend/internal/handlers"
	"github.com/lotoracle/lotoracle-backend/internal/lottery"
	"github.com/lotoracle/lotoracle-backend/internal/middleware"
	"github.com/lotoracle/lotoracle-backend/internal/predictor"
	"github.com/lotoracle/lotoracle-backend/internal/repos"
	"github.com/lotoracle/lotoracle-backend/internal/services"
	"github.com/lotoracle/lotoracle-backend/internal/testutil"
)

const testAdminToken = "router-test-admin-token"

type scriptedGemini struct {
	text string
	err  error
}

func (s *scriptedGemini) GenerateText(ctx context.Context, sessionID, system, user string) (string, error) {
	return s.text, s.err
}

func newTestRouter(t *testing.T, gemini services.GeminiClient) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("ADMIN_TOKEN", testAdminToken)

	log := testutil.NewTestLogger(t)
	db := testutil.NewTestDB(t)
	registry := lottery.NewRegistry()

	userRepo := repos.NewUserRepo(db, log)
	predictionRepo := repos.NewPredictionRepo(db, log)
	historyRepo := repos.NewHistoryRepo(db, log)

	seq := predictor.New(log)
	seq.Hidden = 8
	seq.DenseHidden = 6
	seq.Epochs = 2
	seq.SyntheticDraws = 20
	seq.Seed(11)

	analyzer := services.NewPatternAnalyzer(log, gemini)
	authService := services.NewAuthService(log, db, userRepo)
	userService := services.NewUserService(log, db, userRepo)
	predictionService := services.NewPredictionService(log, db, registry, historyRepo, predictionRepo, seq, analyzer)

	return NewRouter(RouterConfig{
		Log:               log,
		AuthMiddleware:    middleware.NewAuthMiddleware(log, authService),
		LotteryHandler:    handlers.NewLotteryHandler(registry),
		AdminHandler:      handlers.NewAdminHandler(log, userService),
		PredictionHandler: handlers.NewPredictionHandler(log, predictionService),
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func createTestUser(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/api/admin/manage-users", testAdminToken, map[string]any{
		"action":    "create_user",
		"user_data": map[string]any{"email": email, "name": "Tester"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create user status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		User struct {
			AccessToken string `json:"access_token"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if body.User.AccessToken == "" {
		t.Fatalf("no access token in response: %s", rec.Body.String())
	}
	return body.User.AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t, &scriptedGemini{text: "ok"})

	rec := doJSON(t, r, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("status field: got=%v", body["status"])
	}
	if body["timestamp"] == nil {
		t.Fatalf("missing timestamp")
	}
}

func TestLotteryConfigsEndpoint(t *testing.T) {
	r := newTestRouter(t, &scriptedGemini{text: "ok"})

	rec := doJSON(t, r, http.MethodGet, "/api/lottery-configs", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	var body struct {
		Lotteries map[string]map[string]any `json:"lotteries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Lotteries) != 3 {
		t.Fatalf("lottery count: got=%d want=3", len(body.Lotteries))
	}
	if _, ok := body.Lotteries["euromillones"]["lucky_numbers"]; !ok {
		t.Fatalf("euromillones missing lucky_numbers: %v", body.Lotteries["euromillones"])
	}
}

func TestAdminEndpointsRequireToken(t *testing.T) {
	r := newTestRouter(t, &scriptedGemini{text: "ok"})

	rec := doJSON(t, r, http.MethodGet, "/api/admin/users", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without token: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
	rec = doJSON(t, r, http.MethodGet, "/api/admin/users", "wrong-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status with wrong token: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
}

func TestUserLifecycleThroughAPI(t *testing.T) {
	r := newTestRouter(t, &scriptedGemini{text: "análise dos padrões"})
	token := createTestUser(t, r, "lifecycle@example.com")

	predictBody := map[string]any{"lottery_type": "euromillones", "language": "pt"}

	rec := doJSON(t, r, http.MethodPost, "/api/predict", token, predictBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("predict status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var prediction struct {
		LotteryType string           `json:"lottery_type"`
		Numbers     map[string][]int `json:"numbers"`
		Confidence  float64          `json:"prediction_confidence"`
		Analysis    string           `json:"ai_analysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &prediction); err != nil {
		t.Fatalf("decode prediction: %v", err)
	}
	if prediction.LotteryType != "euromillones" {
		t.Fatalf("lottery_type: got=%q", prediction.LotteryType)
	}
	if len(prediction.Numbers["main_numbers"]) != 5 || len(prediction.Numbers["lucky_numbers"]) != 2 {
		t.Fatalf("unexpected numbers shape: %v", prediction.Numbers)
	}
	if prediction.Analysis != "análise dos padrões" {
		t.Fatalf("analysis: got=%q", prediction.Analysis)
	}

	// revoke, then the same token is refused
	rec = doJSON(t, r, http.MethodPost, "/api/admin/manage-users", testAdminToken, map[string]any{
		"action":    "revoke_access",
		"user_data": map[string]any{"email": "lifecycle@example.com"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("revoke status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, r, http.MethodPost, "/api/predict", token, predictBody)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("predict after revoke: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}

	// reactivate restores access
	rec = doJSON(t, r, http.MethodPost, "/api/admin/manage-users", testAdminToken, map[string]any{
		"action":    "activate_user",
		"user_data": map[string]any{"email": "lifecycle@example.com"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("activate status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, r, http.MethodPost, "/api/predict", token, predictBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("predict after activate: got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodGet, "/api/user/predictions", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list predictions status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var list struct {
		Predictions []struct {
			ID string `json:"id"`
		} `json:"predictions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Predictions) != 2 {
		t.Fatalf("prediction count: got=%d want=2", len(list.Predictions))
	}
	if list.Predictions[0].ID == "" {
		t.Fatalf("listed prediction missing id")
	}
}

func TestPredictDegradesWhenModelIsDown(t *testing.T) {
	r := newTestRouter(t, &scriptedGemini{err: errors.New("upstream down")})
	token := createTestUser(t, r, "degraded@example.com")

	rec := doJSON(t, r, http.MethodPost, "/api/predict", token, map[string]any{
		"lottery_type": "el_gordo",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("predict status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var prediction struct {
		Confidence float64 `json:"prediction_confidence"`
		Analysis   string  `json:"ai_analysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &prediction); err != nil {
		t.Fatalf("decode prediction: %v", err)
	}
	if prediction.Confidence != 0.6 {
		t.Fatalf("fallback confidence: got=%v want=0.6", prediction.Confidence)
	}
	if prediction.Analysis != "Análise temporariamente indisponível. Usando previsão LSTM." {
		t.Fatalf("fallback analysis: got=%q", prediction.Analysis)
	}
}

func TestPredictInvalidLotteryType(t *testing.T) {
	r := newTestRouter(t, &scriptedGemini{text: "ok"})
	token := createTestUser(t, r, "badtype@example.com")

	rec := doJSON(t, r, http.MethodPost, "/api/predict", token, map[string]any{
		"lottery_type": "powerball",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Message != "Invalid lottery type" || body.Error.Code != "invalid_input" {
		t.Fatalf("unexpected error body: %+v", body.Error)
	}
}

func TestAdminManageUsersValidation(t *testing.T) {
	r := newTestRouter(t, &scriptedGemini{text: "ok"})

	rec := doJSON(t, r, http.MethodPost, "/api/admin/manage-users", testAdminToken, map[string]any{
		"action":    "create_user",
		"user_data": map[string]any{"name": "No Email"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing email status: got=%d", rec.Code)
	}

	createTestUser(t, r, "dup@example.com")
	rec = doJSON(t, r, http.MethodPost, "/api/admin/manage-users", testAdminToken, map[string]any{
		"action":    "create_user",
		"user_data": map[string]any{"email": "dup@example.com"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate email status: got=%d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/admin/manage-users", testAdminToken, map[string]any{
		"action":    "revoke_access",
		"user_data": map[string]any{"email": "ghost@example.com"},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown user status: got=%d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/admin/manage-users", testAdminToken, map[string]any{
		"action": "self_destruct",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid action status: got=%d", rec.Code)
	}
}

func TestAdminListUsers(t *testing.T) {
	r := newTestRouter(t, &scriptedGemini{text: "ok"})
	createTestUser(t, r, "first@example.com")
	createTestUser(t, r, "second@example.com")

	rec := doJSON(t, r, http.MethodGet, "/api/admin/users", testAdminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Users []struct {
			Email       string `json:"email"`
			AccessToken string `json:"access_token"`
			IsActive    bool   `json:"is_active"`
		} `json:"users"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Users) != 2 {
		t.Fatalf("user count: got=%d want=2", len(body.Users))
	}
	for _, u := range body.Users {
		if u.AccessToken == "" || !u.IsActive {
			t.Fatalf("unexpected user view: %+v", u)
		}
	}
}
