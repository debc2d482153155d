package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/fitchef/fitchef/internal/application/billing"
	"github.com/fitchef/fitchef/internal/application/generation"
	"github.com/fitchef/fitchef/internal/domain/recipe"
	"github.com/fitchef/fitchef/internal/infrastructure/config"
	"github.com/fitchef/fitchef/internal/infrastructure/http/apiserver"
	"github.com/fitchef/fitchef/internal/infrastructure/http/handlers"
	persistence "github.com/fitchef/fitchef/internal/infrastructure/persistence/gorm"
	"github.com/fitchef/fitchef/internal/infrastructure/persistence/sqlite"
	"github.com/fitchef/fitchef/internal/infrastructure/security"
	"github.com/fitchef/fitchef/internal/ports/outbound"
	"github.com/fitchef/fitchef/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	gormLogger "gorm.io/gorm/logger"
)

const monthlyProduct = "692f738a0ff99e92bd4dc3e7"

// stubGenerator returns a canned generation or error.
type stubGenerator struct {
	err   error
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, req outbound.GenerationRequest) (*recipe.Generation, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	if req.Mode == recipe.ModeDaily {
		menu := &recipe.DailyMenu{
			Type:        "daily",
			Title:       "Cardápio Fit do Dia",
			Meals:       make([]recipe.Meal, recipe.MealsPerDay),
			ImagePrompt: "fitness meals flatlay",
		}
		if req.IncludeShoppingList {
			menu.ShoppingList = map[string][]string{"Proteínas": {"frango"}}
		}
		return &recipe.Generation{Mode: recipe.ModeDaily, Menu: menu}, nil
	}
	return &recipe.Generation{
		Mode: recipe.ModeSingle,
		Recipe: &recipe.Recipe{
			Type:         "single",
			Title:        "Frango Fit",
			ImagePrompt:  "grilled chicken",
			Ingredients:  []string{"frango"},
			Instructions: []string{"grelhe"},
		},
	}, nil
}

type testEnv struct {
	router    http.Handler
	generator *stubGenerator
	cfg       *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.SetupDatabase(filepath.Join(t.TempDir(), "api.db"), gormLogger.Silent)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.Name = "FitChef"
	cfg.App.Version = "test"
	cfg.App.Environment = "test"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8080
	cfg.Auth.JWTSecret = "test-secret-key-for-testing-only-32-bytes"
	cfg.Auth.JWTExpiration = time.Hour
	cfg.Auth.BCryptCost = 4
	cfg.AI.Timeout = time.Second
	cfg.Billing.WebhookSecret = "whsec-test"
	cfg.Billing.Plans = map[string]config.Plan{
		monthlyProduct: {DurationDays: 30, Name: "Mensal"},
	}
	cfg.RateLimit.Enable = false

	logger := zaptest.NewLogger(t)
	accounts := persistence.NewAccountRepository(db)
	directory := persistence.NewAccountDirectory(db)
	usage := persistence.NewUsageRepository(db)
	history := persistence.NewHistoryRepository(db)

	authService := security.NewAuthService(cfg, logger, nil)
	generator := &stubGenerator{}
	generationService := generation.NewService(usage, history, generator, logger)
	billingService := billing.NewService(directory, accounts, cfg, logger)

	h := handlers.NewAPIHandlers(accounts, usage, history, authService, generationService, billingService, cfg, logger)
	server := apiserver.NewServer(cfg, logger, h, authService)

	return &testEnv{router: server.Router(), generator: generator, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Test User", "email": email, "password": "senha123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func singleBody() map[string]string {
	return map[string]string{
		"ingredients": "frango, batata doce",
		"goal":        "Low Carb",
		"time":        "30 min (Rápido)",
		"mode":        "single",
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "user@example.com")

	// Duplicate email conflicts.
	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Other", "email": "USER@example.com", "password": "senha123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "user@example.com", "password": "senha123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "user@example.com", "password": "errada",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerateRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/generate", "", singleBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerateRejectsNonJSONBody(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "user@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewBufferString("ingredients=frango"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestGenerateSingleSuccessStampsImageURL(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "user@example.com")

	rec := env.do(t, http.MethodPost, "/api/v1/generate", token, singleBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got recipe.Recipe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Frango Fit", got.Title)
	assert.Contains(t, got.ImageURL, "image.pollinations.ai")
}

func TestGenerateValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "user@example.com")

	cases := []struct {
		name string
		body map[string]string
	}{
		{"empty ingredients", map[string]string{"ingredients": "   ", "goal": "Low Carb", "time": "30 min (Rápido)"}},
		{"missing goal", map[string]string{"ingredients": "frango", "time": "30 min (Rápido)"}},
		{"bad mode", map[string]string{"ingredients": "frango", "goal": "Low Carb", "time": "30 min (Rápido)", "mode": "weekly"}},
		{"unknown goal", map[string]string{"ingredients": "frango", "goal": "Keto", "time": "30 min (Rápido)"}},
		{"unknown time", map[string]string{"ingredients": "frango", "goal": "Low Carb", "time": "2h (Banquete)"}},
	}
	for _, tc := range cases {
		rec := env.do(t, http.MethodPost, "/api/v1/generate", token, tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.name)
	}

	assert.Zero(t, env.generator.calls, "invalid requests never reach the model")
}

func TestGenerateFreeLimitReturnsCode(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "user@example.com")

	for i := 0; i < 3; i++ {
		rec := env.do(t, http.MethodPost, "/api/v1/generate", token, singleBody())
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/generate", token, singleBody())
	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "LIMIT_REACHED", resp.Code)
}

func TestGenerateDailyRequiresPremium(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "user@example.com")

	body := singleBody()
	body["mode"] = "daily"
	rec := env.do(t, http.MethodPost, "/api/v1/generate", token, body)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "PREMIUM_REQUIRED")
}

func TestGenerateAIFailureConsumesNoQuota(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "user@example.com")

	env.generator.err = errors.New(errors.CodeAIUnavailable, "Erro ao gerar receita. Tente novamente em alguns instantes.")
	rec := env.do(t, http.MethodPost, "/api/v1/generate", token, singleBody())
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// All 3 free generations remain available.
	env.generator.err = nil
	for i := 0; i < 3; i++ {
		rec = env.do(t, http.MethodPost, "/api/v1/generate", token, singleBody())
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "user@example.com")

	rec := env.do(t, http.MethodPost, "/api/v1/generate", token, singleBody())
	require.Equal(t, http.StatusOK, rec.Code)
	var generated recipe.Recipe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &generated))

	rec = env.do(t, http.MethodGet, "/api/v1/recipes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Recipes []recipe.Saved `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Recipes, 1)

	// The stored entry replays the exact generated payload.
	var stored recipe.Recipe
	require.NoError(t, json.Unmarshal(list.Recipes[0].Data, &stored))
	assert.Equal(t, generated.ImageURL, stored.ImageURL)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%s", list.Recipes[0].ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Another user cannot read it.
	otherToken := env.register(t, "other@example.com")
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%s", list.Recipes[0].ID), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func webhookPayload(email, productID, status string) map[string]interface{} {
	return map[string]interface{}{
		"payment":  map[string]string{"status": status},
		"customer": map[string]string{"email": email},
		"products": []map[string]string{{"id": productID}},
	}
}

func TestPaymentWebhookFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "user@example.com")

	// Wrong secret is rejected.
	rec := env.do(t, http.MethodPost, "/api/v1/webhooks/payment", "wrong-secret",
		webhookPayload("user@example.com", monthlyProduct, "approved"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Non-approved payments are acknowledged without granting anything.
	rec = env.do(t, http.MethodPost, "/api/v1/webhooks/payment", "whsec-test",
		webhookPayload("user@example.com", monthlyProduct, "pending"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ignored")

	// Unknown products fail closed.
	rec = env.do(t, http.MethodPost, "/api/v1/webhooks/payment", "whsec-test",
		webhookPayload("user@example.com", "ffffffffffffffffffffffff", "approved"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Approved payment upgrades the account, matching email case-insensitively.
	rec = env.do(t, http.MethodPost, "/api/v1/webhooks/payment", "whsec-test",
		webhookPayload("USER@EXAMPLE.COM", monthlyProduct, "approved"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"success":true`)

	rec = env.do(t, http.MethodGet, "/api/v1/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "performance", profile["plan"])

	// Daily mode is now available.
	body := singleBody()
	body["mode"] = "daily"
	rec = env.do(t, http.MethodPost, "/api/v1/generate", token, body)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "shopping_list")
}

func TestPaymentWebhookUnconfiguredSecret(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Billing.WebhookSecret = ""

	rec := env.do(t, http.MethodPost, "/api/v1/webhooks/payment", "whsec-test",
		webhookPayload("user@example.com", monthlyProduct, "approved"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProfileReportsUsage(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "user@example.com")

	env.do(t, http.MethodPost, "/api/v1/generate", token, singleBody())

	rec := env.do(t, http.MethodGet, "/api/v1/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "free", profile["plan"])
	assert.Equal(t, float64(1), profile["usage_today"])
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "user@example.com")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
