package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerodesign/zerodesign-backend/internal/data/seed"
	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

const referenceYAML = `
fabrics:
  - id: fab-cotton
    fabric_type: Cotton
    composition: 100% CO
    co2_kg_per_kg: 2.5
accessories:
  - id: acc-button
    accessory_name: Button
    co2_kg_per_kg: 0.1
  - id: acc-zip
    accessory_name: Zip
    co2_kg_per_kg: 0.2
processes:
  - id: proc-dye
    process_name: Dyeing
    emission:
      avg_co2_kg: 1.2
lifecycle:
  - id: life-wash
    process_name: Washing
    avg_co2_kg: 0.75
`

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

type testApp struct {
	t   *testing.T
	app *App
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	require.NoError(t, err)

	cfg := Config{
		DBDriver:         DriverSQLite,
		SQLitePath:       fmt.Sprintf("file:app_%s?mode=memory&cache=shared", uuid.NewString()),
		AutoMigrate:      true,
		JWTSecretKey:     "test-secret",
		AccessTokenTTL:   time.Hour,
		ExposeResetToken: true,
		LoginMaxAttempts: 5,
		LoginLockout:     time.Minute,
	}
	ctx := context.Background()
	a, err := NewWithConfig(ctx, log, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(ctx) })

	doc, err := seed.Parse(strings.NewReader(referenceYAML))
	require.NoError(t, err)
	_, err = seed.NewLoader(a.DB, a.Repos.Reference, log).Load(ctx, doc)
	require.NoError(t, err)
	return &testApp{t: t, app: a}
}

func (ta *testApp) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	ta.t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ta.t, err)
		rdr = bytes.NewReader(raw)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ta.app.Server.Engine.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(ta.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (ta *testApp) signup(email string) string {
	ta.t.Helper()
	rec, _ := ta.do(http.MethodPost, "/api/signup", "", map[string]string{
		"email": email, "password": "Str0ng!pass", "first_name": "Ada", "last_name": "Lovelace",
	})
	require.Equal(ta.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := ta.do(http.MethodPost, "/api/signin", "", map[string]string{"email": email, "password": "Str0ng!pass"})
	require.Equal(ta.t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(ta.t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(ta.t, login.AccessToken)
	return login.AccessToken
}

func TestHealth(t *testing.T) {
	ta := newTestApp(t)
	rec, env := ta.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ta := newTestApp(t)
	rec, env := ta.do(http.MethodGet, "/api/co2/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "missing_token", env.Error.Code)

	rec, _ = ta.do(http.MethodGet, "/api/co2/items", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCalculationFlow(t *testing.T) {
	ta := newTestApp(t)
	token := ta.signup("flow@example.com")

	rec, env := ta.do(http.MethodGet, "/api/co2/items", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var catalog struct {
		Fabrics     []map[string]any `json:"fabrics"`
		Accessories []map[string]any `json:"accessories"`
		Processes   []map[string]any `json:"processes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &catalog))
	assert.Len(t, catalog.Fabrics, 1)
	assert.Len(t, catalog.Accessories, 2)
	assert.Len(t, catalog.Processes, 1)

	rec, env = ta.do(http.MethodPost, "/api/co2/calculate", token, map[string]any{
		"product_name":         "Jacket",
		"fabric_id":            "fab-cotton",
		"fabric_quantity_kg":   2.0,
		"accessory_ids":        []string{"acc-button", "acc-zip"},
		"accessory_quantities": []float64{1, 1},
		"process_ids":          []string{"proc-dye"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result struct {
		TotalCO2Kg    float64 `json:"total_co2_kg"`
		CalculationID string  `json:"calculation_id"`
		Summary       struct {
			TotalItems int `json:"total_items"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 6.5, result.TotalCO2Kg)
	assert.Equal(t, 4, result.Summary.TotalItems)

	rec, env = ta.do(http.MethodPost, "/api/co2/calculate", token, map[string]any{"process_ids": []string{"life-wash"}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 0.75, result.TotalCO2Kg)

	rec, env = ta.do(http.MethodPost, "/api/co2/calculate", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "empty_selection", env.Error.Code)

	rec, env = ta.do(http.MethodGet, "/api/co2/calculations?limit=1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Equal(t, 1, history.Count)

	rec, env = ta.do(http.MethodPost, "/api/co2/threshold-check", token, map[string]any{"co2_value": 1500})
	require.Equal(t, http.StatusOK, rec.Code)
	var check map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &check))
	assert.Equal(t, true, check["is_exceeded"])
	assert.Equal(t, 150.0, check["percentage"])
	assert.Equal(t, "#D51635", check["alert_color"])

	rec, _ = ta.do(http.MethodPost, "/api/export/csv", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "co2_calculations_export_")
	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)

	rec, _ = ta.do(http.MethodGet, "/api/export/calculations/"+result.CalculationID+"/chart.png", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, err = png.Decode(rec.Body)
	require.NoError(t, err)

	rec, env = ta.do(http.MethodPost, "/api/passports", token, map[string]any{"calculation_id": result.CalculationID, "product_name": "Washed tee"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Passport types.Passport `json:"passport"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, 0.75, created.Passport.TotalCO2Kg)

	rec, _ = ta.do(http.MethodGet, "/api/passports/"+created.Passport.DPPCode, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	other := ta.signup("other@example.com")
	rec, _ = ta.do(http.MethodGet, "/api/passports/"+created.Passport.ID.String(), other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = ta.do(http.MethodPost, "/api/export/csv", other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalculateStoreUnreachable(t *testing.T) {
	ta := newTestApp(t)
	token := ta.signup("down@example.com")

	sqlDB, err := ta.app.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// auth still succeeds from the token alone; the calculation cannot
	rec, env := ta.do(http.MethodPost, "/api/co2/calculate", token, map[string]any{"fabric_id": "fab-cotton"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "store_unreachable", env.Error.Code)
	var zero struct {
		TotalCO2Kg float64  `json:"total_co2_kg"`
		Errors     []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &zero))
	assert.Zero(t, zero.TotalCO2Kg)
	assert.NotNil(t, zero.Errors)
}

func TestSettingsAdminOnlyWrites(t *testing.T) {
	ta := newTestApp(t)
	token := ta.signup("admin@example.com")

	rec, env := ta.do(http.MethodPost, "/api/settings", token, map[string]any{"settings": map[string]any{"co2_threshold": 10}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin_required", env.Error.Code)

	require.NoError(t, ta.app.DB.Model(&types.User{}).Where("email = ?", "admin@example.com").Update("is_admin", true).Error)

	rec, _ = ta.do(http.MethodPost, "/api/settings", token, map[string]any{"settings": map[string]any{"co2_threshold": 10}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = ta.do(http.MethodGet, "/api/settings", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Settings map[string]any `json:"settings"`
		IsAdmin  bool           `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.True(t, got.IsAdmin)
	assert.Equal(t, 10.0, got.Settings["co2_threshold"])

	rec, env = ta.do(http.MethodPost, "/api/co2/threshold-check", token, map[string]any{"co2_value": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	var check map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &check))
	assert.Equal(t, false, check["is_exceeded"])
	assert.Equal(t, 50.0, check["percentage"])
}

func TestPasswordResetOverHTTP(t *testing.T) {
	ta := newTestApp(t)
	ta.signup("reset@example.com")

	rec, env := ta.do(http.MethodPost, "/api/forgot-password", "", map[string]string{"email": "reset@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		ResetToken string `json:"reset_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.ResetToken)

	rec, _ = ta.do(http.MethodPost, "/api/check-reset-token", "", map[string]string{"token": out.ResetToken})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = ta.do(http.MethodPost, "/api/reset-password", "", map[string]string{"token": out.ResetToken, "new_password": "N3w!password"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ta.do(http.MethodPost, "/api/signin", "", map[string]string{"email": "reset@example.com", "password": "N3w!password"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestForgotPasswordUnknownEmailOverHTTP(t *testing.T) {
	ta := newTestApp(t)

	rec, env := ta.do(http.MethodPost, "/api/forgot-password", "", map[string]string{"email": "nobody@example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, env.Success)
	var out struct {
		Message    string `json:"message"`
		ResetToken string `json:"reset_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.NotEmpty(t, out.Message)
	assert.Empty(t, out.ResetToken)
}

func TestReferenceLookupsOverHTTP(t *testing.T) {
	ta := newTestApp(t)

	rec, env := ta.do(http.MethodGet, "/api/fabric-types", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var fabricTypes struct {
		FabricTypes []string `json:"fabric_types"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fabricTypes))
	assert.Equal(t, []string{"Cotton"}, fabricTypes.FabricTypes)

	rec, env = ta.do(http.MethodGet, "/api/fabric-co2?fabric_type=Cotton", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fabrics struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fabrics))
	assert.Equal(t, 1, fabrics.Count)

	rec, env = ta.do(http.MethodGet, "/api/search?q=dye", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var search struct {
		TotalResults int    `json:"total_results"`
		SearchTerm   string `json:"search_term"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &search))
	assert.Equal(t, 1, search.TotalResults)
	assert.Equal(t, "dye", search.SearchTerm)

	rec, env = ta.do(http.MethodGet, "/api/fabric-search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "missing_composition", env.Error.Code)
}

func TestUserProfileOverHTTP(t *testing.T) {
	ta := newTestApp(t)
	token := ta.signup("profile@example.com")

	rec, env := ta.do(http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, string(env.Data), "password")

	rec, _ = ta.do(http.MethodPost, "/api/user/preferences", token, map[string]any{"preferences": map[string]any{"theme": "dark"}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, env = ta.do(http.MethodGet, "/api/user/preferences", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"preferences":{"theme":"dark"}}`, string(env.Data))

	rec, env = ta.do(http.MethodPost, "/api/user/change-password", token, map[string]string{"current_password": "wrong", "new_password": "N3w!password"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "wrong_password", env.Error.Code)
}

func TestSweepResetTokens(t *testing.T) {
	ta := newTestApp(t)
	ta.signup("sweep@example.com")
	ctx := context.Background()

	_, err := ta.app.Services.Auth.RequestPasswordReset(ctx, "sweep@example.com")
	require.NoError(t, err)
	require.NoError(t, ta.app.DB.Model(&types.PasswordResetToken{}).Where("1 = 1").
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error)

	ta.app.sweepResetTokens(ctx)

	var n int64
	require.NoError(t, ta.app.DB.Model(&types.PasswordResetToken{}).Count(&n).Error)
	assert.Zero(t, n)
}
