package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerodesign/zerodesign-backend/internal/data/repos"
	"github.com/zerodesign/zerodesign-backend/internal/data/repos/testutil"
	"github.com/zerodesign/zerodesign-backend/internal/domain/settings"
)

func newTestSettings(t *testing.T) SettingsService {
	t.Helper()
	db := testutil.SQLite(t)
	return NewSettingsService(testLogger(t), repos.NewSettingRepo(db, testLogger(t)))
}

func TestConvertSettingValue(t *testing.T) {
	tests := []struct {
		value, dataType string
		want            any
	}{
		{"1000", settings.TypeNumber, int64(1000)},
		{"12.5", settings.TypeNumber, 12.5},
		{"abc", settings.TypeNumber, "abc"},
		{"Yes", settings.TypeBoolean, true},
		{"on", settings.TypeBoolean, true},
		{"0", settings.TypeBoolean, false},
		{`{"a":1}`, settings.TypeJSON, map[string]any{"a": float64(1)}},
		{`{broken`, settings.TypeJSON, `{broken`},
		{"#D51635", settings.TypeString, "#D51635"},
	}
	for _, tt := range tests {
		t.Run(tt.dataType+"/"+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertSettingValue(tt.value, tt.dataType))
		})
	}
}

func TestDetectSettingType(t *testing.T) {
	assert.Equal(t, settings.TypeBoolean, DetectSettingType(true))
	assert.Equal(t, settings.TypeNumber, DetectSettingType(3))
	assert.Equal(t, settings.TypeNumber, DetectSettingType(2.5))
	assert.Equal(t, settings.TypeJSON, DetectSettingType(map[string]any{"k": "v"}))
	assert.Equal(t, settings.TypeJSON, DetectSettingType([]any{1}))
	assert.Equal(t, settings.TypeString, DetectSettingType("x"))
}

func TestSettingsDefaults(t *testing.T) {
	svc := newTestSettings(t)
	ctx := context.Background()
	assert.Equal(t, DefaultCO2Threshold, svc.CO2Threshold(ctx))
	assert.Equal(t, DefaultAlertColor, svc.AlertColor(ctx))
}

func TestSettingsRoundTripTypes(t *testing.T) {
	svc := newTestSettings(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, SetSettingInput{Key: "maintenance", Value: true, IsPublic: true}))
	require.NoError(t, svc.Set(ctx, SetSettingInput{Key: "limits", Value: map[string]any{"max": 3.0}}))
	require.NoError(t, svc.Set(ctx, SetSettingInput{Key: "ratio", Value: 0.25, IsPublic: true}))

	v, err := svc.Get(ctx, "maintenance", nil)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = svc.Get(ctx, "limits", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"max": float64(3)}, v)

	v, err = svc.Get(ctx, "missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)

	public, err := svc.GetAll(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"maintenance": true, "ratio": 0.25}, public)

	all, err := svc.GetAll(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSettingsSetRejectsBadInput(t *testing.T) {
	svc := newTestSettings(t)
	ctx := context.Background()
	assertAPIErr(t, svc.Set(ctx, SetSettingInput{Key: " "}), http.StatusBadRequest, "missing_key")
	assertAPIErr(t, svc.Set(ctx, SetSettingInput{Key: "k", Value: 1, DataType: "blob"}), http.StatusBadRequest, "invalid_data_type")
	assertAPIErr(t, svc.SetCO2Threshold(ctx, -1), http.StatusBadRequest, "invalid_threshold")
}

func TestCheckThreshold(t *testing.T) {
	svc := newTestSettings(t)
	ctx := context.Background()

	got := svc.CheckThreshold(ctx, 1000)
	assert.False(t, got.IsExceeded)
	assert.Equal(t, 100.0, got.Percentage)

	require.NoError(t, svc.SetCO2Threshold(ctx, 50))
	require.NoError(t, svc.Set(ctx, SetSettingInput{Key: settings.KeyAlertColor, Value: "#FF0000"}))

	got = svc.CheckThreshold(ctx, 75)
	assert.Equal(t, ThresholdCheck{CO2Value: 75, Threshold: 50, IsExceeded: true, AlertColor: "#FF0000", Percentage: 150}, got)

	require.NoError(t, svc.SetCO2Threshold(ctx, 0))
	got = svc.CheckThreshold(ctx, 10)
	assert.True(t, got.IsExceeded)
	assert.Equal(t, 0.0, got.Percentage)
}
