package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/zerodesign/zerodesign-backend/internal/data/repos"
	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/domain/settings"
	"github.com/zerodesign/zerodesign-backend/internal/platform/apierr"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

const (
	DefaultCO2Threshold = 1000.0
	DefaultAlertColor   = "#D51635"
)

type SetSettingInput struct {
	Key         string `json:"key"`
	Value       any    `json:"value"`
	DataType    string `json:"data_type"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type ThresholdCheck struct {
	CO2Value   float64 `json:"co2_value"`
	Threshold  float64 `json:"threshold"`
	IsExceeded bool    `json:"is_exceeded"`
	AlertColor string  `json:"alert_color"`
	Percentage float64 `json:"percentage"`
}

type SettingsService interface {
	Get(ctx context.Context, key string, def any) (any, error)
	Set(ctx context.Context, in SetSettingInput) error
	GetAll(ctx context.Context, publicOnly bool) (map[string]any, error)
	CO2Threshold(ctx context.Context) float64
	SetCO2Threshold(ctx context.Context, threshold float64) error
	AlertColor(ctx context.Context) string
	CheckThreshold(ctx context.Context, co2Value float64) ThresholdCheck
}

type settingsService struct {
	log  *logger.Logger
	repo repos.SettingRepo
}

func NewSettingsService(log *logger.Logger, repo repos.SettingRepo) SettingsService {
	return &settingsService{log: log.With("service", "SettingsService"), repo: repo}
}

func (s *settingsService) Get(ctx context.Context, key string, def any) (any, error) {
	row, err := s.repo.Get(dbctx.New(ctx), key)
	if err != nil {
		return def, fmt.Errorf("load setting %q: %w", key, err)
	}
	if row == nil {
		return def, nil
	}
	return ConvertSettingValue(row.Value, row.DataType), nil
}

func (s *settingsService) Set(ctx context.Context, in SetSettingInput) error {
	key := strings.TrimSpace(in.Key)
	if key == "" {
		return apierr.Invalid("missing_key", "setting key is required")
	}
	dataType := in.DataType
	if dataType == "" {
		dataType = DetectSettingType(in.Value)
	}
	switch dataType {
	case settings.TypeNumber, settings.TypeBoolean, settings.TypeJSON, settings.TypeString:
	default:
		return apierr.Invalid("invalid_data_type", fmt.Sprintf("unknown data type %q", dataType))
	}
	value, err := SettingValueString(in.Value)
	if err != nil {
		return apierr.Invalid("invalid_value", err.Error())
	}
	if err := s.repo.Upsert(dbctx.New(ctx), &types.Setting{
		Key:         key,
		Value:       value,
		DataType:    dataType,
		Description: in.Description,
		IsPublic:    in.IsPublic,
	}); err != nil {
		return fmt.Errorf("save setting %q: %w", key, err)
	}
	s.log.Info("setting updated", "key", key, "data_type", dataType)
	return nil
}

func (s *settingsService) GetAll(ctx context.Context, publicOnly bool) (map[string]any, error) {
	rows, err := s.repo.List(dbctx.New(ctx), publicOnly)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	out := make(map[string]any, len(rows))
	for _, row := range rows {
		out[row.Key] = ConvertSettingValue(row.Value, row.DataType)
	}
	return out, nil
}

// CO2Threshold falls back to the default when the setting is missing,
// unreadable or not numeric.
func (s *settingsService) CO2Threshold(ctx context.Context) float64 {
	v, err := s.Get(ctx, settings.KeyCO2Threshold, DefaultCO2Threshold)
	if err != nil {
		s.log.Warn("co2 threshold unavailable, using default", "error", err)
	}
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
	}
	return DefaultCO2Threshold
}

func (s *settingsService) SetCO2Threshold(ctx context.Context, threshold float64) error {
	if threshold < 0 {
		return apierr.Invalid("invalid_threshold", "threshold must not be negative")
	}
	return s.Set(ctx, SetSettingInput{
		Key:         settings.KeyCO2Threshold,
		Value:       threshold,
		DataType:    settings.TypeNumber,
		Description: "CO2 emission threshold in kg",
		IsPublic:    true,
	})
}

func (s *settingsService) AlertColor(ctx context.Context) string {
	v, err := s.Get(ctx, settings.KeyAlertColor, DefaultAlertColor)
	if err != nil {
		s.log.Warn("alert color unavailable, using default", "error", err)
	}
	if str, ok := v.(string); ok && str != "" {
		return str
	}
	return DefaultAlertColor
}

func (s *settingsService) CheckThreshold(ctx context.Context, co2Value float64) ThresholdCheck {
	threshold := s.CO2Threshold(ctx)
	out := ThresholdCheck{
		CO2Value:   co2Value,
		Threshold:  threshold,
		IsExceeded: co2Value > threshold,
		AlertColor: s.AlertColor(ctx),
	}
	if threshold > 0 {
		out.Percentage = co2Value / threshold * 100
	}
	return out
}

// ConvertSettingValue decodes a stored value. Numbers with a decimal point
// become float64, others int64. Unparseable values are returned as stored.
func ConvertSettingValue(value, dataType string) any {
	switch dataType {
	case settings.TypeNumber:
		if strings.Contains(value, ".") {
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				return f
			}
			return value
		}
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		return value
	case settings.TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		default:
			return false
		}
	case settings.TypeJSON:
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return value
		}
		return v
	default:
		return value
	}
}

func DetectSettingType(v any) string {
	switch v.(type) {
	case bool:
		return settings.TypeBoolean
	case int, int32, int64, float32, float64, json.Number:
		return settings.TypeNumber
	case map[string]any, []any:
		return settings.TypeJSON
	default:
		return settings.TypeString
	}
}

func SettingValueString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		if t {
			return "true", nil
		}
		return "false", nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case json.Number:
		return t.String(), nil
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return "", fmt.Errorf("encode setting value: %w", err)
		}
		return string(raw), nil
	}
}
