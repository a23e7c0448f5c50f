package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/zerodesign/zerodesign-backend/internal/data/repos"
	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/apierr"
	"github.com/zerodesign/zerodesign-backend/internal/platform/ctxutil"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

const DefaultPreviewRows = 10

var ExportColumns = []string{"id", "product_name", "total_co2", "fabric_co2", "accessory_co2", "process_co2", "created_at"}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

type ExportPreview struct {
	Rows    []map[string]string `json:"rows"`
	Total   int64               `json:"total"`
	Columns []string            `json:"columns"`
}

type ExportService interface {
	ExportCSV(ctx context.Context) (*ExportFile, error)
	Preview(ctx context.Context, rows int) (*ExportPreview, error)
	Chart(ctx context.Context, calculationID uuid.UUID) (*ExportFile, error)
}

type exportService struct {
	log      *logger.Logger
	calcRepo repos.CalculationRepo
	settings SettingsService
	chart    *ChartRenderer
	now      func() time.Time
}

func NewExportService(log *logger.Logger, calcRepo repos.CalculationRepo, settings SettingsService, chart *ChartRenderer) ExportService {
	return &exportService{
		log:      log.With("service", "ExportService"),
		calcRepo: calcRepo,
		settings: settings,
		chart:    chart,
		now:      time.Now,
	}
}

func (es *exportService) history(ctx context.Context, limit int) ([]*types.Calculation, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", "not signed in")
	}
	rows, err := es.calcRepo.ListByUser(dbctx.New(ctx), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	return rows, nil
}

func (es *exportService) ExportCSV(ctx context.Context) (*ExportFile, error) {
	rows, err := es.history(ctx, MaxHistoryLimit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("no_calculations", "no calculations to export")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ExportColumns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range rows {
		rec := exportRecord(c)
		line := make([]string, len(ExportColumns))
		for i, col := range ExportColumns {
			line[i] = rec[col]
		}
		if err := w.Write(line); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return &ExportFile{
		Filename:    "co2_calculations_export_" + es.now().Format("20060102_150405") + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
		Rows:        len(rows),
	}, nil
}

func (es *exportService) Preview(ctx context.Context, n int) (*ExportPreview, error) {
	if n <= 0 {
		n = DefaultPreviewRows
	}
	rows, err := es.history(ctx, clampLimit(n, DefaultPreviewRows, MaxHistoryLimit))
	if err != nil {
		return nil, err
	}
	total, err := es.calcRepo.CountByUser(dbctx.New(ctx), ctxutil.UserID(ctx))
	if err != nil {
		return nil, fmt.Errorf("count calculations: %w", err)
	}
	out := &ExportPreview{Rows: make([]map[string]string, 0, len(rows)), Total: total, Columns: ExportColumns}
	for _, c := range rows {
		out.Rows = append(out.Rows, exportRecord(c))
	}
	return out, nil
}

func exportRecord(c *types.Calculation) map[string]string {
	return map[string]string{
		"id":            c.ID.String(),
		"product_name":  c.ProductName,
		"total_co2":     formatKg(c.TotalCO2Kg),
		"fabric_co2":    formatKg(c.FabricCO2Kg),
		"accessory_co2": formatKg(c.AccessoryCO2Kg),
		"process_co2":   formatKg(c.ProcessCO2Kg),
		"created_at":    c.CreatedAt.Format("02/01/2006 15:04"),
	}
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (es *exportService) Chart(ctx context.Context, calculationID uuid.UUID) (*ExportFile, error) {
	calc, err := loadOwnedCalculation(ctx, es.calcRepo, calculationID)
	if err != nil {
		return nil, err
	}
	check := es.settings.CheckThreshold(ctx, calc.TotalCO2Kg)
	png, err := es.chart.Render(ChartData{
		Title:      calc.ProductName,
		Fabric:     calc.FabricCO2Kg,
		Accessory:  calc.AccessoryCO2Kg,
		Process:    calc.ProcessCO2Kg,
		Total:      calc.TotalCO2Kg,
		Exceeded:   check.IsExceeded,
		AlertColor: check.AlertColor,
	})
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("co2_calculation_%s.png", calc.ID.String()),
		ContentType: "image/png",
		Data:        png,
		Rows:        1,
	}, nil
}
