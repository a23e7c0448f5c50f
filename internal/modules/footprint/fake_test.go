package footprint

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

type fakeReader struct {
	mu sync.Mutex

	fabrics     map[string]*types.Fabric
	accessories map[string]*types.Accessory
	processes   map[string]*types.ProcessRow
	lifecycle   map[string]*types.ProcessRow

	fabricErr    error
	accessoryErr error
	processErr   error

	calls map[string]int
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		fabrics:     map[string]*types.Fabric{},
		accessories: map[string]*types.Accessory{},
		processes:   map[string]*types.ProcessRow{},
		lifecycle:   map[string]*types.ProcessRow{},
		calls:       map[string]int{},
	}
}

func (f *fakeReader) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeReader) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeReader) FindFabricByID(_ context.Context, id string) (*types.Fabric, error) {
	f.hit("fabric")
	if f.fabricErr != nil {
		return nil, f.fabricErr
	}
	return f.fabrics[id], nil
}

// Rows come back in reverse input order so callers cannot rely on store order.
func (f *fakeReader) FindAccessoriesByIDs(_ context.Context, ids []string) ([]*types.Accessory, error) {
	f.hit("accessories")
	if f.accessoryErr != nil {
		return nil, f.accessoryErr
	}
	var out []*types.Accessory
	for i := len(ids) - 1; i >= 0; i-- {
		if row, ok := f.accessories[ids[i]]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeReader) FindProcessesByIDs(_ context.Context, ids []string) ([]*types.ProcessRow, error) {
	f.hit("processes")
	if f.processErr != nil {
		return nil, f.processErr
	}
	return pick(f.processes, ids), nil
}

func (f *fakeReader) FindLifecycleProcessesByIDs(_ context.Context, ids []string) ([]*types.ProcessRow, error) {
	f.hit("lifecycle")
	return pick(f.lifecycle, ids), nil
}

func (f *fakeReader) ListFabricsWithFactor(context.Context) ([]*types.Fabric, error) {
	var out []*types.Fabric
	for _, row := range f.fabrics {
		if row.CO2KgPerKg != nil {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeReader) ListAccessoriesWithFactor(context.Context) ([]*types.Accessory, error) {
	var out []*types.Accessory
	for _, row := range f.accessories {
		if row.CO2KgPerKg != nil {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeReader) ListProcessesWithFactor(context.Context) ([]*types.ProcessRow, error) {
	var out []*types.ProcessRow
	for _, row := range f.processes {
		if row.AvgCO2Kg != nil {
			out = append(out, row)
		}
	}
	return out, nil
}

func pick(m map[string]*types.ProcessRow, ids []string) []*types.ProcessRow {
	var out []*types.ProcessRow
	for i := len(ids) - 1; i >= 0; i-- {
		if row, ok := m[ids[i]]; ok {
			out = append(out, row)
		}
	}
	return out
}

type fakeStore struct {
	reader   *fakeReader
	acquired int
	released int
	err      error
}

func (s *fakeStore) WithConnection(_ context.Context, fn func(ReferenceReader) error) error {
	if s.err != nil {
		return s.err
	}
	s.acquired++
	defer func() { s.released++ }()
	return fn(s.reader)
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

func f64(v float64) *float64 { return &v }

func fabricWithFactor(id string, v float64) *types.Fabric {
	return &types.Fabric{ID: id, FabricType: "Test", CO2KgPerKg: f64(v)}
}

func accessoryWithFactor(id string, v float64) *types.Accessory {
	return &types.Accessory{ID: id, AccessoryName: id, CO2KgPerKg: f64(v)}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	return log
}

func newTestAggregator(t *testing.T, store ReferenceStore) *Aggregator {
	t.Helper()
	return NewAggregator(AggregatorDeps{Store: store, Log: testLogger(t)})
}

// seededReader matches the worked example: fabric 2.5/kg, accessories 0.1 and
// 0.2, one primary process at 1.2 and one lifecycle-only process at 0.75.
func seededReader() *fakeReader {
	r := newFakeReader()
	r.fabrics["fab-cotton"] = &types.Fabric{ID: "fab-cotton", FabricType: "Cotton", Composition: "100% CO", CO2KgPerKg: f64(2.5), Category: "Top"}
	r.fabrics["fab-null"] = &types.Fabric{ID: "fab-null", FabricType: "Unknown"}
	r.accessories["acc-button"] = &types.Accessory{ID: "acc-button", AccessoryName: "Button", CO2KgPerKg: f64(0.1), Unit: "pcs"}
	r.accessories["acc-zip"] = &types.Accessory{ID: "acc-zip", AccessoryName: "Zip", CO2KgPerKg: f64(0.2), Unit: "pcs"}
	r.accessories["acc-label"] = &types.Accessory{ID: "acc-label", AccessoryName: "Label", CO2KgPerKg: f64(0.05), Unit: "pcs"}
	r.processes["proc-dye"] = &types.ProcessRow{ID: "proc-dye", ProcessName: "Dyeing", Category: "Wet", AvgCO2Kg: f64(1.2), MinCO2Kg: f64(1.0), MaxCO2Kg: f64(1.4)}
	r.processes["proc-cut"] = &types.ProcessRow{ID: "proc-cut", ProcessName: "Cutting", Category: "Dry"}
	r.lifecycle["life-wash"] = &types.ProcessRow{ID: "life-wash", ProcessName: "Washing", AvgCO2Kg: f64(0.75), Source: "legacy"}
	return r
}
