package footprint

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

type AggregatorDeps struct {
	Store ReferenceStore
	Log   *logger.Logger
}

// Aggregator computes garment footprints against a ReferenceStore. It keeps
// no mutable state and is safe for concurrent use.
type Aggregator struct {
	store  ReferenceStore
	log    *logger.Logger
	tracer trace.Tracer
}

func NewAggregator(deps AggregatorDeps) *Aggregator {
	return &Aggregator{
		store:  deps.Store,
		log:    deps.Log.With("module", "footprint"),
		tracer: otel.Tracer("zerodesign/footprint"),
	}
}

// Calculate resolves all three categories on a single store connection.
// Category failures are reported in Breakdown.Errors. When the store cannot
// be reached the returned breakdown is all zero, has Error set, and the
// error is a *StoreError.
func (a *Aggregator) Calculate(ctx context.Context, req Request) (*Breakdown, error) {
	ctx, span := a.tracer.Start(ctx, "footprint.Calculate", trace.WithAttributes(
		attribute.Bool("fabric.selected", req.FabricID != ""),
		attribute.Int("accessories.requested", len(req.AccessoryIDs)),
		attribute.Int("processes.requested", len(req.ProcessIDs)),
	))
	defer span.End()

	var out *Breakdown
	err := a.store.WithConnection(ctx, func(r ReferenceReader) error {
		out = assemble(
			ResolveFabric(ctx, r, req.FabricID, req.FabricQuantityKg),
			ResolveAccessories(ctx, r, req.AccessoryIDs, req.AccessoryQuantities),
			ResolveProcesses(ctx, r, req.ProcessIDs),
		)
		return nil
	})
	if err != nil {
		serr := &StoreError{Op: "calculate", Err: err}
		span.RecordError(serr)
		span.SetStatus(codes.Error, "store unreachable")
		a.log.Error("footprint calculation failed", "error", err)
		zero := emptyBreakdown()
		zero.Error = serr.Error()
		return zero, serr
	}

	span.SetAttributes(attribute.Float64("co2.total_kg", out.TotalCO2Kg), attribute.Int("errors", len(out.Errors)))
	if len(out.Errors) > 0 {
		a.log.Warn("footprint calculated with unresolved items", "errors", out.Errors)
	}
	return out, nil
}

func assemble(fabric FabricResult, accessories AccessoryResult, processes ProcessResult) *Breakdown {
	out := &Breakdown{
		Fabric:      fabric,
		Accessories: accessories,
		Processes:   processes,
		Errors:      []string{},
	}
	if fabric.Error != "" {
		out.Errors = append(out.Errors, "fabric: "+fabric.Error)
	}
	if accessories.Error != "" {
		out.Errors = append(out.Errors, "accessories: "+accessories.Error)
	}
	if processes.Error != "" {
		out.Errors = append(out.Errors, "processes: "+processes.Error)
	}

	out.TotalCO2Kg = Round4(fabric.CO2Kg + accessories.CO2Kg + processes.CO2Kg)

	items := accessories.Count + processes.Count
	if fabric.Details != nil {
		items++
	}
	out.Summary = Summary{
		FabricCO2:      fabric.CO2Kg,
		AccessoriesCO2: accessories.CO2Kg,
		ProcessesCO2:   processes.CO2Kg,
		TotalItems:     items,
	}
	return out
}

// AvailableItems lists every reference row with a usable emission factor.
func (a *Aggregator) AvailableItems(ctx context.Context) (*Catalog, error) {
	ctx, span := a.tracer.Start(ctx, "footprint.AvailableItems")
	defer span.End()

	cat := &Catalog{
		Fabrics:     []CatalogFabric{},
		Accessories: []CatalogAccessory{},
		Processes:   []CatalogProcess{},
	}
	err := a.store.WithConnection(ctx, func(r ReferenceReader) error {
		fabrics, err := r.ListFabricsWithFactor(ctx)
		if err != nil {
			return err
		}
		for _, f := range fabrics {
			cat.Fabrics = append(cat.Fabrics, CatalogFabric{
				ID:          f.ID,
				FabricType:  f.FabricType,
				Composition: f.Composition,
				CO2KgPerKg:  factor(f.CO2KgPerKg),
				Gender:      f.Gender,
				Category:    f.Category,
				Product:     f.Product,
			})
		}

		accessories, err := r.ListAccessoriesWithFactor(ctx)
		if err != nil {
			return err
		}
		for _, acc := range accessories {
			cat.Accessories = append(cat.Accessories, CatalogAccessory{
				ID:            acc.ID,
				AccessoryName: acc.AccessoryName,
				Material:      acc.Material,
				CO2KgPerKg:    factor(acc.CO2KgPerKg),
				Gender:        acc.Gender,
				Category:      acc.Category,
				Product:       acc.Product,
			})
		}

		processes, err := r.ListProcessesWithFactor(ctx)
		if err != nil {
			return err
		}
		for _, p := range processes {
			cat.Processes = append(cat.Processes, CatalogProcess{
				ID:          p.ID,
				ProcessName: p.ProcessName,
				Category:    p.Category,
				StageGroup:  p.StageGroup,
				AvgCO2Kg:    factor(p.AvgCO2Kg),
			})
		}
		return nil
	})
	if err != nil {
		serr := &StoreError{Op: "available items", Err: err}
		span.RecordError(serr)
		span.SetStatus(codes.Error, "store unreachable")
		a.log.Error("listing reference items failed", "error", err)
		return nil, serr
	}
	return cat, nil
}
