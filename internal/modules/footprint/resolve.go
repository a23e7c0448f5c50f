package footprint

import (
	"context"
	"fmt"
	"sort"

	types "github.com/zerodesign/zerodesign-backend/internal/domain"
)

// ResolveFabric computes the fabric contribution. A miss or a failed lookup
// yields a zero result carrying the reason in Error.
func ResolveFabric(ctx context.Context, r ReferenceReader, id string, quantityKg float64) FabricResult {
	if id == "" {
		return FabricResult{}
	}
	row, err := r.FindFabricByID(ctx, id)
	if err != nil {
		return FabricResult{Error: err.Error()}
	}
	if row == nil {
		return FabricResult{Error: fmt.Sprintf("fabric not found: %s", id)}
	}
	perKg := factor(row.CO2KgPerKg)
	return FabricResult{
		CO2Kg: Round4(perKg * quantityKg),
		Details: &FabricDetails{
			ID:          row.ID,
			FabricType:  row.FabricType,
			Composition: row.Composition,
			CO2PerKg:    perKg,
			QuantityKg:  quantityKg,
			Gender:      row.Gender,
			Category:    row.Category,
			Product:     row.Product,
		},
	}
}

// ResolveAccessories pairs quantities with ids by input position; positions
// past the end of quantities use DefaultQuantity. Ids without a row are
// skipped silently. A repeated id counts once, with the quantity at its first
// position.
func ResolveAccessories(ctx context.Context, r ReferenceReader, ids []string, quantities []float64) AccessoryResult {
	out := AccessoryResult{Details: []AccessoryDetail{}}
	if len(ids) == 0 {
		return out
	}
	rows, err := r.FindAccessoriesByIDs(ctx, dedupe(ids))
	if err != nil {
		out.Error = err.Error()
		return out
	}
	byID := make(map[string]*types.Accessory, len(rows))
	for _, row := range rows {
		if row != nil {
			byID[row.ID] = row
		}
	}

	var sum float64
	seen := make(map[string]bool, len(byID))
	for i, id := range ids {
		row, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		qty := DefaultQuantity
		if i < len(quantities) {
			qty = quantities[i]
		}
		perKg := factor(row.CO2KgPerKg)
		total := Round4(perKg * qty)
		sum += total
		out.Details = append(out.Details, AccessoryDetail{
			ID:          row.ID,
			Name:        row.AccessoryName,
			Material:    row.Material,
			Composition: row.Composition,
			CO2PerKg:    perKg,
			QuantityKg:  qty,
			CO2Total:    total,
			Gender:      row.Gender,
			Category:    row.Category,
			Product:     row.Product,
			Unit:        row.Unit,
		})
	}
	out.CO2Kg = Round4(sum)
	out.Count = len(out.Details)
	return out
}

// ResolveProcesses sums average emissions. The lifecycle table is consulted
// only when the primary table matched nothing; results are never merged.
func ResolveProcesses(ctx context.Context, r ReferenceReader, ids []string) ProcessResult {
	out := ProcessResult{Details: []ProcessDetail{}}
	if len(ids) == 0 {
		return out
	}
	lookup := dedupe(ids)

	rows, err := r.FindProcessesByIDs(ctx, lookup)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	source := SourcePrimary
	if len(rows) == 0 {
		rows, err = r.FindLifecycleProcessesByIDs(ctx, lookup)
		if err != nil {
			out.Error = err.Error()
			return out
		}
		source = SourceLifecycle
	}
	if len(rows) == 0 {
		return out
	}

	pos := make(map[string]int, len(lookup))
	for i, id := range lookup {
		pos[id] = i
	}
	sort.SliceStable(rows, func(i, j int) bool { return pos[rows[i].ID] < pos[rows[j].ID] })

	var sum float64
	for _, row := range rows {
		avg := factor(row.AvgCO2Kg)
		sum += avg
		out.Details = append(out.Details, ProcessDetail{
			ID:              row.ID,
			Name:            row.ProcessName,
			Category:        row.Category,
			StageGroup:      row.StageGroup,
			Stage:           row.Stage,
			Unit:            row.Unit,
			Description:     row.Description,
			AppliedProducts: row.AppliedProducts,
			MinCO2Kg:        row.MinCO2Kg,
			MaxCO2Kg:        row.MaxCO2Kg,
			AvgCO2Kg:        avg,
			Source:          row.Source,
			Notes:           row.Notes,
		})
	}
	out.CO2Kg = Round4(sum)
	out.Count = len(out.Details)
	out.Source = source
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
