package reference

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

type ReferenceRepo interface {
	FindFabricByID(dbc dbctx.Context, id string) (*types.Fabric, error)
	FindAccessoriesByIDs(dbc dbctx.Context, ids []string) ([]*types.Accessory, error)
	FindProcessesByIDs(dbc dbctx.Context, ids []string) ([]*types.ProcessRow, error)
	FindLifecycleProcessesByIDs(dbc dbctx.Context, ids []string) ([]*types.ProcessRow, error)

	ListFabricsWithFactor(dbc dbctx.Context) ([]*types.Fabric, error)
	ListAccessoriesWithFactor(dbc dbctx.Context) ([]*types.Accessory, error)
	ListProcessesWithFactor(dbc dbctx.Context) ([]*types.ProcessRow, error)

	ListFabrics(dbc dbctx.Context, f FabricFilter) ([]*types.Fabric, error)
	ListFabricTypes(dbc dbctx.Context) ([]string, error)
	ListCompositions(dbc dbctx.Context) ([]string, error)
	SearchFabricsByComposition(dbc dbctx.Context, term string, limit int) ([]*types.Fabric, error)
	Search(dbc dbctx.Context, term string, limit int) (*SearchResult, error)

	UpsertFabrics(dbc dbctx.Context, rows []*types.Fabric) error
	UpsertAccessories(dbc dbctx.Context, rows []*types.Accessory) error
	UpsertProcesses(dbc dbctx.Context, rows []*types.Process) error
	UpsertLifecycle(dbc dbctx.Context, rows []*types.LifecycleEntry) error
}

type referenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReferenceRepo(db *gorm.DB, baseLog *logger.Logger) ReferenceRepo {
	repoLog := baseLog.With("repo", "ReferenceRepo")
	return &referenceRepo{db: db, log: repoLog}
}

const processColumns = `p.id, p.category, p.stage_group, p.stage, p.process_name, p.unit,
	p.description, p.applied_products,
	e.min_co2_kg, e.max_co2_kg, e.avg_co2_kg, e.source, e.notes`

const lifecycleColumns = `id, category, stage_group, stage, process_name, unit,
	description, applied_products,
	min_co2_kg, max_co2_kg, avg_co2_kg, source, notes`

func (r *referenceRepo) FindFabricByID(dbc dbctx.Context, id string) (*types.Fabric, error) {
	t := dbc.DB(r.db)

	var row types.Fabric
	if err := t.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *referenceRepo) FindAccessoriesByIDs(dbc dbctx.Context, ids []string) ([]*types.Accessory, error) {
	var results []*types.Accessory
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *referenceRepo) FindProcessesByIDs(dbc dbctx.Context, ids []string) ([]*types.ProcessRow, error) {
	var results []*types.ProcessRow
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Table("processes AS p").
		Select(processColumns).
		Joins("LEFT JOIN emissions e ON p.id = e.process_id").
		Where("p.id IN ?", ids).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *referenceRepo) FindLifecycleProcessesByIDs(dbc dbctx.Context, ids []string) ([]*types.ProcessRow, error) {
	var results []*types.ProcessRow
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Table(types.LifecycleEntry{}.TableName()).
		Select(lifecycleColumns).
		Where("id IN ?", ids).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *referenceRepo) ListFabricsWithFactor(dbc dbctx.Context) ([]*types.Fabric, error) {
	var results []*types.Fabric
	if err := dbc.DB(r.db).
		Where("co2_kg_per_kg IS NOT NULL").
		Order("fabric_type").
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *referenceRepo) ListAccessoriesWithFactor(dbc dbctx.Context) ([]*types.Accessory, error) {
	var results []*types.Accessory
	if err := dbc.DB(r.db).
		Where("co2_kg_per_kg IS NOT NULL").
		Order("accessory_name").
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *referenceRepo) ListProcessesWithFactor(dbc dbctx.Context) ([]*types.ProcessRow, error) {
	var results []*types.ProcessRow
	if err := dbc.DB(r.db).
		Table("processes AS p").
		Select(processColumns).
		Joins("LEFT JOIN emissions e ON p.id = e.process_id").
		Where("e.avg_co2_kg IS NOT NULL").
		Order("p.category").
		Order("p.process_name").
		Order("p.id").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *referenceRepo) UpsertFabrics(dbc dbctx.Context, rows []*types.Fabric) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&rows).Error
}

func (r *referenceRepo) UpsertAccessories(dbc dbctx.Context, rows []*types.Accessory) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&rows).Error
}

// UpsertProcesses writes the process rows and their emission records. A
// process without an Emission keeps whatever emission row it already has.
func (r *referenceRepo) UpsertProcesses(dbc dbctx.Context, rows []*types.Process) error {
	if len(rows) == 0 {
		return nil
	}
	t := dbc.DB(r.db)
	if err := t.
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&rows).Error; err != nil {
		return err
	}

	emissions := make([]*types.Emission, 0, len(rows))
	for _, p := range rows {
		if p.Emission == nil {
			continue
		}
		p.Emission.ProcessID = p.ID
		emissions = append(emissions, p.Emission)
	}
	if len(emissions) == 0 {
		return nil
	}
	return t.
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "process_id"}}, UpdateAll: true}).
		Create(&emissions).Error
}

func (r *referenceRepo) UpsertLifecycle(dbc dbctx.Context, rows []*types.LifecycleEntry) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&rows).Error
}
