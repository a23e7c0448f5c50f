package reference

import (
	"strings"

	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
)

// FabricFilter narrows fabric listings. Empty fields match everything.
type FabricFilter struct {
	Gender     string
	Category   string
	Product    string
	FabricType string
}

// SearchResult groups reference rows matching a free-text term.
type SearchResult struct {
	Fabrics     []*types.Fabric     `json:"fabrics"`
	Accessories []*types.Accessory  `json:"accessories"`
	Processes   []*types.ProcessRow `json:"processes"`
}

func (s *SearchResult) Total() int {
	return len(s.Fabrics) + len(s.Accessories) + len(s.Processes)
}

// likePattern builds a lower-cased contains pattern with LIKE wildcards in
// term escaped, for use with ESCAPE '\'.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

const likeEscape = ` LIKE ? ESCAPE '\'`

func (r *referenceRepo) ListFabrics(dbc dbctx.Context, f FabricFilter) ([]*types.Fabric, error) {
	q := dbc.DB(r.db).Model(&types.Fabric{})
	for col, val := range map[string]string{
		"gender":      f.Gender,
		"category":    f.Category,
		"product":     f.Product,
		"fabric_type": f.FabricType,
	} {
		if v := strings.TrimSpace(val); v != "" {
			q = q.Where(col+" = ?", v)
		}
	}
	results := []*types.Fabric{}
	if err := q.Order("fabric_type").Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *referenceRepo) ListFabricTypes(dbc dbctx.Context) ([]string, error) {
	return r.distinctFabricColumn(dbc, "fabric_type")
}

func (r *referenceRepo) ListCompositions(dbc dbctx.Context) ([]string, error) {
	return r.distinctFabricColumn(dbc, "composition")
}

func (r *referenceRepo) distinctFabricColumn(dbc dbctx.Context, col string) ([]string, error) {
	out := []string{}
	if err := dbc.DB(r.db).
		Model(&types.Fabric{}).
		Where(col+" IS NOT NULL AND "+col+" <> ''").
		Distinct(col).
		Order(col).
		Pluck(col, &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *referenceRepo) SearchFabricsByComposition(dbc dbctx.Context, term string, limit int) ([]*types.Fabric, error) {
	results := []*types.Fabric{}
	if err := dbc.DB(r.db).
		Where("LOWER(composition)"+likeEscape, likePattern(term)).
		Order("fabric_type").
		Order("id").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Search matches term case-insensitively against names, compositions,
// categories and stages across the three reference tables. Each group is
// capped at limit rows.
func (r *referenceRepo) Search(dbc dbctx.Context, term string, limit int) (*SearchResult, error) {
	pat := likePattern(term)
	t := dbc.DB(r.db)
	out := &SearchResult{
		Fabrics:     []*types.Fabric{},
		Accessories: []*types.Accessory{},
		Processes:   []*types.ProcessRow{},
	}

	if err := t.
		Where("LOWER(fabric_type)"+likeEscape+" OR LOWER(composition)"+likeEscape, pat, pat).
		Order("fabric_type").Order("id").
		Limit(limit).
		Find(&out.Fabrics).Error; err != nil {
		return nil, err
	}
	if err := t.
		Where("LOWER(accessory_name)"+likeEscape+" OR LOWER(material)"+likeEscape, pat, pat).
		Order("accessory_name").Order("id").
		Limit(limit).
		Find(&out.Accessories).Error; err != nil {
		return nil, err
	}
	if err := t.
		Table("processes AS p").
		Select(processColumns).
		Joins("LEFT JOIN emissions e ON p.id = e.process_id").
		Where("LOWER(p.process_name)"+likeEscape+
			" OR LOWER(p.description)"+likeEscape+
			" OR LOWER(p.category)"+likeEscape+
			" OR LOWER(p.stage)"+likeEscape, pat, pat, pat, pat).
		Order("p.category").Order("p.process_name").Order("p.id").
		Limit(limit).
		Scan(&out.Processes).Error; err != nil {
		return nil, err
	}
	return out, nil
}
