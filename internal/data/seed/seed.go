package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/zerodesign/zerodesign-backend/internal/data/repos"
	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

// Document is the on-disk shape of a reference data file.
type Document struct {
	Fabrics     []*types.Fabric         `yaml:"fabrics"`
	Accessories []*types.Accessory      `yaml:"accessories"`
	Processes   []*types.Process        `yaml:"processes"`
	Lifecycle   []*types.LifecycleEntry `yaml:"lifecycle"`
}

type Counts struct {
	Fabrics     int
	Accessories int
	Processes   int
	Lifecycle   int
}

func Parse(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &doc, nil
		}
		return nil, fmt.Errorf("decode reference yaml: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Validate rejects rows without an id and ids repeated within one table.
func (d *Document) Validate() error {
	check := func(table string, ids []string) error {
		seen := make(map[string]struct{}, len(ids))
		for i, id := range ids {
			id = strings.TrimSpace(id)
			if id == "" {
				return fmt.Errorf("%s[%d]: missing id", table, i)
			}
			if _, ok := seen[id]; ok {
				return fmt.Errorf("%s: duplicate id %q", table, id)
			}
			seen[id] = struct{}{}
		}
		return nil
	}

	ids := make([]string, 0, len(d.Fabrics))
	for _, f := range d.Fabrics {
		ids = append(ids, f.ID)
	}
	if err := check("fabrics", ids); err != nil {
		return err
	}
	ids = ids[:0]
	for _, a := range d.Accessories {
		ids = append(ids, a.ID)
	}
	if err := check("accessories", ids); err != nil {
		return err
	}
	ids = ids[:0]
	for _, p := range d.Processes {
		ids = append(ids, p.ID)
	}
	if err := check("processes", ids); err != nil {
		return err
	}
	ids = ids[:0]
	for _, l := range d.Lifecycle {
		ids = append(ids, l.ID)
	}
	return check("lifecycle", ids)
}

type Loader struct {
	db   *gorm.DB
	repo repos.ReferenceRepo
	log  *logger.Logger
}

func NewLoader(db *gorm.DB, repo repos.ReferenceRepo, baseLog *logger.Logger) *Loader {
	return &Loader{db: db, repo: repo, log: baseLog.With("component", "ReferenceSeed")}
}

// Load upserts every row of doc in one transaction.
func (l *Loader) Load(ctx context.Context, doc *Document) (Counts, error) {
	var counts Counts
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := l.repo.UpsertFabrics(dbc, doc.Fabrics); err != nil {
			return fmt.Errorf("fabrics: %w", err)
		}
		if err := l.repo.UpsertAccessories(dbc, doc.Accessories); err != nil {
			return fmt.Errorf("accessories: %w", err)
		}
		if err := l.repo.UpsertProcesses(dbc, doc.Processes); err != nil {
			return fmt.Errorf("processes: %w", err)
		}
		if err := l.repo.UpsertLifecycle(dbc, doc.Lifecycle); err != nil {
			return fmt.Errorf("lifecycle: %w", err)
		}
		counts = Counts{
			Fabrics:     len(doc.Fabrics),
			Accessories: len(doc.Accessories),
			Processes:   len(doc.Processes),
			Lifecycle:   len(doc.Lifecycle),
		}
		return nil
	})
	if err != nil {
		return Counts{}, err
	}
	l.log.Info("reference data loaded",
		"fabrics", counts.Fabrics,
		"accessories", counts.Accessories,
		"processes", counts.Processes,
		"lifecycle", counts.Lifecycle,
	)
	return counts, nil
}
