package reference

import (
	"context"

	"gorm.io/gorm"

	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/modules/footprint"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

// Store adapts ReferenceRepo to footprint.ReferenceStore. Each WithConnection
// call pins one pooled connection and returns it to the pool afterwards.
type Store struct {
	db   *gorm.DB
	repo ReferenceRepo
	log  *logger.Logger
}

func NewStore(db *gorm.DB, repo ReferenceRepo, baseLog *logger.Logger) *Store {
	return &Store{db: db, repo: repo, log: baseLog.With("store", "ReferenceStore")}
}

func (s *Store) WithConnection(ctx context.Context, fn func(footprint.ReferenceReader) error) error {
	return s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return fn(&connReader{repo: s.repo, conn: conn})
	})
}

type connReader struct {
	repo ReferenceRepo
	conn *gorm.DB
}

func (c *connReader) dbc(ctx context.Context) dbctx.Context {
	return dbctx.Context{Ctx: ctx, Tx: c.conn}
}

func (c *connReader) FindFabricByID(ctx context.Context, id string) (*types.Fabric, error) {
	return c.repo.FindFabricByID(c.dbc(ctx), id)
}

func (c *connReader) FindAccessoriesByIDs(ctx context.Context, ids []string) ([]*types.Accessory, error) {
	return c.repo.FindAccessoriesByIDs(c.dbc(ctx), ids)
}

func (c *connReader) FindProcessesByIDs(ctx context.Context, ids []string) ([]*types.ProcessRow, error) {
	return c.repo.FindProcessesByIDs(c.dbc(ctx), ids)
}

func (c *connReader) FindLifecycleProcessesByIDs(ctx context.Context, ids []string) ([]*types.ProcessRow, error) {
	return c.repo.FindLifecycleProcessesByIDs(c.dbc(ctx), ids)
}

func (c *connReader) ListFabricsWithFactor(ctx context.Context) ([]*types.Fabric, error) {
	return c.repo.ListFabricsWithFactor(c.dbc(ctx))
}

func (c *connReader) ListAccessoriesWithFactor(ctx context.Context) ([]*types.Accessory, error) {
	return c.repo.ListAccessoriesWithFactor(c.dbc(ctx))
}

func (c *connReader) ListProcessesWithFactor(ctx context.Context) ([]*types.ProcessRow, error) {
	return c.repo.ListProcessesWithFactor(c.dbc(ctx))
}
