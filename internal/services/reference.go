package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zerodesign/zerodesign-backend/internal/data/repos"
	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/apierr"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

const (
	referenceSearchLimit = 50
	maxSearchTermLen     = 100
)

type FabricFilter = repos.FabricFilter

type SearchResults struct {
	Results      *repos.ReferenceSearchResult `json:"results"`
	TotalResults int                          `json:"total_results"`
	SearchTerm   string                       `json:"search_term"`
}

// ReferenceService answers read-only lookups over emission-factor data.
type ReferenceService interface {
	FabricCO2(ctx context.Context, f FabricFilter) ([]*types.Fabric, error)
	FabricTypes(ctx context.Context) ([]string, error)
	Compositions(ctx context.Context) ([]string, error)
	SearchFabrics(ctx context.Context, composition string) ([]*types.Fabric, error)
	Search(ctx context.Context, q string) (*SearchResults, error)
}

type referenceService struct {
	log  *logger.Logger
	repo repos.ReferenceRepo
}

func NewReferenceService(log *logger.Logger, repo repos.ReferenceRepo) ReferenceService {
	return &referenceService{log: log.With("service", "ReferenceService"), repo: repo}
}

func (rs *referenceService) FabricCO2(ctx context.Context, f FabricFilter) ([]*types.Fabric, error) {
	rows, err := rs.repo.ListFabrics(dbctx.New(ctx), f)
	if err != nil {
		return nil, fmt.Errorf("list fabrics: %w", err)
	}
	return rows, nil
}

func (rs *referenceService) FabricTypes(ctx context.Context) ([]string, error) {
	out, err := rs.repo.ListFabricTypes(dbctx.New(ctx))
	if err != nil {
		return nil, fmt.Errorf("list fabric types: %w", err)
	}
	return out, nil
}

func (rs *referenceService) Compositions(ctx context.Context) ([]string, error) {
	out, err := rs.repo.ListCompositions(dbctx.New(ctx))
	if err != nil {
		return nil, fmt.Errorf("list compositions: %w", err)
	}
	return out, nil
}

func (rs *referenceService) SearchFabrics(ctx context.Context, composition string) ([]*types.Fabric, error) {
	term, err := searchTerm(composition, "missing_composition", "composition")
	if err != nil {
		return nil, err
	}
	rows, err := rs.repo.SearchFabricsByComposition(dbctx.New(ctx), term, referenceSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search fabrics: %w", err)
	}
	return rows, nil
}

func (rs *referenceService) Search(ctx context.Context, q string) (*SearchResults, error) {
	term, err := searchTerm(q, "missing_query", "search term")
	if err != nil {
		return nil, err
	}
	res, err := rs.repo.Search(dbctx.New(ctx), term, referenceSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search reference data: %w", err)
	}
	rs.log.Debug("reference search", "term", term, "results", res.Total())
	return &SearchResults{Results: res, TotalResults: res.Total(), SearchTerm: term}, nil
}

func searchTerm(raw, missingCode, what string) (string, error) {
	term := strings.TrimSpace(raw)
	if term == "" {
		return "", apierr.Invalid(missingCode, what+" is required")
	}
	if utf8.RuneCountInString(term) > maxSearchTermLen {
		return "", apierr.Invalid("search_term_too_long", fmt.Sprintf("%s must be at most %d characters", what, maxSearchTermLen))
	}
	return term, nil
}
