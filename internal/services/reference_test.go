package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerodesign/zerodesign-backend/internal/data/repos"
	"github.com/zerodesign/zerodesign-backend/internal/data/repos/testutil"
)

func newTestReference(t *testing.T) ReferenceService {
	t.Helper()
	db := testutil.DB(t)
	ctx := context.Background()
	testutil.SeedFabric(t, ctx, db, "ref-fab-"+uniqueEmail(), testutil.PtrFloat(2))
	testutil.SeedAccessory(t, ctx, db, "ref-acc-"+uniqueEmail(), testutil.PtrFloat(0.1))
	testutil.SeedProcess(t, ctx, db, "ref-proc-"+uniqueEmail(), testutil.PtrFloat(0.5))
	return NewReferenceService(testLogger(t), repos.NewReferenceRepo(db, testLogger(t)))
}

func TestReferenceSearchValidatesTerm(t *testing.T) {
	svc := newTestReference(t)
	ctx := context.Background()

	_, err := svc.Search(ctx, "   ")
	assertAPIErr(t, err, http.StatusBadRequest, "missing_query")

	_, err = svc.Search(ctx, strings.Repeat("x", maxSearchTermLen+1))
	assertAPIErr(t, err, http.StatusBadRequest, "search_term_too_long")

	_, err = svc.SearchFabrics(ctx, "")
	assertAPIErr(t, err, http.StatusBadRequest, "missing_composition")
}

func TestReferenceSearchGroupsResults(t *testing.T) {
	svc := newTestReference(t)
	ctx := context.Background()

	res, err := svc.Search(ctx, "  button ")
	require.NoError(t, err)
	assert.Equal(t, "button", res.SearchTerm)
	assert.GreaterOrEqual(t, len(res.Results.Accessories), 1)
	assert.Equal(t, res.Results.Total(), res.TotalResults)

	fabrics, err := svc.SearchFabrics(ctx, "COTTON")
	require.NoError(t, err)
	assert.NotEmpty(t, fabrics)

	fabricTypes, err := svc.FabricTypes(ctx)
	require.NoError(t, err)
	assert.Contains(t, fabricTypes, "Cotton")

	listed, err := svc.FabricCO2(ctx, FabricFilter{FabricType: "Cotton"})
	require.NoError(t, err)
	assert.NotEmpty(t, listed)
}
