package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unify/internal/query"
	"unify/internal/record"
)

func seededAdapter(t *testing.T) *Adapter {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Seed(context.Background(), DemoUsers))
	return NewAdapter(store, 0)
}

func TestAdapterExecutesFilters(t *testing.T) {
	a := seededAdapter(t)
	ctx := context.Background()

	t.Run("equals by name", func(t *testing.T) {
		recs, err := a.Execute(ctx, query.Condition{
			Field: record.FieldName, Op: query.OpEquals, Value: "ALICE",
		})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, record.TagSQL, recs[0].Source)
		assert.Equal(t, "Alice", recs[0].Fields[record.FieldName])
		assert.Equal(t, "alice@example.com", recs[0].Fields[record.FieldEmail])
	})

	t.Run("region or region", func(t *testing.T) {
		recs, err := a.Execute(ctx, query.Binary{
			Op:    query.LogicOr,
			Left:  query.Condition{Field: record.FieldRegion, Op: query.OpEquals, Value: "EU"},
			Right: query.Condition{Field: record.FieldRegion, Op: query.OpEquals, Value: "APAC"},
		})
		require.NoError(t, err)
		require.Len(t, recs, 3)
	})

	t.Run("date range", func(t *testing.T) {
		recs, err := a.Execute(ctx, query.Condition{
			Field: record.FieldSignupDate,
			Op:    query.OpDateRange,
			Start: day("2025-01-01"),
			End:   day("2025-01-31"),
		})
		require.NoError(t, err)
		require.Len(t, recs, 2)
	})

	t.Run("results ordered by id", func(t *testing.T) {
		recs, err := a.Execute(ctx, query.Condition{
			Field: record.FieldRegion, Op: query.OpIn, Values: []string{"NA", "EU", "APAC"},
		})
		require.NoError(t, err)
		require.Len(t, recs, len(DemoUsers))
		prev := ""
		for _, r := range recs {
			id := r.Fields[record.FieldID]
			if prev != "" {
				assert.True(t, len(prev) < len(id) || (len(prev) == len(id) && prev < id))
			}
			prev = id
		}
	})

	t.Run("path condition returns nothing", func(t *testing.T) {
		recs, err := a.Execute(ctx, query.Condition{
			Field: record.FieldAPIPath, Op: query.OpEquals, Value: "/users",
		})
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestSeedIsIdempotent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Seed(ctx, DemoUsers))
	require.NoError(t, store.Seed(ctx, DemoUsers))

	a := NewAdapter(store, 0)
	recs, err := a.Execute(ctx, query.Condition{
		Field: record.FieldName, Op: query.OpEquals, Value: "bob",
	})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
