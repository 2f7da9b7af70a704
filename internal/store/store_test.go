package store

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, dimension int) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), dimension)
	require.NoError(t, err)
	return s
}

func TestOpen(t *testing.T) {
	t.Run("creates directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "index")
		s, err := Open(dir, 4)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, 0, s.Count())
		assert.Equal(t, 4, s.Dimension())
	})

	t.Run("rejects invalid dimension", func(t *testing.T) {
		_, err := Open(t.TempDir(), 0)
		var dimErr *ErrInvalidDimension
		require.ErrorAs(t, err, &dimErr)
	})
}

func TestAddIncrementsCount(t *testing.T) {
	s := newTestStore(t, 3)

	err := s.Add(
		[]string{"a", "b"},
		[]string{"doc a", "doc b"},
		[][]float32{{1, 0, 0}, {0, 1, 0}},
		[]map[string]string{{"source": "a.md"}, {"source": "b.md"}},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count())

	err = s.Add(
		[]string{"c"},
		[]string{"doc c"},
		[][]float32{{0, 0, 1}},
		[]map[string]string{{"source": "c.md"}},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count())
}

func TestAddValidation(t *testing.T) {
	s := newTestStore(t, 3)

	t.Run("length mismatch", func(t *testing.T) {
		err := s.Add(
			[]string{"a", "b"},
			[]string{"doc a"},
			[][]float32{{1, 0, 0}},
			[]map[string]string{{}},
		)
		var lenErr *ErrLengthMismatch
		require.ErrorAs(t, err, &lenErr)
		assert.Equal(t, 0, s.Count())
	})

	t.Run("dimension mismatch fails before mutation", func(t *testing.T) {
		err := s.Add(
			[]string{"a", "b"},
			[]string{"doc a", "doc b"},
			[][]float32{{1, 0, 0}, {1, 0}},
			[]map[string]string{{}, {}},
		)
		var dimErr *ErrDimensionMismatch
		require.ErrorAs(t, err, &dimErr)
		assert.Equal(t, 3, dimErr.Expected)
		assert.Equal(t, 2, dimErr.Actual)
		assert.Equal(t, 0, s.Count())
	})
}

func TestStoredVectorsAreNormalized(t *testing.T) {
	s := newTestStore(t, 3)

	err := s.Add(
		[]string{"a", "b"},
		[]string{"doc a", "doc b"},
		[][]float32{{3, 4, 0}, {0, 0, 10}},
		[]map[string]string{{}, {}},
	)
	require.NoError(t, err)

	for _, v := range s.vectors {
		var norm2 float64
		for _, x := range v {
			norm2 += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm2), 1e-4)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	v := normalize([]float32{0, 0, 0})
	for _, x := range v {
		assert.False(t, math.IsNaN(float64(x)))
		assert.False(t, math.IsInf(float64(x), 0))
		assert.Equal(t, float32(0), x)
	}
}

func TestQueryEmptyStore(t *testing.T) {
	s := newTestStore(t, 3)

	results, err := s.Query([][]float32{{1, 2, 3}, {4, 5, 6}}, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.NotNil(t, r.IDs)
		assert.NotNil(t, r.Documents)
		assert.NotNil(t, r.Metadatas)
		assert.NotNil(t, r.Distances)
		assert.Empty(t, r.IDs)
		assert.Empty(t, r.Documents)
		assert.Empty(t, r.Metadatas)
		assert.Empty(t, r.Distances)
	}
}

func TestQueryExactMatch(t *testing.T) {
	s := newTestStore(t, 4)

	// Orthogonal embeddings: querying with record #2's vector must return
	// exactly record #2 at distance ~0.
	err := s.Add(
		[]string{"doc-0", "doc-1", "doc-2"},
		[]string{"first", "second", "third"},
		[][]float32{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 1, 0},
		},
		[]map[string]string{{"n": "0"}, {"n": "1"}, {"n": "2"}},
	)
	require.NoError(t, err)

	results, err := s.Query([][]float32{{0, 1, 0, 0}}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].IDs, 1)

	assert.Equal(t, "doc-1", results[0].IDs[0])
	assert.Equal(t, "second", results[0].Documents[0])
	assert.Equal(t, "1", results[0].Metadatas[0]["n"])
	assert.InDelta(t, 0.0, float64(results[0].Distances[0]), 1e-5)
}

func TestQueryOrderingAndClamp(t *testing.T) {
	s := newTestStore(t, 2)

	err := s.Add(
		[]string{"a", "b", "c"},
		[]string{"da", "db", "dc"},
		[][]float32{{1, 0}, {0.7, 0.7}, {0, 1}},
		[]map[string]string{{}, {}, {}},
	)
	require.NoError(t, err)

	// k larger than the store is clamped.
	results, err := s.Query([][]float32{{1, 0}}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].IDs, 3)

	assert.Equal(t, "a", results[0].IDs[0])

	prev := float32(-1)
	for _, d := range results[0].Distances {
		assert.GreaterOrEqual(t, d, prev, "distances must be non-decreasing")
		assert.GreaterOrEqual(t, d, float32(0))
		assert.LessOrEqual(t, d, float32(2))
		prev = d
	}
}

func TestQueryTieBreakByInsertionOrder(t *testing.T) {
	s := newTestStore(t, 2)

	// Three identical vectors tie on similarity; earlier insertion wins.
	err := s.Add(
		[]string{"first", "second", "third"},
		[]string{"d1", "d2", "d3"},
		[][]float32{{1, 1}, {1, 1}, {1, 1}},
		[]map[string]string{{}, {}, {}},
	)
	require.NoError(t, err)

	results, err := s.Query([][]float32{{2, 2}}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, results[0].IDs)
}

func TestQueryInvalidK(t *testing.T) {
	s := newTestStore(t, 2)

	_, err := s.Query([][]float32{{1, 0}}, 0)
	assert.ErrorIs(t, err, ErrInvalidK)
}

func TestQueryDimensionMismatch(t *testing.T) {
	s := newTestStore(t, 3)
	require.NoError(t, s.Add(
		[]string{"a"}, []string{"da"}, [][]float32{{1, 0, 0}}, []map[string]string{{}},
	))

	_, err := s.Query([][]float32{{1, 0}}, 1)
	var dimErr *ErrDimensionMismatch
	require.ErrorAs(t, err, &dimErr)
}

func TestDeleteByIDs(t *testing.T) {
	s := newTestStore(t, 2)

	err := s.Add(
		[]string{"a", "b", "c", "d"},
		[]string{"da", "db", "dc", "dd"},
		[][]float32{{1, 0}, {0, 1}, {1, 1}, {1, -1}},
		[]map[string]string{{}, {}, {}, {}},
	)
	require.NoError(t, err)

	require.NoError(t, s.DeleteByIDs([]string{"b", "d"}))
	assert.Equal(t, 2, s.Count())

	// The survivors stay query-able; deleted ids never come back.
	results, err := s.Query([][]float32{{0, 1}}, 4)
	require.NoError(t, err)
	require.Len(t, results[0].IDs, 2)
	assert.NotContains(t, results[0].IDs, "b")
	assert.NotContains(t, results[0].IDs, "d")

	// Unknown ids are a no-op.
	require.NoError(t, s.DeleteByIDs([]string{"nope"}))
	assert.Equal(t, 2, s.Count())
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, 2)
	require.NoError(t, err)

	require.NoError(t, s.Add(
		[]string{"a"}, []string{"da"}, [][]float32{{1, 0}}, []map[string]string{{}},
	))
	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Count())

	_, err = os.Stat(filepath.Join(dir, vectorsFile))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, metadataFile))
	assert.True(t, os.IsNotExist(err))

	// A fresh load afterward yields an empty store.
	reopened, err := Open(dir, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Count())
}

func TestPersistErrorType(t *testing.T) {
	var perr *ErrPersistence
	err := error(&ErrPersistence{Op: "write", Path: "/x", cause: errors.New("disk full")})
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "disk full")
	assert.EqualError(t, errors.Unwrap(perr), "disk full")
}
