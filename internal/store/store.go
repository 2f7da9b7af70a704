// Package store provides a durable, exact-similarity vector index with
// attached documents and metadata.
//
// Vectors are stored L2-normalized so that inner product equals cosine
// similarity; queries are a brute-force scan over every stored vector (no
// approximation). The store persists itself to disk after every mutation.
//
// A Store assumes a single logical writer and provides no internal locking.
// Callers must serialize Add, DeleteByIDs and Clear on a given store. Query
// may run concurrently with other queries, but not with a mutation.
package store

import (
	"math"
	"os"
	"sort"

	"github.com/charmbracelet/log"
)

// normEpsilon is added to the norm denominator so that a zero vector
// normalizes to a zero vector instead of dividing by zero.
const normEpsilon = 1e-10

// Store is an exact-similarity index bound to one persistence directory and
// one embedding dimension.
//
// The four sequences below are strictly parallel: position i in vectors
// corresponds to position i in ids, documents and metadatas. Every operation
// that removes or reorders entries applies the identical change to all four.
type Store struct {
	dir       string
	dimension int

	vectors   [][]float32
	ids       []string
	documents []string
	metadatas []map[string]string
}

// Stats describes the current state of a store.
type Stats struct {
	Count     int    `json:"total_documents"`
	Path      string `json:"persist_directory"`
	Dimension int    `json:"dimension"`
}

// QueryResult holds the ranked matches for a single query vector. The four
// slices are parallel and sorted by increasing distance.
type QueryResult struct {
	IDs       []string            `json:"ids"`
	Documents []string            `json:"documents"`
	Metadatas []map[string]string `json:"metadatas"`
	Distances []float32           `json:"distances"`
}

// Open creates or loads the store persisted in dir. The directory is created
// if absent. A missing or unreadable snapshot yields a fresh empty store
// rather than an error.
func Open(dir string, dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dimension}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &ErrPersistence{Op: "mkdir", Path: dir, cause: err}
	}

	s := &Store{
		dir:       dir,
		dimension: dimension,
	}
	s.load()

	return s, nil
}

// Dimension returns the configured embedding dimension.
func (s *Store) Dimension() int { return s.dimension }

// Count returns the number of stored records.
func (s *Store) Count() int { return len(s.ids) }

// Path returns the persistence directory.
func (s *Store) Path() string { return s.dir }

// Stats returns the current count and persistence path.
func (s *Store) Stats() Stats {
	return Stats{
		Count:     s.Count(),
		Path:      s.dir,
		Dimension: s.dimension,
	}
}

// Add appends records to the store and persists it before returning.
//
// All four inputs must have the same length and every embedding must match
// the store's dimension; validation happens before any mutation. Embeddings
// are normalized on insertion. Id uniqueness is not enforced here: calling
// Add twice with the same ids duplicates entries, so callers choosing ids
// are responsible for avoiding collisions.
func (s *Store) Add(ids, documents []string, embeddings [][]float32, metadatas []map[string]string) error {
	if len(ids) != len(documents) || len(ids) != len(embeddings) || len(ids) != len(metadatas) {
		return &ErrLengthMismatch{
			IDs:        len(ids),
			Documents:  len(documents),
			Embeddings: len(embeddings),
			Metadatas:  len(metadatas),
		}
	}

	for _, e := range embeddings {
		if len(e) != s.dimension {
			return &ErrDimensionMismatch{Expected: s.dimension, Actual: len(e)}
		}
	}

	normalized := make([][]float32, len(embeddings))
	for i, e := range embeddings {
		normalized[i] = normalize(e)
	}

	s.vectors = append(s.vectors, normalized...)
	s.ids = append(s.ids, ids...)
	s.documents = append(s.documents, documents...)
	s.metadatas = append(s.metadatas, metadatas...)

	log.Debug("Added records to store", "count", len(ids), "total", s.Count())

	return s.save()
}

// Query returns the k nearest stored records for each query vector, ranked by
// increasing cosine distance (1 - similarity). Ties are broken by earlier
// insertion order. k is clamped to the store's count. A query against an
// empty store returns an empty result shape per query vector and no error.
func (s *Store) Query(queryEmbeddings [][]float32, k int) ([]QueryResult, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	results := make([]QueryResult, len(queryEmbeddings))

	total := s.Count()
	if total == 0 {
		for i := range results {
			results[i] = QueryResult{
				IDs:       []string{},
				Documents: []string{},
				Metadatas: []map[string]string{},
				Distances: []float32{},
			}
		}
		return results, nil
	}

	if k > total {
		k = total
	}

	for qi, q := range queryEmbeddings {
		if len(q) != s.dimension {
			return nil, &ErrDimensionMismatch{Expected: s.dimension, Actual: len(q)}
		}

		nq := normalize(q)

		sims := make([]float32, total)
		for i, v := range s.vectors {
			sims[i] = dot(nq, v)
		}

		order := make([]int, total)
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool {
			if sims[order[a]] != sims[order[b]] {
				return sims[order[a]] > sims[order[b]]
			}
			return order[a] < order[b]
		})

		result := QueryResult{
			IDs:       make([]string, k),
			Documents: make([]string, k),
			Metadatas: make([]map[string]string, k),
			Distances: make([]float32, k),
		}
		for j := 0; j < k; j++ {
			idx := order[j]
			result.IDs[j] = s.ids[idx]
			result.Documents[j] = s.documents[idx]
			result.Metadatas[j] = s.metadatas[idx]
			result.Distances[j] = 1 - sims[idx]
		}
		results[qi] = result
	}

	return results, nil
}

// Clear resets the store to empty and removes the persisted artifacts.
func (s *Store) Clear() error {
	s.vectors = nil
	s.ids = nil
	s.documents = nil
	s.metadatas = nil

	if err := s.removeArtifacts(); err != nil {
		return err
	}

	log.Info("Store cleared", "path", s.dir)
	return nil
}

// DeleteByIDs removes every record whose id is in ids, filtering all four
// parallel sequences together. Because the store keeps its normalized
// vectors as first-class data, the surviving records stay query-able without
// re-embedding. Unknown ids are ignored; deleting nothing is a no-op that
// skips the save.
func (s *Store) DeleteByIDs(ids []string) error {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := 0
	for i, id := range s.ids {
		if _, ok := drop[id]; ok {
			continue
		}
		s.vectors[kept] = s.vectors[i]
		s.ids[kept] = s.ids[i]
		s.documents[kept] = s.documents[i]
		s.metadatas[kept] = s.metadatas[i]
		kept++
	}

	removed := len(s.ids) - kept
	if removed == 0 {
		log.Debug("No records to delete")
		return nil
	}

	s.vectors = s.vectors[:kept]
	s.ids = s.ids[:kept]
	s.documents = s.documents[:kept]
	s.metadatas = s.metadatas[:kept]

	log.Info("Deleted records from store", "removed", removed, "remaining", kept)

	return s.save()
}

// normalize returns an L2-normalized copy of v. A zero vector stays zero.
func normalize(v []float32) []float32 {
	var norm2 float64
	for _, x := range v {
		norm2 += float64(x) * float64(x)
	}
	inv := 1 / (math.Sqrt(norm2) + normEpsilon)

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
