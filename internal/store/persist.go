package store

import (
	"bufio"
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Persisted artifact names, co-located in the store directory. Both are
// loaded together at startup; absence or corruption of either means
// "no index yet".
const (
	vectorsFile  = "vectors.gob"
	metadataFile = "metadata.gob"
)

// vectorSnapshot is the on-disk form of the vector structure.
type vectorSnapshot struct {
	Dimension int
	Vectors   [][]float32
}

// metadataSnapshot is the on-disk form of the three metadata sequences.
type metadataSnapshot struct {
	IDs       []string
	Documents []string
	Metadatas []map[string]string
}

// save writes both artifacts. Each is written to a temp file and renamed into
// place so a crash never leaves a torn artifact; a crash between the two
// renames is caught by the consistency check in load.
func (s *Store) save() error {
	vpath := filepath.Join(s.dir, vectorsFile)
	if err := writeGob(vpath, vectorSnapshot{Dimension: s.dimension, Vectors: s.vectors}); err != nil {
		return &ErrPersistence{Op: "write", Path: vpath, cause: err}
	}

	mpath := filepath.Join(s.dir, metadataFile)
	if err := writeGob(mpath, metadataSnapshot{IDs: s.ids, Documents: s.documents, Metadatas: s.metadatas}); err != nil {
		return &ErrPersistence{Op: "write", Path: mpath, cause: err}
	}

	log.Debug("Saved store", "path", s.dir, "count", s.Count())
	return nil
}

// load restores the store from its artifacts. Any problem (missing file,
// corrupt data, mismatched dimension, sequences out of sync) starts a fresh
// empty store instead of failing: availability over flagging data loss.
func (s *Store) load() {
	var vs vectorSnapshot
	if err := readGob(filepath.Join(s.dir, vectorsFile), &vs); err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Could not load vector artifact, starting fresh", "path", s.dir, "error", err)
		}
		return
	}

	var ms metadataSnapshot
	if err := readGob(filepath.Join(s.dir, metadataFile), &ms); err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Could not load metadata artifact, starting fresh", "path", s.dir, "error", err)
		}
		return
	}

	if vs.Dimension != s.dimension {
		log.Warn("Persisted dimension differs from configured, starting fresh",
			"persisted", vs.Dimension, "configured", s.dimension)
		return
	}

	n := len(vs.Vectors)
	if len(ms.IDs) != n || len(ms.Documents) != n || len(ms.Metadatas) != n {
		log.Warn("Persisted artifacts are out of sync, starting fresh",
			"vectors", n, "ids", len(ms.IDs), "documents", len(ms.Documents), "metadatas", len(ms.Metadatas))
		return
	}

	s.vectors = vs.Vectors
	s.ids = ms.IDs
	s.documents = ms.Documents
	s.metadatas = ms.Metadatas

	log.Info("Loaded store", "path", s.dir, "count", n)
}

// removeArtifacts deletes both persisted files, tolerating absence.
func (s *Store) removeArtifacts() error {
	for _, name := range []string{vectorsFile, metadataFile} {
		path := filepath.Join(s.dir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return &ErrPersistence{Op: "remove", Path: path, cause: err}
		}
	}
	return nil
}

// writeGob gob-encodes v into path via a temp file in the same directory,
// then renames it into place so the replacement is atomic.
func writeGob(path string, v any) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_ = tmp.Chmod(0o644)

	buf := bufio.NewWriter(tmp)
	if err := gob.NewEncoder(buf).Encode(v); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = "" // keep the final file
	return nil
}

// readGob gob-decodes path into v.
func readGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gob.NewDecoder(bufio.NewReader(f)).Decode(v)
}
