package fontsnip

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
)

// databaseVersion is bumped whenever the persisted layout or the feature
// schema changes incompatibly.
const databaseVersion = 1

var (
	// ErrDatabaseNotFound indicates the database file does not exist. The
	// offline builder has to be run first.
	ErrDatabaseNotFound = errors.New("font database not found")

	// ErrDatabaseCorrupt indicates the database file exists but cannot be
	// parsed into a consistent set of font fingerprints.
	ErrDatabaseCorrupt = errors.New("font database corrupt")
)

// FontEntry is one font's identifier and its reference fingerprint, the
// mean feature vector over the builder's reference alphabet.
type FontEntry struct {
	ID     string
	Vector FeatureVector
}

// FontDatabase is an insertion-ordered, read-only mapping from font
// identifier to reference fingerprint. It is fully validated at load time
// and never mutated afterwards, so concurrent Match calls need no locking.
// Iteration order is the load order, which the builder keeps reproducible
// by emitting entries in sorted font-path order.
type FontDatabase struct {
	entries []FontEntry
	index   map[string]int
}

// databaseFile is the persisted gzip+gob layout.
type databaseFile struct {
	Version uint32
	Entries []FontEntry
}

// NewDatabase builds a validated database from an ordered entry list. It
// fails with ErrDatabaseCorrupt on an empty list, a blank or duplicate
// identifier, or any vector whose length differs from FeatureVectorSize.
func NewDatabase(entries []FontEntry) (*FontDatabase, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrDatabaseCorrupt)
	}
	db := &FontDatabase{
		entries: make([]FontEntry, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, entry := range entries {
		if entry.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has an empty identifier",
				ErrDatabaseCorrupt, i)
		}
		if len(entry.Vector) != FeatureVectorSize {
			return nil, fmt.Errorf("%w: entry %q has %d components, want %d",
				ErrDatabaseCorrupt, entry.ID, len(entry.Vector), FeatureVectorSize)
		}
		if _, dup := db.index[entry.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate identifier %q",
				ErrDatabaseCorrupt, entry.ID)
		}
		db.entries[i] = FontEntry{
			ID:     entry.ID,
			Vector: append(FeatureVector(nil), entry.Vector...),
		}
		db.index[entry.ID] = i
	}
	return db, nil
}

// LoadDatabase reads a database produced by Save. A missing file yields
// ErrDatabaseNotFound; anything unparseable yields ErrDatabaseCorrupt.
func LoadDatabase(path string) (*FontDatabase, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, path)
		}
		return nil, fmt.Errorf("open font database: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseCorrupt, err)
	}
	defer gz.Close()

	var file databaseFile
	if err := gob.NewDecoder(gz).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseCorrupt, err)
	}
	if file.Version != databaseVersion {
		return nil, fmt.Errorf("%w: unsupported version %d",
			ErrDatabaseCorrupt, file.Version)
	}
	return NewDatabase(file.Entries)
}

// Save writes the database as gzip-compressed gob. Used by the offline
// builder; the matcher only ever reads.
func (db *FontDatabase) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create font database: %w", err)
	}

	gz := gzip.NewWriter(f)
	if err := gob.NewEncoder(gz).Encode(databaseFile{
		Version: databaseVersion,
		Entries: db.entries,
	}); err != nil {
		gz.Close()
		f.Close()
		return fmt.Errorf("encode font database: %w", err)
	}
	if err := gz.Close(); err != nil {
		f.Close()
		return fmt.Errorf("compress font database: %w", err)
	}
	return f.Close()
}

// Len returns the number of fonts in the database.
func (db *FontDatabase) Len() int {
	return len(db.entries)
}

// Dimension returns the feature dimensionality shared by every entry.
func (db *FontDatabase) Dimension() int {
	if len(db.entries) == 0 {
		return 0
	}
	return len(db.entries[0].Vector)
}

// Entry returns the i-th entry in load order. The vector must be treated
// as read-only.
func (db *FontDatabase) Entry(i int) FontEntry {
	return db.entries[i]
}

// Lookup returns the fingerprint for a font identifier.
func (db *FontDatabase) Lookup(id string) (FeatureVector, bool) {
	i, ok := db.index[id]
	if !ok {
		return nil, false
	}
	return db.entries[i].Vector, true
}

// Each calls fn for every entry in load order.
func (db *FontDatabase) Each(fn func(FontEntry)) {
	for _, entry := range db.entries {
		fn(entry)
	}
}
