package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Record is a schemaless JSON object stored in one of the collections.
type Record map[string]any

const (
	CollectionUsers    = "users"
	CollectionVehicles = "vehicles"
	CollectionBookings = "bookings"
)

// Collections lists every collection the store serves, in the order
// they appear in the persisted document.
var Collections = []string{
	CollectionUsers,
	CollectionVehicles,
	CollectionBookings,
}

var (
	ErrNotFound          = errors.New("record not found")
	ErrUnknownCollection = errors.New("unknown collection")
)

// Store keeps every collection inside a single JSON document on disk.
// Reads parse the whole document, writes serialize it back through a
// temp file and an atomic rename. A process-wide RWMutex serializes
// writers, so the document never interleaves concurrent mutations.
type Store struct {
	path string
	mu   sync.RWMutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the backing document.
func (s *Store) Path() string {
	return s.path
}

// List returns the records of a collection, keeping only those whose
// fields are equal to every given filter value.
func (s *Store) List(collection string, filters map[string]string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.readDocument()
	if err != nil {
		return nil, err
	}
	items, ok := doc[collection]
	if !ok {
		return nil, ErrUnknownCollection
	}

	if len(filters) == 0 {
		return items, nil
	}

	filtered := make([]Record, 0, len(items))
	for _, rec := range items {
		if matchesFilters(rec, filters) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// Get returns the record with the given id or ErrNotFound.
func (s *Store) Get(collection, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.readDocument()
	if err != nil {
		return nil, err
	}
	items, ok := doc[collection]
	if !ok {
		return nil, ErrUnknownCollection
	}

	for _, rec := range items {
		if recordID(rec) == id {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// Create appends a record to a collection. A client-supplied id is kept
// as is; otherwise bookings get the next free sequential id of the form
// b<N> and every other collection gets a fresh UUID.
func (s *Store) Create(collection string, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument()
	if err != nil {
		return nil, err
	}
	items, ok := doc[collection]
	if !ok {
		return nil, ErrUnknownCollection
	}

	if recordID(rec) == "" {
		if collection == CollectionBookings {
			rec["id"] = nextBookingID(items)
		} else {
			rec["id"] = uuid.NewString()
		}
	}

	doc[collection] = append(items, rec)
	if err := s.writeDocument(doc); err != nil {
		return nil, err
	}
	return rec, nil
}

// Replace swaps the record with the given id for rec, returning
// ErrNotFound when no such record exists.
func (s *Store) Replace(collection, id string, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument()
	if err != nil {
		return nil, err
	}
	items, ok := doc[collection]
	if !ok {
		return nil, ErrUnknownCollection
	}

	for i, existing := range items {
		if recordID(existing) == id {
			items[i] = rec
			doc[collection] = items
			if err := s.writeDocument(doc); err != nil {
				return nil, err
			}
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes the record with the given id. Deleting an id that does
// not exist is not an error.
func (s *Store) Delete(collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument()
	if err != nil {
		return err
	}
	items, ok := doc[collection]
	if !ok {
		return ErrUnknownCollection
	}

	kept := make([]Record, 0, len(items))
	for _, rec := range items {
		if recordID(rec) != id {
			kept = append(kept, rec)
		}
	}
	doc[collection] = kept
	return s.writeDocument(doc)
}

// readDocument parses the backing file. A missing file reads as the
// empty document with every known collection present.
func (s *Store) readDocument() (map[string][]Record, error) {
	emptyDoc := func() map[string][]Record {
		doc := make(map[string][]Record, len(Collections))
		for _, name := range Collections {
			doc[name] = []Record{}
		}
		return doc
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyDoc(), nil
		}
		return nil, fmt.Errorf("failed to read database file %s: %w", s.path, err)
	}

	doc := emptyDoc()
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse database file %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *Store) writeDocument(doc map[string][]Record) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize database: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "db-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp database file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write database file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close database file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to publish database file: %w", err)
	}
	return nil
}

// recordID returns the record's id in string form, tolerating numeric
// ids that arrive as JSON numbers. Records without an id yield "".
func recordID(rec Record) string {
	return fieldString(rec, "id")
}

func fieldString(rec Record, field string) string {
	switch v := rec[field].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func matchesFilters(rec Record, filters map[string]string) bool {
	for field, want := range filters {
		if fieldString(rec, field) != want {
			return false
		}
	}
	return true
}

// nextBookingID finds the smallest free id of the form b<N>.
func nextBookingID(items []Record) string {
	existing := make(map[string]bool, len(items))
	for _, rec := range items {
		existing[recordID(rec)] = true
	}

	counter := 1
	for existing[fmt.Sprintf("b%d", counter)] {
		counter++
	}
	return fmt.Sprintf("b%d", counter)
}
