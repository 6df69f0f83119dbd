// Package memory holds the most recently loaded catalog in process memory.
package memory

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
)

type snapshot struct {
	records []domain.ParsedElement
	byName  map[string]int
}

// Catalog is a thread-safe in-memory catalog. Each LoadBatch replaces the
// whole snapshot atomically, so readers never observe a partial load.
type Catalog struct {
	current atomic.Pointer[snapshot]
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// LoadBatch replaces the catalog with records. When several records share a
// name, FindByName returns the first.
func (c *Catalog) LoadBatch(_ context.Context, records []domain.ParsedElement) error {
	s := &snapshot{
		records: make([]domain.ParsedElement, len(records)),
		byName:  make(map[string]int, len(records)),
	}
	copy(s.records, records)
	for i := range s.records {
		if _, dup := s.byName[s.records[i].Name]; !dup {
			s.byName[s.records[i].Name] = i
		}
	}
	c.current.Store(s)
	return nil
}

// Len returns the number of records currently held.
func (c *Catalog) Len() int {
	s := c.current.Load()
	if s == nil {
		return 0
	}
	return len(s.records)
}

func (c *Catalog) List(_ context.Context, class domain.OrbitClass) ([]domain.ParsedElement, error) {
	s := c.current.Load()
	if s == nil {
		return []domain.ParsedElement{}, nil
	}
	out := make([]domain.ParsedElement, 0, len(s.records))
	for i := range s.records {
		if class == "" || s.records[i].OrbitClass == class {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

func (c *Catalog) FindByName(_ context.Context, name string) (domain.ParsedElement, error) {
	s := c.current.Load()
	if s == nil {
		return domain.ParsedElement{}, domain.ErrNotFound
	}
	i, ok := s.byName[name]
	if !ok {
		return domain.ParsedElement{}, domain.ErrNotFound
	}
	return s.records[i], nil
}

func (c *Catalog) Search(_ context.Context, query string) ([]domain.ParsedElement, error) {
	out := []domain.ParsedElement{}
	query = strings.ToLower(strings.TrimSpace(query))
	s := c.current.Load()
	if query == "" || s == nil {
		return out, nil
	}
	for i := range s.records {
		if strings.Contains(strings.ToLower(s.records[i].Name), query) {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}
