package ninjacatalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ProductPager lists stored products page by page, starting at page 1.
type ProductPager interface {
	Products(ctx context.Context, page, pageSize int) ([]Product, error)
}

// MemorySink keeps emitted records in memory, replacing records with the same id.
type MemorySink struct {
	mu         sync.Mutex
	categories map[string]*Category
	products   map[string]*Product
	order      []string
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		categories: map[string]*Category{},
		products:   map[string]*Product{},
	}
}

func (s *MemorySink) SaveCategory(ctx context.Context, category *Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[category.ID] = category
	return nil
}

func (s *MemorySink) SaveProduct(ctx context.Context, product *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[product.ID]; !ok {
		s.order = append(s.order, product.ID)
	}
	s.products[product.ID] = product
	return nil
}

// Categories returns the stored categories ordered by level, then index.
func (s *MemorySink) Categories() []*Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	categories := make([]*Category, 0, len(s.categories))
	for _, category := range s.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Level != categories[j].Level {
			return categories[i].Level < categories[j].Level
		}
		if categories[i].ParentID != categories[j].ParentID {
			return categories[i].ParentID < categories[j].ParentID
		}
		return categories[i].Index < categories[j].Index
	})
	return categories
}

func (s *MemorySink) Category(name string) (*Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, category := range s.categories {
		if category.Name == name {
			return category, true
		}
	}
	return nil, false
}

func (s *MemorySink) Product(id string) (*Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	return product, ok
}

func (s *MemorySink) Products(ctx context.Context, page, pageSize int) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := (page - 1) * pageSize
	if page < 1 || start >= len(s.order) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(s.order) {
		end = len(s.order)
	}
	products := make([]Product, 0, end-start)
	for _, id := range s.order[start:end] {
		products = append(products, *s.products[id])
	}
	return products, nil
}

// JSONLSink writes one JSON object per line, tagged with its record type.
type JSONLSink struct {
	mu      sync.Mutex
	encoder *json.Encoder
	closer  io.Closer
}

type jsonlEntry struct {
	Type     string    `json:"type"`
	Category *Category `json:"category,omitempty"`
	Product  *Product  `json:"product,omitempty"`
}

func NewJSONLSink(w io.Writer) *JSONLSink {
	sink := &JSONLSink{encoder: json.NewEncoder(w)}
	if closer, ok := w.(io.Closer); ok {
		sink.closer = closer
	}
	return sink
}

// OpenJSONLSink creates the output file, and its directory, for writing.
func OpenJSONLSink(fileName string) (*JSONLSink, error) {
	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}
	file, err := os.Create(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return NewJSONLSink(file), nil
}

func (s *JSONLSink) SaveCategory(ctx context.Context, category *Category) error {
	return s.write(jsonlEntry{Type: "category", Category: category})
}

func (s *JSONLSink) SaveProduct(ctx context.Context, product *Product) error {
	return s.write(jsonlEntry{Type: "product", Product: product})
}

func (s *JSONLSink) write(entry jsonlEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encoder.Encode(entry)
}

func (s *JSONLSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// MultiSink fans every record out to all sinks and joins their errors.
type MultiSink []CatalogSink

func (m MultiSink) SaveCategory(ctx context.Context, category *Category) error {
	var errs []error
	for _, sink := range m {
		errs = append(errs, sink.SaveCategory(ctx, category))
	}
	return errors.Join(errs...)
}

func (m MultiSink) SaveProduct(ctx context.Context, product *Product) error {
	var errs []error
	for _, sink := range m {
		errs = append(errs, sink.SaveProduct(ctx, product))
	}
	return errors.Join(errs...)
}
