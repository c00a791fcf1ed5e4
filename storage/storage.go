package storage

import (
	"context"
	"errors"
	"fmt"

	"nutribot/catalog"
)

// CatalogSource supplies the raw bytes of a food catalog dataset.
type CatalogSource interface {
	Load(ctx context.Context) ([]byte, error)
}

// LoadCatalog reads src and parses it into a catalog.
func LoadCatalog(ctx context.Context, src CatalogSource) (*catalog.Catalog, error) {
	b, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return catalog.Parse(b)
}

// TestCatalogSource is a simple in-memory implementation for testing
type TestCatalogSource struct {
	data []byte
	err  error
}

func NewTestCatalogSource(data []byte) *TestCatalogSource {
	return &TestCatalogSource{data: data}
}

func NewTestCatalogSourceWithError() *TestCatalogSource {
	return &TestCatalogSource{err: errors.New("not found")}
}

func (t *TestCatalogSource) Load(ctx context.Context) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.data, nil
}
