package storage

import (
	"context"
	"os"
)

type FileCatalogSource struct {
	FilePath string
}

func NewFileCatalogSource(filePath string) *FileCatalogSource {
	return &FileCatalogSource{FilePath: filePath}
}

func (f *FileCatalogSource) Load(ctx context.Context) ([]byte, error) {
	return os.ReadFile(f.FilePath)
}
