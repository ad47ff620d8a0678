//go:build !cgo

// Package extract builds a symbol table directly from TypeScript sources
// using tree-sitter. This stub is used when CGO is not available.
package extract

import (
	"context"
	"fmt"

	"declref/internal/model"
)

// Extractor extracts exported declarations from TypeScript source files.
// This is a stub implementation when CGO is not available.
type Extractor struct{}

// NewExtractor creates a new declaration extractor.
// Returns nil when CGO is not available.
func NewExtractor() *Extractor {
	return nil
}

// IsAvailable returns whether source extraction is available.
func IsAvailable() bool {
	return false
}

// ExtractPackage is unavailable without CGO.
func (e *Extractor) ExtractPackage(ctx context.Context, packageName string, roots, ignore []string) (*model.SymbolTable, error) {
	return nil, fmt.Errorf("source extraction requires a CGO-enabled build; use a manifest or SCIP index instead")
}

// ExtractSource is unavailable without CGO.
func (e *Extractor) ExtractSource(ctx context.Context, table *model.SymbolTable, source []byte) error {
	return fmt.Errorf("source extraction requires a CGO-enabled build; use a manifest or SCIP index instead")
}
