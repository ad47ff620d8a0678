// Package scipindex builds a symbol table from a SCIP index, so projects
// that already run a SCIP indexer get reference resolution without a
// hand-written manifest.
package scipindex

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"
)

// LoadIndex loads a SCIP index from the given path. Indexes compressed
// with gzip (".scip.gz") are decompressed transparently.
func LoadIndex(path string) (*scippb.Index, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("SCIP index not found at %s", path)
	}

	data, err := readIndexFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read SCIP index from %s: %w", path, err)
	}

	var index scippb.Index
	if err := proto.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse SCIP index from %s: %w", path, err)
	}

	return &index, nil
}

func readIndexFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	if !strings.HasSuffix(path, ".gz") {
		return io.ReadAll(file)
	}

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer func() { _ = gz.Close() }()

	return io.ReadAll(gz)
}
