package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bankentry-dev/bankentry/internal/dates"
	"github.com/bankentry-dev/bankentry/internal/model"
)

// RowError ties a parse or validation failure to its source line. Row
// errors never abort a batch; the rest of the file keeps importing.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Result is the outcome of parsing one input: the rows that validated and
// the per-line errors for those that did not.
type Result struct {
	Records []model.Record // ids are 0 unless the input carried them
	Errors  []RowError
}

// Added returns how many rows parsed cleanly.
func (r Result) Added() int { return len(r.Records) }

// Skipped returns how many rows were rejected.
func (r Result) Skipped() int { return len(r.Errors) }

// Parser converts one import format into ledger rows.
type Parser interface {
	Parse(r io.Reader) (Result, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with the built-in parsers, all
// normalizing dates with norm.
func DefaultRegistry(norm dates.Normalizer) *Registry {
	r := NewRegistry()
	r.Register(&Structured{Norm: norm})
	r.Register(&Freeform{Norm: norm})
	return r
}

// importDir is the drop directory for bank exports.
const importDir = "import"

// processedDir is where imported files are moved.
const processedDir = "import/processed"

// Scan returns CSV files in <workspace>/import/.
func Scan(workspace string) ([]FileInfo, error) {
	dir := filepath.Join(workspace, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(workspace, fileName string) error {
	src := filepath.Join(workspace, importDir, fileName)
	dstDir := filepath.Join(workspace, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
