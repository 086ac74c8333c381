package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/spboyer/promptlift/internal/dataset"
	"github.com/spboyer/promptlift/internal/models"
)

// File names used by the JSONL store.
const (
	BaselineFile = "baseline.jsonl"
	EnhancedFile = "enhanced.jsonl"
)

// JSONLStore writes each population as newline-delimited JSON into its own
// file. Compressed stores append one gzip member per session, which gzip
// readers concatenate transparently.
type JSONLStore struct {
	mu       sync.Mutex
	dir      string
	compress bool
	files    map[models.Method]*jsonlFile
}

type jsonlFile struct {
	f   *os.File
	w   io.Writer
	zw  *gzip.Writer
	enc *json.Encoder
}

// OpenJSONL creates dir if needed. Files are opened lazily on first append.
func OpenJSONL(dir string, compress bool) (*JSONLStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating record directory: %w", err)
	}
	return &JSONLStore{dir: dir, compress: compress, files: map[models.Method]*jsonlFile{}}, nil
}

// Path returns the file that holds records of method m.
func (s *JSONLStore) Path(m models.Method) string {
	name := BaselineFile
	if m == models.MethodGenerated {
		name = EnhancedFile
	}
	if s.compress {
		name += ".gz"
	}
	return filepath.Join(s.dir, name)
}

func (s *JSONLStore) Append(ctx context.Context, records ...models.TaskRecord) error {
	if err := validate(records); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		jf, err := s.file(rec.Method)
		if err != nil {
			return err
		}
		if err := jf.enc.Encode(rec); err != nil {
			return fmt.Errorf("writing record %s: %w", rec.TaskID, err)
		}
	}
	return nil
}

func (s *JSONLStore) file(m models.Method) (*jsonlFile, error) {
	if jf, ok := s.files[m]; ok {
		return jf, nil
	}
	f, err := os.OpenFile(s.Path(m), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening record log: %w", err)
	}
	jf := &jsonlFile{f: f, w: f}
	if s.compress {
		jf.zw = gzip.NewWriter(f)
		jf.w = jf.zw
	}
	jf.enc = json.NewEncoder(jf.w)
	s.files[m] = jf
	return jf, nil
}

// Population flushes pending writes and reads both files back. A missing file
// is an empty population.
func (s *JSONLStore) Population(ctx context.Context) (*models.Population, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flush(); err != nil {
		return nil, err
	}

	pop := models.NewPopulation()
	for _, m := range []models.Method{models.MethodManual, models.MethodGenerated} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := dataset.Load(s.Path(m))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if m == models.MethodManual {
			pop.AppendBaseline(records...)
		} else {
			pop.AppendEnhanced(records...)
		}
	}
	return pop, nil
}

// flush closes the gzip members so the data so far is readable. The next
// append starts a new member.
func (s *JSONLStore) flush() error {
	var errs []error
	for m, jf := range s.files {
		if jf.zw != nil {
			errs = append(errs, jf.zw.Close(), jf.f.Close())
			delete(s.files, m)
			continue
		}
		errs = append(errs, jf.f.Sync())
	}
	return errors.Join(errs...)
}

func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for m, jf := range s.files {
		if jf.zw != nil {
			errs = append(errs, jf.zw.Close())
		}
		errs = append(errs, jf.f.Close())
		delete(s.files, m)
	}
	return errors.Join(errs...)
}
