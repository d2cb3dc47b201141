/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package workbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/friendsincode/schedviz/internal/model"
	"github.com/friendsincode/schedviz/internal/storage"
)

// Extension is the file extension of saved workbooks.
const Extension = ".xlsx"

// DefaultDir is the directory saves go to when none is configured.
const DefaultDir = "solutions"

// Store saves schedules to <dir>/<name>.xlsx and opens workbooks from any
// path. When a publisher is set, saved workbooks are also uploaded to it and
// workbooks missing locally are fetched from it.
type Store struct {
	dir       string
	publisher storage.ObjectStore
	logger    zerolog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPublisher mirrors saved workbooks to an object store.
func WithPublisher(obj storage.ObjectStore) StoreOption {
	return func(s *Store) { s.publisher = obj }
}

// NewStore creates a store writing into dir.
func NewStore(dir string, logger zerolog.Logger, opts ...StoreOption) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	s := &Store{
		dir:    dir,
		logger: logger.With().Str("component", "workbook_store").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the save directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file a schedule named name is saved to.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+Extension)
}

// Save writes sched to Path(sched.Name), creating the directory if needed
// and replacing any existing file. The file is written to a temporary name
// and renamed so a failed save never leaves a partial workbook behind.
func (s *Store) Save(ctx context.Context, sched *model.Schedule) (string, error) {
	if err := checkName(sched.Name); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, sched); err != nil {
		return "", err
	}

	path := s.Path(sched.Name)
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}

	s.logger.Info().
		Str("schedule", sched.Name).
		Str("path", path).
		Str("size", humanize.Bytes(uint64(buf.Len()))).
		Msg("schedule saved")

	if s.publisher != nil {
		key := sched.Name + Extension
		if err := s.publisher.Put(ctx, key, buf.Bytes()); err != nil {
			return path, fmt.Errorf("%w: publish %s: %v", model.ErrIO, key, err)
		}
		s.logger.Info().Str("key", key).Msg("schedule published")
	}
	return path, nil
}

// Open reads the workbook at path. The schedule is named after the file.
func (s *Store) Open(ctx context.Context, path string) (*model.Schedule, error) {
	path = ResolvePath(path)
	name := NameOf(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case os.IsNotExist(err) && s.publisher != nil:
		data, err = s.publisher.Get(ctx, filepath.Base(path))
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: workbook %s", model.ErrNotFound, path)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: fetch %s: %v", model.ErrIO, path, err)
		}
		s.logger.Debug().Str("path", path).Msg("workbook fetched from object store")
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: workbook %s", model.ErrNotFound, path)
	default:
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrIO, path, err)
	}

	sched, err := Decode(bytes.NewReader(data), name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.logger.Debug().
		Str("path", path).
		Int("executions", len(sched.Executions)).
		Int("arrivals", len(sched.Arrivals)).
		Int("deadlines", len(sched.Deadlines)).
		Int("idle", len(sched.Idle)).
		Msg("schedule loaded")
	return sched, nil
}

// ResolvePath appends the workbook extension to bare names.
func ResolvePath(nameOrPath string) string {
	if strings.EqualFold(filepath.Ext(nameOrPath), Extension) {
		return nameOrPath
	}
	return nameOrPath + Extension
}

// NameOf returns the schedule name encoded in a workbook path.
func NameOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &model.FieldError{Field: "name", Index: -1, Message: "schedule name is required to save"}
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return &model.FieldError{Field: "name", Index: -1, Message: fmt.Sprintf("%q must not contain path separators", name)}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create directory %s: %v", model.ErrIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", model.ErrIO, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("%w: write %s: %v", model.ErrIO, path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", model.ErrIO, path, err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("%w: chmod %s: %v", model.ErrIO, path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: replace %s: %v", model.ErrIO, path, err)
	}
	return nil
}
