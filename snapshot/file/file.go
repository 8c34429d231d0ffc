// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/gamers-hell/magpie/snapshot"
)

var errNilConfig = errors.New("file store config cannot be nil")

// Config locates the snapshot on disk.
type Config struct {
	// Path is the file the snapshot is written to. The directory must
	// exist; the file need not.
	Path string
}

// Store persists the snapshot as a single JSON file. Writes go through
// a temp file in the same directory followed by a rename, so readers
// never observe a half-written snapshot.
type Store struct {
	path string
}

func NewFileStore(config *Config) (snapshot.S, error) {
	if config == nil {
		return nil, errNilConfig
	}
	if config.Path == "" {
		return nil, errors.New("file store requires a path")
	}
	return &Store{path: config.Path}, nil
}

func (f *Store) Save(_ context.Context, s snapshot.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp snapshot file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing snapshot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing snapshot file: %w", err)
	}
	return nil
}

// Load reads and decodes the snapshot file. A missing or corrupt file
// both degrade to ErrNoSnapshot; the pipeline rebuilds either way and
// the next Save repairs the corruption.
func (f *Store) Load(_ context.Context) (snapshot.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return snapshot.Snapshot{}, snapshot.ErrNoSnapshot
	}
	var s snapshot.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return snapshot.Snapshot{}, snapshot.ErrNoSnapshot
	}
	// a document without an events array is not a snapshot
	if s.Events == nil {
		return snapshot.Snapshot{}, snapshot.ErrNoSnapshot
	}
	return s, nil
}

func (f *Store) Info(ctx context.Context) (snapshot.Info, error) {
	s, err := f.Load(ctx)
	if err != nil {
		return snapshot.Info{}, err
	}
	return snapshot.Info{
		Timestamp: s.TakenAt(),
		Events:    len(s.Events),
	}, nil
}

func (f *Store) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
