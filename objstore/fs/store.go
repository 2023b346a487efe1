// Copyright 2025 Paddock Pal
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package fs implements the object store gateway over a local directory.
// Keys map to relative file paths under the root.
package fs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paddockpal/paddock/core"
	"github.com/paddockpal/paddock/objstore"
)

// Store is a directory-backed object store.
type Store struct {
	root string
}

var _ objstore.Store = (*Store)(nil)

// New creates a store rooted at dir, creating it if absent.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: object store directory is empty", core.ErrConfiguration)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: dir}, nil
}

// resolve maps a key to a path under the root, rejecting escapes.
func (s *Store) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: invalid key %q", core.ErrConfiguration, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// List returns objects whose keys start with prefix, in lexical order.
func (s *Store) List(ctx context.Context, prefix string) ([]objstore.Object, error) {
	var objects []objstore.Object

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, objstore.Object{Key: key, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// Get returns the content of the object at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: object %q", core.ErrNotFound, key)
		}
		return nil, err
	}
	return data, nil
}

// Put writes data under key, overwriting any existing object.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// Download copies the object at key to destPath.
func (s *Store) Download(ctx context.Context, key, destPath string) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, data, 0o644)
}

// Close is a no-op for the filesystem store.
func (s *Store) Close() error {
	return nil
}
