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


// Package gcs implements the object store gateway over a Google Cloud
// Storage bucket using the JSON API.
package gcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/paddockpal/paddock/core"
	"github.com/paddockpal/paddock/objstore"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"
)

// Store is a GCS-bucket-backed object store.
type Store struct {
	svc    *storage.Service
	bucket string
	logger *slog.Logger
}

var _ objstore.Store = (*Store)(nil)

// New creates a store for the named bucket. Credentials resolve through
// Application Default Credentials; pass option.WithCredentialsFile to
// override.
func New(ctx context.Context, bucket string, opts ...option.ClientOption) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("%w: bucket name is required", core.ErrConfiguration)
	}

	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: creating storage service: %v", core.ErrConfiguration, err)
	}

	return &Store{
		svc:    svc,
		bucket: bucket,
		logger: slog.Default().With("component", "gcs-store", "bucket", bucket),
	}, nil
}

// List returns objects whose keys start with prefix, following pagination.
func (s *Store) List(ctx context.Context, prefix string) ([]objstore.Object, error) {
	var objects []objstore.Object

	call := s.svc.Objects.List(s.bucket).Prefix(prefix)
	for {
		res, err := call.Context(ctx).Do()
		if err != nil {
			return nil, classify(err, prefix)
		}
		for _, item := range res.Items {
			objects = append(objects, objstore.Object{
				Key:  item.Name,
				Size: int64(item.Size),
			})
		}
		if res.NextPageToken == "" {
			break
		}
		call = call.PageToken(res.NextPageToken)
	}

	s.logger.Debug("listed objects", "prefix", prefix, "count", len(objects))
	return objects, nil
}

// Get returns the full content of the object at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.svc.Objects.Get(s.bucket, key).Context(ctx).Download()
	if err != nil {
		return nil, classify(err, key)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading object %q: %v", core.ErrTransient, key, err)
	}
	return data, nil
}

// Put writes data under key, overwriting any existing object.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	obj := &storage.Object{Name: key}
	_, err := s.svc.Objects.Insert(s.bucket, obj).
		Media(bytes.NewReader(data)).
		Context(ctx).
		Do()
	if err != nil {
		return classify(err, key)
	}
	s.logger.Debug("uploaded object", "key", key, "bytes", len(data))
	return nil
}

// Download writes the object at key to a local file path.
func (s *Store) Download(ctx context.Context, key, destPath string) error {
	resp, err := s.svc.Objects.Get(s.bucket, key).Context(ctx).Download()
	if err != nil {
		return classify(err, key)
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("%w: downloading %q: %v", core.ErrTransient, key, err)
	}
	return nil
}

// Close is a no-op; the underlying HTTP client needs no explicit shutdown.
func (s *Store) Close() error {
	return nil
}

// classify maps Google API errors onto the pipeline taxonomy.
func classify(err error, key string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%w: object %q", core.ErrNotFound, key)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: access to %q denied: %v", core.ErrConfiguration, key, err)
		}
	}
	return fmt.Errorf("%w: %v", core.ErrTransient, err)
}
