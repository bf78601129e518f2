// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package publish

import (
	"context"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/cockroachdb/errors"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// GCS publishes objects to a Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

// ParseBucket splits a "bucket/prefix" location. The prefix may be
// empty.
func ParseBucket(loc string) (bucket, prefix string, err error) {
	loc = strings.TrimPrefix(loc, "gs://")
	bucket, prefix, _ = strings.Cut(loc, "/")
	if bucket == "" {
		return "", "", errors.Newf("no bucket in %q", loc)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// NewGCS returns a GCS publishing under loc, a "bucket/prefix"
// location. If opts is empty, the client authenticates with the
// application default credentials.
func NewGCS(ctx context.Context, loc string, opts ...option.ClientOption) (*GCS, error) {
	bucket, prefix, err := ParseBucket(loc)
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		ts, err := google.DefaultTokenSource(ctx, storage.ScopeReadWrite)
		if err != nil {
			return nil, errors.Wrap(err, "finding default credentials")
		}
		opts = append(opts, option.WithTokenSource(ts))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating storage client")
	}
	return &GCS{client: client, bucket: bucket, prefix: prefix}, nil
}

// ObjectName returns the object name name is published under.
func (g *GCS) ObjectName(name string) string {
	if g.prefix == "" {
		return name
	}
	return path.Join(g.prefix, name)
}

// Publish implements Publisher.
func (g *GCS) Publish(ctx context.Context, name, contentType string, r io.Reader) error {
	obj := g.ObjectName(name)
	w := g.client.Bucket(g.bucket).Object(obj).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return errors.Wrapf(err, "writing gs://%s/%s", g.bucket, obj)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "closing gs://%s/%s", g.bucket, obj)
	}
	return nil
}

// Close closes the underlying client.
func (g *GCS) Close() error {
	return g.client.Close()
}
