// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package publish delivers rendered figures and reports.
//
// A Publisher stores named objects: a local directory, a Cloud Storage
// bucket, or memory. Influx sends summaries to an InfluxDB bucket as
// points instead.
package publish

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// A Publisher stores objects by name. Names are slash-separated paths
// such as "latency/fig.png".
type Publisher interface {
	Publish(ctx context.Context, name, contentType string, r io.Reader) error
}

// Dir publishes objects as files under a directory, creating
// subdirectories as needed. Existing files are truncated.
type Dir string

// Publish implements Publisher.
func (d Dir) Publish(ctx context.Context, name, contentType string, r io.Reader) (err error) {
	path := filepath.Join(string(d), filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(f, r); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// Mem holds published objects in memory. It is safe for concurrent
// use.
type Mem struct {
	mu      sync.Mutex
	objects map[string]*Object
}

// An Object is an object published to Mem.
type Object struct {
	ContentType string
	Data        []byte
}

// NewMem returns an empty Mem.
func NewMem() *Mem {
	return &Mem{objects: make(map[string]*Object)}
}

// Publish implements Publisher.
func (m *Mem) Publish(ctx context.Context, name, contentType string, r io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = &Object{ContentType: contentType, Data: buf.Bytes()}
	return nil
}

// Object returns the object called name, or nil.
func (m *Mem) Object(name string) *Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[name]
}

// Names returns the names of all objects in m, sorted.
func (m *Mem) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for n := range m.objects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Multi publishes to every Publisher in turn, stopping at the first
// error.
type Multi []Publisher

// Publish implements Publisher. r is read once.
func (m Multi) Publish(ctx context.Context, name, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	for _, p := range m {
		if err := p.Publish(ctx, name, contentType, bytes.NewReader(data)); err != nil {
			return err
		}
	}
	return nil
}
