// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcs implements the fs.FS interface using Google Cloud Storage.
package gcs

import (
	"context"

	"cloud.google.com/go/storage"
	"golang.org/x/runviz/storage/fs"
	"google.golang.org/api/option"
)

// impl is an fs.FS backed by Google Cloud Storage.
type impl struct {
	bucket *storage.BucketHandle
}

// NewFS constructs an FS that writes to the provided bucket.
// On AppEngine, ctx must be a request-derived Context.
func NewFS(ctx context.Context, bucketName string, opts ...option.ClientOption) (fs.FS, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &impl{client.Bucket(bucketName)}, nil
}

func (fs *impl) NewWriter(ctx context.Context, name string, metadata map[string]string) (fs.Writer, error) {
	ctx, cancel := context.WithCancel(ctx)
	w := fs.bucket.Object(name).NewWriter(ctx)
	w.Metadata = metadata
	return &writer{w, cancel}, nil
}

// writer cancels an upload in progress by cancelling the context the
// storage.Writer was created with.
type writer struct {
	*storage.Writer
	cancel context.CancelFunc
}

func (w *writer) Close() error {
	defer w.cancel()
	return w.Writer.Close()
}

func (w *writer) CloseWithError(err error) error {
	w.cancel()
	w.Writer.Close()
	return nil
}
