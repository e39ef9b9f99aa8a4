// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage persists uploaded images (profile pictures, game covers).

# Architecture

Resources never touch the object store directly. They depend on the [Uploads]
interface, store only bare filenames in the database, and let this package map
filenames to storage keys ("<dir>/<name>") and public URLs
("<base>/uploads/<dir>/<name>").

Placeholder images (the defaults assigned when no file is uploaded) are never
stored or deleted; they are served as static assets.
*/
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploads stores and removes uploaded images by directory and filename.
type Uploads interface {
	// Save writes the object under "<dir>/<name>".
	Save(ctx context.Context, dir, name string, content io.Reader, size int64, contentType string) error

	// Delete removes "<dir>/<name>". Deleting a missing object is not an error.
	Delete(ctx context.Context, dir, name string) error
}

// ObjectStore implements [Uploads] against MinIO/S3 compatible storage.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

// NewObjectStore connects to the object store and ensures the bucket exists.
func NewObjectStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: init client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("storage: check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("storage: create bucket: %w", err)
		}
	}

	return &ObjectStore{client: client, bucket: bucket}, nil
}

// Save uploads an object under "<dir>/<name>".
func (store *ObjectStore) Save(ctx context.Context, dir, name string, content io.Reader, size int64, contentType string) error {
	key := dir + "/" + name
	_, err := store.client.PutObject(ctx, store.bucket, key, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", key, err)
	}
	return nil
}

// Delete removes "<dir>/<name>" from the bucket.
func (store *ObjectStore) Delete(ctx context.Context, dir, name string) error {
	key := dir + "/" + name
	if err := store.client.RemoveObject(ctx, store.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// PublicURL maps a stored filename to its client-facing URL.
//
// Works for placeholder filenames too, which resolve to static assets served
// under the same prefix.
func PublicURL(baseURL, dir, name string) string {
	return baseURL + "/uploads/" + dir + "/" + name
}
