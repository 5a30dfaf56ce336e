package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// NewGCSClient creates the Cloud Storage client of a run. Explicit
// credentials JSON wins over application default credentials.
func NewGCSClient(ctx context.Context, credentialsJSON string) (*storage.Client, error) {
	if strings.TrimSpace(credentialsJSON) != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	return storage.NewClient(ctx)
}

// GCSStore keeps the folder tree in a bucket. A folder is an object prefix
// marked by a zero-byte "<prefix>/" placeholder object.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// Verify interface compliance
var _ FolderStore = (*GCSStore)(nil)

// NewGCSStore creates a store over bucket using an existing client
func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

// EnsureFolder creates the placeholder only when it does not exist, so
// concurrent runs racing on the same folder both succeed
func (s *GCSStore) EnsureFolder(ctx context.Context, name, parentID string) (string, error) {
	id := joinID(parentID, name)
	obj := s.client.Bucket(s.bucket).Object(id + "/").If(storage.Conditions{DoesNotExist: true})

	wc := obj.NewWriter(ctx)
	wc.ContentType = "application/x-directory"
	if err := wc.Close(); err != nil {
		if isPreconditionFailed(err) {
			return id, nil
		}
		return "", &Error{Op: "create folder", Target: s.uri(id), Err: err}
	}
	return id, nil
}

// Upload writes data as folderID/filename and returns its gs:// URI
func (s *GCSStore) Upload(ctx context.Context, data []byte, filename, folderID string) (string, error) {
	name := joinID(folderID, filename)
	wc := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	wc.ContentType = XLSXContentType

	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return "", &Error{Op: "upload", Target: s.uri(name), Err: err}
	}
	if err := wc.Close(); err != nil {
		return "", &Error{Op: "upload", Target: s.uri(name), Err: fmt.Errorf("failed to close writer: %w", err)}
	}
	return s.uri(name), nil
}

func (s *GCSStore) uri(name string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, name)
}

func isPreconditionFailed(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed
}
