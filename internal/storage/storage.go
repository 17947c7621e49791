package storage

import "context"

// ObjectInfo represents metadata for a stored object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations the export
// path needs: pushing finished dataset files and listing what is there.
type ObjectStorage interface {
	UploadFile(ctx context.Context, key, localPath string) error
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
