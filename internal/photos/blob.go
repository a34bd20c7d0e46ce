package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/elitefitness/internal/telemetry/tracing"
	"github.com/2beens/elitefitness/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrBlobNotFound = errors.New("blob not found")

// BlobStore keeps the raw image bytes of progress photos.
type BlobStore interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// DiskBlobStore writes every blob to its own file under the root directory.
type DiskBlobStore struct {
	rootPath string
}

func NewDiskBlobStore(rootPath string) (*DiskBlobStore, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	if err := pkg.EnsureDir(rootPath); err != nil {
		return nil, fmt.Errorf("ensure photos dir: %w", err)
	}
	return &DiskBlobStore{
		rootPath: rootPath,
	}, nil
}

func (ds *DiskBlobStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid blob key: %q", key)
	}
	return filepath.Join(ds.rootPath, key), nil
}

// Save writes into a temp file first and renames it, so readers never see a
// partially written blob.
func (ds *DiskBlobStore) Save(ctx context.Context, key, contentType string, r io.Reader) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskBlobStore.save")
	defer tracing.EndSpanWithErrCheck(span, &err)
	span.SetAttributes(attribute.String("blob.key", key))
	span.SetAttributes(attribute.String("blob.content_type", contentType))

	blobPath, err := ds.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(ds.rootPath, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
				log.Errorf("failed to remove temp blob file %s: %s", tmpPath, removeErr)
			}
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmpPath, blobPath); err != nil {
		return fmt.Errorf("rename blob: %w", err)
	}

	log.Debugf("disk blob store: saved %s", key)
	return nil
}

func (ds *DiskBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskBlobStore.open")
	defer span.End()

	blobPath, err := ds.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(blobPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return f, nil
}

func (ds *DiskBlobStore) Delete(ctx context.Context, key string) error {
	_, span := tracing.GlobalTracer.Start(ctx, "diskBlobStore.delete")
	defer span.End()

	blobPath, err := ds.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(blobPath); err != nil {
		if os.IsNotExist(err) {
			return ErrBlobNotFound
		}
		return err
	}
	log.Debugf("disk blob store: deleted %s", key)
	return nil
}
