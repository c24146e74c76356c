package adapter

import "context"

// Storage is the port for the object store holding uploaded audio.
type Storage interface {
	// Download fetches the object to a local temp file and returns its path.
	// Returns domain.ErrStorageNotFound when the key does not resolve.
	Download(ctx context.Context, objectKey string) (string, error)

	// DeleteLocal removes a downloaded or derived local file. Best-effort:
	// an already-removed file is not an error.
	DeleteLocal(ctx context.Context, localPath string) error
}
