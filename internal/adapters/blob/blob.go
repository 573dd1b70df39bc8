package blob

import "context"

// Store uploads image blobs and returns a public URL. Size and
// content-type rules are enforced by the caller, not here.
type Store interface {
	Upload(ctx context.Context, folder, filename, contentType string, data []byte) (string, error)
}
