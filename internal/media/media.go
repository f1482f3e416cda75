// Package media abstracts the external binary-object store that holds
// product images.
package media

import "context"

// Object identifies one stored image. PublicID is the handle used to
// delete the backing object later.
type Object struct {
	URL      string
	PublicID string
}

// File is an image received from a client, buffered in memory the same
// way the HTTP layer receives multipart uploads.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Store uploads and deletes image objects. Uploads are fatal to the
// calling operation when they fail; deletes are best-effort cleanup.
type Store interface {
	Upload(ctx context.Context, file File) (Object, error)
	Delete(ctx context.Context, publicID string) error
}
