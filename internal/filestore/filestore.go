package filestore

import "io"

// Store persists uploaded pictures as opaque blobs and returns the public
// path they will be served from.
type Store interface {
	Save(name string, r io.Reader) (string, error)
}
