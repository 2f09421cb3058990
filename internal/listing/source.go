// Package listing fetches flat repository listings and page bodies from
// the places documentation lives: git work trees, plain directories,
// GitHub, S3 buckets and JSON listing files.
package listing

import (
	"context"
	"errors"

	"pagetree/internal/model"
)

var (
	// ErrListingUnavailable wraps every failure to produce a listing.
	ErrListingUnavailable = errors.New("listing unavailable")
	// ErrContentUnavailable wraps every failure to fetch a file body.
	ErrContentUnavailable = errors.New("content unavailable")
	// ErrUnknownSource is returned by Open for locations it cannot interpret.
	ErrUnknownSource = errors.New("unknown source")
)

// Source produces a listing and the bodies of the files it lists.
type Source interface {
	// Identity names the document the listing belongs to. Two sources with
	// the same identity describe the same tree.
	Identity() string
	Listing(ctx context.Context) ([]model.Entry, error)
	Content(ctx context.Context, path string) ([]byte, error)
}
