// Package media stores the photos of an album and gives access to their
// content and metadata.
package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"bitbucket.org/kleinnic74/photomap/consts"
)

var (
	// ErrNotFound is returned when an asset does not exist in the album
	ErrNotFound = errors.New("asset not found")
	// ErrUnsupportedFormat is returned when content is not a supported photo
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// NotFound returns an ErrNotFound for the given asset id
func NotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

type MediaType string

const Photo = MediaType("photo")

// Asset is a single photo of the album
type Asset struct {
	ID           string    `json:"id"`
	URI          string    `json:"uri"`
	Filename     string    `json:"filename"`
	MediaType    MediaType `json:"mediaType"`
	Mime         string    `json:"mime"`
	CreationTime time.Time `json:"creationTime"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Size         int64     `json:"size"`
}

// ListOptions restricts and orders the assets returned by a listing
type ListOptions struct {
	// First is the maximum number of assets returned, 0 means no limit
	First int
	// Order of the creation time
	Order consts.SortOrder
}

// DefaultListOptions returns the newest AlbumPageSize photos
func DefaultListOptions() ListOptions {
	return ListOptions{First: consts.AlbumPageSize, Order: consts.Descending}
}

// Library is an album of photos
type Library interface {
	Name() string
	Create(ctx context.Context, content io.Reader) (*Asset, error)
	Get(ctx context.Context, id string) (*Asset, error)
	List(ctx context.Context, o ListOptions) ([]*Asset, error)
	IDs(ctx context.Context) (map[string]struct{}, error)
	Delete(ctx context.Context, ids []string) error
	Open(ctx context.Context, id string) (io.ReadCloser, *Asset, error)
	Thumb(ctx context.Context, id string, size ThumbSize) (image.Image, error)
}
