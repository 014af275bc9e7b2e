package screens

import (
	"context"
	"errors"
	"io"

	"bitbucket.org/kleinnic74/photomap/events"
	"bitbucket.org/kleinnic74/photomap/geotag"
	"bitbucket.org/kleinnic74/photomap/logging"
	"bitbucket.org/kleinnic74/photomap/media"
	"go.uber.org/zap"
)

type ViewerScreen struct {
	album    media.Library
	geotags  *geotag.Store
	notifier Notifier
}

func NewViewerScreen(album media.Library, geotags *geotag.Store, notifier Notifier) *ViewerScreen {
	return &ViewerScreen{
		album:    album,
		geotags:  geotags,
		notifier: notifier,
	}
}

// Photo is a single photo with the place it was taken at, if known
type Photo struct {
	*media.Asset
	Geotag *geotag.Record `json:"geotag,omitempty"`
}

// Get returns a photo, media.ErrNotFound tells the client to go back
func (v *ViewerScreen) Get(ctx context.Context, id string) (*Photo, error) {
	logger, ctx := logging.SubFrom(ctx, "viewer")
	asset, err := v.album.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, media.ErrNotFound) {
			logger.Warn("Failed to load photo", zap.String("id", id), zap.Error(err))
		}
		v.notifier.Notify(ctx, events.Error, "Failed to load photo.")
		return nil, err
	}
	photo := &Photo{Asset: asset}
	for _, r := range v.geotags.Load(ctx) {
		if r.PhotoID == id {
			r := r
			photo.Geotag = &r
			break
		}
	}
	return photo, nil
}

// Delete removes a single photo and its geotag
func (v *ViewerScreen) Delete(ctx context.Context, id string) error {
	logger, ctx := logging.SubFrom(ctx, "viewer")
	if err := v.album.Delete(ctx, []string{id}); err != nil {
		logger.Warn("Failed to delete photo", zap.String("id", id), zap.Error(err))
		v.notifier.Notify(ctx, events.Error, "Failed to delete photo.")
		return err
	}
	deletedPhotos.Inc()
	v.notifier.Notify(ctx, events.Info, "Photo deleted.")
	forgetGeotags(ctx, v.geotags, []string{id})
	return nil
}

// Share opens the content of a photo to hand it to another application,
// the caller must close it
func (v *ViewerScreen) Share(ctx context.Context, id string) (io.ReadCloser, *media.Asset, error) {
	logger, ctx := logging.SubFrom(ctx, "viewer")
	content, asset, err := v.album.Open(ctx, id)
	if err != nil {
		logger.Warn("Failed to share photo", zap.String("id", id), zap.Error(err))
		v.notifier.Notify(ctx, events.Error, "Failed to share photo.")
		return nil, nil, err
	}
	return content, asset, nil
}
