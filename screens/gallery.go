package screens

import (
	"context"
	"fmt"

	"bitbucket.org/kleinnic74/photomap/events"
	"bitbucket.org/kleinnic74/photomap/geotag"
	"bitbucket.org/kleinnic74/photomap/logging"
	"bitbucket.org/kleinnic74/photomap/media"
	"go.uber.org/zap"
)

type GalleryScreen struct {
	album       media.Library
	geotags     *geotag.Store
	permissions *Permissions
	notifier    Notifier
}

func NewGalleryScreen(album media.Library, geotags *geotag.Store, permissions *Permissions, notifier Notifier) *GalleryScreen {
	return &GalleryScreen{
		album:       album,
		geotags:     geotags,
		permissions: permissions,
		notifier:    notifier,
	}
}

// List returns the newest photos of the album and drops the geotags of
// photos which disappeared from it
func (g *GalleryScreen) List(ctx context.Context, o media.ListOptions) ([]*media.Asset, error) {
	_, ctx = logging.SubFrom(ctx, "gallery")
	if !g.permissions.Allowed(MediaLibrary) {
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, MediaLibrary)
	}
	assets, err := g.album.List(ctx, o)
	if err != nil {
		return nil, err
	}
	reconcileGeotags(ctx, g.geotags, g.album)
	return assets, nil
}

// Delete removes the selected photos and their geotags
func (g *GalleryScreen) Delete(ctx context.Context, ids []string) error {
	logger, ctx := logging.SubFrom(ctx, "gallery")
	if len(ids) == 0 {
		return nil
	}
	if !g.permissions.Allowed(MediaLibrary) {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, MediaLibrary)
	}
	if err := g.album.Delete(ctx, ids); err != nil {
		logger.Warn("Failed to delete photos", zap.Strings("ids", ids), zap.Error(err))
		g.notifier.Notify(ctx, events.Error, "Failed to delete selected photos.")
		// some may be gone nevertheless
		reconcileGeotags(ctx, g.geotags, g.album)
		return err
	}
	deletedPhotos.Add(float64(len(ids)))
	g.notifier.Notify(ctx, events.Info, fmt.Sprintf("Deleted %d photo(s).", len(ids)))
	forgetGeotags(ctx, g.geotags, ids)
	return nil
}
