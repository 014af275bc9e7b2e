package screens

import (
	"context"
	"fmt"
	"io"
	"time"

	"bitbucket.org/kleinnic74/photomap/domain/gps"
	"bitbucket.org/kleinnic74/photomap/events"
	"bitbucket.org/kleinnic74/photomap/geotag"
	"bitbucket.org/kleinnic74/photomap/logging"
	"bitbucket.org/kleinnic74/photomap/media"
	"go.uber.org/zap"
)

// CaptureRequest is a photo just taken by the device camera
type CaptureRequest struct {
	Content io.Reader
	// Location is the position of the device when the photo was taken,
	// nil when unknown
	Location *gps.Coordinates
}

type CameraScreen struct {
	album       media.Library
	geotags     *geotag.Store
	permissions *Permissions
	notifier    Notifier
	now         func() time.Time
}

func NewCameraScreen(album media.Library, geotags *geotag.Store, permissions *Permissions, notifier Notifier) *CameraScreen {
	return &CameraScreen{
		album:       album,
		geotags:     geotags,
		permissions: permissions,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Capture stores the photo in the album and, when location access is
// allowed, records where it was taken
func (c *CameraScreen) Capture(ctx context.Context, req CaptureRequest) (*media.Asset, error) {
	logger, ctx := logging.SubFrom(ctx, "camera")
	if !c.permissions.Allowed(Camera) {
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, Camera)
	}
	asset, err := c.album.Create(ctx, req.Content)
	if err != nil {
		capturesTotal.WithLabelValues("failed").Inc()
		logger.Warn("Capture failed", zap.Error(err))
		c.notifier.Notify(ctx, events.Error, "Failed to take picture: "+err.Error())
		return nil, err
	}
	capturesTotal.WithLabelValues("ok").Inc()

	if req.Location == nil || !c.permissions.Allowed(Location) {
		logger.Debug("Photo not geotagged", zap.String("id", asset.ID))
		return asset, nil
	}
	recordGeotag(ctx, c.geotags, geotag.NewRecord(asset.ID, asset.URI, *req.Location, c.now()))
	return asset, nil
}
