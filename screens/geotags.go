package screens

import (
	"context"

	"bitbucket.org/kleinnic74/photomap/geotag"
	"bitbucket.org/kleinnic74/photomap/logging"
	"bitbucket.org/kleinnic74/photomap/media"
	"go.uber.org/zap"
)

// Geotagging is an enhancement: none of these helpers ever fails the
// operation that triggered it.

func recordGeotag(ctx context.Context, store *geotag.Store, r geotag.Record) {
	done(ctx, "append", store.Append(ctx, r))
}

func forgetGeotags(ctx context.Context, store *geotag.Store, ids []string) {
	done(ctx, "prune_excluding", store.PruneExcluding(ctx, geotag.NewIDSet(ids...)))
}

// reconcileGeotags drops the geotags of photos no longer in the album
func reconcileGeotags(ctx context.Context, store *geotag.Store, album media.Library) {
	existing, err := album.IDs(ctx)
	if err != nil {
		done(ctx, "prune_to_existing", err)
		return
	}
	changed, err := store.PruneToExisting(ctx, existing)
	if err != nil || changed {
		done(ctx, "prune_to_existing", err)
	}
}

// IgnoreLocation records a location which could not be used for a capture
func IgnoreLocation(ctx context.Context, err error) {
	done(ctx, "location", err)
}

func done(ctx context.Context, op string, err error) {
	if err != nil {
		geotagFailures.WithLabelValues(op).Inc()
		logging.From(ctx).Named("geotags").Warn("Geotag update failed, ignoring", zap.String("op", op), zap.Error(err))
		return
	}
	geotagWrites.WithLabelValues(op).Inc()
}
