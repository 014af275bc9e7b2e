package consts

const (
	// AlbumName is the album all captured photos are stored in
	AlbumName = "SU Camera App"

	// GeotagsKey is the key under which the geotag list is persisted
	GeotagsKey = "photoLocations"

	// AlbumPageSize is the number of assets returned by a gallery listing
	AlbumPageSize = 99

	// ServiceName is the mDNS service type under which instances are announced
	ServiceName = "_photomap._tcp"
)
