// Package views holds the JSON representations returned by the REST API.
package views

import (
	"fmt"
	"time"

	"bitbucket.org/kleinnic74/photomap/domain/gps"
	"bitbucket.org/kleinnic74/photomap/geotag"
	"bitbucket.org/kleinnic74/photomap/media"
)

type Links map[string]string

func (l Links) Add(name, link string) Links {
	l[name] = link
	return l
}

type Photo struct {
	ID           string           `json:"id"`
	URI          string           `json:"uri"`
	Links        Links            `json:"links"`
	Name         string           `json:"name"`
	Mime         string           `json:"mime"`
	CreationTime time.Time        `json:"creationTime"`
	Width        int              `json:"width"`
	Height       int              `json:"height"`
	Location     *gps.Coordinates `json:"location,omitempty"`
	// TakenAt is the capture time of the geotag, when there is one
	TakenAt *time.Time `json:"takenAt,omitempty"`
}

type LinkProvider struct {
	patterns map[string]string
}

func (p LinkProvider) LinksFor(id string) Links {
	links := make(Links)
	for name, pattern := range p.patterns {
		links[name] = fmt.Sprintf(pattern, id)
	}
	return links
}

var photoLinks = LinkProvider{
	patterns: map[string]string{
		"self":    "/photos/%s",
		"content": "/photos/%s/content",
		"share":   "/photos/%s/content?share=true",
		"thumb":   "/photos/%s/thumb/S",
	},
}

func PhotoLinksFor(id string) Links {
	return photoLinks.LinksFor(id)
}

// PhotoFrom returns the view of asset, located by r when r is not nil
func PhotoFrom(asset *media.Asset, r *geotag.Record) Photo {
	p := Photo{
		ID:           asset.ID,
		URI:          asset.URI,
		Links:        PhotoLinksFor(asset.ID),
		Name:         asset.Filename,
		Mime:         asset.Mime,
		CreationTime: asset.CreationTime,
		Width:        asset.Width,
		Height:       asset.Height,
	}
	if r != nil {
		if r.HasLocation() {
			at := r.Coordinates()
			p.Location = &at
		}
		taken := r.Taken()
		p.TakenAt = &taken
	}
	return p
}

func PhotosFrom(assets []*media.Asset) []Photo {
	photos := make([]Photo, len(assets))
	for i, a := range assets {
		photos[i] = PhotoFrom(a, nil)
	}
	return photos
}

// Located is a photo selected on the map
type Located struct {
	ID       string           `json:"id"`
	URI      string           `json:"uri"`
	Links    Links            `json:"links"`
	Location *gps.Coordinates `json:"location"`
	TakenAt  time.Time        `json:"takenAt"`
}

func LocatedFrom(records []geotag.Record) []Located {
	out := make([]Located, len(records))
	for i, r := range records {
		at := r.Coordinates()
		out[i] = Located{
			ID:       r.PhotoID,
			URI:      r.URI,
			Links:    PhotoLinksFor(r.PhotoID),
			Location: &at,
			TakenAt:  r.Taken(),
		}
	}
	return out
}
