// Package artwork defines the normalized artwork record and the mapping
// from raw upstream object payloads into it.
package artwork

import (
	"strings"

	"github.com/metscout/metscout/internal/errors"
	"github.com/metscout/metscout/internal/metapi"
)

// Defaults applied to optional fields during normalization.
const (
	UnknownArtist = "Unknown Artist"
	UnknownMedium = "Medium Unknown"
)

// Artwork is the normalized unit of output. Instances are built once per
// upstream fetch and never mutated afterwards; they are either cached in
// serialized form or discarded.
type Artwork struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	Artist           string   `json:"artist"`
	ArtistBio        string   `json:"artistBio,omitempty"`
	Year             string   `json:"year,omitempty"`
	ObjectBeginDate  int      `json:"objectBeginDate"`
	ObjectEndDate    int      `json:"objectEndDate"`
	Culture          string   `json:"culture,omitempty"`
	Period           string   `json:"period,omitempty"`
	Location         string   `json:"location,omitempty"`
	Medium           string   `json:"medium"`
	Dimensions       string   `json:"dimensions,omitempty"`
	Department       string   `json:"department,omitempty"`
	Classification   string   `json:"classification,omitempty"`
	Description      string   `json:"description,omitempty"`
	Image            string   `json:"image"`
	AdditionalImages []string `json:"additionalImages"`
	ObjectURL        string   `json:"objectURL,omitempty"`
	IsPublicDomain   bool     `json:"isPublicDomain"`
	MetadataDate     string   `json:"metadataDate,omitempty"`
	Repository       string   `json:"repository,omitempty"`
}

// validImage reports whether a record carries a usable image URL.
func validImage(url string) bool {
	return url != "" && strings.HasPrefix(url, "http")
}

// imageOf picks the preferred image URL from a raw record, favoring the
// small rendition.
func imageOf(rec *metapi.ObjectRecord) string {
	if validImage(rec.PrimaryImageSmall) {
		return rec.PrimaryImageSmall
	}
	if validImage(rec.PrimaryImage) {
		return rec.PrimaryImage
	}
	return ""
}

// Valid reports whether a raw record can be normalized at all: it must
// carry a title and a usable image. Records failing this check are
// discarded, never surfaced as errors to the end user.
func Valid(rec *metapi.ObjectRecord) bool {
	if rec == nil {
		return false
	}
	return strings.TrimSpace(rec.Title) != "" && imageOf(rec) != ""
}

// FromObject maps a raw upstream record into a normalized Artwork,
// applying the documented field defaults. It returns a
// CategoryValidation error when the record lacks a title or a usable
// image; such records must be discarded by the caller.
func FromObject(rec *metapi.ObjectRecord) (*Artwork, error) {
	if !Valid(rec) {
		return nil, errors.Newf("record %d rejected: missing title or image", objectID(rec)).
			Category(errors.CategoryValidation).
			Context("object_id", objectID(rec)).
			Component("artwork").
			Build()
	}

	artist := rec.ArtistDisplayName
	if artist == "" {
		artist = UnknownArtist
	}

	medium := rec.Medium
	if medium == "" {
		medium = UnknownMedium
	}

	// Country is the preferred location label, city the fallback.
	location := rec.Country
	if location == "" {
		location = rec.City
	}

	additional := rec.AdditionalImages
	if additional == nil {
		additional = []string{}
	}

	return &Artwork{
		ID:               rec.ObjectID,
		Title:            rec.Title,
		Artist:           artist,
		ArtistBio:        rec.ArtistDisplayBio,
		Year:             rec.ObjectDate,
		ObjectBeginDate:  rec.ObjectBeginDate,
		ObjectEndDate:    rec.ObjectEndDate,
		Culture:          rec.Culture,
		Period:           rec.Period,
		Location:         location,
		Medium:           medium,
		Dimensions:       rec.Dimensions,
		Department:       rec.Department,
		Classification:   rec.Classification,
		Description:      rec.CreditLine,
		Image:            imageOf(rec),
		AdditionalImages: additional,
		ObjectURL:        rec.ObjectURL,
		IsPublicDomain:   rec.IsPublicDomain,
		MetadataDate:     rec.MetadataDate,
		Repository:       rec.Repository,
	}, nil
}

// InRange reports whether the artwork's production interval overlaps the
// queried date range, inclusive at both ends. BCE dates are negative.
func (a *Artwork) InRange(start, end int) bool {
	return a.ObjectBeginDate <= end && a.ObjectEndDate >= start
}

func objectID(rec *metapi.ObjectRecord) int {
	if rec == nil {
		return 0
	}
	return rec.ObjectID
}
