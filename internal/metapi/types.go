package metapi

import "time"

// Config holds configuration for the Met collection API client.
type Config struct {
	BaseURL       string        // API endpoint base URL
	UserAgent     string        // descriptive client identifier, upstream may reject requests without one
	SearchTimeout time.Duration // timeout for search and period queries
	ObjectTimeout time.Duration // timeout for single-object lookups
}

// DefaultConfig returns the default API configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "https://collectionapi.metmuseum.org/public/collection/v1",
		UserAgent:     "MetScout https://github.com/metscout/metscout",
		SearchTimeout: 15 * time.Second,
		ObjectTimeout: 8 * time.Second,
	}
}

// SearchResult is the response shape of the search and period endpoints.
// ObjectIDs is null upstream when nothing matches; the client normalizes
// that to an empty slice.
type SearchResult struct {
	Total     int   `json:"total"`
	ObjectIDs []int `json:"objectIDs"`
}

// ObjectRecord is the raw per-object payload returned by the objects
// endpoint. Field names follow the upstream JSON; normalization into the
// application's artwork shape happens in the artwork package.
type ObjectRecord struct {
	ObjectID          int      `json:"objectID"`
	Title             string   `json:"title"`
	ArtistDisplayName string   `json:"artistDisplayName"`
	ArtistDisplayBio  string   `json:"artistDisplayBio"`
	ObjectDate        string   `json:"objectDate"`
	ObjectBeginDate   int      `json:"objectBeginDate"`
	ObjectEndDate     int      `json:"objectEndDate"`
	Culture           string   `json:"culture"`
	Period            string   `json:"period"`
	Country           string   `json:"country"`
	City              string   `json:"city"`
	Medium            string   `json:"medium"`
	Dimensions        string   `json:"dimensions"`
	Department        string   `json:"department"`
	Classification    string   `json:"classification"`
	CreditLine        string   `json:"creditLine"`
	PrimaryImage      string   `json:"primaryImage"`
	PrimaryImageSmall string   `json:"primaryImageSmall"`
	AdditionalImages  []string `json:"additionalImages"`
	ObjectURL         string   `json:"objectURL"`
	IsPublicDomain    bool     `json:"isPublicDomain"`
	MetadataDate      string   `json:"metadataDate"`
	Repository        string   `json:"repository"`
}

// Error is the error payload the upstream API returns on failures.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}
