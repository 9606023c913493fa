package spotify

// Wire types for the raw playlist-items endpoint. The paginated fetch
// follows absolute "next" links, so it decodes the provider payload
// directly instead of going through the client library's page types.

type pagedItemsResponse struct {
	Items []playlistItem `json:"items"`
	Next  string         `json:"next"`
	Total int            `json:"total"`
}

type playlistItem struct {
	AddedAt string     `json:"added_at"`
	Track   *trackItem `json:"track"`
}

type trackItem struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	DurationMs   int               `json:"duration_ms"`
	Popularity   int               `json:"popularity"`
	Explicit     bool              `json:"explicit"`
	PreviewURL   string            `json:"preview_url"`
	Artists      []artistItem      `json:"artists"`
	Album        albumItem         `json:"album"`
	ExternalURLs map[string]string `json:"external_urls"`
}

type artistItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type albumItem struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ReleaseDate string      `json:"release_date"`
	Images      []imageItem `json:"images"`
}

type imageItem struct {
	URL string `json:"url"`
}
