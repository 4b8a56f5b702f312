package genius

// SearchResponse represents the response from the Genius multi-search API
type SearchResponse struct {
	Response struct {
		Sections []Section `json:"sections"`
	} `json:"response"`
}

// Section is one result group (songs, lyrics, articles, ...)
type Section struct {
	Type string `json:"type"`
	Hits []Hit  `json:"hits"`
}

// Hit is a single search hit within a section
type Hit struct {
	Type   string `json:"type"`
	Result Song   `json:"result"`
}

// Song carries the fields needed to scrape a lyrics page
type Song struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	FullTitle     string `json:"full_title"`
	PrimaryArtist struct {
		Name string `json:"name"`
	} `json:"primary_artist"`
}
