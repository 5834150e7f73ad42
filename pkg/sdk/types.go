package patentcompass

// Patent is one corpus record.
type Patent struct {
	ID       string
	Title    string
	Abstract string
	// ImageURL is empty when no image template is configured or the ID is empty.
	ImageURL string
}

// Hit is a ranked search result.
type Hit struct {
	Patent Patent
	// Score is the cosine similarity in [-1, 1].
	Score float64
}
