package recommend

// SeedQuery is the user-supplied song the pipeline starts from.
type SeedQuery struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Candidate is an unverified suggestion produced by the generative model.
// It is not yet known to be playable.
type Candidate struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Song is a candidate confirmed against an external catalog, with a
// playable reference attached.
type Song struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	MediaRef   string `json:"mediaRef"`
	PreviewURL string `json:"previewUrl,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

// InputError marks a request rejected before any external call was made.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}
