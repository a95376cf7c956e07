package domain

// Lead is an ephemeral discovery result. Leads are rebuilt on every query and
// never persisted.
type Lead struct {
	Title           string  `json:"title"`
	Snippet         string  `json:"snippet"`
	IntentScore     float64 `json:"intentScore"`
	FitScore        float64 `json:"fitScore"`
	OutreachMessage string  `json:"outreachMessage"`
	Platform        string  `json:"platform"`
	SourceURL       string  `json:"sourceUrl"`
	Email           string  `json:"email,omitempty"`
	Phone           string  `json:"phone,omitempty"`
	ContactName     string  `json:"contactName,omitempty"`
}

// GroundingChunk is a citation entry returned alongside a model response when
// the web-search tool was used.
type GroundingChunk struct {
	Web struct {
		URI   string `json:"uri"`
		Title string `json:"title"`
	} `json:"web"`
}
