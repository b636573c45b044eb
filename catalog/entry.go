// Package catalog fetches the list of selectable models from the backend.
package catalog

// DefaultProvider is the provider tag of models hosted by the default backend.
// Selectors suppress it from option annotations.
const DefaultProvider = "azure"

// Entry is a single selectable model as returned by GET /models.
type Entry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider,omitempty"`
}

// Envelope is the JSON body of a GET /models response.
type Envelope struct {
	Models []Entry `json:"models"`
}
