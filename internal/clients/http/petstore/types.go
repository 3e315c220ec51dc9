package petstore

import "encoding/json"

// Category groups pets in the remote catalog.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Tag is a lightweight marker attached to pets.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Pet mirrors the pet representation accepted and returned by the API.
// The identifier is supplied by the caller; the server never generates it.
type Pet struct {
	ID        int64     `json:"id"`
	Category  *Category `json:"category,omitempty"`
	Name      string    `json:"name"`
	PhotoURLs []string  `json:"photoUrls"`
	Tags      []Tag     `json:"tags"`
	Status    string    `json:"status"`
}

// MarshalJSON writes nil photoUrls and tags as empty arrays; the API
// requires both to be arrays.
func (p Pet) MarshalJSON() ([]byte, error) {
	type pet Pet
	out := pet(p)
	if out.PhotoURLs == nil {
		out.PhotoURLs = []string{}
	}
	if out.Tags == nil {
		out.Tags = []Tag{}
	}
	return json.Marshal(out)
}
