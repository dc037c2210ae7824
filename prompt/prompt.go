// Package prompt holds the three-facet prompt data model and the
// deterministic compiler that flattens a prompt into one instruction string.
package prompt

import "time"

// FacetField describes the subject matter of a prompt. All fields are
// free text and may be empty.
type FacetField struct {
	Topic           string `json:"topic"`
	TaskType        string `json:"taskType"`
	DomainSpecifics string `json:"domainSpecifics"`
	Keywords        string `json:"keywords"`
}

// FacetTenor describes voice and audience. Persona is either one of the
// preset labels or free text. Audience order is meaningful for display;
// duplicates are allowed.
type FacetTenor struct {
	Persona  string   `json:"persona"`
	Audience []string `json:"audience"`
	Tone     string   `json:"tone"`
	Stance   string   `json:"stance"`
}

// FacetMode describes the requested output shape.
type FacetMode struct {
	Format     string `json:"format"`
	Structure  string `json:"structure"`
	Length     string `json:"length"`
	Directives string `json:"directives"`
}

// Version is one entry of a prompt's save history.
type Version struct {
	SavedAt  time.Time `json:"savedAt"`
	Compiled string    `json:"compiled"`
}

// Prompt is the aggregate root: the three facets plus attachments.
//
// Compiled is a cache of Compile's output as of the last save. It is
// always regenerable from the other fields and is never the source of
// truth. UpdatedAt is refreshed on every store mutation.
type Prompt struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Field       FacetField   `json:"field"`
	Tenor       FacetTenor   `json:"tenor"`
	Mode        FacetMode    `json:"mode"`
	Attachments []Attachment `json:"attachments"`
	Compiled    string       `json:"compiledPrompt,omitempty"`
	Versions    []Version    `json:"versions,omitempty"`
}
