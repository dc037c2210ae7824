package prompt

// PersonaPresets is the closed set of persona labels offered by the
// editor. PersonaCustom marks free-text entry.
var PersonaPresets = []string{
	"Helpful Assistant",
	"Expert Consultant",
	"Creative Writer",
	"Technical Reviewer",
	"Socratic Teacher",
	"Data Analyst",
}

const PersonaCustom = "Custom"

// FormatPresets lists the output formats the editor offers for
// FacetMode.Format. Free text remains allowed.
var FormatPresets = []string{
	"Markdown",
	"Plain Text",
	"JSON",
	"HTML",
	"Bullet List",
	"Table",
}

// DefaultField returns the initial subject-matter facet for a new prompt.
func DefaultField() FacetField {
	return FacetField{TaskType: "Explanation"}
}

// DefaultTenor returns the initial voice facet for a new prompt.
func DefaultTenor() FacetTenor {
	return FacetTenor{
		Persona:  "Helpful Assistant",
		Audience: []string{"General Public"},
		Tone:     "Neutral",
		Stance:   "Objective",
	}
}

// DefaultMode returns the initial output-shape facet for a new prompt.
func DefaultMode() FacetMode {
	return FacetMode{
		Format:    "Markdown",
		Structure: "Introduction, Body, Conclusion",
		Length:    "Medium",
	}
}
