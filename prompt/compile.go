package prompt

import (
	"fmt"
	"strings"
)

// Compile flattens the three facets plus finished attachment analyses into
// the final instruction string handed to the model.
//
// Compile is pure and total: identical inputs yield byte-identical output,
// no argument is mutated, and it never fails. Section order is fixed. The
// reference-material section is included only when at least one attachment
// is done with non-empty analysis; attachments keep insertion order.
func Compile(field FacetField, tenor FacetTenor, mode FacetMode, attachments []Attachment) string {
	refs := referenceBlocks(attachments)

	var b strings.Builder
	b.WriteString("You are executing a structured instruction. Follow every section below.\n")

	b.WriteString("\n## CONTEXT\n")
	writeRow(&b, "Topic", field.Topic)
	writeRow(&b, "Task Type", field.TaskType)
	writeRow(&b, "Domain Specifics", field.DomainSpecifics)
	writeRow(&b, "Keywords", field.Keywords)

	if len(refs) > 0 {
		b.WriteString("\n## REFERENCE MATERIAL\n")
		b.WriteString(strings.Join(refs, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\n## PERSONA & AUDIENCE\n")
	writeRow(&b, "Persona", tenor.Persona)
	writeRow(&b, "Audience", strings.Join(tenor.Audience, ", "))
	writeRow(&b, "Tone", tenor.Tone)
	writeRow(&b, "Stance", tenor.Stance)

	b.WriteString("\n## FORMAT & STRUCTURE\n")
	writeRow(&b, "Format", mode.Format)
	writeRow(&b, "Structure", mode.Structure)
	writeRow(&b, "Length", mode.Length)
	writeRow(&b, "Directives", mode.Directives)

	b.WriteString("\nGenerate the response now, honoring all constraints above.")
	return b.String()
}

func referenceBlocks(attachments []Attachment) []string {
	var refs []string
	for _, a := range attachments {
		if a.Status != StatusDone || strings.TrimSpace(a.Analysis) == "" {
			continue
		}
		refs = append(refs, fmt.Sprintf("Attachment: %s (%s)\n%s", a.Name, a.Type, a.Analysis))
	}
	return refs
}

func writeRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "- **%s:** %s\n", label, value)
}
