package prompt

import "strings"

// BuildStructured renders the instruction for the one-shot "shopping guidance"
// request. On top of the persona, rules and catalog block it demands a single
// JSON object so the answer can carry typed product references and follow-up
// suggestions.
func (b *Builder) BuildStructured(question string) string {
	var prompt strings.Builder

	b.writePersona(&prompt)
	b.writeRules(&prompt)
	b.writeCatalog(&prompt)

	prompt.WriteString("\n<format>\n")
	prompt.WriteString("Respond with exactly one JSON object and nothing else:\n")
	prompt.WriteString(`{"answer": "<Hungarian answer>", "products": ["<slug>", ...], "suggestions": ["<short Hungarian follow-up question>", ...]}`)
	prompt.WriteString("\n")
	prompt.WriteString("Rules for the JSON:\n")
	prompt.WriteString("- products may only contain slugs listed in the catalog block; leave it empty otherwise\n")
	prompt.WriteString("- at most 3 products and at most 3 suggestions\n")
	prompt.WriteString("</format>\n\n")

	prompt.WriteString("<user_question>\n")
	prompt.WriteString(question)
	prompt.WriteString("\n</user_question>\n")

	return prompt.String()
}
