package prompt

import (
	"fmt"
	"strings"
)

// PopularProduct is one catalog fact injected into the instruction.
type PopularProduct struct {
	Name     string
	Slug     string
	Price    int64
	Category string
}

// CatalogSnapshot is the bounded, per-request view of the catalog the
// assistant is allowed to speak about. Both lists are small by construction
// (categories ≤10, products ≤5) and are rebuilt for every request.
type CatalogSnapshot struct {
	Categories      []string
	PopularProducts []PopularProduct
}

// Empty reports whether the snapshot carries no catalog facts at all,
// in which case the builder falls back to a context-free instruction.
func (s CatalogSnapshot) Empty() bool {
	return len(s.Categories) == 0 && len(s.PopularProducts) == 0
}

// Builder renders the system instruction for the storefront assistant.
// It is a pure value: same snapshot in, same instruction out.
type Builder struct {
	snapshot CatalogSnapshot
}

// NewBuilder creates a prompt builder over a fixed catalog snapshot
func NewBuilder(snapshot CatalogSnapshot) *Builder {
	return &Builder{snapshot: snapshot}
}

// Build creates the full system instruction: persona, hard rules, then the
// live catalog block when one is available.
func (b *Builder) Build() string {
	var prompt strings.Builder

	b.writePersona(&prompt)
	b.writeRules(&prompt)
	b.writeCatalog(&prompt)

	return prompt.String()
}

func (b *Builder) writePersona(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are the shopping assistant of a Hungarian electronics webshop.\n")
	prompt.WriteString("You help visitors find products, compare options and answer questions about the store.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *Builder) writeRules(prompt *strings.Builder) {
	prompt.WriteString("<rules>\n")
	prompt.WriteString("1. Always reply in Hungarian, in a friendly and concise tone\n")
	prompt.WriteString("2. Only mention products and prices that appear in the catalog block below\n")
	prompt.WriteString("3. Never invent products, prices or stock information\n")
	prompt.WriteString("4. Product links must use the /termek/<slug> path, category links the /kategoria/<slug> path\n")
	prompt.WriteString("5. If you are not sure about something, direct the visitor to /kapcsolat for human help\n")
	prompt.WriteString("6. Prices are in Hungarian forint (Ft)\n")
	prompt.WriteString("</rules>\n\n")
}

func (b *Builder) writeCatalog(prompt *strings.Builder) {
	if b.snapshot.Empty() {
		// Degraded mode: no catalog read available for this request
		prompt.WriteString("<catalog>\n")
		prompt.WriteString("The live catalog is not available right now. Answer general questions only\n")
		prompt.WriteString("and direct product-specific questions to /kapcsolat.\n")
		prompt.WriteString("</catalog>\n")
		return
	}

	prompt.WriteString("<catalog>\n")
	if len(b.snapshot.Categories) > 0 {
		prompt.WriteString("Categories: ")
		prompt.WriteString(strings.Join(b.snapshot.Categories, ", "))
		prompt.WriteString("\n")
	}
	if len(b.snapshot.PopularProducts) > 0 {
		prompt.WriteString("Popular in-stock products:\n")
		for _, p := range b.snapshot.PopularProducts {
			prompt.WriteString(fmt.Sprintf("- %s (slug: %s, %d Ft, %s)\n", p.Name, p.Slug, p.Price, p.Category))
		}
	}
	prompt.WriteString("</catalog>\n")
}
