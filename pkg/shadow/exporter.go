// Package shadow serializes pages to a portable line-oriented text form.
// The export is one-way and deterministic; there is no parser. Each line
// carries a trailing ^uid anchor so external collaborators can refer back
// to the originating page or block.
package shadow

import (
	"strings"

	"github.com/kittclouds/loom/internal/store"
)

const indentUnit = "  "

// Export renders a page and its ordered blocks (as returned by
// ListBlocks, depth-first with derived indents) to shadow text.
func Export(page *store.Page, blocks []*store.Block) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(page.Title)
	b.WriteString(" ^")
	b.WriteString(page.UID)
	b.WriteString("\n")

	if len(blocks) > 0 {
		b.WriteString("\n")
	}
	for _, blk := range blocks {
		writeBlock(&b, blk)
	}
	return b.String()
}

// writeBlock emits one block. Every variant of the type enum is handled
// here; adding a type without a case falls through to the annotated
// bullet form.
func writeBlock(b *strings.Builder, blk *store.Block) {
	indent := strings.Repeat(indentUnit, blk.Indent)
	text := oneLine(blk.Text)
	anchor := " ^" + blk.UID

	switch blk.Type {
	case store.TypeHeading1:
		b.WriteString(indent + "# " + text + anchor + "\n")
	case store.TypeHeading2:
		b.WriteString(indent + "## " + text + anchor + "\n")
	case store.TypeHeading3:
		b.WriteString(indent + "### " + text + anchor + "\n")
	case store.TypeQuote:
		b.WriteString(indent + "> " + text + anchor + "\n")
	case store.TypeDivider:
		b.WriteString(indent + "---" + anchor + "\n")
	case store.TypeTodo:
		box, rest := checkbox(blk.Text)
		b.WriteString(indent + box + " " + oneLine(rest) + anchor + "\n")
	case store.TypeCode:
		b.WriteString(indent + "```" + anchor + "\n")
		for _, line := range strings.Split(blk.Text, "\n") {
			b.WriteString(indent + line + "\n")
		}
		b.WriteString(indent + "```\n")
	case store.TypeText:
		b.WriteString(indent + "- " + text + anchor + "\n")
	default:
		b.WriteString(indent + "- [" + string(blk.Type) + "] " + text + anchor + "\n")
	}
}

// checkbox infers the done state from a checkbox prefix already present
// in the text, stripping it so the marker is not doubled.
func checkbox(text string) (box, rest string) {
	switch {
	case strings.HasPrefix(text, "[x] "), strings.HasPrefix(text, "[X] "):
		return "- [x]", text[len("[x] "):]
	case strings.HasPrefix(text, "[ ] "):
		return "- [ ]", text[len("[ ] "):]
	default:
		return "- [ ]", text
	}
}

// oneLine keeps non-code blocks line-oriented.
func oneLine(text string) string {
	return strings.ReplaceAll(text, "\n", " ")
}
