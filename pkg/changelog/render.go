package changelog

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const rulerWidth = 78

// Write renders the document in canonical form. Parsing the output
// yields the same document back.
func Write(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)

	if doc.Label != "" {
		fmt.Fprintf(bw, ".. _%s:\n\n", doc.Label)
	}
	fmt.Fprintf(bw, "%s\n%s\n", doc.Title, strings.Repeat("=", rulerWidth))

	for _, rel := range doc.Releases {
		fmt.Fprintf(bw, "\n\n%s\n%s\n", rel.HeaderText(), strings.Repeat("-", rulerWidth))
		for j, sec := range rel.Sections {
			if j > 0 {
				fmt.Fprintln(bw)
			}
			fmt.Fprintf(bw, "**%s**\n", sec.Title)
			if len(sec.Items) > 0 {
				fmt.Fprintln(bw)
				for _, item := range sec.Items {
					writeItem(bw, item, 0)
				}
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write changelog: %w", err)
	}
	return nil
}

func writeItem(w io.Writer, item Item, depth int) {
	fmt.Fprintf(w, "%s- %s\n", strings.Repeat(" ", depth*4), item.Text)
	for _, child := range item.Children {
		writeItem(w, child, depth+1)
	}
}
