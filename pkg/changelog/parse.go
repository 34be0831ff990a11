package changelog

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/blang/semver/v4"
)

var (
	labelRe         = regexp.MustCompile(`^\.\. _([A-Za-z0-9_-]+):$`)
	titleRuleRe     = regexp.MustCompile(`^=+$`)
	releaseRuleRe   = regexp.MustCompile(`^-+$`)
	sectionRe       = regexp.MustCompile(`^\*\*(.+)\*\*$`)
	releaseHeaderRe = regexp.MustCompile(`^(\d+\.\d+\.\d+) \((\d{4}-\d{2}-\d{2})\)$`)
	bulletRe        = regexp.MustCompile(`^([ \t]*)- (.*)$`)
)

type frame struct {
	indent int
	item   *Item
}

// Parse reads a release-history document from r. It understands the
// reStructuredText subset these files use: an optional anchor label, an
// "="-underlined title, "-"-underlined release headers, "**bold**"
// section markers and "-" bullets nested by indentation.
//
// Parse enforces document shape only. Header text that does not match a
// known form is kept verbatim for the linter to report.
func Parse(r io.Reader) (*Document, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read changelog: %w", err)
	}

	doc := &Document{}
	var stack []frame

	release := func() *Release {
		if len(doc.Releases) == 0 {
			return nil
		}
		return &doc.Releases[len(doc.Releases)-1]
	}
	section := func() *Section {
		rel := release()
		if rel == nil || len(rel.Sections) == 0 {
			return nil
		}
		return &rel.Sections[len(rel.Sections)-1]
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			continue
		}
		n := i + 1

		if strings.HasPrefix(line, ".. ") {
			if m := labelRe.FindStringSubmatch(line); m != nil && doc.Label == "" && doc.Title == "" {
				doc.Label = m[1]
			}
			continue
		}

		underlined := i+1 < len(lines)
		if underlined && titleRuleRe.MatchString(lines[i+1]) {
			if doc.Title != "" {
				return nil, fmt.Errorf("line %d: unexpected second title %q", n, line)
			}
			doc.Title = line
			i++
			continue
		}
		if underlined && releaseRuleRe.MatchString(lines[i+1]) {
			doc.Releases = append(doc.Releases, parseHeader(line, n))
			stack = nil
			i++
			continue
		}
		if titleRuleRe.MatchString(line) || releaseRuleRe.MatchString(line) {
			return nil, fmt.Errorf("line %d: underline without a heading", n)
		}

		if m := sectionRe.FindStringSubmatch(line); m != nil {
			rel := release()
			if rel == nil {
				return nil, fmt.Errorf("line %d: section %q outside of a release", n, m[1])
			}
			rel.Sections = append(rel.Sections, Section{Title: m[1], Line: n})
			stack = nil
			continue
		}

		if m := bulletRe.FindStringSubmatch(line); m != nil {
			sec := section()
			if sec == nil {
				return nil, fmt.Errorf("line %d: bullet outside of a section", n)
			}
			indent := len(m[1])
			for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
				stack = stack[:len(stack)-1]
			}
			item := Item{Text: m[2], Line: n}
			if len(stack) == 0 {
				sec.Items = append(sec.Items, item)
				stack = append(stack, frame{indent, &sec.Items[len(sec.Items)-1]})
			} else {
				parent := stack[len(stack)-1].item
				parent.Children = append(parent.Children, item)
				stack = append(stack, frame{indent, &parent.Children[len(parent.Children)-1]})
			}
			continue
		}

		// Indented plain text continues the bullet above it.
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if len(stack) > 0 && indent > stack[len(stack)-1].indent {
			top := stack[len(stack)-1].item
			top.Text += " " + strings.TrimSpace(line)
			continue
		}
		return nil, fmt.Errorf("line %d: unexpected text %q", n, line)
	}

	if doc.Title == "" {
		return nil, fmt.Errorf("changelog has no title")
	}
	return doc, nil
}

// ParseString parses a release-history document held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func parseHeader(line string, n int) Release {
	rel := Release{Header: line, Line: n}
	if line == BacklogHeader {
		rel.Backlog = true
		return rel
	}
	m := releaseHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return rel
	}
	if v, err := semver.Parse(m[1]); err == nil {
		rel.Version = v
	}
	if d, err := time.Parse("2006-01-02", m[2]); err == nil {
		rel.Date = d
	}
	return rel
}
