package changelog

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/blang/semver/v4"
)

// DefaultAPIPrefix is the required prefix of API references when Rules
// does not override it.
const DefaultAPIPrefix = "aws_config.api."

// DefaultSections are the section titles a release may use.
var DefaultSections = []string{
	SectionFeatures,
	SectionMinor,
	SectionBugfixes,
	SectionMiscellaneous,
}

var dottedPathRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)+$`)

// Rules configures the linter. The zero value applies the defaults.
type Rules struct {
	// APIPrefix every double-backtick API reference must start with.
	APIPrefix string
	// Sections lists the allowed section titles.
	Sections []string
	// Now anchors the future-date check. Zero means time.Now().
	Now time.Time
}

func (r Rules) withDefaults() Rules {
	if r.APIPrefix == "" {
		r.APIPrefix = DefaultAPIPrefix
	}
	if r.Sections == nil {
		r.Sections = DefaultSections
	}
	if r.Now.IsZero() {
		r.Now = time.Now()
	}
	return r
}

// Problem is one linter finding, anchored to a source line.
type Problem struct {
	Line    int
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("line %d: %s", p.Line, p.Message)
}

// Lint checks a release-history document:
//
//   - every version header is "<major>.<minor>.<patch> (YYYY-MM-DD)",
//     the backlog placeholder excepted;
//   - the backlog, when present, comes first;
//   - section titles come from the allowed set;
//   - every API reference is a dotted path with the required prefix;
//   - versions strictly decrease from top to bottom;
//   - dates are not in the future and do not increase downward.
//
// Lint never modifies the document. An empty result means clean.
func Lint(doc *Document, rules Rules) []Problem {
	rules = rules.withDefaults()

	known := make(map[string]bool, len(rules.Sections))
	for _, title := range rules.Sections {
		known[title] = true
	}

	var problems []Problem
	var prev *Release

	for i := range doc.Releases {
		rel := &doc.Releases[i]

		if rel.Backlog && i != 0 {
			problems = append(problems, Problem{rel.Line, "backlog release must be the first section"})
		}
		if msg := headerProblem(rel); msg != "" {
			problems = append(problems, Problem{rel.Line, msg})
		}

		for _, sec := range rel.Sections {
			if !known[sec.Title] {
				problems = append(problems, Problem{sec.Line, fmt.Sprintf("unknown section title %q", sec.Title)})
			}
			problems = append(problems, refProblems(sec.Items, rules.APIPrefix)...)
		}

		if rel.Backlog || rel.Version.EQ(semver.Version{}) {
			continue
		}
		if prev != nil && !prev.Version.GT(rel.Version) {
			problems = append(problems, Problem{rel.Line,
				fmt.Sprintf("version %s must be lower than %s above it", rel.Version, prev.Version)})
		}
		if !rel.Date.IsZero() {
			if rel.Date.After(rules.Now) {
				problems = append(problems, Problem{rel.Line,
					fmt.Sprintf("release date %s is in the future", rel.Date.Format("2006-01-02"))})
			}
			if prev != nil && !prev.Date.IsZero() && rel.Date.After(prev.Date) {
				problems = append(problems, Problem{rel.Line,
					fmt.Sprintf("release date %s is later than release %s above it",
						rel.Date.Format("2006-01-02"), prev.Version)})
			}
		}
		prev = rel
	}

	return problems
}

// LintFile parses and lints path, returning the document alongside the
// findings so callers can keep using it.
func LintFile(path string, rules Rules) (*Document, []Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open changelog: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, nil, err
	}
	return doc, Lint(doc, rules), nil
}

func headerProblem(rel *Release) string {
	if rel.Backlog {
		return ""
	}
	if rel.Header != "" && !releaseHeaderRe.MatchString(rel.Header) {
		return fmt.Sprintf("version header %q must be \"<major>.<minor>.<patch> (YYYY-MM-DD)\"", rel.Header)
	}
	if rel.Version.EQ(semver.Version{}) || rel.Date.IsZero() {
		return fmt.Sprintf("version header %q does not carry a valid version and date", rel.HeaderText())
	}
	return ""
}

func refProblems(items []Item, prefix string) []Problem {
	var problems []Problem
	for _, item := range items {
		for _, ref := range item.APIRefs() {
			if !dottedPathRe.MatchString(ref) || !strings.HasPrefix(ref, prefix) {
				problems = append(problems, Problem{item.Line,
					fmt.Sprintf("API reference ``%s`` must be a dotted path starting with %q", ref, prefix)})
			}
		}
		problems = append(problems, refProblems(item.Children, prefix)...)
	}
	return problems
}
