package changelog

import (
	"fmt"
	"regexp"
	"time"

	"github.com/blang/semver/v4"
)

// Known section titles, in their conventional order.
const (
	SectionFeatures      = "Features and Improvements"
	SectionMinor         = "Minor Improvements"
	SectionBugfixes      = "Bugfixes"
	SectionMiscellaneous = "Miscellaneous"
)

// BacklogHeader is the placeholder header of the unreleased section.
const BacklogHeader = "x.y.z (Backlog)"

var literalRe = regexp.MustCompile("``([^`]+)``")

// Document is a parsed release-history file: a title followed by release
// sections ordered newest first.
type Document struct {
	Label    string
	Title    string
	Releases []Release
}

// Release is one version section. The backlog placeholder has Backlog
// set and no version or date. Header keeps the header line as it
// appeared in the source, so malformed headers survive parsing and can
// be reported by the linter.
type Release struct {
	Version  semver.Version
	Date     time.Time
	Backlog  bool
	Header   string
	Line     int
	Sections []Section
}

// HeaderText returns the canonical header line for the release.
func (r Release) HeaderText() string {
	if r.Backlog {
		return BacklogHeader
	}
	if r.Header != "" && (r.Version.EQ(semver.Version{}) || r.Date.IsZero()) {
		return r.Header
	}
	return fmt.Sprintf("%s (%s)", r.Version, r.Date.Format("2006-01-02"))
}

// Section groups the items of a release under a title such as
// "Features and Improvements".
type Section struct {
	Title string
	Line  int
	Items []Item
}

// Item is one bullet entry, possibly with nested children.
type Item struct {
	Text     string
	Line     int
	Children []Item
}

// APIRefs returns the double-backtick literals in the item text.
func (i Item) APIRefs() []string {
	var refs []string
	for _, m := range literalRe.FindAllStringSubmatch(i.Text, -1) {
		refs = append(refs, m[1])
	}
	return refs
}

// APIRefs returns every double-backtick literal in the document, in
// reading order.
func (d *Document) APIRefs() []string {
	var refs []string
	for _, rel := range d.Releases {
		for _, sec := range rel.Sections {
			refs = append(refs, itemRefs(sec.Items)...)
		}
	}
	return refs
}

func itemRefs(items []Item) []string {
	var refs []string
	for _, item := range items {
		refs = append(refs, item.APIRefs()...)
		refs = append(refs, itemRefs(item.Children)...)
	}
	return refs
}
