package changelog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blang/semver/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamokano/aws_config/pkg/changelog"
)

const validHistory = `.. _release_history:

Release and Version History
==============================================================================


x.y.z (Backlog)
------------------------------------------------------------------------------
**Features and Improvements**

**Minor Improvements**

**Bugfixes**

**Miscellaneous**


0.2.0 (2026-05-02)
------------------------------------------------------------------------------
**Features and Improvements**

- Add ` + "``aws_config.api.Config.DeployEnv``" + ` to deploy a single env.
- Add ` + "``aws_config.api.Config.DeployAllEnvs``" + `.
    - Deploys every declared env plus the consolidated parameter.

**Bugfixes**

- Fix latest-version discovery on unversioned buckets.


0.1.1 (2026-03-18)
------------------------------------------------------------------------------
**Minor Improvements**

- Add ` + "``aws_config.api.Names.Ensure``" + `.


0.1.0 (2026-03-05)
------------------------------------------------------------------------------
**Features and Improvements**

- First release with ` + "``aws_config.api.Config``" + ` and
  ` + "``aws_config.api.Names``" + `.
`

var lintNow = time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)

func mustParse(t *testing.T, text string) *changelog.Document {
	t.Helper()
	doc, err := changelog.ParseString(text)
	require.NoError(t, err)
	return doc
}

func messages(problems []changelog.Problem) []string {
	var out []string
	for _, p := range problems {
		out = append(out, p.Message)
	}
	return out
}

func TestParse(t *testing.T) {
	doc := mustParse(t, validHistory)

	assert.Equal(t, "release_history", doc.Label)
	assert.Equal(t, "Release and Version History", doc.Title)
	require.Len(t, doc.Releases, 4)

	backlog := doc.Releases[0]
	assert.True(t, backlog.Backlog)
	require.Len(t, backlog.Sections, 4)
	assert.Equal(t, changelog.SectionFeatures, backlog.Sections[0].Title)
	assert.Empty(t, backlog.Sections[0].Items)

	rel := doc.Releases[1]
	assert.Equal(t, semver.MustParse("0.2.0"), rel.Version)
	assert.Equal(t, time.Date(2026, time.May, 2, 0, 0, 0, 0, time.UTC), rel.Date)
	assert.False(t, rel.Backlog)

	feat := rel.Sections[0]
	require.Len(t, feat.Items, 2)
	assert.Equal(t, []string{"aws_config.api.Config.DeployEnv"}, feat.Items[0].APIRefs())
	require.Len(t, feat.Items[1].Children, 1)
	assert.Contains(t, feat.Items[1].Children[0].Text, "consolidated parameter")

	// Wrapped bullet text is joined into one item.
	first := doc.Releases[3].Sections[0].Items[0]
	assert.Equal(t, "First release with ``aws_config.api.Config`` and ``aws_config.api.Names``.", first.Text)

	refs := doc.APIRefs()
	assert.Contains(t, refs, "aws_config.api.Names.Ensure")
	assert.Contains(t, refs, "aws_config.api.Config.DeployAllEnvs")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		errContains string
	}{
		{
			name:        "empty_document",
			text:        "",
			errContains: "no title",
		},
		{
			name:        "section_outside_release",
			text:        "History\n=======\n\n**Bugfixes**\n",
			errContains: "outside of a release",
		},
		{
			name:        "bullet_outside_section",
			text:        "History\n=======\n\n0.1.0 (2026-01-01)\n------------------\n- item\n",
			errContains: "outside of a section",
		},
		{
			name:        "underline_without_heading",
			text:        "History\n=======\n\n------------------\n",
			errContains: "underline without a heading",
		},
		{
			name:        "second_title",
			text:        "History\n=======\n\nAnother\n=======\n",
			errContains: "second title",
		},
		{
			name:        "stray_text",
			text:        "History\n=======\n\nsome prose\n",
			errContains: "unexpected text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := changelog.ParseString(tt.text)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLint(t *testing.T) {
	rules := changelog.Rules{Now: lintNow}

	t.Run("clean_document", func(t *testing.T) {
		problems := changelog.Lint(mustParse(t, validHistory), rules)
		assert.Empty(t, problems)
	})

	t.Run("malformed_version_header", func(t *testing.T) {
		doc := mustParse(t, "History\n=======\n\n1.2 (2026-01-01)\n----------------\n**Bugfixes**\n\n- Something.\n")
		problems := changelog.Lint(doc, rules)
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0].Message, "<major>.<minor>.<patch> (YYYY-MM-DD)")
	})

	t.Run("api_reference_must_carry_prefix", func(t *testing.T) {
		doc := mustParse(t, "History\n=======\n\n0.1.0 (2026-01-01)\n------------------\n**Bugfixes**\n\n"+
			"- Fix ``other.pkg.Thing``.\n- Fix ``--include-s3`` handling.\n")
		problems := changelog.Lint(doc, rules)
		require.Len(t, problems, 2)
		assert.Contains(t, problems[0].Message, "aws_config.api.")
		assert.Contains(t, problems[1].Message, "--include-s3")
	})

	t.Run("custom_prefix", func(t *testing.T) {
		doc := mustParse(t, "History\n=======\n\n0.1.0 (2026-01-01)\n------------------\n**Bugfixes**\n\n- Fix ``other.pkg.Thing``.\n")
		problems := changelog.Lint(doc, changelog.Rules{APIPrefix: "other.pkg.", Now: lintNow})
		assert.Empty(t, problems)
	})

	t.Run("versions_must_decrease", func(t *testing.T) {
		doc := mustParse(t, "History\n=======\n\n0.1.0 (2026-02-01)\n------------------\n**Bugfixes**\n\n- A fix.\n\n"+
			"0.2.0 (2026-01-01)\n------------------\n**Bugfixes**\n\n- A fix.\n")
		problems := changelog.Lint(doc, rules)
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0].Message, "must be lower than 0.1.0")
	})

	t.Run("backlog_must_be_first", func(t *testing.T) {
		doc := mustParse(t, "History\n=======\n\n0.1.0 (2026-01-01)\n------------------\n**Bugfixes**\n\n- A fix.\n\n"+
			"x.y.z (Backlog)\n---------------\n**Bugfixes**\n")
		problems := changelog.Lint(doc, rules)
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0].Message, "backlog release must be the first")
	})

	t.Run("unknown_section_title", func(t *testing.T) {
		doc := mustParse(t, "History\n=======\n\n0.1.0 (2026-01-01)\n------------------\n**Random**\n\n- A fix.\n")
		problems := changelog.Lint(doc, rules)
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0].Message, `unknown section title "Random"`)
	})

	t.Run("date_in_the_future", func(t *testing.T) {
		doc := mustParse(t, "History\n=======\n\n0.1.0 (2030-01-01)\n------------------\n**Bugfixes**\n\n- A fix.\n")
		problems := changelog.Lint(doc, rules)
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0].Message, "in the future")
	})

	t.Run("dates_must_not_increase_downward", func(t *testing.T) {
		doc := mustParse(t, "History\n=======\n\n1.1.0 (2026-01-01)\n------------------\n**Bugfixes**\n\n- A fix.\n\n"+
			"1.0.0 (2026-02-01)\n------------------\n**Bugfixes**\n\n- A fix.\n")
		problems := changelog.Lint(doc, rules)
		require.Len(t, problems, 1)
		assert.Contains(t, messages(problems)[0], "later than release 1.1.0")
	})
}

func TestWriteRoundTrip(t *testing.T) {
	doc := mustParse(t, validHistory)

	var buf strings.Builder
	require.NoError(t, changelog.Write(&buf, doc))

	again, err := changelog.ParseString(buf.String())
	require.NoError(t, err)

	stripLines(doc)
	stripLines(again)
	assert.Equal(t, doc, again)
}

func TestLintFile(t *testing.T) {
	t.Run("clean_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "release-history.rst")
		require.NoError(t, os.WriteFile(path, []byte(validHistory), 0644))

		doc, problems, err := changelog.LintFile(path, changelog.Rules{Now: lintNow})
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Empty(t, problems)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, _, err := changelog.LintFile(filepath.Join(t.TempDir(), "nope.rst"), changelog.Rules{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open changelog")
	})
}

func stripLines(doc *changelog.Document) {
	for i := range doc.Releases {
		doc.Releases[i].Line = 0
		for j := range doc.Releases[i].Sections {
			doc.Releases[i].Sections[j].Line = 0
			stripItemLines(doc.Releases[i].Sections[j].Items)
		}
	}
}

func stripItemLines(items []changelog.Item) {
	for i := range items {
		items[i].Line = 0
		stripItemLines(items[i].Children)
	}
}
