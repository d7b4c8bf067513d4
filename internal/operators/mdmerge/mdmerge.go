// Package mdmerge implements the `markdown` structured-merge operator of
// spec §4.5: locate a destination heading by (text, level) and either
// replace or append-within its body.
//
// blackfriday/v2's AST doesn't retain source byte offsets (it renders a
// tree, not a source map), so it can't drive in-place splicing by itself.
// This package uses it for what it's good at — parsing the source
// fragment to decide whether the fragment itself opens with a heading
// that duplicates the target section's own heading, so merging "## Usage"
// content into a "## Usage" section doesn't produce two headings — and
// does the actual heading location/splice with a line-oriented ATX scan.
package mdmerge

import (
	"fmt"
	"strings"

	"github.com/russross/blackfriday/v2"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
	"github.com/gizzahub/common-repo/internal/operators"
)

// Apply merges op.Source's content into the heading section named by
// op.Section/op.Level within op.Dest, per spec §4.5's markdown row.
func Apply(ctx operators.MergeContext, op *config.MergeOp) error {
	srcFile, ok := ctx.Source.Get(op.Source)
	if !ok {
		return fmt.Errorf("markdown merge: source %q not found", op.Source)
	}

	level := op.Level
	if level == 0 {
		level = 2
	}

	fragment := stripDuplicateHeading(string(srcFile.Content), op.Section, level)

	destFile, hasDest := ctx.Dest.Get(op.Dest)
	destText := ""
	if hasDest {
		destText = string(destFile.Content)
	}

	lines := splitLines(destText)
	headingIdx, bodyStart, bodyEnd := findSection(lines, op.Section, level)

	if headingIdx < 0 {
		if !op.CreateSection {
			return fmt.Errorf("markdown merge: section %q (level %d) not found in %q", op.Section, level, op.Dest)
		}
		heading := strings.Repeat("#", level) + " " + op.Section
		var b strings.Builder
		b.WriteString(destText)
		if destText != "" && !strings.HasSuffix(destText, "\n") {
			b.WriteString("\n")
		}
		if destText != "" {
			b.WriteString("\n")
		}
		b.WriteString(heading)
		b.WriteString("\n\n")
		b.WriteString(fragment)
		if !strings.HasSuffix(fragment, "\n") {
			b.WriteString("\n")
		}
		return ctx.Dest.Set(op.Dest, memfs.File{Content: []byte(b.String()), Origin: "markdown-merge"})
	}

	body := strings.Join(lines[bodyStart:bodyEnd], "\n")

	var newBody string
	if op.Append {
		trimmedBody := strings.TrimRight(body, "\n")
		trimmedFragment := strings.TrimSpace(fragment)
		switch op.Position {
		case config.PositionStart:
			newBody = joinNonEmpty(trimmedFragment, trimmedBody)
		default:
			newBody = joinNonEmpty(trimmedBody, trimmedFragment)
		}
	} else {
		newBody = strings.TrimSpace(fragment)
	}

	out := make([]string, 0, len(lines))
	out = append(out, lines[:bodyStart]...)
	if newBody != "" {
		out = append(out, strings.Split(newBody, "\n")...)
	}
	out = append(out, lines[bodyEnd:]...)

	result := strings.Join(out, "\n")
	if !strings.HasSuffix(result, "\n") {
		result += "\n"
	}

	return ctx.Dest.Set(op.Dest, memfs.File{Content: []byte(result), Origin: "markdown-merge"})
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "\n\n" + b
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

// findSection locates the ATX heading matching (section, level) and
// returns its line index plus the [bodyStart, bodyEnd) line range of its
// body, ending at the next heading of level <= level or EOF.
func findSection(lines []string, section string, level int) (headingIdx, bodyStart, bodyEnd int) {
	prefix := strings.Repeat("#", level) + " "

	for i, line := range lines {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		if strings.TrimSpace(strings.TrimPrefix(line, prefix)) != section {
			continue
		}

		end := len(lines)
		for j := i + 1; j < len(lines); j++ {
			if headingLevel(lines[j]) > 0 && headingLevel(lines[j]) <= level {
				end = j
				break
			}
		}
		return i, i + 1, end
	}

	return -1, -1, -1
}

func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0
	}
	if n >= len(line) || line[n] != ' ' {
		return 0
	}
	return n
}

// stripDuplicateHeading removes a leading heading from fragment if it
// matches (section, level) exactly, using blackfriday to confirm the
// fragment's first block really is a heading node (rather than, say, a
// paragraph that merely starts with '#' inside a code span).
func stripDuplicateHeading(fragment, section string, level int) string {
	root := blackfriday.New(blackfriday.WithExtensions(blackfriday.CommonExtensions)).Parse([]byte(fragment))

	first := root.FirstChild
	if first == nil || first.Type != blackfriday.Heading {
		return fragment
	}
	if first.HeadingData.Level != level {
		return fragment
	}

	var text strings.Builder
	for c := first.FirstChild; c != nil; c = c.Next {
		text.Write(c.Literal)
	}
	if strings.TrimSpace(text.String()) != section {
		return fragment
	}

	lines := splitLines(fragment)
	for i, line := range lines {
		if headingLevel(line) == level && strings.TrimSpace(strings.TrimLeft(line, "# ")) == section {
			return strings.Join(lines[i+1:], "\n")
		}
	}
	return fragment
}
