package convert

import (
	"regexp"
	"strings"
)

var (
	markdownTitle      = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	mermaidTitle       = regexp.MustCompile(`(?mi)^(?:flowchart|graph)\s+\w+\s*:\s*(.+)$`)
	mermaidDescription = regexp.MustCompile(`(?m)^%%\s*(.+)$`)
)

// ExtractTitle returns the document title: the first level-1 header for
// markdown, or the text after "flowchart TD:" for mermaid.
func ExtractTitle(text string, f Format) string {
	switch f {
	case FormatMarkdown:
		return firstGroup(markdownTitle, text)
	case FormatMermaid:
		return firstGroup(mermaidTitle, text)
	}
	return ""
}

// ExtractDescription returns a one-line description: the first non-header
// line after the first header for markdown, or the first %% comment for
// mermaid.
func ExtractDescription(text string, f Format) string {
	switch f {
	case FormatMarkdown:
		foundTitle := false
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if !foundTitle {
				foundTitle = strings.HasPrefix(line, "#")
				continue
			}
			if line != "" && !strings.HasPrefix(line, "#") {
				return line
			}
		}
	case FormatMermaid:
		return firstGroup(mermaidDescription, text)
	}
	return ""
}

func firstGroup(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
