// Package convert selects and runs the text-to-graph converters.
//
// Two source formats are supported: outline-style markdown ([markdown.Convert])
// and mermaid flowcharts ([mermaid.Convert]). Both produce the same
// [graph.Graph] value.
//
// # Format Selection
//
// [Detect] inspects raw text and returns [FormatMermaid] when the trimmed
// text begins with a flowchart declaration such as "flowchart TD" or
// "graph LR" (case-insensitive). Anything else is [FormatMarkdown].
//
//	g, format, err := convert.Convert(text, convert.FormatAuto)
//
// An explicit format hint from a user is checked with [ParseFormat]; the only
// error this package returns is for an unknown format name.
//
// # Registry
//
// [Converters] lists the supported formats in a fixed order together with a
// short description and how each one is detected. The CLI "formats" command
// and the HTTP /api/formats endpoint both render this list.
//
// # Document Metadata
//
// [ExtractTitle] and [ExtractDescription] pull a title and a one-line
// description out of the source text. They are independent of conversion
// and return "" when nothing suitable is found.
//
// [markdown.Convert]: github.com/matzehuels/playbookforge/pkg/convert/markdown.Convert
// [mermaid.Convert]: github.com/matzehuels/playbookforge/pkg/convert/mermaid.Convert
// [graph.Graph]: github.com/matzehuels/playbookforge/pkg/graph.Graph
package convert
