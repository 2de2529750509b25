package assistant

import (
	"regexp"
	"strings"
)

const (
	BlockTable     BlockType = "table"
	BlockBullet    BlockType = "bullet"
	BlockParagraph BlockType = "paragraph"
	BlockSpacer    BlockType = "spacer"
)

var boldRegex = regexp.MustCompile(`\*\*(.*?)\*\*`)

type BlockType string

// Span is a run of text, optionally bold.
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Block is one display line of a reply.
type Block struct {
	Type  BlockType `json:"type"`
	Cells []string  `json:"cells,omitempty"` // table
	Text  string    `json:"text,omitempty"`  // bullet
	Spans []Span    `json:"spans,omitempty"` // paragraph
}

// Format splits content into display blocks, one per line.
// Markdown table rows become cells, separator rows are dropped,
// "* " and "- " lines are bullets and **bold** markers are resolved.
func Format(content string) []Block {
	lines := strings.Split(content, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blocks = append(blocks, Block{Type: BlockSpacer})
			continue
		}

		if strings.Contains(trimmed, "|") && (strings.HasPrefix(trimmed, "|") || strings.Contains(trimmed, "-|-")) {
			cells := tableCells(trimmed)
			if isSeparatorRow(cells) || (len(cells) <= 1 && strings.Contains(trimmed, "---")) {
				continue
			}
			if len(cells) > 1 {
				blocks = append(blocks, Block{Type: BlockTable, Cells: cells})
				continue
			}
		}

		if strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "- ") {
			blocks = append(blocks, Block{Type: BlockBullet, Text: stripBold(trimmed[2:])})
			continue
		}

		blocks = append(blocks, Block{Type: BlockParagraph, Spans: spans(line)})
	}
	return blocks
}

func tableCells(row string) []string {
	parts := strings.Split(row, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := strings.TrimSpace(p); c != "" {
			cells = append(cells, stripBold(c))
		}
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if strings.Trim(c, "-: ") != "" || !strings.Contains(c, "-") {
			return false
		}
	}
	return true
}

func stripBold(s string) string {
	return boldRegex.ReplaceAllString(s, "$1")
}

func spans(line string) []Span {
	var res []Span
	last := 0
	for _, m := range boldRegex.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > last {
			res = append(res, Span{Text: line[last:m[0]]})
		}
		res = append(res, Span{Text: line[m[2]:m[3]], Bold: true})
		last = m[1]
	}
	if last < len(line) {
		res = append(res, Span{Text: line[last:]})
	}
	return res
}
