package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Block
	}{
		{
			name:    "paragraph with bold",
			content: "Net yield is **8.0%** after fees",
			want: []Block{{Type: BlockParagraph, Spans: []Span{
				{Text: "Net yield is "}, {Text: "8.0%", Bold: true}, {Text: " after fees"},
			}}},
		},
		{
			name:    "blank lines are spacers",
			content: "a\n\n  \nb",
			want: []Block{
				{Type: BlockParagraph, Spans: []Span{{Text: "a"}}},
				{Type: BlockSpacer},
				{Type: BlockSpacer},
				{Type: BlockParagraph, Spans: []Span{{Text: "b"}}},
			},
		},
		{
			name:    "bullets",
			content: "* **JVC**: 7.5%\n- Marina: 5.9%",
			want: []Block{
				{Type: BlockBullet, Text: "JVC: 7.5%"},
				{Type: BlockBullet, Text: "Marina: 5.9%"},
			},
		},
		{
			name:    "table without separator",
			content: "| Area | **Yield** |\n|---|:---:|\n| JVC | 7.5% |",
			want: []Block{
				{Type: BlockTable, Cells: []string{"Area", "Yield"}},
				{Type: BlockTable, Cells: []string{"JVC", "7.5%"}},
			},
		},
		{
			name:    "lone pipe stays a paragraph",
			content: "|note",
			want:    []Block{{Type: BlockParagraph, Spans: []Span{{Text: "|note"}}}},
		},
		{
			name:    "lone separator dropped",
			content: "|---",
			want:    []Block{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.content))
		})
	}
}
