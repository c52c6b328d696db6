package doctree

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  string
	}{
		{"paragraph", Para("hello"), "hello"},
		{"list item", Item("x", GlyphBullet), "x"},
		{
			"runs concatenate",
			&Paragraph{Inlines: []Inline{
				&TextRun{Text: "a"},
				&InlineImage{Data: []byte{1}},
				&TextRun{Text: "b", Style: TextStyle{Bold: true}},
			}},
			"ab",
		},
		{"table contributes nothing", &Table{}, ""},
		{"image contributes nothing", &Image{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.block); got != tt.want {
				t.Errorf("PlainText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasContent(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  bool
	}{
		{"text", Para("x"), true},
		{"blank text", Para("  \t "), false},
		{"empty paragraph", &Paragraph{}, false},
		{
			"image only",
			&Paragraph{Inlines: []Inline{&InlineImage{Data: []byte{1}}}},
			true,
		},
		{
			"equation only",
			&Paragraph{Inlines: []Inline{&Equation{Nodes: []EqNode{&EqText{Text: "x"}}}}},
			true,
		},
		{"table", &Table{}, true},
		{"block image", &Image{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasContent(tt.block); got != tt.want {
				t.Errorf("HasContent = %v, want %v", got, tt.want)
			}
		})
	}
}
