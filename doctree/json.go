package doctree

import (
	"encoding/json"
	"fmt"
)

// JSON codec for the document tree. Every node is encoded as an object with a
// "kind" discriminator so trees can travel over the HTTP API and live in test
// fixtures. Binary image data uses encoding/json's standard base64 form.

type blockJSON struct {
	Kind    string         `json:"kind"`
	Inlines []inlineJSON   `json:"inlines,omitempty"`
	Glyph   string         `json:"glyph,omitempty"`
	Rows    [][]cellJSON   `json:"rows,omitempty"`
	Data    []byte         `json:"data,omitempty"`
	MIME    string         `json:"mime,omitempty"`
	Width   float64        `json:"width,omitempty"`
	Height  float64        `json:"height,omitempty"`
}

type cellJSON struct {
	Blocks []blockJSON `json:"blocks"`
}

type inlineJSON struct {
	Kind          string    `json:"kind"`
	Text          string    `json:"text,omitempty"`
	Bold          bool      `json:"bold,omitempty"`
	Italic        bool      `json:"italic,omitempty"`
	Underline     bool      `json:"underline,omitempty"`
	Strikethrough bool      `json:"strikethrough,omitempty"`
	Superscript   bool      `json:"superscript,omitempty"`
	Subscript     bool      `json:"subscript,omitempty"`
	LinkURL       string    `json:"link_url,omitempty"`
	Data          []byte    `json:"data,omitempty"`
	MIME          string    `json:"mime,omitempty"`
	Width         float64   `json:"width,omitempty"`
	Height        float64   `json:"height,omitempty"`
	Nodes         []eqJSON  `json:"nodes,omitempty"`
}

type eqJSON struct {
	Kind string     `json:"kind"`
	Text string     `json:"text,omitempty"`
	Code string     `json:"code,omitempty"`
	Args [][]eqJSON `json:"args,omitempty"`
}

// MarshalJSON encodes the document as {"blocks": [...]}.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := struct {
		Blocks []blockJSON `json:"blocks"`
	}{Blocks: make([]blockJSON, 0, len(d.Blocks))}
	for _, b := range d.Blocks {
		out.Blocks = append(out.Blocks, encodeBlock(b))
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes {"blocks": [...]} into the document.
func (d *Document) UnmarshalJSON(data []byte) error {
	var in struct {
		Blocks []blockJSON `json:"blocks"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	blocks := make([]Block, 0, len(in.Blocks))
	for i, bj := range in.Blocks {
		b, err := decodeBlock(bj)
		if err != nil {
			return fmt.Errorf("block %d: %w", i+1, err)
		}
		blocks = append(blocks, b)
	}
	d.Blocks = blocks
	return nil
}

func encodeBlock(b Block) blockJSON {
	switch blk := b.(type) {
	case *Paragraph:
		return blockJSON{Kind: "paragraph", Inlines: encodeInlines(blk.Inlines)}
	case *ListItem:
		return blockJSON{Kind: "list_item", Inlines: encodeInlines(blk.Inlines), Glyph: blk.Glyph.String()}
	case *Table:
		rows := make([][]cellJSON, 0, len(blk.Rows))
		for _, row := range blk.Rows {
			cells := make([]cellJSON, 0, len(row))
			for _, cell := range row {
				cj := cellJSON{Blocks: make([]blockJSON, 0, len(cell.Blocks))}
				for _, cb := range cell.Blocks {
					cj.Blocks = append(cj.Blocks, encodeBlock(cb))
				}
				cells = append(cells, cj)
			}
			rows = append(rows, cells)
		}
		return blockJSON{Kind: "table", Rows: rows}
	case *Image:
		return blockJSON{Kind: "image", Data: blk.Data, MIME: blk.MIME, Width: blk.Width, Height: blk.Height}
	default:
		return blockJSON{Kind: "unknown"}
	}
}

func decodeBlock(bj blockJSON) (Block, error) {
	switch bj.Kind {
	case "paragraph":
		inlines, err := decodeInlines(bj.Inlines)
		if err != nil {
			return nil, err
		}
		return &Paragraph{Inlines: inlines}, nil
	case "list_item":
		inlines, err := decodeInlines(bj.Inlines)
		if err != nil {
			return nil, err
		}
		return &ListItem{Inlines: inlines, Glyph: glyphFromString(bj.Glyph)}, nil
	case "table":
		rows := make([][]TableCell, 0, len(bj.Rows))
		for _, rj := range bj.Rows {
			row := make([]TableCell, 0, len(rj))
			for _, cj := range rj {
				var cell TableCell
				for i, cb := range cj.Blocks {
					b, err := decodeBlock(cb)
					if err != nil {
						return nil, fmt.Errorf("cell block %d: %w", i+1, err)
					}
					cell.Blocks = append(cell.Blocks, b)
				}
				row = append(row, cell)
			}
			rows = append(rows, row)
		}
		return &Table{Rows: rows}, nil
	case "image":
		return &Image{Data: bj.Data, MIME: bj.MIME, Width: bj.Width, Height: bj.Height}, nil
	default:
		return nil, fmt.Errorf("unknown block kind %q", bj.Kind)
	}
}

func encodeInlines(inlines []Inline) []inlineJSON {
	out := make([]inlineJSON, 0, len(inlines))
	for _, in := range inlines {
		switch n := in.(type) {
		case *TextRun:
			out = append(out, inlineJSON{
				Kind:          "text",
				Text:          n.Text,
				Bold:          n.Style.Bold,
				Italic:        n.Style.Italic,
				Underline:     n.Style.Underline,
				Strikethrough: n.Style.Strikethrough,
				Superscript:   n.Style.Superscript,
				Subscript:     n.Style.Subscript,
				LinkURL:       n.Style.LinkURL,
			})
		case *InlineImage:
			out = append(out, inlineJSON{Kind: "image", Data: n.Data, MIME: n.MIME, Width: n.Width, Height: n.Height})
		case *Equation:
			out = append(out, inlineJSON{Kind: "equation", Nodes: encodeEqNodes(n.Nodes)})
		}
	}
	return out
}

func decodeInlines(ins []inlineJSON) ([]Inline, error) {
	out := make([]Inline, 0, len(ins))
	for _, ij := range ins {
		switch ij.Kind {
		case "text":
			out = append(out, &TextRun{
				Text: ij.Text,
				Style: TextStyle{
					Bold:          ij.Bold,
					Italic:        ij.Italic,
					Underline:     ij.Underline,
					Strikethrough: ij.Strikethrough,
					Superscript:   ij.Superscript,
					Subscript:     ij.Subscript,
					LinkURL:       ij.LinkURL,
				},
			})
		case "image":
			out = append(out, &InlineImage{Data: ij.Data, MIME: ij.MIME, Width: ij.Width, Height: ij.Height})
		case "equation":
			nodes, err := decodeEqNodes(ij.Nodes)
			if err != nil {
				return nil, err
			}
			out = append(out, &Equation{Nodes: nodes})
		default:
			return nil, fmt.Errorf("unknown inline kind %q", ij.Kind)
		}
	}
	return out, nil
}

func encodeEqNodes(nodes []EqNode) []eqJSON {
	out := make([]eqJSON, 0, len(nodes))
	for _, n := range nodes {
		switch eq := n.(type) {
		case *EqText:
			out = append(out, eqJSON{Kind: "text", Text: eq.Text})
		case *EqSymbol:
			out = append(out, eqJSON{Kind: "symbol", Code: eq.Code})
		case *EqFunction:
			args := make([][]eqJSON, 0, len(eq.Args))
			for _, arg := range eq.Args {
				args = append(args, encodeEqNodes(arg))
			}
			out = append(out, eqJSON{Kind: "function", Code: eq.Code, Args: args})
		}
	}
	return out
}

func decodeEqNodes(nodes []eqJSON) ([]EqNode, error) {
	out := make([]EqNode, 0, len(nodes))
	for _, ej := range nodes {
		switch ej.Kind {
		case "text":
			out = append(out, &EqText{Text: ej.Text})
		case "symbol":
			out = append(out, &EqSymbol{Code: ej.Code})
		case "function":
			args := make([][]EqNode, 0, len(ej.Args))
			for _, aj := range ej.Args {
				arg, err := decodeEqNodes(aj)
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
			}
			out = append(out, &EqFunction{Code: ej.Code, Args: args})
		default:
			return nil, fmt.Errorf("unknown equation node kind %q", ej.Kind)
		}
	}
	return out, nil
}

func glyphFromString(s string) GlyphKind {
	switch s {
	case "number":
		return GlyphNumber
	case "alpha":
		return GlyphAlpha
	case "alpha_upper":
		return GlyphAlphaUpper
	case "roman":
		return GlyphRoman
	case "roman_upper":
		return GlyphRomanUpper
	default:
		return GlyphBullet
	}
}
