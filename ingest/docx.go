package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/doctree"
)

// DOCXImporter reads a Word document into the document tree: paragraphs with
// styled runs and hyperlinks, numbering-derived list items, tables with
// recursive cells, embedded images resolved through the relationship part,
// and OMML math mapped onto equation nodes.
type DOCXImporter struct{}

func (i *DOCXImporter) SupportedFormats() []string { return []string{"docx"} }

// emuPerPoint converts OOXML English Metric Units to points.
const emuPerPoint = 12700

func (i *DOCXImporter) Import(ctx context.Context, path string) (*doctree.Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening DOCX: %w", err)
	}
	defer r.Close()

	fileIndex := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileIndex[f.Name] = f
	}

	docFile := fileIndex["word/document.xml"]
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in DOCX")
	}
	data, err := readZipFile(docFile)
	if err != nil {
		return nil, fmt.Errorf("reading document.xml: %w", err)
	}

	dr := &docxReader{
		rels:      parseDocxRels(fileIndex),
		glyphs:    parseDocxNumbering(fileIndex),
		fileIndex: fileIndex,
	}

	blocks, err := dr.parseBody(xml.NewDecoder(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing DOCX XML: %w", err)
	}
	return &doctree.Document{Blocks: blocks}, nil
}

type docxReader struct {
	rels      map[string]string
	glyphs    map[string]map[string]doctree.GlyphKind
	fileIndex map[string]*zip.File
}

// parseBody walks the document stream and collects top-level blocks in
// document order.
func (d *docxReader) parseBody(dec *xml.Decoder) ([]doctree.Block, error) {
	var blocks []doctree.Block
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return blocks, nil
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "p":
			b, err := d.parseParagraph(dec)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, b)
		case "tbl":
			t, err := d.parseTable(dec)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, t)
		}
	}
}

// parseParagraph consumes one <w:p>. A paragraph whose properties carry
// numbering becomes a list item with the glyph looked up in numbering.xml.
func (d *docxReader) parseParagraph(dec *xml.Decoder) (doctree.Block, error) {
	var (
		inlines     []doctree.Inline
		isList      bool
		numID, ilvl string
		link        string
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "numPr":
				isList = true
			case "numId":
				numID = attrVal(t, "val")
			case "ilvl":
				ilvl = attrVal(t, "val")
			case "hyperlink":
				if target, ok := d.rels[attrVal(t, "id")]; ok {
					link = target
				}
			case "r":
				runs, err := d.parseRun(dec, link)
				if err != nil {
					return nil, err
				}
				inlines = append(inlines, runs...)
			case "oMath":
				nodes, err := d.parseEqNodes(dec, "oMath")
				if err != nil {
					return nil, err
				}
				if len(nodes) > 0 {
					inlines = append(inlines, &doctree.Equation{Nodes: nodes})
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "hyperlink":
				link = ""
			case "p":
				if isList {
					return &doctree.ListItem{Inlines: inlines, Glyph: d.glyphFor(numID, ilvl)}, nil
				}
				return &doctree.Paragraph{Inlines: inlines}, nil
			}
		}
	}
}

// parseRun consumes one <w:r>, producing text runs and inline images in the
// order they appear. Style is read from the run properties and applied to
// every text piece of the run.
func (d *docxReader) parseRun(dec *xml.Decoder, link string) ([]doctree.Inline, error) {
	style := doctree.TextStyle{LinkURL: link}
	var (
		out    []doctree.Inline
		text   strings.Builder
		width  float64
		height float64
	)
	flush := func() {
		if text.Len() > 0 {
			out = append(out, &doctree.TextRun{Text: text.String(), Style: style})
			text.Reset()
		}
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "b":
				style.Bold = boolVal(t)
			case "i":
				style.Italic = boolVal(t)
			case "u":
				style.Underline = attrVal(t, "val") != "none"
			case "strike":
				style.Strikethrough = boolVal(t)
			case "vertAlign":
				switch attrVal(t, "val") {
				case "superscript":
					style.Superscript = true
				case "subscript":
					style.Subscript = true
				}
			case "t":
				s, err := readText(dec, "t")
				if err != nil {
					return nil, err
				}
				text.WriteString(s)
			case "extent":
				width = emuAttr(t, "cx")
				height = emuAttr(t, "cy")
			case "blip":
				flush()
				if img := d.loadImage(attrVal(t, "embed"), width, height); img != nil {
					out = append(out, img)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "r" {
				flush()
				return out, nil
			}
		}
	}
}

// parseTable consumes one <w:tbl>, recursing into cells so nested tables and
// cell-level lists survive.
func (d *docxReader) parseTable(dec *xml.Decoder) (*doctree.Table, error) {
	table := &doctree.Table{}
	var row []doctree.TableCell
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tr":
				row = nil
			case "tc":
				cell, err := d.parseCell(dec)
				if err != nil {
					return nil, err
				}
				row = append(row, cell)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tr":
				table.Rows = append(table.Rows, row)
			case "tbl":
				return table, nil
			}
		}
	}
}

func (d *docxReader) parseCell(dec *xml.Decoder) (doctree.TableCell, error) {
	var cell doctree.TableCell
	for {
		tok, err := dec.Token()
		if err != nil {
			return cell, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				b, err := d.parseParagraph(dec)
				if err != nil {
					return cell, err
				}
				cell.Blocks = append(cell.Blocks, b)
			case "tbl":
				nested, err := d.parseTable(dec)
				if err != nil {
					return cell, err
				}
				cell.Blocks = append(cell.Blocks, nested)
			}
		case xml.EndElement:
			if t.Name.Local == "tc" {
				return cell, nil
			}
		}
	}
}

// parseEqNodes maps OMML onto equation nodes: m:t text, m:f fractions,
// m:rad radicals, m:sSup/m:sSub scripts. Unknown wrappers are descended
// through transparently so their text still surfaces.
func (d *docxReader) parseEqNodes(dec *xml.Decoder, parent string) ([]doctree.EqNode, error) {
	var nodes []doctree.EqNode
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				s, err := readText(dec, "t")
				if err != nil {
					return nil, err
				}
				if s != "" {
					nodes = append(nodes, &doctree.EqText{Text: s})
				}
			case "f":
				num, den, err := d.parseEqPair(dec, "f", "num", "den")
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, &doctree.EqFunction{Code: "frac", Args: [][]doctree.EqNode{num, den}})
			case "rad":
				base, deg, err := d.parseEqPair(dec, "rad", "e", "deg")
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, &doctree.EqFunction{Code: "root", Args: [][]doctree.EqNode{base, deg}})
			case "sSup":
				base, sup, err := d.parseEqPair(dec, "sSup", "e", "sup")
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, base...)
				nodes = append(nodes, &doctree.EqFunction{Code: "super", Args: [][]doctree.EqNode{sup}})
			case "sSub":
				base, sub, err := d.parseEqPair(dec, "sSub", "e", "sub")
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, base...)
				nodes = append(nodes, &doctree.EqFunction{Code: "sub", Args: [][]doctree.EqNode{sub}})
			default:
				inner, err := d.parseEqNodes(dec, t.Name.Local)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, inner...)
			}
		case xml.EndElement:
			if t.Name.Local == parent {
				return nodes, nil
			}
		}
	}
}

// parseEqPair consumes a two-slot OMML construct (fraction, radical, script)
// and returns the content of its two named child elements in declared order.
func (d *docxReader) parseEqPair(dec *xml.Decoder, parent, first, second string) (a, b []doctree.EqNode, err error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case first:
				if a, err = d.parseEqNodes(dec, first); err != nil {
					return nil, nil, err
				}
			case second:
				if b, err = d.parseEqNodes(dec, second); err != nil {
					return nil, nil, err
				}
			default:
				if err := dec.Skip(); err != nil {
					return nil, nil, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == parent {
				return a, b, nil
			}
		}
	}
}

func (d *docxReader) loadImage(embedID string, width, height float64) *doctree.InlineImage {
	if embedID == "" {
		return nil
	}
	target, ok := d.rels[embedID]
	if !ok {
		return nil
	}
	mediaPath := filepath.Clean("word/" + target)
	mediaPath = strings.ReplaceAll(mediaPath, "\\", "/")
	zf := d.fileIndex[mediaPath]
	if zf == nil {
		slog.Debug("docx: image file not found in ZIP", "path", mediaPath, "rId", embedID)
		return nil
	}
	data, err := readZipFile(zf)
	if err != nil {
		slog.Debug("docx: reading image failed", "path", mediaPath, "error", err)
		return nil
	}
	return &doctree.InlineImage{
		Data:   data,
		MIME:   mimeForMedia(mediaPath),
		Width:  width,
		Height: height,
	}
}

func (d *docxReader) glyphFor(numID, ilvl string) doctree.GlyphKind {
	levels, ok := d.glyphs[numID]
	if !ok {
		return doctree.GlyphBullet
	}
	if g, ok := levels[ilvl]; ok {
		return g
	}
	if g, ok := levels["0"]; ok {
		return g
	}
	return doctree.GlyphBullet
}

// parseDocxRels reads word/_rels/document.xml.rels into an rId -> target map.
func parseDocxRels(fileIndex map[string]*zip.File) map[string]string {
	relsFile := fileIndex["word/_rels/document.xml.rels"]
	if relsFile == nil {
		return nil
	}
	data, err := readZipFile(relsFile)
	if err != nil {
		return nil
	}
	var rels struct {
		Rels []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil
	}
	out := make(map[string]string, len(rels.Rels))
	for _, rel := range rels.Rels {
		out[rel.ID] = rel.Target
	}
	return out
}

// parseDocxNumbering reads word/numbering.xml into numId -> ilvl -> glyph.
func parseDocxNumbering(fileIndex map[string]*zip.File) map[string]map[string]doctree.GlyphKind {
	numFile := fileIndex["word/numbering.xml"]
	if numFile == nil {
		return nil
	}
	data, err := readZipFile(numFile)
	if err != nil {
		return nil
	}
	var numbering struct {
		AbstractNums []struct {
			ID     string `xml:"abstractNumId,attr"`
			Levels []struct {
				Ilvl   string `xml:"ilvl,attr"`
				NumFmt struct {
					Val string `xml:"val,attr"`
				} `xml:"numFmt"`
			} `xml:"lvl"`
		} `xml:"abstractNum"`
		Nums []struct {
			NumID       string `xml:"numId,attr"`
			AbstractNum struct {
				Val string `xml:"val,attr"`
			} `xml:"abstractNumId"`
		} `xml:"num"`
	}
	if err := xml.Unmarshal(data, &numbering); err != nil {
		return nil
	}

	abstract := make(map[string]map[string]doctree.GlyphKind, len(numbering.AbstractNums))
	for _, an := range numbering.AbstractNums {
		levels := make(map[string]doctree.GlyphKind, len(an.Levels))
		for _, lvl := range an.Levels {
			levels[lvl.Ilvl] = glyphForNumFmt(lvl.NumFmt.Val)
		}
		abstract[an.ID] = levels
	}

	out := make(map[string]map[string]doctree.GlyphKind, len(numbering.Nums))
	for _, num := range numbering.Nums {
		if levels, ok := abstract[num.AbstractNum.Val]; ok {
			out[num.NumID] = levels
		}
	}
	return out
}

func glyphForNumFmt(fmtVal string) doctree.GlyphKind {
	switch fmtVal {
	case "decimal", "decimalZero", "ordinal", "cardinalText", "ordinalText":
		return doctree.GlyphNumber
	case "lowerLetter":
		return doctree.GlyphAlpha
	case "upperLetter":
		return doctree.GlyphAlphaUpper
	case "lowerRoman":
		return doctree.GlyphRoman
	case "upperRoman":
		return doctree.GlyphRomanUpper
	default:
		return doctree.GlyphBullet
	}
}

func mimeForMedia(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".png":
		return "image/png"
	default:
		return "image/png"
	}
}

func readText(dec *xml.Decoder, local string) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local == local {
				return sb.String(), nil
			}
		}
	}
}

func readZipFile(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func attrVal(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// boolVal interprets a toggle property element: present means on unless the
// val attribute negates it.
func boolVal(el xml.StartElement) bool {
	switch attrVal(el, "val") {
	case "0", "false", "none":
		return false
	default:
		return true
	}
}

func emuAttr(el xml.StartElement, local string) float64 {
	v := attrVal(el, local)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return n / emuPerPoint
}
