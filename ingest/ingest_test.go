package ingest

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/doctree"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"quiz.docx", "docx"},
		{"dir/Quiz.DOCX", "docx"},
		{"notes.txt", "txt"},
		{"no-extension", ""},
	}
	for _, tt := range tests {
		if got := FormatOf(tt.path); got != tt.want {
			t.Errorf("FormatOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	for _, format := range []string{"docx", "pdf", "txt", "text"} {
		if _, err := r.Get(format); err != nil {
			t.Errorf("Get(%q): %v", format, err)
		}
	}
	if _, err := r.Get("pptx"); err == nil {
		t.Error("Get(pptx) succeeded, want error")
	}
}

func TestFromText(t *testing.T) {
	d := FromText("[BEGIN#MCQ]\r\n[QUESTION] pick\n\n- <> a\n* b\n1. c\na) d")
	if len(d.Blocks) != 7 {
		t.Fatalf("got %d blocks", len(d.Blocks))
	}

	tests := []struct {
		idx   int
		kind  doctree.BlockKind
		text  string
		glyph doctree.GlyphKind
	}{
		{0, doctree.BlockParagraph, "[BEGIN#MCQ]", 0},
		{1, doctree.BlockParagraph, "[QUESTION] pick", 0},
		{2, doctree.BlockParagraph, "", 0},
		{3, doctree.BlockListItem, "<> a", doctree.GlyphBullet},
		{4, doctree.BlockListItem, "b", doctree.GlyphBullet},
		{5, doctree.BlockListItem, "c", doctree.GlyphNumber},
		{6, doctree.BlockListItem, "d", doctree.GlyphAlpha},
	}
	for _, tt := range tests {
		b := d.Blocks[tt.idx]
		if b.Kind() != tt.kind {
			t.Errorf("block %d kind = %v, want %v", tt.idx, b.Kind(), tt.kind)
			continue
		}
		if got := doctree.PlainText(b); got != tt.text {
			t.Errorf("block %d text = %q, want %q", tt.idx, got, tt.text)
		}
		if item, ok := b.(*doctree.ListItem); ok && item.Glyph != tt.glyph {
			t.Errorf("block %d glyph = %v, want %v", tt.idx, item.Glyph, tt.glyph)
		}
	}
}

func TestTextImporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.txt")
	if err := os.WriteFile(path, []byte("[BEGIN#ESSAY]\n[QUESTION] Discuss."), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := (&TextImporter{}).Import(context.Background(), path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(d.Blocks) != 2 {
		t.Fatalf("got %d blocks", len(d.Blocks))
	}
}

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
<w:body>
<w:p><w:r><w:t>[BEGIN#MCQ]</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">[QUESTION] What is </w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>water</w:t></w:r><w:r><w:t>?</w:t></w:r></w:p>
<w:p><w:r><w:drawing><wp:inline><wp:extent cx="1270000" cy="635000"/><a:graphic><a:blip r:embed="rId10"/></a:graphic></wp:inline></w:drawing></w:r></w:p>
<w:p><w:hyperlink r:id="rId2"><w:r><w:t>reference</w:t></w:r></w:hyperlink></w:p>
<w:p><m:oMath><m:f><m:num><m:r><m:t>1</m:t></m:r></m:num><m:den><m:r><m:t>2</m:t></m:r></m:den></m:f></m:oMath></w:p>
<w:p><w:r><w:t>[OPTIONS]</w:t></w:r></w:p>
<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>&lt;&gt; H2O</w:t></w:r></w:p>
<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>CO2</w:t></w:r></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>left</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>right</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
</w:body>
</w:document>`

const testRelsXML = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com/ref"/>
<Relationship Id="rId10" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`

const testNumberingXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:abstractNum w:abstractNumId="0"><w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/></w:lvl><w:lvl w:ilvl="1"><w:numFmt w:val="decimal"/></w:lvl></w:abstractNum>
<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
</w:numbering>`

var testImageBytes = []byte{0x89, 'P', 'N', 'G', 0, 1, 2, 3}

func writeTestDocx(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quiz.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	entries := map[string][]byte{
		"word/document.xml":            []byte(testDocumentXML),
		"word/_rels/document.xml.rels": []byte(testRelsXML),
		"word/numbering.xml":           []byte(testNumberingXML),
		"word/media/image1.png":        testImageBytes,
	}
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDOCXImport(t *testing.T) {
	d, err := (&DOCXImporter{}).Import(context.Background(), writeTestDocx(t))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(d.Blocks) != 9 {
		t.Fatalf("got %d blocks", len(d.Blocks))
	}

	t.Run("styled runs", func(t *testing.T) {
		p, ok := d.Blocks[1].(*doctree.Paragraph)
		if !ok {
			t.Fatalf("block 2 is %T", d.Blocks[1])
		}
		if len(p.Inlines) != 3 {
			t.Fatalf("got %d inlines", len(p.Inlines))
		}
		first := p.Inlines[0].(*doctree.TextRun)
		if first.Text != "[QUESTION] What is " || !first.Style.IsPlain() {
			t.Errorf("run 1 = %+v", first)
		}
		second := p.Inlines[1].(*doctree.TextRun)
		if second.Text != "water" || !second.Style.Bold {
			t.Errorf("run 2 = %+v", second)
		}
	})

	t.Run("inline image", func(t *testing.T) {
		p := d.Blocks[2].(*doctree.Paragraph)
		if len(p.Inlines) != 1 {
			t.Fatalf("got %d inlines", len(p.Inlines))
		}
		img, ok := p.Inlines[0].(*doctree.InlineImage)
		if !ok {
			t.Fatalf("inline is %T", p.Inlines[0])
		}
		if img.MIME != "image/png" || len(img.Data) != len(testImageBytes) {
			t.Errorf("image = mime %q, %d bytes", img.MIME, len(img.Data))
		}
		// 1270000 and 635000 EMU are 100 x 50 points.
		if img.Width != 100 || img.Height != 50 {
			t.Errorf("size = %gx%g", img.Width, img.Height)
		}
	})

	t.Run("hyperlink", func(t *testing.T) {
		p := d.Blocks[3].(*doctree.Paragraph)
		run := p.Inlines[0].(*doctree.TextRun)
		if run.Text != "reference" || run.Style.LinkURL != "https://example.com/ref" {
			t.Errorf("run = %+v", run)
		}
	})

	t.Run("equation", func(t *testing.T) {
		p := d.Blocks[4].(*doctree.Paragraph)
		eq, ok := p.Inlines[0].(*doctree.Equation)
		if !ok {
			t.Fatalf("inline is %T", p.Inlines[0])
		}
		if len(eq.Nodes) != 1 {
			t.Fatalf("got %d equation nodes", len(eq.Nodes))
		}
		fn, ok := eq.Nodes[0].(*doctree.EqFunction)
		if !ok || fn.Code != "frac" {
			t.Fatalf("node = %+v", eq.Nodes[0])
		}
		num := fn.Args[0][0].(*doctree.EqText)
		den := fn.Args[1][0].(*doctree.EqText)
		if num.Text != "1" || den.Text != "2" {
			t.Errorf("fraction = %s / %s", num.Text, den.Text)
		}
	})

	t.Run("numbered paragraphs become list items", func(t *testing.T) {
		item, ok := d.Blocks[6].(*doctree.ListItem)
		if !ok {
			t.Fatalf("block 7 is %T", d.Blocks[6])
		}
		if doctree.PlainText(item) != "<> H2O" {
			t.Errorf("text = %q", doctree.PlainText(item))
		}
		if item.Glyph != doctree.GlyphBullet {
			t.Errorf("glyph = %v", item.Glyph)
		}
	})

	t.Run("table", func(t *testing.T) {
		table, ok := d.Blocks[8].(*doctree.Table)
		if !ok {
			t.Fatalf("block 9 is %T", d.Blocks[8])
		}
		if len(table.Rows) != 1 || len(table.Rows[0]) != 2 {
			t.Fatalf("shape = %d rows", len(table.Rows))
		}
		if got := doctree.PlainText(table.Rows[0][1].Blocks[0]); got != "right" {
			t.Errorf("cell = %q", got)
		}
	})
}

func TestDOCXImportMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := (&DOCXImporter{}).Import(context.Background(), path); err == nil {
		t.Error("Import succeeded on a DOCX without word/document.xml")
	}
}

func TestGlyphForNumFmt(t *testing.T) {
	tests := []struct {
		fmtVal string
		want   doctree.GlyphKind
	}{
		{"decimal", doctree.GlyphNumber},
		{"lowerLetter", doctree.GlyphAlpha},
		{"upperLetter", doctree.GlyphAlphaUpper},
		{"lowerRoman", doctree.GlyphRoman},
		{"upperRoman", doctree.GlyphRomanUpper},
		{"bullet", doctree.GlyphBullet},
		{"", doctree.GlyphBullet},
	}
	for _, tt := range tests {
		if got := glyphForNumFmt(tt.fmtVal); got != tt.want {
			t.Errorf("glyphForNumFmt(%q) = %v, want %v", tt.fmtVal, got, tt.want)
		}
	}
}
