// Package pdfdoc reads, searches, edits, and rasterizes PDF documents.
// It layers text extraction, content editing, and page rendering on top
// of pdfcpu's object model so the rest of the application never touches
// raw PDF structures.
//
// document.go wraps a pdfcpu context behind page-oriented accessors (PRT-3).
//
// Coordinates exposed by this package are top-down page space: the origin
// sits at the top-left corner and y grows downward. The flip from PDF's
// bottom-up user space happens at the boundary, in extraction and editing.
package pdfdoc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Document is an open PDF held fully in memory.
type Document struct {
	ctx   *model.Context
	pages map[int]*Page
}

// Page is one page of a Document with its decoded content stream, effective
// resources, and font table.
type Page struct {
	doc *Document
	nr  int

	dict types.Dict
	res  types.Dict
	// inheritedRes is set when res came from an ancestor Pages node, in
	// which case edits must clone it onto the page first.
	inheritedRes bool

	// mediaBox in PDF user space: llx, lly, urx, ury.
	mediaBox [4]float64

	content []byte
	fonts   map[string]*Font
	text    *TextPage
	ensured map[string]string
}

// Open reads and validates a PDF from rs.
func Open(rs io.ReadSeeker) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	return &Document{ctx: ctx, pages: map[int]*Page{}}, nil
}

// OpenBytes reads and validates a PDF held in memory.
func OpenBytes(b []byte) (*Document, error) {
	return Open(bytes.NewReader(b))
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// Close releases the parsed document. The document must not be used
// afterward; bytes already written by Save stay valid.
func (d *Document) Close() {
	d.ctx = nil
	d.pages = nil
}

// Save writes the document, with any edits applied, to w.
func (d *Document) Save(w io.Writer) error {
	if err := api.WriteContext(d.ctx, w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// Page loads page nr (1-based). Pages are cached so repeated lookups during
// a search-then-replace pass see the same state.
func (d *Document) Page(nr int) (*Page, error) {
	if p, ok := d.pages[nr]; ok {
		return p, nil
	}
	if nr < 1 || nr > d.ctx.PageCount {
		return nil, fmt.Errorf("page %d out of range 1..%d", nr, d.ctx.PageCount)
	}

	pageDict, _, inhPAttrs, err := d.ctx.PageDict(nr, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %d: %w", nr, err)
	}
	if pageDict == nil {
		return nil, fmt.Errorf("page %d has no page dictionary", nr)
	}

	p := &Page{doc: d, nr: nr, dict: pageDict}
	p.mediaBox = resolveMediaBox(d.ctx, pageDict, inhPAttrs)

	if res, err := d.ctx.DereferenceDict(pageDict["Resources"]); err == nil && res != nil {
		p.res = res
	} else if inhPAttrs != nil && inhPAttrs.Resources != nil {
		p.res = inhPAttrs.Resources
		p.inheritedRes = true
	}

	if r, err := pdfcpu.ExtractPageContent(d.ctx, nr); err == nil {
		if data, err := io.ReadAll(r); err == nil {
			p.content = data
		}
	}

	p.fonts = loadFonts(d.ctx, p.res)
	d.pages[nr] = p
	return p, nil
}

// resolveMediaBox reads /MediaBox from the page dict, then from inherited
// attributes, defaulting to US Letter when both are absent.
func resolveMediaBox(ctx *model.Context, pageDict types.Dict, inh *model.InheritedPageAttrs) [4]float64 {
	if arr := pageDict.ArrayEntry("MediaBox"); len(arr) == 4 {
		var mb [4]float64
		ok := true
		for i, o := range arr {
			v, valid := derefFloat(ctx, o)
			if !valid {
				ok = false
				break
			}
			mb[i] = v
		}
		if ok {
			return normalizeBox(mb)
		}
	}
	if inh != nil && inh.MediaBox != nil {
		r := inh.MediaBox
		return normalizeBox([4]float64{r.LL.X, r.LL.Y, r.UR.X, r.UR.Y})
	}
	return [4]float64{0, 0, 612, 792}
}

func normalizeBox(mb [4]float64) [4]float64 {
	if mb[0] > mb[2] {
		mb[0], mb[2] = mb[2], mb[0]
	}
	if mb[1] > mb[3] {
		mb[1], mb[3] = mb[3], mb[1]
	}
	return mb
}

// Number reports the 1-based page number.
func (p *Page) Number() int { return p.nr }

// Width returns the page width in points.
func (p *Page) Width() float64 { return p.mediaBox[2] - p.mediaBox[0] }

// Height returns the page height in points.
func (p *Page) Height() float64 { return p.mediaBox[3] - p.mediaBox[1] }

// Bounds returns the page rectangle in top-down coordinates.
func (p *Page) Bounds() Rect {
	return Rect{X0: 0, Y0: 0, X1: p.Width(), Y1: p.Height()}
}

// Content returns the decoded, concatenated content stream bytes.
func (p *Page) Content() []byte { return p.content }

// invalidate drops cached extraction state after a content edit.
func (p *Page) invalidate() {
	p.text = nil
}

// Fonts returns the page's font table keyed by resource name.
func (p *Page) Fonts() map[string]*Font { return p.fonts }

// toDevice maps a point from PDF user space into top-down page space.
func (p *Page) toDevice(x, y float64) (float64, float64) {
	return x - p.mediaBox[0], p.mediaBox[3] - y
}

// fromDeviceY maps a top-down y coordinate back into PDF user space.
func (p *Page) fromDeviceY(y float64) float64 {
	return p.mediaBox[3] - y
}

// fromDeviceX maps a top-down x coordinate back into PDF user space.
func (p *Page) fromDeviceX(x float64) float64 {
	return x + p.mediaBox[0]
}

// ownResources returns the page's resource dict, cloning inherited
// resources onto the page dict first so edits cannot leak into siblings.
func (p *Page) ownResources() types.Dict {
	if p.res == nil {
		p.res = types.Dict{}
		p.dict.Update("Resources", p.res)
		return p.res
	}
	if p.inheritedRes {
		clone := types.Dict{}
		for k, v := range p.res {
			clone[k] = v
		}
		p.res = clone
		p.inheritedRes = false
		p.dict.Update("Resources", p.res)
	}
	return p.res
}

// xObject resolves a named form or image XObject from the given resource
// dict, returning its stream dict.
func (d *Document) xObject(res types.Dict, name string) (*types.StreamDict, error) {
	if res == nil {
		return nil, fmt.Errorf("no resources")
	}
	xd, err := d.ctx.DereferenceDict(res["XObject"])
	if err != nil || xd == nil {
		return nil, fmt.Errorf("no XObject resources")
	}
	sd, _, err := d.ctx.DereferenceStreamDict(xd[name])
	if err != nil || sd == nil {
		return nil, fmt.Errorf("XObject %s not found", name)
	}
	return sd, nil
}
