// edit.go appends paint and text operators to a page and swaps in the
// combined content stream (PRT-6).
//
// Edits accumulate in an Editor and land in one Apply: the original content
// is wrapped in q/Q so its graphics state cannot leak into the appended
// operators, and the whole thing becomes a single new stream object that
// replaces the page's /Contents.
package pdfdoc

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Standard Type1 faces this tool writes replacement text with.
const (
	FontHelvetica     = "Helvetica"
	FontHelveticaBold = "Helvetica-Bold"
)

// Editor batches paint operations against one page.
type Editor struct {
	page *Page
	ops  bytes.Buffer
}

// NewEditor returns an empty edit batch for the page.
func (p *Page) NewEditor() *Editor {
	return &Editor{page: p}
}

// Dirty reports whether the batch holds any operations.
func (e *Editor) Dirty() bool {
	return e.ops.Len() > 0
}

// FillRect paints r, given in top-down page coordinates, filled and stroked
// in the same color so the covered area has no visible seam.
func (e *Editor) FillRect(r Rect, color [3]float64) {
	r = r.Norm()
	x := e.page.fromDeviceX(r.X0)
	y := e.page.fromDeviceY(r.Y1)
	fmt.Fprintf(&e.ops, "q\n%.4f %.4f %.4f rg\n%.4f %.4f %.4f RG\n1 w\n%.2f %.2f %.2f %.2f re\nB\nQ\n",
		color[0], color[1], color[2],
		color[0], color[1], color[2],
		x, y, r.Width(), r.Height())
}

// DrawText places text with its baseline origin at pt, given in top-down
// page coordinates. The face must have been registered via EnsureFont.
func (e *Editor) DrawText(text, fontRes string, size float64, pt Point, color [3]float64) {
	x := e.page.fromDeviceX(pt.X)
	y := e.page.fromDeviceY(pt.Y)
	fmt.Fprintf(&e.ops, "q\nBT\n/%s %.2f Tf\n%.4f %.4f %.4f rg\n%.2f %.2f Td\n(%s) Tj\nET\nQ\n",
		fontRes, size,
		color[0], color[1], color[2],
		x, y, escapeString(text))
}

// Apply wraps the page's original content in q/Q, appends the batched
// operators, and installs the result as the page's single content stream.
func (e *Editor) Apply() error {
	if !e.Dirty() {
		return nil
	}
	p := e.page
	ctx := p.doc.ctx

	var combined bytes.Buffer
	combined.WriteString("q\n")
	combined.Write(p.content)
	combined.WriteString("\nQ\n")
	combined.Write(e.ops.Bytes())

	sd, err := p.contentTemplate()
	if err != nil {
		return err
	}
	sd.Content = combined.Bytes()
	if err := sd.Encode(); err != nil {
		return fmt.Errorf("failed to encode content stream: %w", err)
	}
	ref, err := ctx.IndRefForNewObject(*sd)
	if err != nil {
		return fmt.Errorf("failed to allocate content stream object: %w", err)
	}
	p.dict.Update("Contents", *ref)

	p.content = combined.Bytes()
	p.fonts = loadFonts(ctx, p.res)
	p.invalidate()
	e.ops.Reset()
	return nil
}

// contentTemplate returns a decoded stream dict to reuse for the combined
// content, taken from the page's existing /Contents entry.
func (p *Page) contentTemplate() (*types.StreamDict, error) {
	ctx := p.doc.ctx
	obj := p.dict["Contents"]
	if obj == nil {
		return nil, fmt.Errorf("page %d has no content stream", p.nr)
	}
	if sd, _, err := ctx.DereferenceStreamDict(obj); err == nil && sd != nil {
		if err := sd.Decode(); err != nil {
			return nil, fmt.Errorf("failed to decode content stream: %w", err)
		}
		return sd, nil
	}
	arr, ok := derefArray(ctx, obj)
	if !ok {
		return nil, fmt.Errorf("page %d has an unreadable /Contents entry", p.nr)
	}
	for _, el := range arr {
		if sd, _, err := ctx.DereferenceStreamDict(el); err == nil && sd != nil {
			if err := sd.Decode(); err != nil {
				continue
			}
			return sd, nil
		}
	}
	return nil, fmt.Errorf("page %d has no readable content stream", p.nr)
}

// EnsureFont registers a standard Type1 face on the page and returns its
// resource name. Registering the same face twice reuses the first entry.
func (p *Page) EnsureFont(baseFont string) (string, error) {
	if name, ok := p.ensured[baseFont]; ok {
		return name, nil
	}
	ctx := p.doc.ctx
	res := p.ownResources()

	fonts := types.Dict{}
	if fd, err := ctx.DereferenceDict(res["Font"]); err == nil && fd != nil {
		// Clone so a shared font dict from inherited resources stays
		// untouched.
		for k, v := range fd {
			fonts[k] = v
		}
	}

	name := freshFontName(fonts)
	fd := types.Dict(map[string]types.Object{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name(baseFont),
		"Encoding": types.Name("WinAnsiEncoding"),
	})
	ref, err := ctx.IndRefForNewObject(fd)
	if err != nil {
		return "", fmt.Errorf("failed to register font %s: %w", baseFont, err)
	}
	fonts[name] = *ref
	res.Update("Font", fonts)

	if p.ensured == nil {
		p.ensured = map[string]string{}
	}
	p.ensured[baseFont] = name
	return name, nil
}

func freshFontName(fonts types.Dict) string {
	for i := 1; ; i++ {
		name := fmt.Sprintf("F%d", i)
		if _, ok := fonts[name]; !ok {
			return name
		}
	}
}

// escapeString encodes text as WinAnsi bytes with the escaping a literal
// PDF string needs.
func escapeString(text string) []byte {
	raw := encodeWinAnsi(text)
	out := make([]byte, 0, len(raw)+8)
	for _, b := range raw {
		switch {
		case b == '(' || b == ')' || b == '\\':
			out = append(out, '\\', b)
		case b < 0x20 || b > 0x7E:
			out = append(out, []byte(fmt.Sprintf("\\%03o", b))...)
		default:
			out = append(out, b)
		}
	}
	return out
}
