// fonts.go resolves page font resources into decode and width tables (PRT-4).
package pdfdoc

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// FontDescriptor flag bits per the PDF spec.
const (
	descFlagItalic    = 1 << 6
	descFlagForceBold = 1 << 18
)

// Span style flag bits surfaced to callers. Bold is bit 4.
const (
	StyleItalic = 2
	StyleBold   = 16
)

// Font is one entry of a page's /Font resource dictionary, reduced to what
// text extraction needs: byte-to-rune decoding and advance widths.
type Font struct {
	Res      string
	BaseFont string
	Subtype  string
	Type0    bool
	Bold     bool
	Italic   bool

	firstChar int
	widths    []float64
	missing   float64
	haveW     bool

	dw   float64
	cidW map[uint32]float64

	toUni   map[uint32][]rune
	diff    map[byte]rune
	builtin map[byte]float64
}

// DecodedChar is one character decoded from a string operand: the rune it
// maps to and its advance width in 1/1000 text-space units.
type DecodedChar struct {
	R     rune
	Width float64
}

// Flags reports the span style bits for this font.
func (f *Font) Flags() int {
	fl := 0
	if f.Bold {
		fl |= StyleBold
	}
	if f.Italic {
		fl |= StyleItalic
	}
	return fl
}

// Decode maps raw string-operand bytes to characters with widths. Type0
// fonts consume two bytes per code; simple fonts one.
func (f *Font) Decode(b []byte) []DecodedChar {
	var out []DecodedChar
	if f.Type0 {
		for i := 0; i+1 < len(b); i += 2 {
			code := uint32(b[i])<<8 | uint32(b[i+1])
			out = append(out, DecodedChar{R: f.runeFor(code), Width: f.cidWidth(code)})
		}
		return out
	}
	for _, c := range b {
		out = append(out, DecodedChar{R: f.simpleRune(c), Width: f.simpleWidth(c)})
	}
	return out
}

func (f *Font) runeFor(code uint32) rune {
	if rs, ok := f.toUni[code]; ok && len(rs) > 0 {
		return rs[0]
	}
	if code < 0x110000 {
		return rune(code)
	}
	return '�'
}

func (f *Font) simpleRune(c byte) rune {
	if rs, ok := f.toUni[uint32(c)]; ok && len(rs) > 0 {
		return rs[0]
	}
	if r, ok := f.diff[c]; ok {
		return r
	}
	return winAnsiRune(c)
}

func (f *Font) simpleWidth(c byte) float64 {
	if f.haveW {
		idx := int(c) - f.firstChar
		if idx >= 0 && idx < len(f.widths) {
			return f.widths[idx]
		}
		if f.missing > 0 {
			return f.missing
		}
	}
	if f.builtin != nil {
		if w, ok := f.builtin[c]; ok {
			return w
		}
	}
	if f.missing > 0 {
		return f.missing
	}
	return 500
}

func (f *Font) cidWidth(code uint32) float64 {
	if w, ok := f.cidW[code]; ok {
		return w
	}
	if f.dw > 0 {
		return f.dw
	}
	return 1000
}

// loadFonts builds the font table for a page from its effective resource
// dictionary. Fonts that fail to resolve are dropped rather than failing
// the page.
func loadFonts(ctx *model.Context, res types.Dict) map[string]*Font {
	fonts := map[string]*Font{}
	if res == nil {
		return fonts
	}
	fd, err := ctx.DereferenceDict(res["Font"])
	if err != nil || fd == nil {
		return fonts
	}
	for name, obj := range fd {
		d, err := ctx.DereferenceDict(obj)
		if err != nil || d == nil {
			continue
		}
		if f := parseFont(ctx, name, d); f != nil {
			fonts[name] = f
		}
	}
	return fonts
}

func parseFont(ctx *model.Context, res string, d types.Dict) *Font {
	f := &Font{Res: res, dw: 1000}
	if n, ok := derefName(ctx, d["Subtype"]); ok {
		f.Subtype = n
	}
	if n, ok := derefName(ctx, d["BaseFont"]); ok {
		f.BaseFont = stripSubsetTag(n)
	}
	lower := strings.ToLower(f.BaseFont)
	f.Bold = strings.Contains(lower, "bold")
	f.Italic = strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")

	if f.Subtype == "Type0" {
		f.Type0 = true
		parseType0(ctx, d, f)
	} else {
		parseSimple(ctx, d, f)
	}

	if sd, _, err := ctx.DereferenceStreamDict(d["ToUnicode"]); err == nil && sd != nil {
		if err := sd.Decode(); err == nil {
			f.toUni = parseToUnicode(sd.Content)
		}
	}
	return f
}

func parseSimple(ctx *model.Context, d types.Dict, f *Font) {
	if v, ok := derefInt(ctx, d["FirstChar"]); ok {
		f.firstChar = v
	}
	if arr, ok := derefArray(ctx, d["Widths"]); ok {
		for _, o := range arr {
			w, _ := derefFloat(ctx, o)
			f.widths = append(f.widths, w)
		}
		f.haveW = len(f.widths) > 0
	}
	if desc, err := ctx.DereferenceDict(d["FontDescriptor"]); err == nil && desc != nil {
		if fl, ok := derefInt(ctx, desc["Flags"]); ok {
			if fl&descFlagForceBold != 0 {
				f.Bold = true
			}
			if fl&descFlagItalic != 0 {
				f.Italic = true
			}
		}
		if mw, ok := derefFloat(ctx, desc["MissingWidth"]); ok {
			f.missing = mw
		}
	}
	if enc, err := ctx.Dereference(d["Encoding"]); err == nil && enc != nil {
		if ed, ok := enc.(types.Dict); ok {
			f.diff = parseDifferences(ctx, ed)
		}
	}
	if !f.haveW {
		f.builtin = builtinWidths(f.BaseFont, f.Bold)
	}
}

func parseType0(ctx *model.Context, d types.Dict, f *Font) {
	arr, ok := derefArray(ctx, d["DescendantFonts"])
	if !ok || len(arr) == 0 {
		return
	}
	desc, err := ctx.DereferenceDict(arr[0])
	if err != nil || desc == nil {
		return
	}
	if dw, ok := derefFloat(ctx, desc["DW"]); ok {
		f.dw = dw
	}
	if fd, err := ctx.DereferenceDict(desc["FontDescriptor"]); err == nil && fd != nil {
		if fl, ok := derefInt(ctx, fd["Flags"]); ok {
			if fl&descFlagForceBold != 0 {
				f.Bold = true
			}
			if fl&descFlagItalic != 0 {
				f.Italic = true
			}
		}
	}
	warr, ok := derefArray(ctx, desc["W"])
	if !ok {
		return
	}
	f.cidW = map[uint32]float64{}
	// /W is runs of either "c [w1 w2 ...]" or "c1 c2 w".
	for i := 0; i < len(warr); {
		start, ok := derefInt(ctx, warr[i])
		if !ok {
			break
		}
		i++
		if i >= len(warr) {
			break
		}
		next, err := ctx.Dereference(warr[i])
		if err != nil {
			break
		}
		if list, ok := next.(types.Array); ok {
			for j, o := range list {
				if w, ok := derefFloat(ctx, o); ok {
					f.cidW[uint32(start+j)] = w
				}
			}
			i++
			continue
		}
		end, ok := derefInt(ctx, warr[i])
		if !ok || i+1 >= len(warr) {
			break
		}
		i++
		w, _ := derefFloat(ctx, warr[i])
		i++
		for c := start; c <= end && c-start < 65536; c++ {
			f.cidW[uint32(c)] = w
		}
	}
}

// parseDifferences reads an /Encoding dict's /Differences array into a
// byte-to-rune map via glyph names.
func parseDifferences(ctx *model.Context, enc types.Dict) map[byte]rune {
	arr, ok := derefArray(ctx, enc["Differences"])
	if !ok {
		return nil
	}
	out := map[byte]rune{}
	code := 0
	for _, o := range arr {
		v, err := ctx.Dereference(o)
		if err != nil {
			continue
		}
		switch t := v.(type) {
		case types.Integer:
			code = int(t)
		case types.Name:
			if r, ok := glyphRune(string(t)); ok && code >= 0 && code < 256 {
				out[byte(code)] = r
			}
			code++
		}
	}
	return out
}

// parseToUnicode extracts bfchar and bfrange mappings from a CMap stream.
// The CMap grammar tokenizes the same way content streams do, so the
// content scanner is reused here.
func parseToUnicode(data []byte) map[uint32][]rune {
	out := map[uint32][]rune{}
	for _, op := range ParseOps(data) {
		switch op.Name {
		case "endbfchar":
			for i := 0; i+1 < len(op.Args); i += 2 {
				src, ok1 := op.Args[i].(String)
				dst, ok2 := op.Args[i+1].(String)
				if !ok1 || !ok2 {
					continue
				}
				out[hexCode(src)] = utf16BERunes(dst)
			}
		case "endbfrange":
			for i := 0; i+2 < len(op.Args); i += 3 {
				lo, ok1 := op.Args[i].(String)
				hi, ok2 := op.Args[i+1].(String)
				if !ok1 || !ok2 {
					continue
				}
				loC, hiC := hexCode(lo), hexCode(hi)
				if hiC < loC || hiC-loC > 65535 {
					continue
				}
				switch dst := op.Args[i+2].(type) {
				case String:
					base := utf16BERunes(dst)
					for c := loC; c <= hiC; c++ {
						rs := make([]rune, len(base))
						copy(rs, base)
						if len(rs) > 0 {
							rs[len(rs)-1] += rune(c - loC)
						}
						out[c] = rs
					}
				case Array:
					for j, item := range dst {
						s, ok := item.(String)
						if !ok || loC+uint32(j) > hiC {
							continue
						}
						out[loC+uint32(j)] = utf16BERunes(s)
					}
				}
			}
		}
	}
	return out
}

func hexCode(s String) uint32 {
	var c uint32
	for _, b := range s {
		c = c<<8 | uint32(b)
	}
	return c
}

func utf16BERunes(s String) []rune {
	var out []rune
	for i := 0; i+1 < len(s); i += 2 {
		u := rune(s[i])<<8 | rune(s[i+1])
		if u >= 0xD800 && u <= 0xDBFF && i+3 < len(s) {
			lo := rune(s[i+2])<<8 | rune(s[i+3])
			if lo >= 0xDC00 && lo <= 0xDFFF {
				out = append(out, ((u-0xD800)<<10|(lo-0xDC00))+0x10000)
				i += 2
				continue
			}
		}
		out = append(out, u)
	}
	return out
}

// stripSubsetTag removes the ABCDEF+ prefix embedded subset fonts carry.
func stripSubsetTag(name string) string {
	if len(name) > 7 && name[6] == '+' {
		for i := 0; i < 6; i++ {
			if name[i] < 'A' || name[i] > 'Z' {
				return name
			}
		}
		return name[7:]
	}
	return name
}

// Dereference helpers over pdfcpu object types.

func derefName(ctx *model.Context, o types.Object) (string, bool) {
	v, err := ctx.Dereference(o)
	if err != nil || v == nil {
		return "", false
	}
	if n, ok := v.(types.Name); ok {
		return string(n), true
	}
	return "", false
}

func derefInt(ctx *model.Context, o types.Object) (int, bool) {
	v, err := ctx.Dereference(o)
	if err != nil || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case types.Integer:
		return int(t), true
	case types.Float:
		return int(t), true
	}
	return 0, false
}

func derefFloat(ctx *model.Context, o types.Object) (float64, bool) {
	v, err := ctx.Dereference(o)
	if err != nil || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case types.Integer:
		return float64(t), true
	case types.Float:
		return float64(t), true
	}
	return 0, false
}

func derefArray(ctx *model.Context, o types.Object) (types.Array, bool) {
	v, err := ctx.Dereference(o)
	if err != nil || v == nil {
		return nil, false
	}
	if a, ok := v.(types.Array); ok {
		return a, true
	}
	return nil, false
}
