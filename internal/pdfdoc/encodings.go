// encodings.go holds the WinAnsi byte tables, glyph-name lookups, and the
// builtin Helvetica metrics used when a font declares no /Widths (PRT-4).
package pdfdoc

import (
	"strconv"
	"strings"
)

// cp1252High maps bytes 0x80..0x9F, the range where WinAnsi diverges from
// Latin-1. Zero entries are undefined codepoints.
var cp1252High = [32]rune{
	0x20AC, 0, 0x201A, 0x0192, 0x201E, 0x2026, 0x2020, 0x2021,
	0x02C6, 0x2030, 0x0160, 0x2039, 0x0152, 0, 0x017D, 0,
	0, 0x2018, 0x2019, 0x201C, 0x201D, 0x2022, 0x2013, 0x2014,
	0x02DC, 0x2122, 0x0161, 0x203A, 0x0153, 0, 0x017E, 0x0178,
}

var winAnsiByRune map[rune]byte

func init() {
	winAnsiByRune = make(map[rune]byte, 224)
	for b := 0x20; b < 0x100; b++ {
		r := winAnsiRune(byte(b))
		if r != 0 {
			winAnsiByRune[r] = byte(b)
		}
	}
}

// winAnsiRune decodes one WinAnsi byte.
func winAnsiRune(b byte) rune {
	switch {
	case b < 0x80:
		return rune(b)
	case b < 0xA0:
		return cp1252High[b-0x80]
	default:
		return rune(b)
	}
}

// encodeWinAnsi maps a string to WinAnsi bytes, substituting '?' for
// characters the codepage cannot express.
func encodeWinAnsi(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := winAnsiByRune[r]; ok {
			out = append(out, b)
		} else {
			out = append(out, '?')
		}
	}
	return out
}

// glyphRune resolves an Adobe glyph name to its character. Single-letter
// names map to themselves and uniXXXX names parse their codepoint.
func glyphRune(name string) (rune, bool) {
	if len(name) == 1 {
		return rune(name[0]), true
	}
	if len(name) == 7 && name[:3] == "uni" {
		if v, err := strconv.ParseUint(name[3:], 16, 32); err == nil {
			return rune(v), true
		}
	}
	if r, ok := glyphNames[name]; ok {
		return r, true
	}
	return 0, false
}

var glyphNames = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+',
	"comma": ',', "hyphen": '-', "period": '.', "slash": '/',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=',
	"greater": '>', "question": '?', "at": '@',
	"bracketleft": '[', "backslash": '\\', "bracketright": ']',
	"asciicircum": '^', "underscore": '_', "grave": '`',
	"braceleft": '{', "bar": '|', "braceright": '}', "asciitilde": '~',
	"exclamdown": 0xA1, "cent": 0xA2, "sterling": 0xA3, "currency": 0xA4,
	"yen": 0xA5, "brokenbar": 0xA6, "section": 0xA7, "dieresis": 0xA8,
	"copyright": 0xA9, "ordfeminine": 0xAA, "guillemotleft": 0xAB,
	"logicalnot": 0xAC, "registered": 0xAE, "macron": 0xAF,
	"degree": 0xB0, "plusminus": 0xB1, "acute": 0xB4, "mu": 0xB5,
	"paragraph": 0xB6, "periodcentered": 0xB7, "cedilla": 0xB8,
	"ordmasculine": 0xBA, "guillemotright": 0xBB, "onequarter": 0xBC,
	"onehalf": 0xBD, "threequarters": 0xBE, "questiondown": 0xBF,
	"Agrave": 0xC0, "Aacute": 0xC1, "Acircumflex": 0xC2, "Atilde": 0xC3,
	"Adieresis": 0xC4, "Aring": 0xC5, "AE": 0xC6, "Ccedilla": 0xC7,
	"Egrave": 0xC8, "Eacute": 0xC9, "Ecircumflex": 0xCA, "Edieresis": 0xCB,
	"Igrave": 0xCC, "Iacute": 0xCD, "Icircumflex": 0xCE, "Idieresis": 0xCF,
	"Eth": 0xD0, "Ntilde": 0xD1, "Ograve": 0xD2, "Oacute": 0xD3,
	"Ocircumflex": 0xD4, "Otilde": 0xD5, "Odieresis": 0xD6, "multiply": 0xD7,
	"Oslash": 0xD8, "Ugrave": 0xD9, "Uacute": 0xDA, "Ucircumflex": 0xDB,
	"Udieresis": 0xDC, "Yacute": 0xDD, "Thorn": 0xDE, "germandbls": 0xDF,
	"agrave": 0xE0, "aacute": 0xE1, "acircumflex": 0xE2, "atilde": 0xE3,
	"adieresis": 0xE4, "aring": 0xE5, "ae": 0xE6, "ccedilla": 0xE7,
	"egrave": 0xE8, "eacute": 0xE9, "ecircumflex": 0xEA, "edieresis": 0xEB,
	"igrave": 0xEC, "iacute": 0xED, "icircumflex": 0xEE, "idieresis": 0xEF,
	"eth": 0xF0, "ntilde": 0xF1, "ograve": 0xF2, "oacute": 0xF3,
	"ocircumflex": 0xF4, "otilde": 0xF5, "odieresis": 0xF6, "divide": 0xF7,
	"oslash": 0xF8, "ugrave": 0xF9, "uacute": 0xFA, "ucircumflex": 0xFB,
	"udieresis": 0xFC, "yacute": 0xFD, "thorn": 0xFE, "ydieresis": 0xFF,
	"Euro": 0x20AC, "bullet": 0x2022, "endash": 0x2013, "emdash": 0x2014,
	"quotedblleft": 0x201C, "quotedblright": 0x201D, "quoteleft": 0x2018,
	"quoteright": 0x2019, "quotesinglbase": 0x201A, "quotedblbase": 0x201E,
	"ellipsis": 0x2026, "trademark": 0x2122, "fi": 0xFB01, "fl": 0xFB02,
	"dagger": 0x2020, "daggerdbl": 0x2021, "perthousand": 0x2030,
	"Scaron": 0x0160, "scaron": 0x0161, "guilsinglleft": 0x2039,
	"guilsinglright": 0x203A, "OE": 0x0152, "oe": 0x0153,
	"Ydieresis": 0x0178, "Zcaron": 0x017D, "zcaron": 0x017E,
	"florin": 0x0192, "circumflex": 0x02C6, "tilde": 0x02DC,
	"minus": 0x2212, "nbspace": 0xA0,
}

// Advance widths for the two Helvetica faces this tool writes with, in
// 1/1000 em for codes 0x20..0x7E. Values follow the Adobe AFM files.
var helveticaWidths = [95]float64{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333,
	278, 278, 556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278,
	584, 584, 584, 556, 1015, 667, 667, 722, 722, 667, 611, 778, 722, 278,
	500, 667, 556, 833, 722, 778, 667, 778, 722, 667, 611, 722, 667, 944,
	667, 667, 611, 278, 278, 278, 469, 556, 333, 556, 556, 500, 556, 556,
	278, 556, 556, 222, 222, 500, 222, 833, 556, 556, 556, 556, 333, 500,
	278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
}

var helveticaBoldWidths = [95]float64{
	278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333,
	278, 278, 556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333,
	584, 584, 584, 611, 975, 722, 722, 722, 722, 667, 611, 778, 722, 278,
	556, 722, 611, 833, 722, 778, 667, 778, 722, 667, 611, 722, 667, 944,
	667, 667, 611, 333, 278, 333, 584, 556, 333, 556, 611, 556, 611, 556,
	333, 611, 611, 278, 278, 556, 278, 889, 611, 611, 611, 611, 389, 556,
	333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584,
}

// builtinWidths returns standard-14 metrics matching the base font name,
// or nil when the face is not one this tool knows.
func builtinWidths(baseFont string, bold bool) map[byte]float64 {
	lower := strings.ToLower(baseFont)
	switch {
	case strings.Contains(lower, "courier") || strings.Contains(lower, "mono"):
		out := make(map[byte]float64, 95)
		for b := 0x20; b <= 0x7E; b++ {
			out[byte(b)] = 600
		}
		return out
	case strings.Contains(lower, "helvetica") || strings.Contains(lower, "arial"):
		tbl := &helveticaWidths
		if bold {
			tbl = &helveticaBoldWidths
		}
		out := make(map[byte]float64, 95)
		for i, w := range tbl {
			out[byte(0x20+i)] = w
		}
		return out
	}
	return nil
}
