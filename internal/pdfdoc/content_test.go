package pdfdoc

import (
	"reflect"
	"testing"
)

func TestParseOpsOperands(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Op
	}{
		{
			name: "numbers and operator",
			in:   "1 0 0 -1 0 792 cm",
			want: []Op{{Name: "cm", Args: []Value{1.0, 0.0, 0.0, -1.0, 0.0, 792.0}}},
		},
		{
			name: "fractional and signed numbers",
			in:   ".5 -0.25 +3. rg",
			want: []Op{{Name: "rg", Args: []Value{0.5, -0.25, 3.0}}},
		},
		{
			name: "name operand",
			in:   "/F1 12 Tf",
			want: []Op{{Name: "Tf", Args: []Value{Name("F1"), 12.0}}},
		},
		{
			name: "name with hex escape",
			in:   "/A#20B gs",
			want: []Op{{Name: "gs", Args: []Value{Name("A B")}}},
		},
		{
			name: "literal string",
			in:   "(Hello World) Tj",
			want: []Op{{Name: "Tj", Args: []Value{String("Hello World")}}},
		},
		{
			name: "string escapes",
			in:   `(a\(b\)c\\d\ne) Tj`,
			want: []Op{{Name: "Tj", Args: []Value{String("a(b)c\\d\ne")}}},
		},
		{
			name: "octal escape",
			in:   `(\101\102) Tj`,
			want: []Op{{Name: "Tj", Args: []Value{String("AB")}}},
		},
		{
			name: "nested parens",
			in:   "(a(b)c) Tj",
			want: []Op{{Name: "Tj", Args: []Value{String("a(b)c")}}},
		},
		{
			name: "hex string with odd digits",
			in:   "<48656C6C6F2> Tj",
			want: []Op{{Name: "Tj", Args: []Value{String("Hello ")}}},
		},
		{
			name: "array with kerning",
			in:   "[(He) -50 (llo)] TJ",
			want: []Op{{Name: "TJ", Args: []Value{Array{String("He"), -50.0, String("llo")}}}},
		},
		{
			name: "comment skipped",
			in:   "% note\n1 0 0 rg",
			want: []Op{{Name: "rg", Args: []Value{1.0, 0.0, 0.0}}},
		},
		{
			name: "bare operators",
			in:   "q BT ET Q",
			want: []Op{{Name: "q"}, {Name: "BT"}, {Name: "ET"}, {Name: "Q"}},
		},
		{
			name: "quote operators",
			in:   "(a) ' 1 2 (b) \"",
			want: []Op{
				{Name: "'", Args: []Value{String("a")}},
				{Name: "\"", Args: []Value{1.0, 2.0, String("b")}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOps([]byte(tt.in))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseOps(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseOpsDict(t *testing.T) {
	ops := ParseOps([]byte("<< /Type /ExtGState /CA 0.5 >> gs"))
	if len(ops) != 1 || ops[0].Name != "gs" || len(ops[0].Args) != 1 {
		t.Fatalf("ParseOps() = %#v, want one gs op with one arg", ops)
	}
	d, ok := ops[0].Args[0].(Dict)
	if !ok {
		t.Fatalf("arg type = %T, want Dict", ops[0].Args[0])
	}
	if d["Type"] != Name("ExtGState") {
		t.Errorf("d[Type] = %v, want ExtGState", d["Type"])
	}
	if d["CA"] != 0.5 {
		t.Errorf("d[CA] = %v, want 0.5", d["CA"])
	}
}

func TestParseOpsInlineImage(t *testing.T) {
	in := "q BI /W 2 /H 2 /BPC 8 /CS /RGB ID \x00\x01\x02\xff\xfe\xfd\x10\x11\x12\x20\x21\x22 EI Q 1 0 0 rg"
	ops := ParseOps([]byte(in))
	var names []string
	for _, op := range ops {
		names = append(names, op.Name)
	}
	want := []string{"q", "BI", "Q", "rg"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("op names = %v, want %v", names, want)
	}
}

func TestParseOpsToleratesJunk(t *testing.T) {
	// Stray delimiters and truncated tokens must not derail the scan.
	ops := ParseOps([]byte(") ] >> 1 0 0 rg (unterminated"))
	if len(ops) != 1 || ops[0].Name != "rg" {
		t.Errorf("ParseOps() = %#v, want single rg op", ops)
	}
}
