package config

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		plain   any
		want    Value
		wantErr bool
	}{
		{name: "bool", kind: KindBool, plain: true, want: Bool(true)},
		{name: "int from json", kind: KindInt, plain: json.Number("42"), want: Int(42)},
		{name: "int from yaml", kind: KindInt, plain: 42, want: Int(42)},
		{name: "float from json", kind: KindFloat, plain: json.Number("1.5"), want: Float(1.5)},
		{name: "float with exponent", kind: KindFloat, plain: json.Number("1e2"), want: Float(100)},
		{name: "string", kind: KindString, plain: "x", want: String("x")},
		{name: "string list", kind: KindStringList, plain: []any{"a", "b"}, want: StringList{"a", "b"}},
		{name: "empty string list", kind: KindStringList, plain: []any{}, want: StringList{}},
		{name: "color list", kind: KindColorList, plain: []any{[]any{1, 2, 3}}, want: ColorList{{1, 2, 3}}},
		{name: "rect", kind: KindRect, plain: []any{1, 2, 3, 4}, want: NewRect(1, 2, 3, 4)},
		{name: "empty rect", kind: KindRect, plain: []any{}, want: Rect{}},

		{name: "float for int", kind: KindInt, plain: json.Number("3.0"), wantErr: true},
		{name: "int for float", kind: KindFloat, plain: json.Number("3"), wantErr: true},
		{name: "number for bool", kind: KindBool, plain: 1, wantErr: true},
		{name: "mixed list", kind: KindStringList, plain: []any{"a", 1}, wantErr: true},
		{name: "short color", kind: KindColorList, plain: []any{[]any{1, 2}}, wantErr: true},
		{name: "float in rect", kind: KindRect, plain: []any{1.5}, wantErr: true},
		{name: "object for string", kind: KindString, plain: map[string]any{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.kind, tt.plain)
			if tt.wantErr {
				if !errors.Is(err, ErrShapeMismatch) {
					t.Errorf("Decode() error = %v, want ErrShapeMismatch", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestInfer(t *testing.T) {
	tests := []struct {
		name  string
		plain any
		want  Kind
	}{
		{"bool", false, KindBool},
		{"int", json.Number("7"), KindInt},
		{"float", json.Number("7.5"), KindFloat},
		{"string", "s", KindString},
		{"strings", []any{"a"}, KindStringList},
		{"ints", []any{1, 2}, KindOpaque},
		{"object", map[string]any{"a": 1}, KindOpaque},
		{"null", nil, KindOpaque},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Infer(tt.plain).Kind(); got != tt.want {
				t.Errorf("Infer(%#v) kind = %s, want %s", tt.plain, got, tt.want)
			}
		})
	}
}

func TestParseText(t *testing.T) {
	tests := []struct {
		kind    Kind
		text    string
		want    Value
		wantErr bool
	}{
		{kind: KindString, text: " keep spaces ", want: String(" keep spaces ")},
		{kind: KindBool, text: "true", want: Bool(true)},
		{kind: KindBool, text: "0", want: Bool(false)},
		{kind: KindInt, text: "45", want: Int(45)},
		{kind: KindFloat, text: "12.5", want: Float(12.5)},
		{kind: KindStringList, text: "QM, KG", want: StringList{"QM", "KG"}},
		{kind: KindStringList, text: `["orig","ts"]`, want: StringList{"orig", "ts"}},
		{kind: KindColorList, text: "[[1,2,3],[4,5,6]]", want: ColorList{{1, 2, 3}, {4, 5, 6}}},
		{kind: KindRect, text: "[0,0,640,120]", want: NewRect(0, 0, 640, 120)},

		{kind: KindBool, text: "maybe", wantErr: true},
		{kind: KindInt, text: "4.5", wantErr: true},
		{kind: KindInt, text: "forty", wantErr: true},
		{kind: KindColorList, text: "[[1,2]]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.text, func(t *testing.T) {
			got, err := ParseText(tt.kind, tt.text)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseText() = %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseText() error = %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("ParseText() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestPlainAndFormat(t *testing.T) {
	colors := ColorList{{0, 255, 255}}

	want := []any{[]any{0, 255, 255}}
	if diff := cmp.Diff(want, Plain(colors)); diff != "" {
		t.Errorf("Plain() mismatch (-want +got):\n%s", diff)
	}

	if got := Format(colors); got != "[[0,255,255]]" {
		t.Errorf("Format() = %q", got)
	}
	if got := Format(Float(30)); got != "30" {
		t.Errorf("Format(Float) = %q, want 30", got)
	}
	if got := Format(Rect{}); got != "[]" {
		t.Errorf("Format(Rect{}) = %q, want []", got)
	}
}

func TestEqual(t *testing.T) {
	if Equal(Int(1), Float(1)) {
		t.Error("Int and Float compared equal")
	}
	if !Equal(Opaque{V: map[string]any{"a": []any{1}}}, Opaque{V: map[string]any{"a": []any{1}}}) {
		t.Error("identical opaque values compared unequal")
	}
	if Equal(StringList{"a"}, nil) {
		t.Error("value compared equal to nil")
	}
}
