package record

import (
	"errors"
	"reflect"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected string
	}{
		{"empty", Record{}, "{}"},
		{"single", Record{{"name", "bob"}}, "{'name': 'bob'}"},
		{"multiple", Record{{"a", "1"}, {"b", "2"}}, "{'a': '1', 'b': '2'}"},
		{"empty value", Record{{"a", ""}}, "{'a': ''}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.record); got != tt.expected {
				t.Errorf("Encode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	records := []Record{
		{},
		{{"name", "bob"}},
		{{"field0", "abc def"}, {"field1", "0123456789"}, {"field2", "x-y_z.!?"}},
		{{"b", "2"}, {"a", "1"}},
	}

	for _, mode := range []DecodeMode{Lenient, Strict} {
		for _, r := range records {
			got, err := Decode(Encode(r), mode)
			if err != nil {
				t.Fatalf("%s: Decode(Encode(%v)) failed: %v", mode, r, err)
			}
			if !reflect.DeepEqual(got, r) {
				t.Errorf("%s: round trip mismatch: got %v, want %v", mode, got, r)
			}
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		mode     DecodeMode
		expected Record
		wantErr  bool
	}{
		{name: "no braces", payload: "no braces", wantErr: true},
		{name: "missing close", payload: "{'a': '1'", wantErr: true},
		{name: "single brace", payload: "{", wantErr: true},
		{name: "empty", payload: "{}", expected: Record{}},
		{name: "loose whitespace", payload: "{ 'a'  :'1' ,\n'b':   '2' }", expected: Record{{"a", "1"}, {"b", "2"}}},
		{name: "garbage dropped", payload: "{'a': '1', junk, 'b': '2'}", expected: Record{{"a", "1"}, {"b", "2"}}},
		{name: "garbage rejected", payload: "{'a': '1', junk, 'b': '2'}", mode: Strict, wantErr: true},
		{name: "trailing garbage rejected", payload: "{'a': '1' junk}", mode: Strict, wantErr: true},
		{name: "only garbage", payload: "{junk}", expected: Record{}},
		{name: "duplicate name", payload: "{'a': '1', 'b': '2', 'a': '3'}", expected: Record{{"a", "3"}, {"b", "2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.payload, tt.mode)
			if tt.wantErr {
				var fe *FormatError
				if !errors.As(err, &fe) {
					t.Fatalf("expected FormatError, got %v", err)
				}
				if got != nil {
					t.Errorf("expected no record on error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Decode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestOverlay(t *testing.T) {
	stored := Record{{"a", "1"}, {"b", "2"}}

	got := stored.Overlay(Record{{"b", "9"}, {"c", "7"}})
	if want := (Record{{"a", "1"}, {"b", "9"}}); !reflect.DeepEqual(got, want) {
		t.Errorf("Overlay() = %v, want %v", got, want)
	}

	// The receiver is not modified
	if v, _ := stored.Get("b"); v != "2" {
		t.Errorf("Overlay modified the original record: b=%s", v)
	}
}

func TestGetAndNames(t *testing.T) {
	r := Record{{"x", "1"}, {"y", "2"}}

	if v, ok := r.Get("y"); !ok || v != "2" {
		t.Errorf("Get(y) = %q, %v", v, ok)
	}
	if _, ok := r.Get("z"); ok {
		t.Errorf("Get(z) reported a missing field as present")
	}
	if names := r.Names(); !reflect.DeepEqual(names, []string{"x", "y"}) {
		t.Errorf("Names() = %v", names)
	}
}

func TestParseDecodeMode(t *testing.T) {
	for in, want := range map[string]DecodeMode{"": Lenient, "lenient": Lenient, "STRICT": Strict} {
		got, err := ParseDecodeMode(in)
		if err != nil || got != want {
			t.Errorf("ParseDecodeMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseDecodeMode("fuzzy"); err == nil {
		t.Errorf("expected error for unknown mode")
	}
}
