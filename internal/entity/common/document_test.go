package common

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestCanonicalSortsKeysRecursively(t *testing.T) {
	a, err := ParseDocument([]byte(`{"b":1,"a":{"y":[1,2],"x":"v"}}`))
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}
	b, err := ParseDocument([]byte(`{"a":{"x":"v","y":[1,2]},"b":1}`))
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}

	want := `{"a":{"x":"v","y":[1,2]},"b":1}`
	if got := string(a.Canonical()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if !a.Equal(b) {
		t.Fatal("expected documents with different key order to be equal")
	}
}

func TestCanonicalNumberFormatting(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{name: "integer", value: Int(958879878), expected: "958879878"},
		{name: "fraction", value: Number(0.5), expected: "0.5"},
		{name: "negative", value: Number(-12), expected: "-12"},
		{name: "tiny", value: Number(1e-7), expected: "1e-7"},
		{name: "huge", value: Number(1e21), expected: "1e+21"},
		{name: "nan collapses", value: Number(math.NaN()), expected: "null"},
		{name: "negative zero", value: Number(math.Copysign(0, -1)), expected: "0"},
		{name: "large int64", value: Int64(9007199254740993), expected: "9007199254740993"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := tt.value.MarshalJSON()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(raw) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, raw)
			}
		})
	}
}

func TestNumberLiteralCanonicalForm(t *testing.T) {
	tests := []struct {
		name     string
		literal  string
		expected string
	}{
		{name: "small integer", literal: "10", expected: "10"},
		{name: "beyond float64 precision", literal: "9007199254740993", expected: "9007199254740993"},
		{name: "max uint64", literal: "18446744073709551615", expected: "18446744073709551615"},
		{name: "negative large", literal: "-9223372036854775807", expected: "-9223372036854775807"},
		{name: "integral fraction", literal: "1.0", expected: "1"},
		{name: "negative zero", literal: "-0", expected: "0"},
		{name: "exponent integral", literal: "1E2", expected: "100"},
		{name: "fraction", literal: "0.50", expected: "0.5"},
		{name: "tiny", literal: "0.0000001", expected: "1e-7"},
		{name: "huge", literal: "1e21", expected: "1e+21"},
		{name: "fraction beyond float64", literal: "0.10000000000000000001", expected: "0.10000000000000000001"},
		{name: "exponent out of range", literal: "1e999999999", expected: "1e999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NumberLiteral(tt.literal)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			raw, _ := v.MarshalJSON()
			if string(raw) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, raw)
			}
			again, err := NumberLiteral(string(raw))
			if err != nil || !again.Equal(v) {
				t.Errorf("canonical form %s is not stable (%v)", raw, err)
			}
		})
	}

	for _, bad := range []string{"", "abc", "0x10", "1 ", `"1"`, "true", "[1]"} {
		if _, err := NumberLiteral(bad); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for %q, got %v", bad, err)
		}
	}
}

func TestLargeIntegersSurviveParsing(t *testing.T) {
	a, err := ParseDocument([]byte(`{"doc_id":9007199254740993}`))
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}
	b, err := ParseDocument([]byte(`{"doc_id":9007199254740992}`))
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}
	if a.Equal(b) {
		t.Fatalf("expected distinct documents, both encode as %s", a)
	}
	if got := string(a.Canonical()); got != `{"doc_id":9007199254740993}` {
		t.Errorf("unexpected canonical form %s", got)
	}

	v, err := FromAny(uint64(math.MaxUint64))
	if err != nil {
		t.Fatalf("from uint64: %v", err)
	}
	if text, _ := v.NumberText(); text != "18446744073709551615" {
		t.Errorf("unexpected uint64 text %s", text)
	}
	if _, ok := v.AsInt(); ok {
		t.Error("expected AsInt to refuse a value that overflows int")
	}
	if n, ok := Int64(math.MaxInt64).AsInt(); !ok || n != math.MaxInt64 {
		t.Errorf("expected MaxInt64 as int, got %d (%v)", n, ok)
	}
}

func TestParseDocumentRejectsNonObjects(t *testing.T) {
	inputs := map[string]string{
		"list":   `[1,2,3]`,
		"string": `"fields"`,
		"null":   `null`,
		"number": `10`,
		"empty":  `   `,
		"broken": `{"a":`,
		"two":    `{} {}`,
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDocument([]byte(raw))
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestMergeIsShallowAndKeepsOtherKeys(t *testing.T) {
	doc := Document{
		"fields":  Strings(),
		"indices": Strings("email"),
		"nested":  Map(Document{"a": Int(1), "b": Int(2)}),
	}

	doc.Merge(Document{"docs_per_page": Int(10)})
	doc.Merge(Document{"max_column_width": Int(50)})
	doc.Merge(Document{"nested": Map(Document{"c": Int(3)})})

	if n, ok := doc["docs_per_page"].AsInt(); !ok || n != 10 {
		t.Fatalf("docs_per_page = %v", doc["docs_per_page"])
	}
	if n, ok := doc["max_column_width"].AsInt(); !ok || n != 50 {
		t.Fatalf("max_column_width = %v", doc["max_column_width"])
	}
	indices, ok := doc["indices"].AsStrings()
	if !ok || len(indices) != 1 || indices[0] != "email" {
		t.Fatalf("indices changed: %v", doc["indices"])
	}
	nested, _ := doc["nested"].AsMap()
	if _, ok := nested["a"]; ok {
		t.Fatal("expected nested map to be replaced, not deep-merged")
	}
}

func TestMergeDoesNotAliasPatch(t *testing.T) {
	inner := Document{"x": Int(1)}
	doc := Document{}
	doc.Merge(Document{"inner": Map(inner)})

	inner["x"] = Int(2)

	got, _ := doc["inner"].AsMap()
	if n, _ := got["x"].AsInt(); n != 1 {
		t.Fatalf("expected merged copy to be isolated, got %d", n)
	}
}

func TestDocumentScanAndValue(t *testing.T) {
	doc := Document{"query": Map(Document{"match": Map(Document{"_all": String("958879878")})})}

	stored, err := doc.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var fromString Document
	if err := fromString.Scan(stored); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	var fromBytes Document
	if err := fromBytes.Scan([]byte(stored.(string))); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if !doc.Equal(fromString) || !doc.Equal(fromBytes) {
		t.Fatalf("round trip mismatch: %s / %s", fromString, fromBytes)
	}

	var empty Document
	if err := empty.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty document, got %v", empty)
	}

	var bad Document
	if err := bad.Scan(42); err == nil {
		t.Fatal("expected error scanning unsupported type")
	}
}

func TestFromAnyConvertsPlainValues(t *testing.T) {
	v, err := FromAny(map[string]interface{}{
		"sort":    []interface{}{},
		"version": "true",
		"size":    20,
		"flag":    true,
		"tags":    []string{"a", "b"},
		"missing": nil,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, ok := v.AsMap()
	if !ok {
		t.Fatalf("expected map, got %s", v.Kind())
	}
	want := `{"flag":true,"missing":null,"size":20,"sort":[],"tags":["a","b"],"version":"true"}`
	if got := doc.String(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	if _, err := FromAny(struct{}{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for struct, got %v", err)
	}
}

func TestDocumentJSONInterop(t *testing.T) {
	type wrapper struct {
		Body Document `json:"body"`
	}
	var w wrapper
	if err := json.Unmarshal([]byte(`{"body":{"z":1,"a":[true,null]}}`), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	raw, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"body":{"a":[true,null],"z":1}}` {
		t.Fatalf("unexpected encoding %s", raw)
	}

	if err := json.Unmarshal([]byte(`{"body":[1]}`), &w); err == nil {
		t.Fatal("expected error for non-object body")
	}
}
