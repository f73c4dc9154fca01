package flatten

import (
	"errors"
	"strings"
	"testing"
)

func mustDecode(t *testing.T, doc string) Value {
	t.Helper()
	v, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode(%q) error = %v", doc, err)
	}
	return v
}

func TestFlatten_FlatObjectUnchanged(t *testing.T) {
	// Flattening an already-flat object is the identity on its pairs.
	rec := Flatten(mustDecode(t, `{"name":"Acme","total":42,"active":true}`), ".")

	want := map[string]string{
		"name":   "Acme",
		"total":  "42",
		"active": "true",
	}
	if rec.Len() != len(want) {
		t.Fatalf("expected %d keys, got %d (%v)", len(want), rec.Len(), rec.Keys())
	}
	for k, w := range want {
		got, ok := rec.Get(k)
		if !ok {
			t.Errorf("missing key %q", k)
			continue
		}
		if got != w {
			t.Errorf("key %q: got %q, want %q", k, got, w)
		}
	}
}

func TestFlatten_NestedObjects(t *testing.T) {
	rec := Flatten(mustDecode(t, `{"invoice":{"vendor":{"name":"Acme"},"total":99.5}}`), ".")

	wantKeys := []string{"invoice.vendor.name", "invoice.total"}
	gotKeys := rec.Keys()
	if len(gotKeys) != len(wantKeys) {
		t.Fatalf("expected keys %v, got %v", wantKeys, gotKeys)
	}
	for i := range wantKeys {
		if gotKeys[i] != wantKeys[i] {
			t.Errorf("key %d: got %q, want %q", i, gotKeys[i], wantKeys[i])
		}
	}

	if got, _ := rec.Get("invoice.vendor.name"); got != "Acme" {
		t.Errorf("invoice.vendor.name: got %q, want Acme", got)
	}
	if got, _ := rec.Get("invoice.total"); got != "99.5" {
		t.Errorf("invoice.total: got %q, want 99.5", got)
	}
}

func TestFlatten_ArraysIndexExpand(t *testing.T) {
	rec := Flatten(mustDecode(t, `{"items":[{"sku":"a"},{"sku":"b"}],"tags":["red","blue"]}`), ".")

	want := map[string]string{
		"items.0.sku": "a",
		"items.1.sku": "b",
		"tags.0":      "red",
		"tags.1":      "blue",
	}
	for k, w := range want {
		got, ok := rec.Get(k)
		if !ok {
			t.Fatalf("missing key %q in %v", k, rec.Keys())
		}
		if got != w {
			t.Errorf("key %q: got %q, want %q", k, got, w)
		}
	}
}

func TestFlatten_LeafRendering(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		key  string
		want string
	}{
		{name: "null renders empty", doc: `{"a":null}`, key: "a", want: ""},
		{name: "false renders false", doc: `{"a":false}`, key: "a", want: "false"},
		{name: "number keeps literal text", doc: `{"a":1.50}`, key: "a", want: "1.50"},
		{name: "string passes through", doc: `{"a":"$1,234.56"}`, key: "a", want: "$1,234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Flatten(mustDecode(t, tt.doc), ".")
			got, ok := rec.Get(tt.key)
			if !ok {
				t.Fatalf("missing key %q", tt.key)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlatten_TypePassThrough(t *testing.T) {
	// Type coercion is the extraction service's responsibility. When the
	// model returns a string where the schema asked for a number, the value
	// flows through unchanged.
	rec := Flatten(mustDecode(t, `{"accountNumber":"12345"}`), ".")

	got, ok := rec.Get("accountNumber")
	if !ok {
		t.Fatal("missing accountNumber")
	}
	if got != "12345" {
		t.Errorf("got %q, want the original string 12345", got)
	}
}

func TestFlatten_EmptyContainersContributeNoKeys(t *testing.T) {
	rec := Flatten(mustDecode(t, `{"a":{},"b":[],"c":1}`), ".")

	if rec.Len() != 1 {
		t.Fatalf("expected 1 key, got %d (%v)", rec.Len(), rec.Keys())
	}
	if _, ok := rec.Get("c"); !ok {
		t.Error("expected key c to survive")
	}
}

func TestFlatten_RoundTripKeyPaths(t *testing.T) {
	// Splitting each flattened key on the separator must recover the
	// original nesting path. Arrays round-trip as indexed members, not as
	// arrays.
	doc := `{"a":{"b":{"c":1}},"list":[{"x":"v"},{"x":"w"}],"top":true}`
	rec := Flatten(mustDecode(t, doc), ".")

	rebuilt := make(map[string]any)
	for _, key := range rec.Keys() {
		parts := strings.Split(key, ".")
		node := rebuilt
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		val, _ := rec.Get(key)
		node[parts[len(parts)-1]] = val
	}

	a, ok := rebuilt["a"].(map[string]any)
	if !ok {
		t.Fatal("path a lost")
	}
	b, ok := a["b"].(map[string]any)
	if !ok {
		t.Fatal("path a.b lost")
	}
	if b["c"] != "1" {
		t.Errorf("a.b.c: got %v, want 1", b["c"])
	}

	list, ok := rebuilt["list"].(map[string]any)
	if !ok {
		t.Fatal("path list lost")
	}
	first, ok := list["0"].(map[string]any)
	if !ok {
		t.Fatal("path list.0 lost")
	}
	if first["x"] != "v" {
		t.Errorf("list.0.x: got %v, want v", first["x"])
	}

	if rebuilt["top"] != "true" {
		t.Errorf("top: got %v, want true", rebuilt["top"])
	}
}

func TestRecords(t *testing.T) {
	t.Run("single object yields one record", func(t *testing.T) {
		recs, err := Records(mustDecode(t, `{"a":1}`), ".")
		if err != nil {
			t.Fatalf("Records() error = %v", err)
		}
		if len(recs) != 1 {
			t.Fatalf("expected 1 record, got %d", len(recs))
		}
	})

	t.Run("array of objects yields one record each", func(t *testing.T) {
		recs, err := Records(mustDecode(t, `[{"a":1},{"a":2},{"a":3}]`), ".")
		if err != nil {
			t.Fatalf("Records() error = %v", err)
		}
		if len(recs) != 3 {
			t.Fatalf("expected 3 records, got %d", len(recs))
		}
	})

	t.Run("array with scalar element fails", func(t *testing.T) {
		_, err := Records(mustDecode(t, `[{"a":1},2]`), ".")
		if !errors.Is(err, ErrNotTabular) {
			t.Errorf("error = %v, want ErrNotTabular", err)
		}
	})

	t.Run("top-level number fails", func(t *testing.T) {
		_, err := Records(mustDecode(t, `42`), ".")
		if !errors.Is(err, ErrNotTabular) {
			t.Errorf("error = %v, want ErrNotTabular", err)
		}
	})

	t.Run("empty array yields no records", func(t *testing.T) {
		recs, err := Records(mustDecode(t, `[]`), ".")
		if err != nil {
			t.Fatalf("Records() error = %v", err)
		}
		if len(recs) != 0 {
			t.Fatalf("expected 0 records, got %d", len(recs))
		}
	})
}

func TestHeaders_UnionFirstSeen(t *testing.T) {
	recs, err := Records(mustDecode(t, `[{"a":1,"b":2},{"a":3},{"c":4,"a":5}]`), ".")
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}

	got := Headers(recs)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got headers %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("header %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHeaders_Empty(t *testing.T) {
	if got := Headers(nil); len(got) != 0 {
		t.Errorf("Headers(nil) = %v, want empty", got)
	}
}
