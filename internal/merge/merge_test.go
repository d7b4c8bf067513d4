package merge

import (
	"reflect"
	"testing"
)

func TestGetSetAtRoundTrip(t *testing.T) {
	var doc any

	segs, err := ParsePath("spec.replicas")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}

	doc, err = SetAt(doc, segs, 3, "yaml", "spec.replicas")
	if err != nil {
		t.Fatalf("SetAt: %v", err)
	}

	got, ok := GetAt(doc, segs)
	if !ok {
		t.Fatal("GetAt: not found after SetAt")
	}
	if got != 3 {
		t.Fatalf("GetAt = %v, want 3", got)
	}
}

func TestSetAtCreatesArrayChain(t *testing.T) {
	var doc any

	segs, err := ParsePath("items[2].name")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}

	doc, err = SetAt(doc, segs, "third", "yaml", "items[2].name")
	if err != nil {
		t.Fatalf("SetAt: %v", err)
	}

	m := doc.(map[string]any)
	items := m["items"].([]any)
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3 (padded)", len(items))
	}
	if items[0] != nil || items[1] != nil {
		t.Fatalf("padding slots should be nil, got %#v", items)
	}
	entry := items[2].(map[string]any)
	if entry["name"] != "third" {
		t.Fatalf("entry[name] = %v, want third", entry["name"])
	}
}

func TestSetAtTypeMismatch(t *testing.T) {
	doc := any("a scalar string")
	segs, _ := ParsePath("nested")

	if _, err := SetAt(doc, segs, 1, "yaml", "nested"); err == nil {
		t.Fatal("expected TypeMismatchError indexing into a scalar")
	} else if _, ok := err.(*TypeMismatchError); !ok {
		t.Fatalf("expected *TypeMismatchError, got %T", err)
	}
}

// S3: YAML merge with array_mode=append_unique (spec §8 scenario S3).
func TestMergeIntoAppendUnique(t *testing.T) {
	dest := map[string]any{
		"tags": []any{"a", "b"},
		"name": "original",
	}
	source := map[string]any{
		"tags": []any{"b", "c"},
		"name": "updated",
	}

	merged, err := MergeInto(dest, source, ArrayAppendUnique)
	if err != nil {
		t.Fatalf("MergeInto: %v", err)
	}

	m := merged.(map[string]any)
	if m["name"] != "updated" {
		t.Fatalf("name = %v, want updated", m["name"])
	}

	tags := m["tags"].([]any)
	want := []any{"a", "b", "c"}
	if !reflect.DeepEqual(tags, want) {
		t.Fatalf("tags = %#v, want %#v", tags, want)
	}
}

func TestMergeIntoAppend(t *testing.T) {
	dest := map[string]any{"list": []any{"a", "b"}}
	source := map[string]any{"list": []any{"b", "c"}}

	merged, err := MergeInto(dest, source, ArrayAppend)
	if err != nil {
		t.Fatalf("MergeInto: %v", err)
	}

	got := merged.(map[string]any)["list"].([]any)
	want := []any{"a", "b", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("list = %#v, want %#v", got, want)
	}
}

func TestMergeIntoReplace(t *testing.T) {
	dest := map[string]any{"list": []any{"a", "b"}}
	source := map[string]any{"list": []any{"z"}}

	merged, err := MergeInto(dest, source, ArrayReplace)
	if err != nil {
		t.Fatalf("MergeInto: %v", err)
	}

	got := merged.(map[string]any)["list"].([]any)
	want := []any{"z"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("list = %#v, want %#v", got, want)
	}
}

// property 5: merge is associative/order-independent on disjoint key paths.
func TestMergeIntoDisjointKeysAreOrderIndependent(t *testing.T) {
	base := map[string]any{"a": 1}

	left, err := MergeInto(base, map[string]any{"b": 2}, ArrayReplace)
	if err != nil {
		t.Fatalf("MergeInto: %v", err)
	}
	left, err = MergeInto(left, map[string]any{"c": 3}, ArrayReplace)
	if err != nil {
		t.Fatalf("MergeInto: %v", err)
	}

	right, err := MergeInto(base, map[string]any{"c": 3}, ArrayReplace)
	if err != nil {
		t.Fatalf("MergeInto: %v", err)
	}
	right, err = MergeInto(right, map[string]any{"b": 2}, ArrayReplace)
	if err != nil {
		t.Fatalf("MergeInto: %v", err)
	}

	if !reflect.DeepEqual(left, right) {
		t.Fatalf("merge order produced different results: %#v vs %#v", left, right)
	}
}

func TestMergeIntoNestedMaps(t *testing.T) {
	dest := map[string]any{
		"metadata": map[string]any{
			"labels": map[string]any{"app": "old"},
			"name":   "svc",
		},
	}
	source := map[string]any{
		"metadata": map[string]any{
			"labels": map[string]any{"app": "new", "tier": "backend"},
		},
	}

	merged, err := MergeInto(dest, source, ArrayReplace)
	if err != nil {
		t.Fatalf("MergeInto: %v", err)
	}

	md := merged.(map[string]any)["metadata"].(map[string]any)
	if md["name"] != "svc" {
		t.Fatalf("name should survive untouched, got %v", md["name"])
	}
	labels := md["labels"].(map[string]any)
	if labels["app"] != "new" || labels["tier"] != "backend" {
		t.Fatalf("labels = %#v, want app=new tier=backend", labels)
	}
}

func TestMergeIntoScalarReplace(t *testing.T) {
	merged, err := MergeInto("old", "new", ArrayReplace)
	if err != nil {
		t.Fatalf("MergeInto: %v", err)
	}
	if merged != "new" {
		t.Fatalf("merged = %v, want new", merged)
	}
}

func TestMergeIntoSourceAbsentKeepsDest(t *testing.T) {
	dest := map[string]any{"a": 1}
	merged, err := MergeInto(dest, nil, ArrayReplace)
	if err != nil {
		t.Fatalf("MergeInto: %v", err)
	}
	if !reflect.DeepEqual(merged, dest) {
		t.Fatalf("merged = %#v, want unchanged dest %#v", merged, dest)
	}
}
