package merge

import (
	"fmt"
	"reflect"

	"dario.cat/mergo"
)

// TypeMismatchError is the MergeTypeMismatch error kind from spec §4.5:
// the path points at a value whose type can't hold the next segment (e.g.
// indexing into a scalar).
type TypeMismatchError struct {
	Format string
	Path   string
	Dest   any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s merge: path %q: destination is not a container (%T)", e.Format, e.Path, e.Dest)
}

// GetAt navigates doc along segs, returning the value found there, if any.
func GetAt(doc any, segs []Segment) (any, bool) {
	cur := doc
	for _, seg := range segs {
		if seg.IsIndex {
			arr, ok := asSlice(cur)
			if !ok || seg.Index < 0 || seg.Index >= len(arr) {
				return nil, false
			}
			cur = arr[seg.Index]
			continue
		}

		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		v, ok := m[seg.Key]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// SetAt navigates doc along segs and sets value there, creating missing
// intermediate containers along the way (maps for key segments, slices —
// padded with nil — for index segments), per spec §4.5: "On
// destination-not-found at path the operator creates the container chain
// for map/array types." It returns the (possibly new) root, since the root
// itself may need to be created when doc is nil. format is used only for
// TypeMismatchError reporting.
func SetAt(doc any, segs []Segment, value any, format, path string) (any, error) {
	if len(segs) == 0 {
		return value, nil
	}

	seg := segs[0]
	rest := segs[1:]

	if seg.IsIndex {
		arr, ok := asSlice(doc)
		if !ok {
			if doc != nil {
				return nil, &TypeMismatchError{Format: format, Path: path, Dest: doc}
			}
			arr = []any{}
		}
		for len(arr) <= seg.Index {
			arr = append(arr, nil)
		}
		child, err := SetAt(arr[seg.Index], rest, value, format, path)
		if err != nil {
			return nil, err
		}
		arr[seg.Index] = child
		return arr, nil
	}

	m, ok := asMap(doc)
	if !ok {
		if doc != nil {
			return nil, &TypeMismatchError{Format: format, Path: path, Dest: doc}
		}
		m = map[string]any{}
	}
	child, err := SetAt(m[seg.Key], rest, value, format, path)
	if err != nil {
		return nil, err
	}
	m[seg.Key] = child
	return m, nil
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// ArrayMode controls how MergeInto combines array values it finds at any
// depth of the merged subtree (spec §4.5).
type ArrayMode string

const (
	ArrayReplace      ArrayMode = "replace"
	ArrayAppend       ArrayMode = "append"
	ArrayAppendUnique ArrayMode = "append_unique"
)

// MergeInto merges source into dest by key union, recursing into nested
// maps and combining arrays per mode, scalars replaced by source. Both
// dest and source must be the result of GetAt/decoding a document (maps,
// slices, or scalars; nil is treated as "absent").
//
// The heavy lifting is dario.cat/mergo's WithOverride map merge (source
// wins on every key, recursing into nested maps); a Transformer registered
// for the []interface{} type implements the array-mode semantics mergo
// itself doesn't have an opinion on.
func MergeInto(dest, source any, mode ArrayMode) (any, error) {
	if source == nil {
		return dest, nil
	}
	if dest == nil {
		return cloneArraysForMode(source, mode), nil
	}

	destMap, destIsMap := asMap(dest)
	srcMap, srcIsMap := asMap(source)
	if destIsMap && srcIsMap {
		merged, err := mergeMaps(destMap, srcMap, mode)
		if err != nil {
			return nil, err
		}
		return merged, nil
	}

	destArr, destIsArr := asSlice(dest)
	srcArr, srcIsArr := asSlice(source)
	if destIsArr || srcIsArr {
		if !destIsArr {
			destArr = nil
		}
		if !srcIsArr {
			srcArr = nil
		}
		return combineArrays(destArr, srcArr, mode), nil
	}

	// Scalars: source replaces destination.
	return source, nil
}

func mergeMaps(dest, src map[string]any, mode ArrayMode) (map[string]any, error) {
	destCopy := make(map[string]any, len(dest))
	for k, v := range dest {
		destCopy[k] = v
	}

	xformer := &arrayModeTransformer{mode: mode}
	if err := mergo.Merge(&destCopy, src, mergo.WithOverride, mergo.WithTransformers(xformer)); err != nil {
		return nil, fmt.Errorf("merge maps: %w", err)
	}
	return destCopy, nil
}

// arrayModeTransformer teaches mergo how to combine []interface{} values
// according to the operator's configured array mode, instead of mergo's
// default slice behavior.
type arrayModeTransformer struct {
	mode ArrayMode
}

var sliceType = reflect.TypeOf([]any{})

func (t *arrayModeTransformer) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	if typ != sliceType {
		return nil
	}

	return func(dst, src reflect.Value) error {
		if !dst.CanSet() {
			return nil
		}

		destSlice, _ := dst.Interface().([]any)
		srcSlice, _ := src.Interface().([]any)
		merged := combineArrays(destSlice, srcSlice, t.mode)
		dst.Set(reflect.ValueOf(merged))
		return nil
	}
}

// combineArrays implements the array_mode table from spec §4.5:
//   - replace (default): source replaces destination entirely.
//   - append: concatenate destination then source.
//   - append_unique: preserve destination order; add source items not
//     already present in destination by deep value equality.
func combineArrays(dest, src []any, mode ArrayMode) []any {
	switch mode {
	case ArrayAppend:
		out := make([]any, 0, len(dest)+len(src))
		out = append(out, dest...)
		out = append(out, src...)
		return out

	case ArrayAppendUnique:
		out := make([]any, len(dest))
		copy(out, dest)
		for _, v := range src {
			if !containsDeepEqual(out, v) {
				out = append(out, v)
			}
		}
		return out

	default: // ArrayReplace
		out := make([]any, len(src))
		copy(out, src)
		return out
	}
}

func containsDeepEqual(haystack []any, needle any) bool {
	for _, v := range haystack {
		if reflect.DeepEqual(v, needle) {
			return true
		}
	}
	return false
}

// cloneArraysForMode is used when dest is entirely absent: the merged
// result is just source, but array_mode append/append_unique against an
// absent destination still means "whatever source has," so no special
// handling is needed beyond a defensive copy.
func cloneArraysForMode(source any, _ ArrayMode) any {
	return source
}
