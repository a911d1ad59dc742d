// Package paramdiff reports how one parameter set differs from another as
// an RFC 6902 JSON Patch.
package paramdiff

import (
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Op is one JSON Patch operation.
type Op struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value,omitempty"`
}

// Between returns the patch that turns base into target. Both are encoded to
// their JSON form first, so field paths follow the json tags.
func Between(base, target interface{}) ([]Op, error) {
	a, err := toDocument(base)
	if err != nil {
		return nil, err
	}
	b, err := toDocument(target)
	if err != nil {
		return nil, err
	}
	ops := Diff(a, b, "")
	if ops == nil {
		ops = []Op{}
	}
	return ops, nil
}

func toDocument(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Diff compares two decoded JSON documents. Object keys are visited in
// sorted order so the patch is stable. Path is "" for the root.
func Diff(a, b interface{}, path string) []Op {
	if a == nil && b == nil {
		return nil
	}
	if a == nil || b == nil {
		return []Op{{Op: "replace", Path: path, Value: b}}
	}

	aMap, aIsMap := a.(map[string]interface{})
	bMap, bIsMap := b.(map[string]interface{})
	if aIsMap && bIsMap {
		return diffObjects(aMap, bMap, path)
	}

	aArr, aIsArr := a.([]interface{})
	bArr, bIsArr := b.([]interface{})
	if aIsArr && bIsArr {
		return diffArrays(aArr, bArr, path)
	}

	if aIsMap || bIsMap || aIsArr || bIsArr || a != b {
		return []Op{{Op: "replace", Path: path, Value: b}}
	}
	return nil
}

func diffObjects(a, b map[string]interface{}, path string) []Op {
	var ops []Op
	for _, k := range sortedKeys(a) {
		if _, ok := b[k]; !ok {
			ops = append(ops, Op{Op: "remove", Path: path + "/" + escapeKey(k)})
		}
	}
	for _, k := range sortedKeys(b) {
		child := path + "/" + escapeKey(k)
		av, ok := a[k]
		if !ok {
			ops = append(ops, Op{Op: "add", Path: child, Value: b[k]})
			continue
		}
		ops = append(ops, Diff(av, b[k], child)...)
	}
	return ops
}

func diffArrays(a, b []interface{}, path string) []Op {
	var ops []Op
	common := min(len(a), len(b))
	for i := 0; i < common; i++ {
		ops = append(ops, Diff(a[i], b[i], path+"/"+strconv.Itoa(i))...)
	}
	// Removals run from the end so earlier indices stay valid.
	for i := len(a) - 1; i >= common; i-- {
		ops = append(ops, Op{Op: "remove", Path: path + "/" + strconv.Itoa(i)})
	}
	for i := common; i < len(b); i++ {
		ops = append(ops, Op{Op: "add", Path: path + "/" + strconv.Itoa(i), Value: b[i]})
	}
	return ops
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// escapeKey escapes a JSON Pointer token per RFC 6901.
func escapeKey(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
