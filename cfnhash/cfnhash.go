// Package cfnhash computes canonical digests of JSON-like values.
//
// The digest is order-independent for mapping keys and order-sensitive for
// sequences, so two structurally equal values hash identically regardless of
// how their keys were inserted or serialized. Numbers are normalized before
// hashing: a template decoded from YAML (ints) and the same template decoded
// from JSON (float64s) produce the same digest.
package cfnhash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"sort"
	"strconv"
)

// Digest returns the lowercase hex SHA-256 digest of the canonical form of v.
// It accepts any JSON-like value (nil, bool, number, string, []any,
// map[string]any with unbounded nesting) and never fails.
func Digest(v any) string {
	h := sha256.New()
	visit(h, v)
	return hex.EncodeToString(h.Sum(nil))
}

func visit(h hash.Hash, v any) {
	switch val := v.(type) {
	case nil:
		io.WriteString(h, "null")
	case []any:
		for _, elem := range val {
			visit(h, elem)
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			io.WriteString(h, key)
			visit(h, val[key])
		}
	case string:
		io.WriteString(h, "string")
		io.WriteString(h, val)
	case bool:
		io.WriteString(h, "boolean")
		io.WriteString(h, strconv.FormatBool(val))
	case int:
		writeNumber(h, strconv.FormatInt(int64(val), 10))
	case int64:
		writeNumber(h, strconv.FormatInt(val, 10))
	case float64:
		writeNumber(h, strconv.FormatFloat(val, 'f', -1, 64))
	case json.Number:
		if i, err := val.Int64(); err == nil {
			writeNumber(h, strconv.FormatInt(i, 10))
			return
		}
		if f, err := val.Float64(); err == nil {
			writeNumber(h, strconv.FormatFloat(f, 'f', -1, 64))
			return
		}
		writeNumber(h, val.String())
	default:
		// Non-JSON values cannot appear in a decoded template; hash their
		// printed form so the function still never fails.
		io.WriteString(h, fmt.Sprintf("%T", val))
		io.WriteString(h, fmt.Sprint(val))
	}
}

// writeNumber prefixes the normalized decimal form with a type tag so that
// the number 1 and the string "1" do not collide.
func writeNumber(h hash.Hash, s string) {
	io.WriteString(h, "number")
	io.WriteString(h, s)
}
