package flatten

import (
	"errors"
	"fmt"
	"strconv"
)

// DefaultSeparator joins parent and child keys in flattened paths.
const DefaultSeparator = "."

// ErrNotTabular is returned when a document cannot be converted to rows.
var ErrNotTabular = errors.New("input is not an object or an array of objects")

// Record is a flattened row: scalar leaf values keyed by their joined path.
// Key insertion order is preserved so headers derived from records follow
// document order.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Set stores a value under key, appending the key on first sight.
func (r *Record) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether the key is present.
func (r *Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the record's keys in insertion order.
func (r *Record) Keys() []string {
	return r.keys
}

// Len returns the number of keys in the record.
func (r *Record) Len() int {
	return len(r.keys)
}

// Flatten reduces a JSON value to a single record. Object members join their
// parent key with sep; array elements expand to indexed sub-keys ("items.0",
// "items.1", ...). Scalar leaves stringify: numbers keep their literal JSON
// text, booleans render true/false, null renders empty. Empty objects and
// arrays contribute no keys.
func Flatten(v Value, sep string) *Record {
	if sep == "" {
		sep = DefaultSeparator
	}
	rec := NewRecord()
	walk(v, "", sep, rec)
	return rec
}

func walk(v Value, prefix, sep string, rec *Record) {
	switch v.Kind {
	case KindObject:
		for _, m := range v.Members {
			walk(m.Value, joinKey(prefix, m.Key, sep), sep, rec)
		}
	case KindArray:
		for i, e := range v.Elems {
			walk(e, joinKey(prefix, strconv.Itoa(i), sep), sep, rec)
		}
	default:
		rec.Set(prefix, leafString(v))
	}
}

func joinKey(prefix, key, sep string) string {
	if prefix == "" {
		return key
	}
	return prefix + sep + key
}

func leafString(v Value) string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num.String()
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		// Null leaves render empty.
		return ""
	}
}

// Records converts a decoded document into one flattened record per row.
// A top-level object yields a single record; a top-level array yields one
// record per element, where every element must itself be an object.
func Records(doc Value, sep string) ([]*Record, error) {
	switch doc.Kind {
	case KindObject:
		return []*Record{Flatten(doc, sep)}, nil
	case KindArray:
		recs := make([]*Record, 0, len(doc.Elems))
		for i, e := range doc.Elems {
			if e.Kind != KindObject {
				return nil, fmt.Errorf("%w: element %d is %s", ErrNotTabular, i, e.Kind)
			}
			recs = append(recs, Flatten(e, sep))
		}
		return recs, nil
	default:
		return nil, fmt.Errorf("%w: top-level value is %s", ErrNotTabular, doc.Kind)
	}
}

// Headers returns the union of keys across records in first-seen order.
func Headers(records []*Record) []string {
	var headers []string
	seen := make(map[string]struct{})
	for _, rec := range records {
		for _, k := range rec.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			headers = append(headers, k)
		}
	}
	return headers
}
