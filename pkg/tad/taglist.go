package tad

import (
	"fmt"
	"strconv"
)

// Tag is one key/value pair of a TagList.
type Tag struct {
	Key   string
	Value string
}

// TagList is an ordered map of string keys to string values.
// Iteration follows insertion order; setting an existing key replaces its
// value in place. The zero value is an empty list ready to use.
type TagList struct {
	tags  []Tag
	index map[string]int
}

// NewTagList builds a list from key/value pairs given as alternating strings.
func NewTagList(kv ...string) (TagList, error) {
	var tl TagList
	if len(kv)%2 != 0 {
		return tl, fmt.Errorf("%w: odd number of key/value strings", ErrInvalidTag)
	}
	for i := 0; i < len(kv); i += 2 {
		if err := tl.Set(kv[i], kv[i+1]); err != nil {
			return TagList{}, err
		}
	}
	return tl, nil
}

// Len returns the number of tags.
func (tl *TagList) Len() int {
	return len(tl.tags)
}

// Tags returns the tags in insertion order. The slice must not be modified.
func (tl *TagList) Tags() []Tag {
	return tl.tags
}

// Keys returns the keys in insertion order.
func (tl *TagList) Keys() []string {
	keys := make([]string, len(tl.tags))
	for i, t := range tl.tags {
		keys[i] = t.Key
	}
	return keys
}

// Set assigns value to key. Keys must be non-empty and neither keys nor
// values may contain ASCII control characters.
func (tl *TagList) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidTag)
	}
	if !validTagString(key) {
		return fmt.Errorf("%w: control character in key %q", ErrInvalidTag, key)
	}
	if !validTagString(value) {
		return fmt.Errorf("%w: control character in value of %q", ErrInvalidTag, key)
	}
	tl.set(key, value)
	return nil
}

func (tl *TagList) set(key, value string) {
	if i, ok := tl.index[key]; ok {
		tl.tags[i].Value = value
		return
	}
	if tl.index == nil {
		tl.index = make(map[string]int)
	}
	tl.index[key] = len(tl.tags)
	tl.tags = append(tl.tags, Tag{Key: key, Value: value})
}

// Unset removes key if present.
func (tl *TagList) Unset(key string) {
	i, ok := tl.index[key]
	if !ok {
		return
	}
	tl.tags = append(tl.tags[:i], tl.tags[i+1:]...)
	delete(tl.index, key)
	for j := i; j < len(tl.tags); j++ {
		tl.index[tl.tags[j].Key] = j
	}
}

// Clear removes all tags.
func (tl *TagList) Clear() {
	tl.tags = nil
	tl.index = nil
}

// Contains reports whether key is set.
func (tl *TagList) Contains(key string) bool {
	_, ok := tl.index[key]
	return ok
}

// Get returns the value of key and whether it was set.
func (tl *TagList) Get(key string) (string, bool) {
	i, ok := tl.index[key]
	if !ok {
		return "", false
	}
	return tl.tags[i].Value, true
}

// Value returns the value of key, or def if key is not set.
func (tl *TagList) Value(key, def string) string {
	if v, ok := tl.Get(key); ok {
		return v
	}
	return def
}

// Int64 parses the value of key as a signed integer (base prefixes allowed).
func (tl *TagList) Int64(key string) (int64, bool) {
	v, ok := tl.Get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 0, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Uint64 parses the value of key as an unsigned integer (base prefixes allowed).
func (tl *TagList) Uint64(key string) (uint64, bool) {
	v, ok := tl.Get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float64 parses the value of key as a floating point number.
func (tl *TagList) Float64(key string) (float64, bool) {
	v, ok := tl.Get(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool parses the value of key as a boolean (1, t, true, 0, f, false, ...).
func (tl *TagList) Bool(key string) (bool, bool) {
	v, ok := tl.Get(key)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// Equal reports whether both lists hold the same tags in the same order.
func (tl *TagList) Equal(other *TagList) bool {
	if tl.Len() != other.Len() {
		return false
	}
	for i := range tl.tags {
		if tl.tags[i] != other.tags[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of tl.
func (tl *TagList) Clone() TagList {
	var out TagList
	for _, t := range tl.tags {
		out.set(t.Key, t.Value)
	}
	return out
}

func validTagString(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 32 || c == 127 {
			return false
		}
	}
	return true
}
