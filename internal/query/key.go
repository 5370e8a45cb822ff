package query

import (
	"sort"
	"strings"
)

// Key addresses one cache slot. It is a canonicalized string of the form
// "op" or "op|k=v&k=v" with parameters in deterministic order, so two
// structurally equal operation+parameter sets always produce the same
// key regardless of the order parameters were supplied in.
type Key string

// NewKey builds a canonical key for an operation and its parameters.
// Empty parameter values are dropped, matching "no filter".
func NewKey(op string, params map[string]string) Key {
	names := make([]string, 0, len(params))
	for name, value := range params {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return Key(op)
	}
	sort.Strings(names)

	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = name + "=" + params[name]
	}
	return Key(op + "|" + strings.Join(pairs, "&"))
}

// Op returns the operation segment of the key.
func (k Key) Op() string {
	s := string(k)
	if i := strings.IndexByte(s, '|'); i >= 0 {
		return s[:i]
	}
	return s
}

// HasPrefix reports whether the key belongs to the given prefix. The
// match is segment-aware: prefix "tasks" covers "tasks" and
// "tasks|status=TODO" but not "tasksarchive".
func (k Key) HasPrefix(prefix string) bool {
	s := string(k)
	return s == prefix || strings.HasPrefix(s, prefix+"|")
}
