// Package filter holds the predicate chains list pages run over rows they
// have already fetched.
package filter

import "strings"

// All is the select value that disables an enum filter.
const All = "All"

type Predicate[T any] func(T) bool

// Apply keeps the items accepted by every predicate, in source order. The
// result is never nil so templates and JSON see an empty list, not null.
func Apply[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(item, preds) {
			out = append(out, item)
		}
	}
	return out
}

func matchesAll[T any](item T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if p != nil && !p(item) {
			return false
		}
	}
	return true
}

// TitleContains matches case-insensitively on a substring of the title. A
// blank query matches everything; otherwise surrounding spaces are part of
// the needle.
func TitleContains[T any](query string, title func(T) string) Predicate[T] {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	q := strings.ToLower(query)
	return func(item T) bool {
		return strings.Contains(strings.ToLower(title(item)), q)
	}
}

// Equal matches items whose field equals want. An empty want or All
// matches everything.
func Equal[T any, V ~string](want V, field func(T) V) Predicate[T] {
	if IsAll(string(want)) {
		return nil
	}
	return func(item T) bool {
		return field(item) == want
	}
}

func IsAll(v string) bool {
	return v == "" || v == All
}
