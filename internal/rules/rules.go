package rules

import (
	"errors"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Kind identifies how an exclusion rule matches a folder name.
type Kind string

const (
	Exact  Kind = "exact"
	Prefix Kind = "prefix"
	Glob   Kind = "glob"
)

// ErrEmptyRule is returned when a rule value is empty or whitespace only.
var ErrEmptyRule = errors.New("rule value must not be empty")

// ErrUnknownKind is returned for a Kind other than Exact, Prefix or Glob.
var ErrUnknownKind = errors.New("unknown rule kind")

// Set holds folder-exclusion rules. Matching is case-insensitive; rules keep
// their original casing and insertion order so editors can display them as
// entered. The zero value is unusable, use New.
type Set struct {
	exact  []string
	prefix []string
	glob   []string

	exactLower  map[string]struct{}
	prefixLower []string
	globLower   []string
}

// New builds a Set from ordered rule lists. Empty or whitespace-only values
// and duplicates are silently dropped.
func New(exact, prefix, glob []string) *Set {
	s := &Set{exactLower: make(map[string]struct{})}
	for _, v := range exact {
		s.Add(Exact, v)
	}
	for _, v := range prefix {
		s.Add(Prefix, v)
	}
	for _, v := range glob {
		s.Add(Glob, v)
	}
	return s
}

// Excluded reports whether a folder with the given name should be excluded
// from traversal. The name is compared lower-cased against all rule kinds;
// the first qualifying rule suffices.
func (s *Set) Excluded(name string) bool {
	lower := strings.ToLower(name)
	if _, ok := s.exactLower[lower]; ok {
		return true
	}
	for _, p := range s.prefixLower {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	for _, g := range s.globLower {
		// Invalid patterns never match.
		if ok, err := doublestar.Match(g, lower); err == nil && ok {
			return true
		}
	}
	return false
}

// Add inserts a rule. It returns false without error when an equivalent rule
// (same kind, same value ignoring case) already exists, so callers can warn
// instead of fail. Empty values are rejected with ErrEmptyRule.
func (s *Set) Add(kind Kind, value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, ErrEmptyRule
	}
	lower := strings.ToLower(value)

	switch kind {
	case Exact:
		if _, ok := s.exactLower[lower]; ok {
			return false, nil
		}
		s.exact = append(s.exact, value)
		s.exactLower[lower] = struct{}{}
	case Prefix:
		if containsFold(s.prefix, lower) {
			return false, nil
		}
		s.prefix = append(s.prefix, value)
		s.prefixLower = append(s.prefixLower, lower)
	case Glob:
		if containsFold(s.glob, lower) {
			return false, nil
		}
		s.glob = append(s.glob, value)
		s.globLower = append(s.globLower, lower)
	default:
		return false, ErrUnknownKind
	}
	return true, nil
}

// Remove deletes a rule by value (ignoring case). It reports whether a rule
// was removed.
func (s *Set) Remove(kind Kind, value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))

	switch kind {
	case Exact:
		if _, ok := s.exactLower[lower]; !ok {
			return false
		}
		delete(s.exactLower, lower)
		s.exact = removeFold(s.exact, lower)
		return true
	case Prefix:
		if !containsFold(s.prefix, lower) {
			return false
		}
		s.prefix = removeFold(s.prefix, lower)
		s.prefixLower = removeFold(s.prefixLower, lower)
		return true
	case Glob:
		if !containsFold(s.glob, lower) {
			return false
		}
		s.glob = removeFold(s.glob, lower)
		s.globLower = removeFold(s.globLower, lower)
		return true
	}
	return false
}

// Exact returns the exact-match rules in insertion order.
func (s *Set) Exact() []string { return append([]string(nil), s.exact...) }

// Prefix returns the prefix-match rules in insertion order.
func (s *Set) Prefix() []string { return append([]string(nil), s.prefix...) }

// Glob returns the glob-match rules in insertion order.
func (s *Set) Glob() []string { return append([]string(nil), s.glob...) }

// Len returns the total number of rules.
func (s *Set) Len() int { return len(s.exact) + len(s.prefix) + len(s.glob) }

func containsFold(list []string, lower string) bool {
	for _, v := range list {
		if strings.ToLower(v) == lower {
			return true
		}
	}
	return false
}

func removeFold(list []string, lower string) []string {
	out := list[:0]
	for _, v := range list {
		if strings.ToLower(v) != lower {
			out = append(out, v)
		}
	}
	return out
}
