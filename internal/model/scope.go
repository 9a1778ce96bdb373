package model

import (
	"fmt"
	"slices"
)

// Scope is a capability a token can carry.
type Scope string

const (
	// ScopeStandard grants access to regular account operations.
	ScopeStandard Scope = "standard"
	// ScopeAdmin grants access to administrative operations.
	ScopeAdmin Scope = "admin"
	// ScopeReset only allows completing a password reset.
	ScopeReset Scope = "reset"
)

// ValidScopes returns every scope the service knows about.
func ValidScopes() []Scope {
	return []Scope{ScopeStandard, ScopeAdmin, ScopeReset}
}

// String returns the wire form of the scope.
func (s Scope) String() string {
	return string(s)
}

// Valid reports whether s is one of ValidScopes.
func (s Scope) Valid() bool {
	return slices.Contains(ValidScopes(), s)
}

// ParseScope converts a wire literal into a Scope.
func ParseScope(raw string) (Scope, error) {
	s := Scope(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, raw)
	}
	return s, nil
}

// Scopes is a set of scopes kept as a slice without duplicates.
type Scopes []Scope

// NewScopes validates and de-duplicates the given scopes, preserving order.
func NewScopes(scopes ...Scope) (Scopes, error) {
	if len(scopes) == 0 {
		return nil, ErrNoScopes
	}

	out := make(Scopes, 0, len(scopes))
	for _, s := range scopes {
		if !s.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScope, string(s))
		}
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}

	return out, nil
}

// ParseScopes converts wire literals into Scopes.
func ParseScopes(raw []string) (Scopes, error) {
	scopes := make([]Scope, 0, len(raw))
	for _, r := range raw {
		s, err := ParseScope(r)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, s)
	}
	return NewScopes(scopes...)
}

// Contains reports whether s is part of the set.
func (ss Scopes) Contains(s Scope) bool {
	return slices.Contains(ss, s)
}

// Strings returns the wire literals of the set.
func (ss Scopes) Strings() []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.String()
	}
	return out
}

// Satisfies reports whether every required scope was granted.
// There is no hierarchy: admin does not imply standard or reset.
func Satisfies(granted, required Scopes) bool {
	for _, r := range required {
		if !granted.Contains(r) {
			return false
		}
	}
	return true
}
