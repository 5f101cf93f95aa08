// Package generics inspects instantiated generic types through their reflect
// names. Go does not expose generic definitions at runtime, so an
// instantiation such as Cache[string] is identified with its definition by
// package path and base name ("Cache"), and its type arguments are recovered
// as the strings the runtime prints for them.
package generics

import (
	"fmt"
	"reflect"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// Signature is a parsed named type.
type Signature struct {
	// PkgPath is the import path of the package declaring the type.
	PkgPath string

	// Name is the type name without type arguments.
	Name string

	// Args are the printed type arguments, empty for non-generic types.
	Args []string
}

// IsInstantiation reports whether the signature carries type arguments.
func (s Signature) IsInstantiation() bool {
	return len(s.Args) > 0
}

// SameDefinition reports whether both signatures come from the same generic
// type declaration.
func (s Signature) SameDefinition(other Signature) bool {
	return s.PkgPath == other.PkgPath && s.Name == other.Name
}

func (s Signature) String() string {
	name := s.Name
	if s.PkgPath != "" {
		name = s.PkgPath + "." + s.Name
	}
	if len(s.Args) == 0 {
		return name
	}
	return name + "[" + strings.Join(s.Args, ",") + "]"
}

// signatures caches parses by fully qualified type name. Entries never
// expire, and the janitor is disabled.
var signatures = gocache.New(gocache.NoExpiration, 0)

// Parse returns the signature of the named type t. Unnamed types (pointers,
// slices, func literals...) have no signature and report false.
func Parse(t reflect.Type) (Signature, bool) {
	if t == nil || t.Name() == "" {
		return Signature{}, false
	}

	key := t.PkgPath() + "." + t.Name()
	if cached, found := signatures.Get(key); found {
		return cached.(Signature), true
	}

	name, args, err := ParseName(t.Name())
	if err != nil {
		return Signature{}, false
	}

	sig := Signature{PkgPath: t.PkgPath(), Name: name, Args: args}
	signatures.Set(key, sig, gocache.NoExpiration)

	return sig, true
}

// IsInstantiation reports whether t is a named instantiation of a generic type.
func IsInstantiation(t reflect.Type) bool {
	sig, ok := Parse(t)
	return ok && sig.IsInstantiation()
}

// ParseName splits a reflect type name such as "Pair[int,map[string]int]" into
// its base name and top level type arguments.
func ParseName(name string) (string, []string, error) {
	open := strings.IndexByte(name, '[')
	if open < 0 {
		return name, nil, nil
	}

	if open == 0 || !strings.HasSuffix(name, "]") {
		return "", nil, fmt.Errorf("malformed generic type name %q", name)
	}

	args, err := splitArgs(name[open+1 : len(name)-1])
	if err != nil {
		return "", nil, fmt.Errorf("malformed generic type name %q: %w", name, err)
	}

	return name[:open], args, nil
}

// splitArgs splits on commas that are not nested inside brackets, parens or
// braces.
func splitArgs(list string) ([]string, error) {
	var (
		args  []string
		depth int
		start int
	)

	for i, r := range list {
		switch r {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced %q at offset %d", r, i)
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("unbalanced type argument list")
	}

	last := strings.TrimSpace(list[start:])
	if last == "" {
		return nil, fmt.Errorf("empty type argument")
	}

	return append(args, last), nil
}
