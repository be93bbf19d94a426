package grammar

import (
	"github.com/pkg/errors"
	"sort"
)

// Reber is the standard Reber grammar.
var Reber = &Grammar{
	Name: "reber",
	States: []State{
		{{Literal('B'), 1}},
		{{Literal('T'), 2}, {Literal('P'), 3}},
		{{Literal('S'), 2}, {Literal('X'), 4}},
		{{Literal('T'), 3}, {Literal('V'), 5}},
		{{Literal('X'), 3}, {Literal('S'), 6}},
		{{Literal('P'), 4}, {Literal('V'), 6}},
		{{Literal('E'), Terminal}},
	},
}

// EmbeddedReber wraps two copies of the Reber grammar so that the second character must
// match the second to last one.
var EmbeddedReber = &Grammar{
	Name: "embedded",
	States: []State{
		{{Literal('B'), 1}},
		{{Literal('T'), 2}, {Literal('P'), 3}},
		{{Reber, 4}},
		{{Reber, 5}},
		{{Literal('T'), 6}},
		{{Literal('P'), 6}},
		{{Literal('E'), Terminal}},
	},
}

var grammars = map[string]*Grammar{
	Reber.Name:         Reber,
	EmbeddedReber.Name: EmbeddedReber,
}

// Lookup returns a built in grammar by name.
func Lookup(name string) (*Grammar, error) {
	if g, ok := grammars[name]; ok {
		return g, nil
	}
	return nil, errors.Errorf("unknown grammar %q - valid names are %v", name, Names())
}

// MustLookup is like Lookup but panics if the name is not found.
func MustLookup(name string) *Grammar {
	g, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return g
}

// Names lists the built in grammars.
func Names() []string {
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
