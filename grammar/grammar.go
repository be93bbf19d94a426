// Package grammar defines finite state grammars which can be nested inside each other,
// with routines to generate random strings from them, corrupt those strings and check them.
package grammar

import (
	"bytes"
	"fmt"
	"strings"
)

// Terminal is the next state value for a transition which ends the walk.
const Terminal = -1

// Rand is the source of random choices. It is satisfied by *rand.Rand.
type Rand interface {
	Intn(n int) int
}

// Symbol is emitted by a transition: either a Literal or a nested *Grammar.
type Symbol interface {
	expand(rng Rand, buf []byte) []byte
	match(s string, pos int) []int
	String() string
}

// Literal symbol is a single character from the alphabet.
type Literal byte

func (c Literal) expand(rng Rand, buf []byte) []byte {
	return append(buf, byte(c))
}

func (c Literal) match(s string, pos int) []int {
	if pos < len(s) && s[pos] == byte(c) {
		return []int{pos + 1}
	}
	return nil
}

func (c Literal) String() string { return string(rune(c)) }

// Transition emits Symbol and then moves to the Next state.
type Transition struct {
	Symbol Symbol
	Next   int
}

// State is the list of transitions out of a state, one of which is chosen uniformly.
type State []Transition

// Grammar is a static transition table, state 0 is the entry state.
type Grammar struct {
	Name   string
	States []State
}

// Generate a random string by walking the grammar from the entry state.
func (g *Grammar) Generate(rng Rand) string {
	return g.GenerateFrom(rng, 0)
}

// GenerateFrom walks the grammar from the given state until a terminal transition is taken.
// A random draw is made at every state visited, even if it has only one transition.
func (g *Grammar) GenerateFrom(rng Rand, state int) string {
	return string(g.walk(rng, state, nil))
}

func (g *Grammar) walk(rng Rand, state int, buf []byte) []byte {
	for state != Terminal {
		trans := g.States[state]
		t := trans[rng.Intn(len(trans))]
		buf = t.Symbol.expand(rng, buf)
		state = t.Next
	}
	return buf
}

func (g *Grammar) expand(rng Rand, buf []byte) []byte {
	return g.walk(rng, 0, buf)
}

// Corrupt generates a valid string and then replaces one character at random using
// the given alphabet. The result differs from a valid string in exactly one position.
func (g *Grammar) Corrupt(rng Rand, chars Alphabet) string {
	return chars.Corrupt(rng, g.Generate(rng))
}

func (g *Grammar) String() string {
	if g.Name != "" {
		return g.Name
	}
	return "grammar"
}

// Describe returns the transition table in a readable form.
func (g *Grammar) Describe() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "== %s ==\n", g)
	for i, state := range g.States {
		edges := make([]string, len(state))
		for j, t := range state {
			next := "end"
			if t.Next != Terminal {
				next = fmt.Sprint(t.Next)
			}
			edges[j] = fmt.Sprintf("%s => %s", t.Symbol, next)
		}
		fmt.Fprintf(&b, "%2d: %s\n", i, strings.Join(edges, " | "))
	}
	return b.String()
}
