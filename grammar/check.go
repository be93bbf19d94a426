package grammar

import (
	"github.com/pkg/errors"
	"sort"
)

var ErrInvalidGrammar = errors.New("invalid grammar")

// Accepts checks if s can be generated by some walk through the grammar from the entry state
// to a terminal transition. The grammar should have passed Validate.
func (g *Grammar) Accepts(s string) bool {
	for _, end := range g.match(s, 0) {
		if end == len(s) {
			return true
		}
	}
	return false
}

// match returns the sorted set of positions in s at which a complete walk starting at pos can end.
// Each symbol consumes at least one character so the search always terminates.
func (g *Grammar) match(s string, pos int) []int {
	var ends []int
	seen := make(map[[2]int]bool)
	found := make(map[int]bool)
	var visit func(state, pos int)
	visit = func(state, pos int) {
		key := [2]int{state, pos}
		if seen[key] {
			return
		}
		seen[key] = true
		for _, t := range g.States[state] {
			for _, next := range t.Symbol.match(s, pos) {
				if t.Next != Terminal {
					visit(t.Next, next)
				} else if !found[next] {
					found[next] = true
					ends = append(ends, next)
				}
			}
		}
	}
	visit(0, pos)
	sort.Ints(ends)
	return ends
}

// Validate checks the grammar is well formed: every state has at least one transition, all
// literals are in the alphabet, next states are in range and every state reachable from the
// entry state has a path to termination. Nested grammars are checked recursively.
func (g *Grammar) Validate(chars Alphabet) error {
	return g.validate(chars, map[*Grammar]bool{})
}

func (g *Grammar) validate(chars Alphabet, parents map[*Grammar]bool) error {
	if parents[g] {
		return errors.Wrapf(ErrInvalidGrammar, "%s: nested inside itself", g)
	}
	parents[g] = true
	defer delete(parents, g)
	if len(g.States) == 0 {
		return errors.Wrapf(ErrInvalidGrammar, "%s: no states", g)
	}
	for i, state := range g.States {
		if len(state) == 0 {
			return errors.Wrapf(ErrInvalidGrammar, "%s: state %d has no transitions", g, i)
		}
		for _, t := range state {
			if t.Next != Terminal && (t.Next < 0 || t.Next >= len(g.States)) {
				return errors.Wrapf(ErrInvalidGrammar, "%s: state %d next state %d out of range", g, i, t.Next)
			}
			switch sym := t.Symbol.(type) {
			case Literal:
				if chars.ID(byte(sym)) < 0 {
					return errors.Wrapf(ErrInvalidGrammar, "%s: state %d symbol %q not in alphabet %q", g, i, byte(sym), chars)
				}
			case *Grammar:
				if sym == nil {
					return errors.Wrapf(ErrInvalidGrammar, "%s: state %d has nil sub-grammar", g, i)
				}
				if err := sym.validate(chars, parents); err != nil {
					return errors.Wrapf(err, "%s: state %d", g, i)
				}
			default:
				return errors.Wrapf(ErrInvalidGrammar, "%s: state %d has invalid symbol %v", g, i, t.Symbol)
			}
		}
	}
	live := g.canTerminate()
	for _, state := range g.reachable() {
		if !live[state] {
			return errors.Wrapf(ErrInvalidGrammar, "%s: no path to terminal from state %d", g, state)
		}
	}
	return nil
}

// states reachable from the entry state
func (g *Grammar) reachable() []int {
	seen := map[int]bool{0: true}
	list := []int{0}
	for i := 0; i < len(list); i++ {
		for _, t := range g.States[list[i]] {
			if t.Next != Terminal && !seen[t.Next] {
				seen[t.Next] = true
				list = append(list, t.Next)
			}
		}
	}
	sort.Ints(list)
	return list
}

// states with at least one path to a terminal transition
func (g *Grammar) canTerminate() map[int]bool {
	live := make(map[int]bool)
	for changed := true; changed; {
		changed = false
		for i, state := range g.States {
			if live[i] {
				continue
			}
			for _, t := range state {
				if t.Next == Terminal || live[t.Next] {
					live[i] = true
					changed = true
					break
				}
			}
		}
	}
	return live
}
