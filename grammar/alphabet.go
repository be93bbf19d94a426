package grammar

import (
	"github.com/pkg/errors"
	"strings"
)

// Chars is the default alphabet for the Reber grammars, lexically sorted.
const Chars Alphabet = "BEPSTVX"

var (
	ErrUnknownChar = errors.New("character not in alphabet")
	ErrBadID       = errors.New("character id out of range")
)

// Alphabet is an ordered set of distinct single byte characters. The id of each character
// is its index in the sequence.
type Alphabet string

// ID returns the index of c in the alphabet, or -1 if not found.
func (a Alphabet) ID(c byte) int {
	return strings.IndexByte(string(a), c)
}

// Contains checks if all characters in s are in the alphabet.
func (a Alphabet) Contains(s string) bool {
	for i := 0; i < len(s); i++ {
		if a.ID(s[i]) < 0 {
			return false
		}
	}
	return true
}

// Encode converts a string to a sequence of character ids.
func (a Alphabet) Encode(s string) ([]int32, error) {
	ids := make([]int32, len(s))
	for i := 0; i < len(s); i++ {
		id := a.ID(s[i])
		if id < 0 {
			return nil, errors.Wrapf(ErrUnknownChar, "%q at position %d of %q", s[i], i, s)
		}
		ids[i] = int32(id)
	}
	return ids, nil
}

// MustEncode is like Encode but panics if s contains a character outside the alphabet.
func (a Alphabet) MustEncode(s string) []int32 {
	ids, err := a.Encode(s)
	if err != nil {
		panic(err)
	}
	return ids
}

// Decode converts a sequence of character ids back to a string.
func (a Alphabet) Decode(ids []int32) (string, error) {
	buf := make([]byte, len(ids))
	for i, id := range ids {
		if id < 0 || int(id) >= len(a) {
			return "", errors.Wrapf(ErrBadID, "id %d at position %d", id, i)
		}
		buf[i] = a[id]
	}
	return string(buf), nil
}

// Corrupt replaces one character of s, chosen uniformly, with a different character drawn
// uniformly from the rest of the alphabet. Panics if s is empty.
func (a Alphabet) Corrupt(rng Rand, s string) string {
	if len(s) == 0 {
		panic("grammar: cannot corrupt empty string")
	}
	pos := rng.Intn(len(s))
	others := strings.Replace(string(a), s[pos:pos+1], "", 1)
	buf := []byte(s)
	buf[pos] = others[rng.Intn(len(others))]
	return string(buf)
}
