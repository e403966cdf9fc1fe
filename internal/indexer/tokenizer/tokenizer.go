// Package tokenizer splits text into words, validates them and holds the
// stop-word set an index is built with. Words are case-sensitive and are
// never trimmed or stemmed: the space character is the only separator.
package tokenizer

import (
	"slices"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Token represents a single word and its position in the original text.
type Token struct {
	Term     string
	Position int
}

// Tokenize breaks text on spaces. Runs of spaces never yield empty tokens.
func Tokenize(text string) []Token {
	tokens := make([]Token, 0, strings.Count(text, " ")+1)
	pos := 0
	for word := range strings.SplitSeq(text, " ") {
		if word == "" {
			continue
		}
		tokens = append(tokens, Token{
			Term:     word,
			Position: pos,
		})
		pos++
	}
	return tokens
}

// SplitIntoWords is Tokenize without positions.
func SplitIntoWords(text string) []string {
	tokens := Tokenize(text)
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Term
	}
	return words
}

// IsValidWord reports whether word is free of control characters
// (bytes 0x00 through 0x1F).
func IsValidWord(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < ' ' {
			return false
		}
	}
	return true
}

// HasMalformedHyphen reports a bare "-", a "--" run or a trailing "-".
func HasMalformedHyphen(word string) bool {
	return word == "-" || strings.Contains(word, "--") || strings.HasSuffix(word, "-")
}

// StopWords is an immutable set of words excluded from indexing and queries.
type StopWords struct {
	set map[string]struct{}
}

// NewStopWords copies words into a new set. Empty strings are skipped.
func NewStopWords(words []string) (StopWords, error) {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if !IsValidWord(w) {
			return StopWords{}, apperrors.Newf(apperrors.ErrInvalidArgument, "stop word %q contains control characters", w)
		}
		if HasMalformedHyphen(w) {
			return StopWords{}, apperrors.Newf(apperrors.ErrInvalidArgument, "stop word %q has a malformed hyphen", w)
		}
		set[w] = struct{}{}
	}
	return StopWords{set: set}, nil
}

// ParseStopWords builds a set from a single space-separated string.
func ParseStopWords(text string) (StopWords, error) {
	return NewStopWords(SplitIntoWords(text))
}

func (s StopWords) Contains(word string) bool {
	_, ok := s.set[word]
	return ok
}

func (s StopWords) Len() int {
	return len(s.set)
}

// Words returns the set in lexicographic order.
func (s StopWords) Words() []string {
	words := make([]string, 0, len(s.set))
	for w := range s.set {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}

// Filter returns the tokens of text that are not stop words. Positions are
// renumbered over the kept tokens.
func (s StopWords) Filter(text string) []Token {
	tokens := Tokenize(text)
	kept := tokens[:0]
	for _, t := range tokens {
		if s.Contains(t.Term) {
			continue
		}
		t.Position = len(kept)
		kept = append(kept, t)
	}
	return kept
}
