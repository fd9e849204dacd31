package search

import (
	"strings"
	"unicode"
)

type Token string

var commonIssues = map[rune]rune{
	'ö': 'o',
	'ä': 'a',
	'å': 'a',
	'é': 'e',
	'è': 'e',
	'ê': 'e',
	'ë': 'e',
	'ï': 'i',
	'î': 'i',
	'ô': 'o',
	'ü': 'u',
	'û': 'u',
	'ÿ': 'y',
	'ç': 'c',
	'ñ': 'n',
	'ß': 's',
	'æ': 'a',
	'ø': 'o',
	'Ø': 'o',
}

func NormalizeWord(text string) Token {
	ret := make([]rune, 0, len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			l := unicode.ToLower(r)
			if replacement, ok := commonIssues[l]; ok {
				l = replacement
			}
			ret = append(ret, l)
		}
	}
	return Token(ret)
}

func isSeparator(chr rune) bool {
	return unicode.IsSpace(chr) || strings.ContainsRune(",:.!?;()[]{}\"'/", chr)
}

// SplitWords calls onWord with every word and its byte offset until it
// returns false.
func SplitWords(text string, onWord func(word string, offset int) bool) {
	start := -1
	for idx, chr := range text {
		if isSeparator(chr) {
			if start >= 0 {
				if !onWord(text[start:idx], start) {
					return
				}
				start = -1
			}
			continue
		}
		if start < 0 {
			start = idx
		}
	}
	if start >= 0 {
		onWord(text[start:], start)
	}
}

func Tokenize(text string) []Token {
	ret := make([]Token, 0)
	SplitWords(text, func(word string, _ int) bool {
		if t := NormalizeWord(word); t != "" {
			ret = append(ret, t)
		}
		return true
	})
	return ret
}

// Snippet cuts text after maxWords words. The window starts a couple of words
// before the first word matching the query so the match stays visible.
func Snippet(text, query string, maxWords int) string {
	if maxWords <= 0 {
		return text
	}
	wanted := map[Token]struct{}{}
	for _, t := range Tokenize(query) {
		wanted[t] = struct{}{}
	}
	type word struct{ start, end int }
	words := make([]word, 0)
	first := -1
	SplitWords(text, func(w string, offset int) bool {
		if _, ok := wanted[NormalizeWord(w)]; ok && first < 0 {
			first = len(words)
		}
		words = append(words, word{offset, offset + len(w)})
		return true
	})
	if len(words) <= maxWords {
		return text
	}
	from := 0
	if first > 2 {
		from = min(first-2, len(words)-maxWords)
	}
	to := from + maxWords - 1
	ret := text[words[from].start:words[to].end]
	if from > 0 {
		ret = "…" + ret
	}
	if to < len(words)-1 {
		ret += "…"
	}
	return ret
}
