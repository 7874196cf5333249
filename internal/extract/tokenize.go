package extract

import (
	"strings"
	"unicode"

	"skill-match/internal/domain/matching"
)

// MaxNGram is the longest word sequence emitted as a candidate skill.
const MaxNGram = 3

var stopwords = func() map[string]struct{} {
	words := strings.Fields(`
		a about above after again against all am an and any are as at be because been before being below
		between both but by can could did do does doing down during each etc few for from further had has
		have having he her here hers herself him himself his how i if in into is it its itself just me more
		most my myself no nor not of off on once only or other our ours ourselves out over own per same she
		should so some such than that the their theirs them themselves then there these they this those
		through to too under until up very via was we were what when where which while who whom why will
		with would you your yours yourself yourselves also using used use well including within across
	`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// Tokenize lower-cases text and returns candidate tokens: every non-stopword
// word plus the 2- and 3-word sequences inside a phrase. Phrases break on
// blank lines and on punctuation other than the characters skills commonly
// carry (+ # . -).
func Tokenize(text string) []string {
	out := make([]string, 0)
	for _, phrase := range phrases(strings.ToLower(text)) {
		for i := range phrase {
			for n := 1; n <= MaxNGram && i+n <= len(phrase); n++ {
				first, last := phrase[i], phrase[i+n-1]
				if IsStopword(first) || IsStopword(last) {
					continue
				}
				out = append(out, strings.Join(phrase[i:i+n], " "))
			}
		}
	}
	return out
}

// Skills turns free text into the set of vocabulary skills it mentions.
// Known aliases are folded into their catalog spelling first. An empty
// vocabulary disables the filter.
func Skills(text string, vocabulary matching.SkillSet) matching.SkillSet {
	all := matching.NormalizeTokens(canonicalize(Tokenize(text)))
	if vocabulary.IsEmpty() {
		return all
	}
	return all.Intersect(vocabulary)
}

func phrases(text string) [][]string {
	out := make([][]string, 0)
	cur := make([]string, 0)
	var word strings.Builder

	flushWord := func() {
		w := strings.TrimLeft(strings.TrimRight(word.String(), ".-"), "-")
		word.Reset()
		if w == "" || !hasLetter(w) {
			return
		}
		cur = append(cur, w)
	}
	flushPhrase := func() {
		flushWord()
		if len(cur) > 0 {
			out = append(out, cur)
			cur = make([]string, 0)
		}
	}

	// A single newline is a wrapped line; a blank line ends the phrase.
	newlines := 0
	for _, r := range text {
		switch {
		case r == '\n':
			newlines++
			if newlines >= 2 {
				flushPhrase()
				continue
			}
			flushWord()
		case unicode.IsSpace(r):
			flushWord()
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#':
			newlines = 0
			word.WriteRune(r)
		case r == '.' || r == '-':
			newlines = 0
			word.WriteRune(r)
		default:
			newlines = 0
			flushPhrase()
		}
	}
	flushPhrase()
	return out
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
