// Package summarize produces short extractive summaries of German
// agenda texts: sentences are scored by the frequency of their
// non-stopword terms and the highest scoring ones are returned in
// their original order.
package summarize

import (
	"errors"
	"regexp"
	"slices"
	"sort"
	"strings"
)

var ErrTextTooShort = errors.New("too little text to summarize")

var sentenceRegex = regexp.MustCompile(`[^.!?]+[.!?]+`)
var wordRegex = regexp.MustCompile(`[\pL\d]+`)

// Summarize extracts the `count` most significant sentences.
func Summarize(text string, count int) (string, error) {
	if count <= 0 {
		return "", nil
	}
	if len(strings.TrimSpace(text)) < 100 {
		return "", ErrTextTooShort
	}

	sentences := sentenceRegex.FindAllString(text, -1)
	if len(sentences) == 0 {
		return "", ErrTextTooShort
	}

	frequencies := map[string]int{}
	for _, sentence := range sentences {
		for _, word := range words(sentence) {
			frequencies[word]++
		}
	}

	type scored struct {
		index int
		score float64
	}
	scores := make([]scored, 0, len(sentences))
	for i, sentence := range sentences {
		terms := words(sentence)
		if len(terms) == 0 {
			continue
		}
		total := 0
		for _, word := range terms {
			total += frequencies[word]
		}
		scores = append(scores, scored{
			index: i,
			score: float64(total) / float64(len(terms)),
		})
	}

	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].score > scores[b].score
	})
	if count > len(scores) {
		count = len(scores)
	}

	picked := make([]int, 0, count)
	for _, s := range scores[:count] {
		picked = append(picked, s.index)
	}
	slices.Sort(picked)

	parts := make([]string, 0, count)
	for _, index := range picked {
		parts = append(parts, strings.TrimSpace(sentences[index]))
	}
	return strings.Join(parts, " "), nil
}

func words(sentence string) []string {
	var out []string
	for _, word := range wordRegex.FindAllString(strings.ToLower(sentence), -1) {
		if stopwords[word] {
			continue
		}
		out = append(out, word)
	}
	return out
}

var stopwords = func() map[string]bool {
	list := []string{
		"aber", "alle", "allem", "allen", "aller", "alles", "als", "also", "am", "an",
		"ander", "andere", "anderem", "anderen", "anderer", "anderes", "anderm", "andern",
		"anders", "auch", "auf", "aus", "bei", "bin", "bis", "bist", "da", "damit",
		"dann", "der", "den", "des", "dem", "die", "das", "dass", "daß", "du", "er",
		"eine", "ein", "einem", "einen", "einer", "eines", "für", "hatte", "habe",
		"haben", "hat", "hier", "ich", "ihm", "ihn", "ihnen", "ihr", "ihre", "im",
		"in", "ist", "kann", "mich", "mir", "mit", "nach", "nicht", "noch", "nur",
		"oder", "sie", "sind", "so", "über", "um", "und", "uns", "unse", "unser",
		"unses", "von", "vor", "war", "waren", "wir", "wird", "zu", "zum", "zur",
	}
	out := make(map[string]bool, len(list))
	for _, word := range list {
		out[word] = true
	}
	return out
}()
