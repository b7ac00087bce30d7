// Package pinyin converts text into latin phonetic forms used as advisory
// matching aids by the search engine. Forms are recomputed per query and
// never persisted.
package pinyin

import (
	"strings"

	gopinyin "github.com/mozillazg/go-pinyin"
)

// Full returns the complete lowercase transliteration with tone marks
// discarded. Runes without a phonetic reading pass through unchanged, so a
// value that cannot be transliterated falls back to itself.
func Full(text string) string {
	return convert(text, gopinyin.Normal)
}

// Initials returns the initials-only lowercase form: the first phonetic
// letter of each syllable, concatenated.
func Initials(text string) string {
	return convert(text, gopinyin.FirstLetter)
}

func convert(text string, style int) (result string) {
	if text == "" {
		return ""
	}
	// A conversion panic must never escape; the original text stands in for
	// its own phonetic form.
	defer func() {
		if r := recover(); r != nil {
			result = strings.ToLower(text)
		}
	}()

	args := gopinyin.NewArgs()
	args.Style = style
	args.Fallback = func(r rune, _ gopinyin.Args) []string {
		return []string{string(r)}
	}

	var b strings.Builder
	for _, readings := range gopinyin.Pinyin(text, args) {
		if len(readings) > 0 {
			b.WriteString(readings[0])
		}
	}
	return strings.ToLower(b.String())
}
