package interpreter

import (
	"strings"
	"unicode/utf8"

	"github.com/ironsheep/promptvision/internal/params"
)

// Keyword maps a word stem to the parameter it controls and the direction the
// word implies on its own ("luminosa" brightens, "buio" darkens).
type Keyword struct {
	Stem     string
	Param    params.Name
	Polarity int
}

// Intensity maps a modifier phrase to the multiplier applied to the base delta.
type Intensity struct {
	Phrase     string
	Multiplier float64
}

// Vocabulary is scanned in order; order only matters for exact ties.
var Vocabulary = []Keyword{
	{"bright", params.Brightness, +1},
	{"luminos", params.Brightness, +1},
	{"esposizion", params.Brightness, +1},
	{"chiar", params.Brightness, +1},
	{"schiar", params.Brightness, +1},
	{"luc", params.Brightness, +1},
	{"sole", params.Brightness, +1},
	{"illumin", params.Brightness, +1},
	{"bui", params.Brightness, -1},
	{"scur", params.Brightness, -1},
	{"cup", params.Brightness, -1},
	{"ombr", params.Brightness, -1},
	{"dark", params.Brightness, -1},

	{"contrast", params.Contrast, +1},
	{"marc", params.Contrast, +1},
	{"decis", params.Contrast, +1},
	{"profond", params.Contrast, +1},
	{"fort", params.Contrast, +1},
	{"morb", params.Contrast, -1},
	{"piatt", params.Contrast, -1},
	{"lavat", params.Contrast, -1},
	{"flat", params.Contrast, -1},

	{"satur", params.Saturation, +1},
	{"viv", params.Saturation, +1},
	{"color", params.Saturation, +1},
	{"acces", params.Saturation, +1},
	{"intens", params.Saturation, +1},
	{"caric", params.Saturation, +1},
	{"spent", params.Saturation, -1},
	{"grig", params.Saturation, -1},
	{"desatur", params.Saturation, -1},
	{"dull", params.Saturation, -1},

	{"cald", params.Warmth, +1},
	{"warm", params.Warmth, +1},
	{"giall", params.Warmth, +1},
	{"arancion", params.Warmth, +1},
	{"estiv", params.Warmth, +1},
	{"calor", params.Warmth, +1},
	{"fredd", params.Warmth, -1},
	{"cold", params.Warmth, -1},
	{"cool", params.Warmth, -1},
	{"blu", params.Warmth, -1},
	{"ghiac", params.Warmth, -1},
	{"azzurr", params.Warmth, -1},

	{"nitid", params.Sharpness, +1},
	{"sharp", params.Sharpness, +1},
	{"dettagli", params.Sharpness, +1},
	{"definit", params.Sharpness, +1},
	{"punt", params.Sharpness, +1},
	{"sfoc", params.Sharpness, -1},
	{"morbidezz", params.Sharpness, -1},
	{"blur", params.Sharpness, -1},
}

// Intensities holds the modifier table. Phrases match at the start of a word
// and may span words ("un po").
var Intensities = []Intensity{
	{"molto", 2.2},
	{"troppo", 2.8},
	{"estremamente", 3.0},
	{"super", 2.0},
	{"tantissim", 2.5},
	{"davvero", 1.8},
	{"poco", 0.4},
	{"leggermente", 0.3},
	{"un po", 0.5},
	{"appena", 0.2},
	{"very", 2.2},
	{"extremely", 3.0},
	{"slightly", 0.3},
	{"a bit", 0.5},
	{"a little", 0.4},
}

var (
	increaseStems = []string{"più", "piu", "aument", "ancora", "molto", "troppo", "aggiung", "alza", "more", "increas", "boost", "again"}
	decreaseStems = []string{"meno", "ridu", "togl", "abbass", "diminu", "less", "decreas", "reduc", "lower"}

	conjunctions = map[string]bool{"e": true, "ed": true, "ma": true, "però": true, "and": true, "but": true}

	blackWords = []string{"nero", "black"}
	whiteWords = []string{"bianco", "white"}
	resetWords = []string{"reset", "originale", "original", "default", "ripristina", "predefinito", "predefinita"}
)

// stemMatches reports whether token carries stem. Stems shorter than four
// letters must match the whole token so "più" does not fire on "piuma".
func stemMatches(token, stem string) bool {
	if token == stem {
		return true
	}
	return utf8.RuneCountInString(stem) >= 4 && strings.HasPrefix(token, stem)
}

func hasStem(words, stems []string) bool {
	for _, w := range words {
		for _, s := range stems {
			if stemMatches(w, s) {
				return true
			}
		}
	}
	return false
}

func hasWord(words, candidates []string) bool {
	for _, w := range words {
		for _, c := range candidates {
			if w == c {
				return true
			}
		}
	}
	return false
}

// matchKeyword picks the single keyword a segment applies. The longest stem
// wins; ties go to the earliest word, then to vocabulary order.
func matchKeyword(vocab []Keyword, words []string) (Keyword, bool) {
	var (
		best     Keyword
		bestLen  int
		bestWord int
		found    bool
	)
	for wi, w := range words {
		for _, kw := range vocab {
			if !strings.Contains(w, kw.Stem) {
				continue
			}
			l := utf8.RuneCountInString(kw.Stem)
			if !found || l > bestLen || (l == bestLen && wi < bestWord) {
				best, bestLen, bestWord, found = kw, l, wi, true
			}
		}
	}
	return best, found
}

// matchIntensity returns the multiplier for a segment, 1.0 when none applies.
// The longest phrase wins; ties go to table order.
func matchIntensity(table []Intensity, words []string) float64 {
	text := " " + strings.Join(words, " ")
	multiplier := 1.0
	bestLen := 0
	for _, in := range table {
		if !strings.Contains(text, " "+in.Phrase) {
			continue
		}
		if l := utf8.RuneCountInString(in.Phrase); l > bestLen {
			multiplier, bestLen = in.Multiplier, l
		}
	}
	return multiplier
}
