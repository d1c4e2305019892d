// Package interpreter turns free-form editing commands ("molto più luminosa,
// meno satura") into parameter changes.
//
// Text is lowercased, split into words on whitespace and punctuation, and cut
// into clauses at commas and conjunctions. Each clause applies at most one
// vocabulary keyword, scaled by the clause's own intensity modifier and
// inverted by a "less" word in the same clause. A command without any keyword
// ("ancora", "di meno") replays the parameters touched by the last explicit
// command.
package interpreter

import (
	"strings"
	"unicode"

	"github.com/ironsheep/promptvision/internal/params"
)

// BaseDelta is the change applied by one keyword at intensity 1.0.
const BaseDelta = 0.25

// Source tells which rule produced a Result.
type Source int

const (
	SourceNone Source = iota
	SourceExplicit
	SourceMemory
	SourceBlackWhite
	SourceReset
)

func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceMemory:
		return "memory"
	case SourceBlackWhite:
		return "black_white"
	case SourceReset:
		return "reset"
	default:
		return "none"
	}
}

// MemoryEntry records one parameter and the direction it last moved.
type MemoryEntry struct {
	Param     params.Name
	Direction int
}

// Result is the outcome of parsing one command. Changes holds absolute new
// values; Touched lists the changed parameters in first-seen order.
type Result struct {
	Changes map[params.Name]float64
	Touched []params.Name
	Source  Source
}

// Empty reports whether the command changed nothing.
func (r Result) Empty() bool { return len(r.Touched) == 0 }

// Apply returns s with every change of r applied.
func (r Result) Apply(s params.Set) params.Set {
	for _, n := range r.Touched {
		s, _ = s.With(n, r.Changes[n])
	}
	return s
}

// TouchedNames returns Touched as plain strings.
func (r Result) TouchedNames() []string {
	out := make([]string, len(r.Touched))
	for i, n := range r.Touched {
		out[i] = string(n)
	}
	return out
}

func (r *Result) set(n params.Name, v float64) {
	if r.Changes == nil {
		r.Changes = make(map[params.Name]float64)
	}
	if _, seen := r.Changes[n]; !seen {
		r.Touched = append(r.Touched, n)
	}
	r.Changes[n] = params.Clamp(v)
}

// Interpreter parses commands and remembers the last explicit one.
// It is not safe for concurrent use.
type Interpreter struct {
	vocab       []Keyword
	intensities []Intensity
	memory      []MemoryEntry
}

// New returns an Interpreter with the built-in vocabulary and empty memory.
func New() *Interpreter {
	return &Interpreter{
		vocab:       Vocabulary,
		intensities: Intensities,
	}
}

// Memory returns a copy of the remembered command.
func (in *Interpreter) Memory() []MemoryEntry {
	out := make([]MemoryEntry, len(in.memory))
	copy(out, in.memory)
	return out
}

// Forget clears the remembered command.
func (in *Interpreter) Forget() { in.memory = nil }

// Parse interprets text against current. current is only read.
// Parse never fails: unrecognised text yields an empty Result.
func (in *Interpreter) Parse(text string, current params.Set) Result {
	words, segments := tokenize(text)
	if len(words) == 0 {
		return Result{}
	}

	if hasWord(words, blackWords) && hasWord(words, whiteWords) {
		var r Result
		r.set(params.Saturation, 0)
		r.Source = SourceBlackWhite
		return r
	}
	if hasWord(words, resetWords) {
		var r Result
		for _, n := range params.Names() {
			r.set(n, params.Neutral)
		}
		r.Source = SourceReset
		return r
	}

	var (
		r     Result
		local []MemoryEntry
	)
	for _, seg := range segments {
		kw, ok := matchKeyword(in.vocab, seg)
		if !ok {
			continue
		}
		multiplier := matchIntensity(in.intensities, seg)
		direction := kw.Polarity
		if hasStem(seg, decreaseStems) {
			direction = -direction
		}
		r.set(kw.Param, current.Value(kw.Param)+BaseDelta*float64(direction)*multiplier)
		local = remember(local, kw.Param, direction)
	}

	if !r.Empty() {
		r.Source = SourceExplicit
		in.memory = local
		return r
	}

	less := hasStem(words, decreaseStems)
	more := hasStem(words, increaseStems)
	if !(less || more) || len(in.memory) == 0 {
		return Result{}
	}

	for _, m := range in.memory {
		direction := m.Direction
		if less {
			direction = -direction
		}
		r.set(m.Param, current.Value(m.Param)+BaseDelta*float64(direction))
	}
	r.Source = SourceMemory
	return r
}

// remember keeps first-seen order and the last direction applied per parameter.
func remember(buf []MemoryEntry, p params.Name, direction int) []MemoryEntry {
	for i := range buf {
		if buf[i].Param == p {
			buf[i].Direction = direction
			return buf
		}
	}
	return append(buf, MemoryEntry{Param: p, Direction: direction})
}

// tokenize lowercases text and returns all words plus the words grouped by
// clause. Apostrophes separate words ("l'immagine"); commas, sentence
// punctuation and conjunctions end a clause.
func tokenize(text string) (words []string, segments [][]string) {
	var (
		cur     strings.Builder
		segment []string
	)
	flushWord := func() {
		if cur.Len() == 0 {
			return
		}
		w := cur.String()
		cur.Reset()
		if conjunctions[w] {
			words = append(words, w)
			segments, segment = appendSegment(segments, segment), nil
			return
		}
		words = append(words, w)
		segment = append(segment, w)
	}

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			cur.WriteRune(r)
		case strings.ContainsRune(",;.!?:", r):
			flushWord()
			segments, segment = appendSegment(segments, segment), nil
		default:
			flushWord()
		}
	}
	flushWord()
	segments = appendSegment(segments, segment)
	return words, segments
}

func appendSegment(segments [][]string, segment []string) [][]string {
	if len(segment) == 0 {
		return segments
	}
	return append(segments, segment)
}
