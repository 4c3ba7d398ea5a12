// internal/game/engine.go
//
// Core engine for a single border quiz session.
// Responsibilities:
//   - Pick a target with enough borders and build one blank field per border.
//   - Apply field updates: trim, compare case-insensitively, keep counters in step.
//   - Project the game for clients without answers, or reveal it on request.
//   - Produce randomized hints about unsolved fields.
//
// Notes:
//   - All randomness goes through Rand so callers can make it deterministic.
//   - A border code missing from the catalog keeps its field; the raw code is the answer.
//   - Game is not safe for concurrent use; the quiz service serialises access.
package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/robalobadob/borders/apps/go-server/internal/territory"
)

// MinBorders is the fewest borders a target may have.
const MinBorders = 3

var (
	ErrNoEligibleTargets = errors.New("no territories with enough borders")
	ErrNoActiveGame      = errors.New("no active game")
	ErrInvalidField      = errors.New("invalid field id")
)

// Hint texts that are not about a specific field.
const (
	HintNoGame      = "No active game"
	HintAllComplete = "All fields completed!"
)

// Rand is the source of every random choice. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Resolver maps a border code to its territory.
type Resolver interface {
	Lookup(code string) (territory.Territory, bool)
}

// PickTarget chooses one candidate uniformly at random.
func PickTarget(candidates []territory.Territory, rng Rand) (territory.Territory, error) {
	if len(candidates) == 0 {
		return territory.Territory{}, ErrNoEligibleTargets
	}
	return candidates[rng.Intn(len(candidates))], nil
}

// New builds a blank game for target, one field per border, in shuffled order.
// Field ids follow border order; only the display order is permuted.
func New(target territory.Territory, res Resolver, rng Rand) *Game {
	fields := make([]*Field, len(target.Borders))
	for i, code := range target.Borders {
		fields[i] = &Field{ID: i, Answer: answerFor(res, code)}
	}
	rng.Shuffle(len(fields), func(i, j int) { fields[i], fields[j] = fields[j], fields[i] })

	return &Game{
		ID:          uuid.NewString(),
		TargetName:  target.Name,
		TargetCode:  target.Code,
		Fields:      fields,
		TotalFields: len(fields),
		Complete:    len(fields) == 0,
		StartedAt:   time.Now().UTC(),
	}
}

// answerFor falls back to the raw code when the catalog cannot resolve it.
func answerFor(res Resolver, code string) string {
	if t, ok := res.Lookup(code); ok {
		return t.Name
	}
	return code
}

// Update applies input to the field with the given id.
//
// Rules:
//   - Unknown id → ErrInvalidField, nothing changes.
//   - Input is trimmed; empty input clears the field.
//   - Correct iff filled and equal to the answer after lower-casing both.
//   - CompletedFields moves by one on a correctness transition; Complete follows it both ways.
func (g *Game) Update(id int, input string) error {
	f := g.field(id)
	if f == nil {
		return fmt.Errorf("%w: %d", ErrInvalidField, id)
	}

	input = strings.TrimSpace(input)
	wasCorrect := f.IsCorrect

	f.Value = input
	f.IsFilled = input != ""
	f.IsCorrect = f.IsFilled && strings.ToLower(input) == strings.ToLower(f.Answer)

	switch {
	case f.IsCorrect && !wasCorrect:
		g.CompletedFields++
	case !f.IsCorrect && wasCorrect:
		g.CompletedFields--
	}
	g.Complete = g.CompletedFields == g.TotalFields
	return nil
}

func (g *Game) field(id int) *Field {
	for _, f := range g.Fields {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// View returns a value copy of g with answers stripped.
func (g *Game) View() View {
	fields := make([]FieldView, len(g.Fields))
	for i, f := range g.Fields {
		fields[i] = f.view()
	}
	return View{
		GameID:          g.ID,
		TargetName:      g.TargetName,
		TargetCode:      g.TargetCode,
		Fields:          fields,
		TotalFields:     g.TotalFields,
		CompletedFields: g.CompletedFields,
		Complete:        g.Complete,
	}
}

// Reveal returns every field together with its answer.
func (g *Game) Reveal() Reveal {
	fields := make([]RevealedField, len(g.Fields))
	for i, f := range g.Fields {
		fields[i] = RevealedField{FieldView: f.view(), CorrectAnswer: f.Answer}
	}
	return Reveal{TargetName: g.TargetName, Fields: fields}
}

func (f *Field) view() FieldView {
	return FieldView{ID: f.ID, Value: f.Value, IsCorrect: f.IsCorrect, IsFilled: f.IsFilled}
}

// Hint describes one field that is not yet correct, chosen at random.
//
// Random draws, in order: the field, the phrasing (0 first letter, 1 length,
// 2 contained letter), and for phrasing 2 the letter.
func (g *Game) Hint(rng Rand) string {
	var open []*Field
	for _, f := range g.Fields {
		if !f.IsCorrect {
			open = append(open, f)
		}
	}
	if len(open) == 0 {
		return HintAllComplete
	}

	answer := open[rng.Intn(len(open))].Answer
	switch rng.Intn(3) {
	case 0:
		first, _ := utf8.DecodeRuneInString(answer)
		return fmt.Sprintf("💡 One country starts with '%c'", first)
	case 1:
		return fmt.Sprintf("💡 One country has %d letters", utf8.RuneCountInString(answer))
	default:
		letters := lettersOf(strings.ToLower(answer))
		return fmt.Sprintf("💡 One country contains the letter '%c'", letters[rng.Intn(len(letters))])
	}
}

// lettersOf returns the letters of s, or all of its runes when it has none.
func lettersOf(s string) []rune {
	var out []rune
	for _, r := range s {
		if unicode.IsLetter(r) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		out = []rune(s)
	}
	return out
}
