package game

import (
	"encoding/json"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/borders/apps/go-server/internal/territory"
)

// fakeRand replays ints (modulo n) and optionally reverses on Shuffle.
type fakeRand struct {
	ints    []int
	reverse bool
}

func (r *fakeRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *fakeRand) Shuffle(n int, swap func(i, j int)) {
	if !r.reverse {
		return
	}
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

type mapResolver map[string]string

func (m mapResolver) Lookup(code string) (territory.Territory, bool) {
	name, ok := m[code]
	if !ok {
		return territory.Territory{}, false
	}
	return territory.Territory{Name: name, Code: code}, true
}

var (
	france = territory.Territory{
		Name:    "France",
		Code:    "FRA",
		Borders: []string{"AND", "BEL", "DEU", "ESP", "ZZZ"},
	}
	names = mapResolver{"AND": "Andorra", "BEL": "Belgium", "DEU": "Germany", "ESP": "Spain", "FRA": "France"}
)

// newFrance returns a game whose display order equals id order.
func newFrance() *Game {
	return New(france, names, &fakeRand{})
}

func TestNewBuildsBlankFields(t *testing.T) {
	g := New(france, names, &fakeRand{reverse: true})

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "France", g.TargetName)
	assert.Equal(t, "FRA", g.TargetCode)
	assert.Equal(t, 5, g.TotalFields)
	assert.Equal(t, 0, g.CompletedFields)
	assert.False(t, g.Complete)

	want := []Field{
		{ID: 4, Answer: "ZZZ"},
		{ID: 3, Answer: "Spain"},
		{ID: 2, Answer: "Germany"},
		{ID: 1, Answer: "Belgium"},
		{ID: 0, Answer: "Andorra"},
	}
	require.Len(t, g.Fields, len(want))
	for i, f := range g.Fields {
		assert.Equal(t, want[i], *f, "field at position %d", i)
	}
}

func TestNewShuffleKeepsIDs(t *testing.T) {
	g := New(france, names, rand.New(rand.NewSource(7)))

	ids := make([]int, 0, len(g.Fields))
	for _, f := range g.Fields {
		ids = append(ids, f.ID)
		assert.Equal(t, answerFor(names, france.Borders[f.ID]), f.Answer)
	}
	sort.Ints(ids)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, ids)
}

func TestPickTarget(t *testing.T) {
	_, err := PickTarget(nil, &fakeRand{})
	assert.ErrorIs(t, err, ErrNoEligibleTargets)

	cands := []territory.Territory{{Code: "A"}, {Code: "B"}, {Code: "C"}}
	got, err := PickTarget(cands, &fakeRand{ints: []int{2}})
	require.NoError(t, err)
	assert.Equal(t, "C", got.Code)
}

func TestUpdateMatching(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantValue   string
		wantFilled  bool
		wantCorrect bool
	}{
		{name: "exact", input: "Belgium", wantValue: "Belgium", wantFilled: true, wantCorrect: true},
		{name: "lower case", input: "belgium", wantValue: "belgium", wantFilled: true, wantCorrect: true},
		{name: "upper case", input: "BELGIUM", wantValue: "BELGIUM", wantFilled: true, wantCorrect: true},
		{name: "surrounding spaces", input: "  Belgium  ", wantValue: "Belgium", wantFilled: true, wantCorrect: true},
		{name: "wrong", input: "Belgia", wantValue: "Belgia", wantFilled: true},
		{name: "partial", input: "Belg", wantValue: "Belg", wantFilled: true},
		{name: "empty", input: ""},
		{name: "blank", input: "   \t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFrance()
			require.NoError(t, g.Update(1, tt.input))

			v, ok := g.View().Field(1)
			require.True(t, ok)
			assert.Equal(t, tt.wantValue, v.Value)
			assert.Equal(t, tt.wantFilled, v.IsFilled)
			assert.Equal(t, tt.wantCorrect, v.IsCorrect)
		})
	}
}

func TestUpdateMatchesFallbackCode(t *testing.T) {
	g := newFrance()
	require.NoError(t, g.Update(4, "zzz"))
	assert.Equal(t, 1, g.CompletedFields)
}

func TestUpdateCountersFollowTransitions(t *testing.T) {
	g := newFrance()

	require.NoError(t, g.Update(0, "andorra"))
	require.NoError(t, g.Update(0, "Andorra"))
	assert.Equal(t, 1, g.CompletedFields, "correct to correct must not double count")

	require.NoError(t, g.Update(1, "nope"))
	assert.Equal(t, 1, g.CompletedFields, "wrong input leaves the count alone")

	require.NoError(t, g.Update(0, ""))
	assert.Equal(t, 0, g.CompletedFields, "clearing a correct field decrements")
}

func TestUpdateCompletesAndUncompletes(t *testing.T) {
	g := newFrance()
	for id, answer := range []string{"Andorra", "Belgium", "Germany", "Spain", "ZZZ"} {
		require.NoError(t, g.Update(id, answer))
	}
	require.True(t, g.Complete)
	require.Equal(t, 5, g.CompletedFields)

	require.NoError(t, g.Update(2, "Italy"))
	assert.Equal(t, 4, g.CompletedFields)
	assert.False(t, g.Complete)

	require.NoError(t, g.Update(2, "germany"))
	assert.True(t, g.Complete)
}

func TestUpdateInvariantUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := New(france, names, rng)
	inputs := []string{"", "andorra", "BELGIUM", " Germany ", "spain", "zzz", "Italy", "Bel"}

	for i := 0; i < 500; i++ {
		id := rng.Intn(len(g.Fields))
		require.NoError(t, g.Update(id, inputs[rng.Intn(len(inputs))]))

		correct := 0
		for _, f := range g.Fields {
			if f.IsCorrect {
				correct++
			}
		}
		require.Equal(t, correct, g.CompletedFields, "step %d", i)
		require.Equal(t, g.CompletedFields == g.TotalFields, g.Complete, "step %d", i)
	}
}

func TestUpdateInvalidFieldDoesNotMutate(t *testing.T) {
	g := newFrance()
	require.NoError(t, g.Update(0, "Andorra"))
	before := g.View()

	err := g.Update(99, "Belgium")
	assert.ErrorIs(t, err, ErrInvalidField)

	if diff := cmp.Diff(before, g.View()); diff != "" {
		t.Fatalf("view changed after invalid update (-before +after):\n%s", diff)
	}
}

func TestViewHidesAnswers(t *testing.T) {
	g := newFrance()
	require.NoError(t, g.Update(3, "Spain"))

	b, err := json.Marshal(g.View())
	require.NoError(t, err)
	body := string(b)

	assert.NotContains(t, body, "correct_answer")
	for _, hidden := range []string{"Andorra", "Belgium", "Germany", "ZZZ"} {
		assert.NotContains(t, body, hidden)
	}
}

func TestViewIsACopy(t *testing.T) {
	g := newFrance()
	v := g.View()
	v.Fields[0].Value = "tampered"
	v.Fields[0].IsCorrect = true

	assert.Equal(t, "", g.Fields[0].Value)
	assert.False(t, g.Fields[0].IsCorrect)
}

func TestViewRemaining(t *testing.T) {
	g := newFrance()
	require.NoError(t, g.Update(0, "Andorra"))
	assert.Equal(t, 4, g.View().Remaining())
}

func TestReveal(t *testing.T) {
	g := newFrance()
	require.NoError(t, g.Update(1, "belgium"))

	r := g.Reveal()
	assert.Equal(t, "France", r.TargetName)
	require.Len(t, r.Fields, 5)
	assert.Equal(t, "Belgium", r.Fields[1].CorrectAnswer)
	assert.Equal(t, "belgium", r.Fields[1].Value)
	assert.True(t, r.Fields[1].IsCorrect)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"correct_answer":"Andorra"`)
}

func TestHint(t *testing.T) {
	solved := func() *Game {
		g := newFrance()
		for id, answer := range []string{"Andorra", "Belgium", "Germany"} {
			require.NoError(t, g.Update(id, answer))
		}
		require.NoError(t, g.Update(3, "Spian"))
		return g
	}

	tests := []struct {
		name string
		ints []int
		want string
	}{
		{name: "first letter", ints: []int{0, 0}, want: "💡 One country starts with 'S'"},
		{name: "length", ints: []int{1, 1}, want: "💡 One country has 3 letters"},
		{name: "contained letter", ints: []int{0, 2, 1}, want: "💡 One country contains the letter 'p'"},
		{name: "contained letter of code", ints: []int{1, 2, 0}, want: "💡 One country contains the letter 'z'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := solved().Hint(&fakeRand{ints: tt.ints})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHintNeverNamesSolvedOrWholeAnswer(t *testing.T) {
	g := newFrance()
	for id, answer := range []string{"Andorra", "Belgium", "Germany", "ZZZ"} {
		require.NoError(t, g.Update(id, answer))
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		h := g.Hint(rng)
		assert.NotContains(t, h, "Spain")
		assert.True(t, strings.HasPrefix(h, "💡 One country"), h)
	}
}

func TestHintAllComplete(t *testing.T) {
	g := newFrance()
	for id, answer := range []string{"Andorra", "Belgium", "Germany", "Spain", "ZZZ"} {
		require.NoError(t, g.Update(id, answer))
	}
	assert.Equal(t, HintAllComplete, g.Hint(&fakeRand{}))
}
