// internal/game/types.go
//
// Core type definitions for the border quiz engine.
// Defines:
//   - Field: one answer slot, holding the hidden correct answer.
//   - Game: the authoritative state of one session.
//   - View / FieldView: the client-safe projection (no answers).
//   - Reveal / RevealedField: the explicit answer disclosure.

package game

import "time"

// Field is one answer slot. Answer never leaves the engine except through Reveal.
type Field struct {
	ID        int    // Stable within a game; assigned in border order.
	Value     string // Last trimmed input.
	IsFilled  bool   // Value is non-empty.
	IsCorrect bool   // Value matches Answer, case-insensitively.
	Answer    string // Display name of the bordering territory.
}

// Game holds the state of a single quiz session.
type Game struct {
	ID              string
	TargetName      string
	TargetCode      string
	Fields          []*Field // Display order; shuffled at creation.
	TotalFields     int      // Border count of the target; fixed.
	CompletedFields int      // Always equals the number of correct fields.
	Complete        bool     // CompletedFields == TotalFields.
	StartedAt       time.Time
}

// FieldView is a Field without its answer.
type FieldView struct {
	ID        int    `json:"id"`
	Value     string `json:"value"`
	IsCorrect bool   `json:"is_correct"`
	IsFilled  bool   `json:"is_filled"`
}

// View is the client-safe copy of a Game.
type View struct {
	GameID          string      `json:"game_id"`
	TargetName      string      `json:"target_country"`
	TargetCode      string      `json:"target_country_code"`
	Fields          []FieldView `json:"fields"`
	TotalFields     int         `json:"total_fields"`
	CompletedFields int         `json:"completed_fields"`
	Complete        bool        `json:"game_complete"`
}

// Remaining is the number of fields still to be answered correctly.
func (v View) Remaining() int { return v.TotalFields - v.CompletedFields }

// Field finds a field of the view by id.
func (v View) Field(id int) (FieldView, bool) {
	for _, f := range v.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldView{}, false
}

// RevealedField is a FieldView plus its correct answer.
type RevealedField struct {
	FieldView
	CorrectAnswer string `json:"correct_answer"`
}

// Reveal carries every answer of the current game.
type Reveal struct {
	TargetName string          `json:"target_country"`
	Fields     []RevealedField `json:"fields"`
}
