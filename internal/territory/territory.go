// internal/territory/territory.go
//
// Territory records as delivered by a data provider, and their canonical form.
//
// Provider records are loosely shaped:
//   - "name" is either a plain string or an object carrying a "common" name.
//   - the identifier lives under "code", or under "cca3" when "code" is absent.
//   - "borders" is a list of identifiers of neighbouring territories.
//
// Normalize turns one such record into a Territory or rejects it.

package territory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrDataSource marks every failure to obtain a usable catalog:
// unreachable provider, undecodable payload, or malformed records.
var ErrDataSource = errors.New("territory data source")

var (
	ErrMissingName = errors.New("missing name")
	ErrMissingCode = errors.New("missing code")
)

// Source supplies raw territory records. Implementations live in the countries package.
type Source interface {
	FetchAll(ctx context.Context) ([]Record, error)
}

// Territory is the canonical, immutable form of a provider record.
// Borders must be treated as read-only by callers.
type Territory struct {
	Name    string   `json:"name"`
	Code    string   `json:"code"`
	Borders []string `json:"borders"`
}

// Name accepts both shapes of the provider's "name" key.
type Name struct {
	Common string
}

// UnmarshalJSON decodes either "France" or {"common":"France", ...}.
func (n *Name) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		n.Common = s
		return nil
	}
	var obj struct {
		Common string `json:"common"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("name: want string or object: %w", err)
	}
	n.Common = obj.Common
	return nil
}

// MarshalJSON always writes the plain string form.
func (n Name) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Common)
}

// Record is one raw provider entry.
type Record struct {
	Name    Name     `json:"name"`
	Code    string   `json:"code,omitempty"`
	CCA3    string   `json:"cca3,omitempty"`
	Borders []string `json:"borders"`
}

// Normalize resolves the name and code aliases of r.
// Blank border entries are dropped; order is otherwise preserved.
func Normalize(r Record) (Territory, error) {
	name := strings.TrimSpace(r.Name.Common)
	if name == "" {
		return Territory{}, ErrMissingName
	}
	code := strings.TrimSpace(r.Code)
	if code == "" {
		code = strings.TrimSpace(r.CCA3)
	}
	if code == "" {
		return Territory{}, ErrMissingCode
	}

	borders := make([]string, 0, len(r.Borders))
	for _, b := range r.Borders {
		if b = strings.TrimSpace(b); b != "" {
			borders = append(borders, b)
		}
	}
	return Territory{Name: name, Code: code, Borders: borders}, nil
}
