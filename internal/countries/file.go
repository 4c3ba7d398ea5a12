package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/robalobadob/borders/apps/go-server/assets"
	"github.com/robalobadob/borders/apps/go-server/internal/territory"
)

// File reads records from a JSON dump shaped like the /all response.
type File struct {
	Path string
}

func (f File) FetchAll(ctx context.Context) ([]territory.Record, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", territory.ErrDataSource, err)
	}
	return decode(f.Path, b)
}

// Embedded serves the snapshot bundled with the binary.
type Embedded struct{}

func (Embedded) FetchAll(ctx context.Context) ([]territory.Record, error) {
	b, err := assets.Countries()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", territory.ErrDataSource, err)
	}
	return decode("embedded", b)
}

func decode(name string, b []byte) ([]territory.Record, error) {
	var recs []territory.Record
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", territory.ErrDataSource, name, err)
	}
	return recs, nil
}
