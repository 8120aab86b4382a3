// Package ingest loads player populations from CSV exports.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/scoutmap/internal/domain/model"
)

// Descriptive columns. Every other column becomes an attribute.
const (
	ColumnID       = "ID"
	ColumnName     = "Name"
	ColumnPosition = "Position"
	ColumnNation   = "Nation"
	ColumnTeam     = "Team"
	ColumnGender   = "GENDER"
)

// Report describes one load.
type Report struct {
	Rows    int
	Skipped int
}

// LoadFile opens path and parses it with LoadCSV.
func LoadFile(path string) ([]*model.Player, Report, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, Report{}, fmt.Errorf("open players csv: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadCSV(f)
}

// LoadCSV parses a header row followed by one player per row. Numeric cells
// become float64, empty and non-finite cells nil, anything else stays a string. The
// Position column is kept both as the player's position and as an attribute.
// Malformed rows are skipped and counted; any other read error aborts the
// load.
func LoadCSV(r io.Reader) ([]*model.Player, Report, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, Report{}, ErrMissingHeader
	}
	if err != nil {
		return nil, Report{}, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var (
		players []*model.Player
		rep     Report
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rep.Rows++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				rep.Skipped++
				continue
			}
			return nil, rep, fmt.Errorf("read csv row: %w", err)
		}
		players = append(players, parseRow(headers, row))
	}

	if len(players) == 0 {
		return nil, rep, ErrEmptyInput
	}
	return players, rep, nil
}

func parseRow(headers, row []string) *model.Player {
	p := model.NewPlayer("")
	for i, h := range headers {
		if i >= len(row) {
			break
		}
		val := strings.TrimSpace(row[i])
		switch h {
		case ColumnID:
			p.ID = val
			continue
		case ColumnName:
			p.Name = val
			continue
		case ColumnNation:
			p.Nation = val
		case ColumnTeam:
			p.Team = val
		case ColumnGender:
			p.Gender = val
		case ColumnPosition:
			p.Position = val
		}
		p.Attrs[h] = cell(val)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return p
}

func cell(val string) any {
	if val == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	}
	return val
}
