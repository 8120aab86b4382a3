package squadgen

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/okian/scoutmap/internal/domain/model"
)

// WriteCSV writes players in the layout the ingest loader reads.
func WriteCSV(w io.Writer, players []*model.Player) error {
	cw := csv.NewWriter(w)
	cols := Columns()
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(cols))
	for _, p := range players {
		row[0], row[1], row[2], row[3], row[4], row[5] = p.ID, p.Name, p.Position, p.Nation, p.Team, p.Gender
		for j := 6; j < len(cols); j++ {
			if v, ok := p.Numeric(cols[j]); ok {
				row[j] = strconv.FormatFloat(v, 'f', -1, 64)
			} else {
				row[j] = ""
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write player %s: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
