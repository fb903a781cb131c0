// Package export writes recorded games in formats suited to spreadsheets
// and scripts.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/teambalance/core/history"
)

// WriteJSON writes one JSON object per record.
func WriteJSON(w io.Writer, recs []history.Record) error {
	enc := json.NewEncoder(w)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes one row per player and game. Team numbers start at 1.
func WriteCSV(w io.Writer, recs []history.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"game_id", "timestamp", "strategy", "status", "team", "player"}); err != nil {
		return err
	}
	for _, r := range recs {
		for t, team := range r.Teams {
			for _, name := range team {
				row := []string{
					r.ID,
					r.Timestamp.Format(time.RFC3339),
					r.Strategy,
					r.Status,
					strconv.Itoa(t + 1),
					name,
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
