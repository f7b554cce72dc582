package export

import (
	"encoding/json"
	"fmt"

	"github.com/Tiliavir/timelog/internal/model"
)

// JSON renders the resolved rows as an indented JSON array. It returns false
// when there are no entries.
func JSON(entries []model.TimeEntry, tasks []model.Task) ([]byte, bool, error) {
	if len(entries) == 0 {
		return nil, false, nil
	}
	data, err := json.MarshalIndent(Rows(entries, tasks), "", "  ")
	if err != nil {
		return nil, false, fmt.Errorf("error encoding JSON: %w", err)
	}
	return data, true, nil
}
