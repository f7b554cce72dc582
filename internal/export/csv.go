package export

import (
	"strings"

	"github.com/Tiliavir/timelog/internal/model"
)

// header returns the CSV header row for v.
func header(v Variant) string {
	label := "Task"
	if v == VariantDescription {
		label = "Description"
	}
	return label + ",Duration (HH:MM:SS),Date & Time"
}

// CSV renders entries in log order. The label column is always quoted. It
// returns false, and no output, when there are no entries.
func CSV(entries []model.TimeEntry, tasks []model.Task, opts Options) ([]byte, bool) {
	if len(entries) == 0 {
		return nil, false
	}
	lines := []string{header(opts.Variant)}
	for _, r := range Rows(entries, tasks) {
		lines = append(lines, strings.Join([]string{
			quote(r.Label),
			r.Duration,
			csvEscape(r.Timestamp.In(opts.location()).Format(opts.layout())),
		}, ","))
	}
	return []byte(strings.Join(lines, "\n")), true
}

// quote wraps s in double quotes, doubling any quote inside.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// csvEscape quotes s only if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return quote(s)
}
