package export

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/timecalc"
)

// PDF writes a one-table report of entries to path. It returns false, and
// writes nothing, when there are no entries.
func PDF(path string, entries []model.TimeEntry, tasks []model.Task, opts Options, now time.Time) (bool, error) {
	if len(entries) == 0 {
		return false, nil
	}
	rows := Rows(entries, tasks)

	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Time Entries", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(8, func() {
			m.Col(12, func() {
				m.Text("Exported "+now.In(opts.location()).Format(opts.layout()), props.Text{
					Top:   2,
					Style: consts.Normal,
					Align: consts.Center,
					Size:  10,
				})
			})
		})
	})

	label := "Task"
	if opts.Variant == VariantDescription {
		label = "Description"
	}
	headers := []string{label, "Duration (HH:MM:SS)", "Date & Time"}

	var total int64
	content := make([][]string, 0, len(rows))
	for _, r := range rows {
		total += r.DurationSeconds
		content = append(content, []string{
			r.Label,
			r.Duration,
			r.Timestamp.In(opts.location()).Format(opts.layout()),
		})
	}

	m.TableList(headers, content, props.TableList{
		HeaderProp: props.TableListContent{
			Size:      10,
			GridSizes: []uint{6, 3, 3},
		},
		ContentProp: props.TableListContent{
			Size:      10,
			GridSizes: []uint{6, 3, 3},
		},
		Align:                consts.Center,
		AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
		HeaderContentSpace:   1,
		Line:                 false,
	})

	m.Row(20, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Total: %s", timecalc.FormatDurationHHMMSS(total)), props.Text{
				Top:   10,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  12,
			})
		})
	})

	if err := m.OutputFileAndClose(path); err != nil {
		return false, fmt.Errorf("writing PDF %s: %w", path, err)
	}
	return true, nil
}
