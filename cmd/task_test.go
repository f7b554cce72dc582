package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Tiliavir/timelog/internal/model"
)

func TestPrintTasks(t *testing.T) {
	var buf bytes.Buffer
	printTasks(&buf, nil, reportEntries)
	if !strings.HasPrefix(buf.String(), "No tasks.") {
		t.Errorf("empty task list = %q", buf.String())
	}

	buf.Reset()
	tasks := append(append([]model.Task{}, reportTasks...), model.Task{ID: 3, Name: "Idle"})
	printTasks(&buf, tasks, reportEntries)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	want := []struct{ name, total string }{
		{"Build", "1h 0m 0s"},
		{"Alpha", "10m 0s"},
		{"Idle", "0s"},
	}
	for i, w := range want {
		fields := strings.Fields(lines[i])
		if fields[1] != w.name || !strings.HasSuffix(lines[i], " "+w.total) {
			t.Errorf("line %d = %q, want %s with total %s", i, lines[i], w.name, w.total)
		}
	}
}
