package cmd

import (
	"errors"
	"testing"
)

func TestFailClosesStoreBeforeExit(t *testing.T) {
	origClose, origExit := closeStore, exit
	t.Cleanup(func() { closeStore, exit = origClose, origExit })

	var calls []string
	closeStore = func() error {
		calls = append(calls, "close")
		return nil
	}
	exit = func(code int) {
		calls = append(calls, map[int]string{1: "exit 1", 2: "exit 2"}[code])
	}

	storageFail(errors.New("disk full"))
	usageFail("No task with id %d.", 7)

	want := []string{"close", "exit 2", "close", "exit 1"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls = %v, want %v", calls, want)
			break
		}
	}
}
