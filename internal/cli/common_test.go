package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sarawak-explorer/itinerary/internal/itinerary"
)

func TestFormatJSON(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"simple map", map[string]string{"key": "value"}},
		{"empty map", map[string]string{}},
		{"array", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatJSON(tt.input)
			if err != nil {
				t.Fatalf("formatJSON() error = %v", err)
			}

			var v interface{}
			if err := json.Unmarshal([]byte(got), &v); err != nil {
				t.Errorf("formatJSON() produced invalid JSON: %v", err)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", fmt.Errorf("%w: id 42", itinerary.ErrNotFound), "Itinerary item no longer exists"},
		{"empty description", &itinerary.ValidationError{Kind: itinerary.EmptyDescription}, "Trip description is required"},
		{"other", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatError(tt.err)
			if !strings.Contains(got, "Error:") {
				t.Errorf("formatError() = %q, expected to contain 'Error:'", got)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("formatError() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestOutputJSON(t *testing.T) {
	out := captureStdout(t, func() {
		if err := outputJSON(map[string]string{"test": "value"}); err != nil {
			t.Fatalf("outputJSON() error = %v", err)
		}
	})

	var v map[string]string
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("outputJSON() produced invalid JSON: %v", err)
	}
	if v["test"] != "value" {
		t.Errorf("outputJSON() = %v", v)
	}
}

func TestPrintCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 entries"},
		{1, "1 entry"},
		{2, "2 entries"},
	}
	for _, tt := range tests {
		if got := PrintCount(tt.n, "entry", "entries"); got != tt.want {
			t.Errorf("PrintCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
