package sweep

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestAxisExpand(t *testing.T) {
	axis := Axis{
		"b": {"x", "y", "z"},
		"a": {1, 2},
	}

	entries, err := axis.Expand()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 6 || axis.Len() != 6 {
		t.Fatalf("entries: \n\twant(6) \n\thave(%v)", len(entries))
	}

	want := []string{
		"map[a:1 b:x]", "map[a:1 b:y]", "map[a:1 b:z]",
		"map[a:2 b:x]", "map[a:2 b:y]", "map[a:2 b:z]",
	}
	for i := range want {
		if got := fmt.Sprint(map[string]interface{}(entries[i])); got != want[i] {
			t.Errorf("entry %v: \n\twant(%v) \n\thave(%v)", i, want[i], got)
		}
	}
}

func TestAxisExpandEmpty(t *testing.T) {
	entries, err := Axis{}.Expand()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || len(entries[0]) != 0 {
		t.Errorf("expected a single empty entry, got %v", entries)
	}

	if _, err := (Axis{"a": {}}).Expand(); err == nil {
		t.Error("expected error for option with no candidate values")
	}
	if _, err := (Grid{{"a": {1}}, {"b": nil}}).Expand(); err == nil {
		t.Error("expected error for grid with an empty axis")
	}
}

func TestGridExpand(t *testing.T) {
	grid := Grid{
		{"a": {1, 2}},
		{"b": {3}, "c": {4, 5, 6}},
	}
	entries, err := grid.Expand()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 || grid.Len() != 5 {
		t.Errorf("entries: \n\twant(5) \n\thave(%v)", len(entries))
	}
	if entries[2]["b"] != 3 || entries[2]["c"] != 4 {
		t.Errorf("axes should be concatenated in order, got %v", entries)
	}
}

func TestTransfer(t *testing.T) {
	settings := []Axis{
		{},
		{"reset_actor_on_task_change": {false}},
		{"multihead_archs": {false}, "exploration_kind": {"previous"}},
	}
	pairs := [][]string{{"a", "a"}, {"a", "b"}, {"b", "a"}, {"b", "b"}}
	const seeds = 5

	entries, err := Transfer(settings, pairs, seeds).Expand()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(settings)*len(pairs)*seeds {
		t.Fatalf("entries: \n\twant(%v) \n\thave(%v)",
			len(settings)*len(pairs)*seeds, len(entries))
	}

	seen := make(map[int]bool)
	for i, entry := range entries {
		seed := entry["seed"].(int)
		if seen[seed] {
			t.Errorf("seed %v repeated", seed)
		}
		seen[seed] = true
		if seed != i {
			t.Errorf("entry %v: seed %v", i, seed)
		}

		pair := entry["task_list"].([]string)
		want := pairs[(i/seeds)%len(pairs)]
		if fmt.Sprint(pair) != fmt.Sprint(want) {
			t.Errorf("entry %v: task_list \n\twant(%v) \n\thave(%v)", i, want,
				pair)
		}
	}

	last := entries[len(entries)-1]
	if last["exploration_kind"] != "previous" || last["multihead_archs"] != false {
		t.Errorf("setting options missing from %v", last)
	}
	if _, ok := settings[0]["seed"]; ok {
		t.Error("settings should not be modified")
	}
}

func TestPreview(t *testing.T) {
	entries := make([]Entry, 25)
	for i := range entries {
		entries[i] = Entry{"seed": i}
	}

	var buf bytes.Buffer
	Preview(&buf, entries)
	out := buf.String()
	for _, seed := range []int{0, 9, 15, 24} {
		if !strings.Contains(out, fmt.Sprintf("map[seed:%v]", seed)) {
			t.Errorf("seed %v missing from preview %q", seed, out)
		}
	}
	for _, seed := range []int{10, 14} {
		if strings.Contains(out, fmt.Sprintf("map[seed:%v]", seed)) {
			t.Errorf("seed %v should not be previewed", seed)
		}
	}
}
