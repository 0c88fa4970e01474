package task

import (
	"strings"
	"testing"
)

func TestParseFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Filter
		wantErr bool
	}{
		{input: "", want: FilterAll},
		{input: "all", want: FilterAll},
		{input: "Active", want: FilterActive},
		{input: " completed ", want: FilterCompleted},
		{input: "done", want: FilterAll, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFilter(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFilter(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFilter(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFilter_ErrorNamesFilters(t *testing.T) {
	t.Parallel()

	_, err := ParseFilter("done")
	if err == nil {
		t.Fatal("ParseFilter(\"done\") returned nil error")
	}
	for _, f := range Filters {
		if !strings.Contains(err.Error(), string(f)) {
			t.Errorf("error %q does not mention %q", err, f)
		}
	}
}

func TestComputeStats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		tasks []Task
		want  Stats
	}{
		{
			name:  "empty collection",
			tasks: nil,
			want:  Stats{},
		},
		{
			name:  "none done",
			tasks: []Task{{ID: "a"}, {ID: "b"}},
			want:  Stats{Total: 2, Remaining: 2},
		},
		{
			name:  "half done",
			tasks: []Task{{ID: "a", Done: true}, {ID: "b"}},
			want:  Stats{Total: 2, Completed: 1, Remaining: 1, Progress: 50},
		},
		{
			name:  "rounds down",
			tasks: []Task{{ID: "a", Done: true}, {ID: "b"}, {ID: "c"}},
			want:  Stats{Total: 3, Completed: 1, Remaining: 2, Progress: 33},
		},
		{
			name:  "rounds up",
			tasks: []Task{{ID: "a", Done: true}, {ID: "b", Done: true}, {ID: "c"}},
			want:  Stats{Total: 3, Completed: 2, Remaining: 1, Progress: 67},
		},
		{
			name:  "all done",
			tasks: []Task{{ID: "a", Done: true}},
			want:  Stats{Total: 1, Completed: 1, Progress: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ComputeStats(tt.tasks); got != tt.want {
				t.Errorf("ComputeStats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFilterTasks_PreservesOrder(t *testing.T) {
	t.Parallel()

	tasks := []Task{
		{ID: "1", Done: false},
		{ID: "2", Done: true},
		{ID: "3", Done: false},
		{ID: "4", Done: true},
	}

	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterAll, []string{"1", "2", "3", "4"}},
		{FilterActive, []string{"1", "3"}},
		{FilterCompleted, []string{"2", "4"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			t.Parallel()

			got := FilterTasks(tasks, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d tasks, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}
