// Package task implements the task list: an ordered, newest-first collection
// of tasks that is written to a key-value store after every change.
package task

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Task is a single to-do item.
type Task struct {
	ID        string
	Text      string
	Done      bool
	CreatedAt time.Time // zero for tasks loaded from legacy snapshots
}

// Filter selects which tasks are visible.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter converts a string to a Filter. An empty string is FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		names := make([]string, len(Filters))
		for i, f := range Filters {
			names[i] = string(f)
		}
		return FilterAll, fmt.Errorf("unknown filter %q, must be one of %s", s, strings.Join(names, ", "))
	}
}

// Match reports whether t is visible under the filter.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Done
	case FilterCompleted:
		return t.Done
	default:
		return true
	}
}

// Stats are aggregate counts derived from a collection.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
	Progress  int `json:"progress"` // percent complete, 0 when Total is 0
}

// ComputeStats derives Stats from tasks.
func ComputeStats(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Done {
			s.Completed++
		}
	}
	s.Remaining = s.Total - s.Completed
	if s.Total > 0 {
		s.Progress = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// FilterTasks returns the tasks matching f, in their original order.
func FilterTasks(tasks []Task, f Filter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
