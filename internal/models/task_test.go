package models

import "testing"

func TestValidPriority(t *testing.T) {
	tests := []struct {
		name     string
		priority string
		want     bool
	}{
		{name: "low", priority: "low", want: true},
		{name: "medium", priority: "medium", want: true},
		{name: "high", priority: "high", want: true},
		{name: "empty", priority: "", want: false},
		{name: "unknown", priority: "urgent", want: false},
		{name: "wrong case", priority: "High", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidPriority(tt.priority); got != tt.want {
				t.Errorf("ValidPriority(%q) = %v, want %v", tt.priority, got, tt.want)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{name: "pending", status: "pending", want: true},
		{name: "in-progress", status: "in-progress", want: true},
		{name: "completed", status: "completed", want: true},
		{name: "empty", status: "", want: false},
		{name: "underscore variant", status: "in_progress", want: false},
		{name: "unknown", status: "done", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidStatus(tt.status); got != tt.want {
				t.Errorf("ValidStatus(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestValidFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   bool
	}{
		{name: "all", filter: "all", want: true},
		{name: "pending", filter: "pending", want: true},
		{name: "in-progress", filter: "in-progress", want: true},
		{name: "completed", filter: "completed", want: true},
		{name: "empty", filter: "", want: false},
		{name: "unknown", filter: "archived", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidFilter(tt.filter); got != tt.want {
				t.Errorf("ValidFilter(%q) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestCompletedFor(t *testing.T) {
	if !CompletedFor(StatusCompleted) {
		t.Error("CompletedFor(completed) = false, want true")
	}
	if CompletedFor(StatusPending) || CompletedFor(StatusInProgress) {
		t.Error("CompletedFor should be false for non-completed statuses")
	}
}
