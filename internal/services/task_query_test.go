package services

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildTaskQuery(t *testing.T) {
	tests := []struct {
		name       string
		filter     TaskFilter
		wantFilter bson.M
		wantSort   bson.D
	}{
		{
			name:       "no constraints, default sort",
			filter:     TaskFilter{},
			wantFilter: bson.M{},
			wantSort:   bson.D{{Key: "createdAt", Value: -1}},
		},
		{
			name:       "completed false is a predicate, not a default",
			filter:     TaskFilter{Completed: boolPtr(false)},
			wantFilter: bson.M{"completed": false},
			wantSort:   bson.D{{Key: "createdAt", Value: -1}},
		},
		{
			name:       "filter composition",
			filter:     TaskFilter{Completed: boolPtr(false), Priority: "high"},
			wantFilter: bson.M{"completed": false, "priority": "high"},
			wantSort:   bson.D{{Key: "createdAt", Value: -1}},
		},
		{
			name:       "explicit sort ascending",
			filter:     TaskFilter{SortBy: "dueDate", Order: "asc"},
			wantFilter: bson.M{},
			wantSort:   bson.D{{Key: "dueDate", Value: 1}},
		},
		{
			name:       "unknown sort field falls back to createdAt",
			filter:     TaskFilter{SortBy: "owner"},
			wantFilter: bson.M{},
			wantSort:   bson.D{{Key: "createdAt", Value: -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, sort := BuildTaskQuery(tt.filter)

			if len(filter) != len(tt.wantFilter) {
				t.Fatalf("filter = %v, want %v", filter, tt.wantFilter)
			}
			for k, want := range tt.wantFilter {
				if got, ok := filter[k]; !ok || got != want {
					t.Errorf("filter[%q] = %v, want %v", k, got, want)
				}
			}

			if len(sort) != 1 {
				t.Fatalf("sort = %v, want single-key sort", sort)
			}
			if sort[0].Key != tt.wantSort[0].Key || sort[0].Value != tt.wantSort[0].Value {
				t.Errorf("sort = %v, want %v", sort, tt.wantSort)
			}
		})
	}
}

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		name      string
		completed int64
		total     int64
		want      int
	}{
		{name: "empty collection is zero, not an error", completed: 0, total: 0, want: 0},
		{name: "one of three", completed: 1, total: 3, want: 33},
		{name: "two of three", completed: 2, total: 3, want: 67},
		{name: "all done", completed: 5, total: 5, want: 100},
		{name: "half rounds up", completed: 1, total: 2, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := completionPercentage(tt.completed, tt.total); got != tt.want {
				t.Errorf("completionPercentage(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}
