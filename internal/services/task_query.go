package services

import "go.mongodb.org/mongo-driver/bson"

// TaskFilter is the sanitized filter/sort specification for listing tasks.
// Nil/empty fields impose no constraint.
type TaskFilter struct {
	Completed *bool
	Priority  string
	SortBy    string
	Order     string
}

// sortFields is the closed set of sortable fields mapped to their stored
// keys. Anything outside it was already rejected at the validation boundary;
// the fallback below only guards direct callers.
var sortFields = map[string]string{
	"title":     "title",
	"completed": "completed",
	"priority":  "priority",
	"dueDate":   "dueDate",
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
}

// BuildTaskQuery translates a TaskFilter into a persistence-layer filter and
// single-key sort. Absent filter keys contribute no predicate. Defaults:
// sort by createdAt, descending.
func BuildTaskQuery(f TaskFilter) (bson.M, bson.D) {
	filter := bson.M{}
	if f.Completed != nil {
		filter["completed"] = *f.Completed
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}

	field, ok := sortFields[f.SortBy]
	if !ok {
		field = "createdAt"
	}
	direction := -1
	if f.Order == "asc" {
		direction = 1
	}

	return filter, bson.D{{Key: field, Value: direction}}
}
