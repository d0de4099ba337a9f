package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task priority levels.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Priorities lists the accepted priority values.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// Task represents a single task record. Tasks are shared: any authenticated
// user may read and modify any task.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Completed   bool               `bson:"completed" json:"completed"`
	Priority    string             `bson:"priority" json:"priority"`
	DueDate     *time.Time         `bson:"dueDate" json:"dueDate"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TaskStats holds count-based aggregates over the task collection.
type TaskStats struct {
	Total                int64 `bson:"total" json:"total"`
	Completed            int64 `bson:"completed" json:"completed"`
	Pending              int64 `bson:"pending" json:"pending"`
	HighPriority         int64 `bson:"highPriority" json:"highPriority"`
	Overdue              int64 `bson:"overdue" json:"overdue"`
	CompletionPercentage int   `bson:"-" json:"completionPercentage"`
}
