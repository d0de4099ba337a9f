package validation

import (
	"regexp"

	"github.com/taskforge/taskforge/internal/models"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Sort fields accepted by the task list endpoint.
var sortByValues = []string{"title", "completed", "priority", "dueDate", "createdAt", "updatedAt"}

// TaskCreate validates the body of POST /api/tasks.
var TaskCreate = RuleSet{
	Name:          "task-create",
	ApplyDefaults: true,
	Fields: map[string]Rule{
		"title": {
			Type:     String,
			Required: true,
			Trim:     true,
			MinLen:   1,
			MaxLen:   100,
		},
		"description": {
			Type:       String,
			Trim:       true,
			MaxLen:     500,
			Default:    "",
			HasDefault: true,
		},
		"completed": {
			Type:       Bool,
			Default:    false,
			HasDefault: true,
		},
		"priority": {
			Type:       String,
			Enum:       models.Priorities,
			Default:    models.PriorityMedium,
			HasDefault: true,
		},
		"dueDate": {
			Type:      Timestamp,
			AllowNull: true,
		},
	},
}

// TaskUpdate validates the body of PUT /api/tasks/{id}. No defaults are
// injected; an absent field means "leave unchanged".
var TaskUpdate = RuleSet{
	Name:       "task-update",
	RequireOne: true,
	Fields: map[string]Rule{
		"title": {
			Type:   String,
			Trim:   true,
			MinLen: 1,
			MaxLen: 100,
		},
		"description": {
			Type:   String,
			Trim:   true,
			MaxLen: 500,
		},
		"completed": {
			Type: Bool,
		},
		"priority": {
			Type: String,
			Enum: models.Priorities,
		},
		"dueDate": {
			Type:      Timestamp,
			AllowNull: true,
		},
	},
}

// Register validates the body of POST /api/auth/register.
var Register = RuleSet{
	Name:          "user-register",
	ApplyDefaults: true,
	Fields: map[string]Rule{
		"username": {
			Type:       String,
			Required:   true,
			Trim:       true,
			MinLen:     3,
			MaxLen:     30,
			Pattern:    usernamePattern,
			PatternMsg: "username may only contain letters, numbers and underscores",
		},
		"email": {
			Type:       String,
			Required:   true,
			Trim:       true,
			Lowercase:  true,
			MaxLen:     254,
			Pattern:    emailPattern,
			PatternMsg: "email must be a valid email address",
		},
		"password": {
			Type:     String,
			Required: true,
			MinLen:   6,
			MaxLen:   128,
		},
	},
}

// Login validates the body of POST /api/auth/login.
var Login = RuleSet{
	Name: "user-login",
	Fields: map[string]Rule{
		"username": {
			Type:     String,
			Required: true,
			Trim:     true,
		},
		"password": {
			Type:     String,
			Required: true,
		},
	},
}

// TaskQuery validates the query string of GET /api/tasks. Unknown keys are
// rejected here so they never reach the query builder.
var TaskQuery = RuleSet{
	Name:          "task-query",
	RejectUnknown: true,
	Fields: map[string]Rule{
		"completed": {
			Type: Bool,
		},
		"priority": {
			Type: String,
			Enum: models.Priorities,
		},
		"sortBy": {
			Type: String,
			Enum: sortByValues,
		},
		"order": {
			Type: String,
			Enum: []string{"asc", "desc"},
		},
	},
}
