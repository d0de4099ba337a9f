package services

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"

	"github.com/taskforge/taskforge/internal/apperr"
	"github.com/taskforge/taskforge/internal/database"
	"github.com/taskforge/taskforge/internal/models"
)

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	CreateTask(ctx context.Context, input TaskCreateInput) (models.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	GetTaskByID(ctx context.Context, id string) (models.Task, error)
	UpdateTask(ctx context.Context, id string, input TaskUpdateInput) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	TaskStats(ctx context.Context) (models.TaskStats, error)
}

// TaskCreateInput carries validated fields for task creation. Defaults have
// already been applied by the validation layer.
type TaskCreateInput struct {
	Title       string
	Description string
	Completed   bool
	Priority    string
	DueDate     *time.Time
}

// TaskUpdateInput carries validated fields for a partial update. Nil means
// "leave unchanged"; DueDateSet distinguishes clearing the due date from not
// touching it.
type TaskUpdateInput struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *string
	DueDate     *time.Time
	DueDateSet  bool
}

// TaskService provides business logic for task management.
type TaskService struct {
	tasks *mongo.Collection
	stats singleflight.Group
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *mongo.Database) *TaskService {
	return &TaskService{tasks: db.Collection(database.TasksCollection)}
}

// parseTaskID validates the id format before any lookup happens.
func parseTaskID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.MalformedID("Invalid task id")
	}
	return oid, nil
}

// CreateTask persists a new task.
func (s *TaskService) CreateTask(ctx context.Context, input TaskCreateInput) (models.Task, error) {
	now := time.Now().UTC()
	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := s.tasks.InsertOne(ctx, task)
	if err != nil {
		return models.Task{}, apperr.Internal(err)
	}
	task.ID = res.InsertedID.(primitive.ObjectID)
	return task, nil
}

// ListTasks returns all tasks matching the filter, sorted per the filter's
// sort specification.
func (s *TaskService) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query, sort := BuildTaskQuery(filter)

	cursor, err := s.tasks.Find(ctx, query, options.Find().SetSort(sort))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	tasks := make([]models.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, apperr.Internal(err)
	}
	return tasks, nil
}

// GetTaskByID retrieves a single task by its id.
func (s *TaskService) GetTaskByID(ctx context.Context, id string) (models.Task, error) {
	oid, err := parseTaskID(id)
	if err != nil {
		return models.Task{}, err
	}

	var task models.Task
	err = s.tasks.FindOne(ctx, bson.M{"_id": oid}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, apperr.NotFound("Task not found")
		}
		return models.Task{}, apperr.Internal(err)
	}
	return task, nil
}

// UpdateTask applies a partial update and returns the task as stored after
// the mutation. updatedAt is refreshed on every mutation.
func (s *TaskService) UpdateTask(ctx context.Context, id string, input TaskUpdateInput) (models.Task, error) {
	oid, err := parseTaskID(id)
	if err != nil {
		return models.Task{}, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Completed != nil {
		set["completed"] = *input.Completed
	}
	if input.Priority != nil {
		set["priority"] = *input.Priority
	}
	if input.DueDateSet {
		set["dueDate"] = input.DueDate
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var task models.Task
	err = s.tasks.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, apperr.NotFound("Task not found")
		}
		return models.Task{}, apperr.Internal(err)
	}
	return task, nil
}

// DeleteTask removes a task permanently.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	oid, err := parseTaskID(id)
	if err != nil {
		return err
	}

	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Internal(err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Task not found")
	}
	return nil
}

// TaskStats computes the count aggregates in a single pipeline pass.
// Concurrent identical requests share one aggregation via singleflight.
func (s *TaskService) TaskStats(ctx context.Context) (models.TaskStats, error) {
	v, err, _ := s.stats.Do("stats", func() (any, error) {
		return s.computeStats(ctx)
	})
	if err != nil {
		return models.TaskStats{}, err
	}
	return v.(models.TaskStats), nil
}

func (s *TaskService) computeStats(ctx context.Context) (models.TaskStats, error) {
	now := time.Now().UTC()
	condSum := func(cond any) bson.D {
		return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{cond, 1, 0}}}}}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "completed", Value: condSum("$completed")},
			{Key: "pending", Value: condSum(bson.D{{Key: "$eq", Value: bson.A{"$completed", false}}})},
			{Key: "highPriority", Value: condSum(bson.D{{Key: "$eq", Value: bson.A{"$priority", models.PriorityHigh}}})},
			{Key: "overdue", Value: condSum(bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "$ne", Value: bson.A{"$dueDate", nil}}},
				bson.D{{Key: "$lt", Value: bson.A{"$dueDate", now}}},
				bson.D{{Key: "$eq", Value: bson.A{"$completed", false}}},
			}}})},
		}}},
	}

	cursor, err := s.tasks.Aggregate(ctx, pipeline)
	if err != nil {
		return models.TaskStats{}, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	var stats models.TaskStats
	if cursor.Next(ctx) {
		if err := cursor.Decode(&stats); err != nil {
			return models.TaskStats{}, apperr.Internal(err)
		}
	}
	// An empty collection yields no group document; the zero stats are the
	// defined result, not an error.
	stats.CompletionPercentage = completionPercentage(stats.Completed, stats.Total)
	return stats, nil
}

// completionPercentage rounds completed/total to a whole percentage, with 0
// as the defined result for an empty collection.
func completionPercentage(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
