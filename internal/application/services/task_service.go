package services

import (
	"context"
	"time"

	"github.com/pookietodo/core/internal/domain/entities"
	"github.com/pookietodo/core/internal/infrastructure/logger"
	"github.com/pookietodo/core/internal/ports"
)

// dueSoonWindow is how far ahead the stats endpoint counts upcoming deadlines.
const dueSoonWindow = 7 * 24 * time.Hour

// TaskService implements per-user task CRUD against the document store.
// Task ids come from a per-user monotonic counter that only ever increments,
// so an id is never reused even after its task is deleted.
type TaskService struct {
	store  ports.DocumentStore
	logger *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(store ports.DocumentStore, logger *logger.Logger) *TaskService {
	return &TaskService{
		store:  store,
		logger: logger,
	}
}

// Create appends a new task for the user and returns it.
func (s *TaskService) Create(ctx context.Context, userID string, req ports.CreateTaskRequest) (*entities.Task, error) {
	priority := req.Priority
	if priority == "" {
		priority = entities.DefaultPriority
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	var task entities.Task
	err := s.store.Update(ctx, func(doc *entities.Document) error {
		doc.EnsureUserTasks(userID)

		id := doc.Metadata.NextID[userID]
		doc.Metadata.NextID[userID] = id + 1

		task = entities.Task{
			ID:          id,
			Description: req.Description,
			Completed:   false,
			CreatedAt:   time.Now().UTC(),
			Priority:    priority,
			Tags:        tags,
			DueDate:     req.DueDate,
		}
		doc.Tasks[userID] = append(doc.Tasks[userID], task)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("task created", "user_id", userID, "task_id", task.ID)

	return &task, nil
}

// List returns the user's tasks in insertion order; an empty slice, never
// nil, when the user has no tasks yet.
func (s *TaskService) List(ctx context.Context, userID string) ([]entities.Task, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	tasks := doc.Tasks[userID]
	if tasks == nil {
		tasks = []entities.Task{}
	}
	return tasks, nil
}

// Update applies the non-nil fields of req to the task and returns the
// merged result. Fields absent from the request stay unchanged.
func (s *TaskService) Update(ctx context.Context, userID string, taskID int, req ports.UpdateTaskRequest) (*entities.Task, error) {
	var updated entities.Task
	err := s.store.Update(ctx, func(doc *entities.Document) error {
		tasks := doc.Tasks[userID]
		for i := range tasks {
			if tasks[i].ID != taskID {
				continue
			}

			if req.Description != nil {
				tasks[i].Description = *req.Description
			}
			if req.Completed != nil {
				tasks[i].Completed = *req.Completed
			}
			if req.Priority != nil {
				tasks[i].Priority = *req.Priority
			}
			if req.Tags != nil {
				tasks[i].Tags = *req.Tags
			}
			if req.DueDate != nil {
				tasks[i].DueDate = req.DueDate
			}

			updated = tasks[i]
			return nil
		}
		return entities.ErrTaskNotFound
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("task updated", "user_id", userID, "task_id", taskID)

	return &updated, nil
}

// Delete removes the task, preserving the order of the rest. The id counter
// is untouched.
func (s *TaskService) Delete(ctx context.Context, userID string, taskID int) error {
	err := s.store.Update(ctx, func(doc *entities.Document) error {
		tasks := doc.Tasks[userID]
		for i := range tasks {
			if tasks[i].ID == taskID {
				doc.Tasks[userID] = append(tasks[:i], tasks[i+1:]...)
				return nil
			}
		}
		return entities.ErrTaskNotFound
	})
	if err != nil {
		return err
	}

	s.logger.Infow("task deleted", "user_id", userID, "task_id", taskID)

	return nil
}

// Stats summarizes the user's tasks: totals, completion rate, priority and
// tag distributions, and deadline pressure.
func (s *TaskService) Stats(ctx context.Context, userID string) (*ports.TaskStats, error) {
	tasks, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &ports.TaskStats{
		Total:      len(tasks),
		ByPriority: map[string]int{},
		ByTag:      map[string]int{},
	}

	now := time.Now().UTC()
	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
		}
		stats.ByPriority[t.Priority]++
		for _, tag := range t.Tags {
			stats.ByTag[tag]++
		}
		if t.DueDate != nil && !t.Completed {
			switch {
			case t.DueDate.Before(now):
				stats.Overdue++
			case t.DueDate.Before(now.Add(dueSoonWindow)):
				stats.DueSoon++
			}
		}
	}

	stats.Pending = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}

	return stats, nil
}
