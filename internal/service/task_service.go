package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskflow/internal/models"
	"taskflow/internal/repository"
	"taskflow/internal/utils"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidPriority = errors.New("priority must be between 1 and 3")
	ErrInvalidStatus   = errors.New("status must be pending or completed")
)

// TaskUpdate carries a partial update for a task. Nil fields keep
// their current value.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *int    `json:"priority"`
	Status      *string `json:"status"`
}

// TaskService handles personal task business logic
type TaskService struct {
	taskRepo *repository.TaskRepository
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTask creates a task for the current week. Priority defaults
// to 1 and status to pending when absent; a task created already
// completed gets its completion timestamp immediately.
func (s *TaskService) CreateTask(userID int64, title, description string, priority int, status string) (*models.Task, error) {
	if err := utils.ValidateTaskTitle(title); err != nil {
		return nil, err
	}
	if priority == 0 {
		priority = 1
	}
	if !utils.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}
	if status == "" {
		status = models.StatusPending
	}
	if !utils.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	task := &models.Task{
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Priority:    priority,
		Status:      status,
		AssignedTo:  userID,
		WeekStart:   models.NewDate(utils.WeekStart(time.Now())),
	}
	if status == models.StatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := s.taskRepo.CreateTask(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns the user's active (non-archived) tasks, pending
// before completed, higher priority first, newest first.
func (s *TaskService) ListTasks(userID int64) ([]models.Task, error) {
	tasks, err := s.taskRepo.GetActiveTasks(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// UpdateTask merges the given partial update into the task and saves
// it. Completion timestamps follow the status transition.
func (s *TaskService) UpdateTask(userID, taskID int64, update TaskUpdate) (*models.Task, error) {
	task, err := s.taskRepo.GetTaskByID(taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	if update.Title != nil {
		if err := utils.ValidateTaskTitle(*update.Title); err != nil {
			return nil, err
		}
		task.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Priority != nil {
		if !utils.ValidPriority(*update.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *update.Priority
	}
	if update.Status != nil {
		if !utils.ValidStatus(*update.Status) {
			return nil, ErrInvalidStatus
		}
		task.Status = *update.Status
	}

	if task.Status == models.StatusCompleted {
		if task.CompletedAt == nil {
			now := time.Now()
			task.CompletedAt = &now
		}
	} else {
		task.CompletedAt = nil
	}
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.UpdateTask(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task owned by the user
func (s *TaskService) DeleteTask(userID, taskID int64) error {
	deleted, err := s.taskRepo.DeleteTask(taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}

// ArchiveOldTasks archives the user's tasks from weeks before last
// week. Returns the number of tasks archived; zero when nothing
// qualifies.
func (s *TaskService) ArchiveOldTasks(userID int64) (int64, error) {
	cutoff := models.NewDate(utils.ArchiveCutoff(time.Now()))
	count, err := s.taskRepo.ArchiveTasksBefore(userID, cutoff, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to archive tasks: %w", err)
	}
	return count, nil
}
