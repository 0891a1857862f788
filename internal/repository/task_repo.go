package repository

import (
	"database/sql"
	"fmt"
	"time"

	"taskflow/internal/database"
	"taskflow/internal/models"
)

// TaskRepository handles database operations for personal tasks
type TaskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTask inserts a new task and fills in its generated ID
func (r *TaskRepository) CreateTask(task *models.Task) error {
	query := `
		INSERT INTO tasks (user_id, title, description, priority, status, assigned_to, week_start, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		task.UserID,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.AssignedTo,
		task.WeekStart,
		task.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	task.ID = id
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	return nil
}

// GetTaskByID retrieves a task owned by userID, or nil when no such task exists
func (r *TaskRepository) GetTaskByID(taskID, userID int64) (*models.Task, error) {
	query := `
		SELECT id, user_id, title, description, priority, status, assigned_to,
		       week_start, completed_at, archived, archived_at, created_at, updated_at
		FROM tasks
		WHERE id = ? AND user_id = ?
	`
	task, err := scanTask(r.db.QueryRow(query, taskID, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// GetActiveTasks retrieves all non-archived tasks for a user, pending
// before completed, then priority descending, then newest first.
// The CASE expression keeps the status ordering identical across dialects.
func (r *TaskRepository) GetActiveTasks(userID int64) ([]models.Task, error) {
	query := `
		SELECT id, user_id, title, description, priority, status, assigned_to,
		       week_start, completed_at, archived, archived_at, created_at, updated_at
		FROM tasks
		WHERE user_id = ? AND archived = ?
		ORDER BY CASE WHEN status = 'pending' THEN 0 ELSE 1 END ASC,
		         priority DESC,
		         created_at DESC
	`
	rows, err := r.db.Query(query, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

// UpdateTask overwrites the mutable fields of a task
func (r *TaskRepository) UpdateTask(task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = ?, description = ?, priority = ?, status = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`
	_, err := r.db.Exec(query,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.CompletedAt,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// DeleteTask removes a task owned by userID. Returns false when no row matched.
func (r *TaskRepository) DeleteTask(taskID, userID int64) (bool, error) {
	query := "DELETE FROM tasks WHERE id = ? AND user_id = ?"
	result, err := r.db.Exec(query, taskID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

// ArchiveTasksBefore archives every non-archived task for a user whose
// week_start is strictly before cutoff. Returns the number of tasks
// archived; zero when none qualify.
func (r *TaskRepository) ArchiveTasksBefore(userID int64, cutoff models.Date, archivedAt time.Time) (int64, error) {
	query := `
		UPDATE tasks
		SET archived = ?, archived_at = ?
		WHERE user_id = ? AND archived = ? AND week_start < ?
	`
	result, err := r.db.Exec(query, true, archivedAt, userID, false, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to archive tasks: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read archive result: %w", err)
	}
	return affected, nil
}

// scanner matches both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row scanner) (*models.Task, error) {
	task := &models.Task{}
	var completedAt, archivedAt sql.NullTime
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.Status,
		&task.AssignedTo,
		&task.WeekStart,
		&completedAt,
		&task.Archived,
		&archivedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}
	if archivedAt.Valid {
		task.ArchivedAt = &archivedAt.Time
	}
	return task, nil
}
