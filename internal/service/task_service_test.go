package service

import (
	"errors"
	"testing"
	"time"

	"taskflow/internal/models"
	"taskflow/internal/utils"
)

func TestCreateTaskDefaults(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	userID := env.createUser(t, "alice", "alice@example.com")

	task, err := env.taskService.CreateTask(userID, "  Do the dishes  ", "tonight", 0, "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if task.ID == 0 {
		t.Error("expected a task ID")
	}
	if task.Title != "Do the dishes" {
		t.Errorf("expected trimmed title, got %q", task.Title)
	}
	if task.Priority != 1 {
		t.Errorf("expected default priority 1, got %d", task.Priority)
	}
	if task.Status != models.StatusPending {
		t.Errorf("expected pending status, got %q", task.Status)
	}
	if task.AssignedTo != userID {
		t.Errorf("expected task assigned to its owner, got %d", task.AssignedTo)
	}

	expectedWeek := models.NewDate(utils.WeekStart(time.Now()))
	if task.WeekStart.String() != expectedWeek.String() {
		t.Errorf("expected week start %s, got %s", expectedWeek, task.WeekStart)
	}
}

func TestCreateTaskAlreadyCompleted(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	userID := env.createUser(t, "alice", "alice@example.com")

	task, err := env.taskService.CreateTask(userID, "pre-done", "", 0, models.StatusCompleted)
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if task.Status != models.StatusCompleted {
		t.Errorf("expected completed status, got %q", task.Status)
	}
	if task.CompletedAt == nil {
		t.Error("expected completed_at to be set on a task created completed")
	}

	// A pending creation never carries a completion timestamp
	pending, err := env.taskService.CreateTask(userID, "not yet", "", 0, models.StatusPending)
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if pending.CompletedAt != nil {
		t.Error("expected no completed_at on a pending task")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	userID := env.createUser(t, "alice", "alice@example.com")

	if _, err := env.taskService.CreateTask(userID, "   ", "", 1, ""); err == nil {
		t.Error("expected error for blank title")
	}
	if _, err := env.taskService.CreateTask(userID, "ok", "", 9, ""); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("expected ErrInvalidPriority, got %v", err)
	}
	if _, err := env.taskService.CreateTask(userID, "ok", "", 1, "someday"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestListTasksOrdering(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	userID := env.createUser(t, "alice", "alice@example.com")

	low, err := env.taskService.CreateTask(userID, "low pending", "", 1, "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	high, err := env.taskService.CreateTask(userID, "high pending", "", 3, "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	done, err := env.taskService.CreateTask(userID, "done", "", 3, "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := env.taskService.UpdateTask(userID, done.ID, TaskUpdate{Status: strPtr(models.StatusCompleted)}); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	tasks, err := env.taskService.ListTasks(userID)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}

	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != high.ID {
		t.Errorf("expected high-priority pending first, got task %d", tasks[0].ID)
	}
	if tasks[1].ID != low.ID {
		t.Errorf("expected low-priority pending second, got task %d", tasks[1].ID)
	}
	if tasks[2].ID != done.ID {
		t.Errorf("expected completed task last, got task %d", tasks[2].ID)
	}
}

func TestListTasksExcludesOtherUsers(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")

	if _, err := env.taskService.CreateTask(alice, "alice's task", "", 1, ""); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	tasks, err := env.taskService.ListTasks(bob)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks for bob, got %d", len(tasks))
	}
}

func TestUpdateTaskMergesPartialUpdate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	userID := env.createUser(t, "alice", "alice@example.com")

	task, err := env.taskService.CreateTask(userID, "original", "keep me", 1, "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	updated, err := env.taskService.UpdateTask(userID, task.ID, TaskUpdate{Priority: intPtr(3)})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	if updated.Priority != 3 {
		t.Errorf("expected priority 3, got %d", updated.Priority)
	}
	if updated.Title != "original" {
		t.Errorf("expected title to survive partial update, got %q", updated.Title)
	}
	if updated.Description != "keep me" {
		t.Errorf("expected description to survive partial update, got %q", updated.Description)
	}
}

func TestUpdateTaskCompletionTimestamps(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	userID := env.createUser(t, "alice", "alice@example.com")

	task, err := env.taskService.CreateTask(userID, "task", "", 1, "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	completed, err := env.taskService.UpdateTask(userID, task.ID, TaskUpdate{Status: strPtr(models.StatusCompleted)})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if completed.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}
	firstCompletion := *completed.CompletedAt

	// Completing again keeps the original timestamp
	again, err := env.taskService.UpdateTask(userID, task.ID, TaskUpdate{Status: strPtr(models.StatusCompleted)})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if again.CompletedAt == nil || !again.CompletedAt.Equal(firstCompletion) {
		t.Error("expected repeated completion to keep the original timestamp")
	}

	// Reopening clears it
	reopened, err := env.taskService.UpdateTask(userID, task.ID, TaskUpdate{Status: strPtr(models.StatusPending)})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if reopened.CompletedAt != nil {
		t.Error("expected completed_at to be cleared on reopen")
	}
}

func TestUpdateTaskNotOwned(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")

	task, err := env.taskService.CreateTask(alice, "alice's task", "", 1, "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if _, err := env.taskService.UpdateTask(bob, task.ID, TaskUpdate{Title: strPtr("stolen")}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for non-owner, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")

	task, err := env.taskService.CreateTask(alice, "task", "", 1, "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := env.taskService.DeleteTask(bob, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for non-owner delete, got %v", err)
	}

	if err := env.taskService.DeleteTask(alice, task.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	if err := env.taskService.DeleteTask(alice, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for repeated delete, got %v", err)
	}
}

func TestArchiveOldTasks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	userID := env.createUser(t, "alice", "alice@example.com")

	// Current-week tasks never qualify
	if _, err := env.taskService.CreateTask(userID, "this week", "", 1, ""); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	count, err := env.taskService.ArchiveOldTasks(userID)
	if err != nil {
		t.Fatalf("ArchiveOldTasks failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no tasks archived, got %d", count)
	}

	// Last week's tasks do not qualify either; the cutoff is strict
	lastWeek := models.NewDate(utils.WeekStart(time.Now()).AddDate(0, 0, -7))
	backdateTask(t, env, userID, "last week", lastWeek)

	count, err = env.taskService.ArchiveOldTasks(userID)
	if err != nil {
		t.Fatalf("ArchiveOldTasks failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected last week's task to survive, archived %d", count)
	}

	// Two weeks back qualifies
	twoWeeksAgo := models.NewDate(utils.WeekStart(time.Now()).AddDate(0, 0, -14))
	backdateTask(t, env, userID, "two weeks ago", twoWeeksAgo)

	count, err = env.taskService.ArchiveOldTasks(userID)
	if err != nil {
		t.Fatalf("ArchiveOldTasks failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 task archived, got %d", count)
	}

	// Archiving is idempotent
	count, err = env.taskService.ArchiveOldTasks(userID)
	if err != nil {
		t.Fatalf("ArchiveOldTasks failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected repeat archive to be a no-op, got %d", count)
	}

	// Archived tasks disappear from the active list
	tasks, err := env.taskService.ListTasks(userID)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	for _, task := range tasks {
		if task.Title == "two weeks ago" {
			t.Error("archived task still listed as active")
		}
	}
}

func backdateTask(t *testing.T, env *testEnv, userID int64, title string, weekStart models.Date) {
	t.Helper()
	_, err := env.db.Exec(
		"INSERT INTO tasks (user_id, title, priority, status, assigned_to, week_start) VALUES (?, ?, ?, ?, ?, ?)",
		userID, title, 1, models.StatusPending, userID, weekStart,
	)
	if err != nil {
		t.Fatalf("Failed to backdate task: %v", err)
	}
}
