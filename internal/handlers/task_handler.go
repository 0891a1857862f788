package handlers

import (
	"net/http"
	"strconv"

	"taskflow/internal/service"
)

// TaskHandler handles personal task HTTP requests
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Status      string `json:"status"`
}

// Create creates a task for the authenticated user
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	task, err := h.taskService.CreateTask(user.ID, req.Title, req.Description, req.Priority, req.Status)
	if err != nil {
		respondWithError(w, "failed to create task", err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// List returns the authenticated user's active tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	tasks, err := h.taskService.ListTasks(user.ID)
	if err != nil {
		respondWithError(w, "failed to list tasks", err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// Update applies a partial update to a task
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	taskID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid task ID"})
		return
	}

	var update service.TaskUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	task, err := h.taskService.UpdateTask(user.ID, taskID, update)
	if err != nil {
		respondWithError(w, "failed to update task", err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Delete removes a task
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	taskID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid task ID"})
		return
	}

	if err := h.taskService.DeleteTask(user.ID, taskID); err != nil {
		respondWithError(w, "failed to delete task", err)
		return
	}

	writeMessage(w, http.StatusOK, "Task deleted successfully")
}

// Archive archives the user's tasks from before last week
func (h *TaskHandler) Archive(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	count, err := h.taskService.ArchiveOldTasks(user.ID)
	if err != nil {
		respondWithError(w, "failed to archive tasks", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Tasks archived successfully",
		"archived_count": count,
	})
}

// pathID parses a numeric path value from the route pattern
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
