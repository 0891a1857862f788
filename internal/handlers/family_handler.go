package handlers

import (
	"net/http"

	"taskflow/internal/service"
)

// FamilyHandler handles family and family task HTTP requests
type FamilyHandler struct {
	familyService *service.FamilyService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

type createFamilyRequest struct {
	Name string `json:"name"`
}

type joinFamilyRequest struct {
	InvitationCode string `json:"invitation_code"`
}

type createFamilyTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	AssignedTo  int64  `json:"assigned_to"`
}

// Create creates a family led by the authenticated user
func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	family, err := h.familyService.CreateFamily(user.ID, req.Name)
	if err != nil {
		respondWithError(w, "failed to create family", err)
		return
	}

	writeJSON(w, http.StatusCreated, family)
}

// Join adds the authenticated user to a family by invitation code
func (h *FamilyHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req joinFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	family, err := h.familyService.JoinFamily(user.ID, req.InvitationCode)
	if err != nil {
		respondWithError(w, "failed to join family", err)
		return
	}

	writeJSON(w, http.StatusOK, family)
}

// Info returns the authenticated user's family
func (h *FamilyHandler) Info(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	family, err := h.familyService.GetFamilyInfo(user.ID)
	if err != nil {
		respondWithError(w, "failed to get family info", err)
		return
	}

	writeJSON(w, http.StatusOK, family)
}

// Members returns the members of the user's family
func (h *FamilyHandler) Members(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	members, err := h.familyService.GetFamilyMembers(user.ID)
	if err != nil {
		respondWithError(w, "failed to get family members", err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

// Tasks returns all tasks of the user's family
func (h *FamilyHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	tasks, err := h.familyService.GetFamilyTasks(user.ID)
	if err != nil {
		respondWithError(w, "failed to get family tasks", err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask creates a family task, leader only
func (h *FamilyHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req createFamilyTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	task, err := h.familyService.CreateFamilyTask(user.ID, req.Title, req.Description, req.Priority, req.AssignedTo)
	if err != nil {
		respondWithError(w, "failed to create family task", err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// UpdateTask applies a partial update to a family task
func (h *FamilyHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	taskID, err := pathID(r, "taskId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid task ID"})
		return
	}

	var update service.TaskUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	task, err := h.familyService.UpdateFamilyTask(user.ID, taskID, update)
	if err != nil {
		respondWithError(w, "failed to update family task", err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// DeleteTask removes a family task, creator only
func (h *FamilyHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	taskID, err := pathID(r, "taskId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid task ID"})
		return
	}

	if err := h.familyService.DeleteFamilyTask(user.ID, taskID); err != nil {
		respondWithError(w, "failed to delete family task", err)
		return
	}

	writeMessage(w, http.StatusOK, "Task deleted successfully")
}
