package handlers

import (
	"errors"
	"log"
	"net/http"

	"taskflow/internal/service"
	"taskflow/internal/utils"
)

// respondWithError maps a service error to a JSON error response.
// Unexpected errors are logged with logMsg and hidden behind a
// generic 500.
func respondWithError(w http.ResponseWriter, logMsg string, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		if logMsg == "" {
			logMsg = "request failed"
		}
		log.Printf("%s: %v", logMsg, err)
		message = "Internal server error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func errorStatus(err error) (int, string) {
	var validationErr utils.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Message
	}

	switch {
	case errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrAlreadyInFamily),
		errors.Is(err, service.ErrInvalidInvitationCode),
		errors.Is(err, service.ErrNotFamilyMember),
		errors.Is(err, service.ErrInvalidPriority),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidResetToken):
		return http.StatusBadRequest, errorMessage(err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorMessage(err)
	case errors.Is(err, service.ErrNotFamilyLeader):
		return http.StatusForbidden, errorMessage(err)
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrFamilyTaskNotFound),
		errors.Is(err, service.ErrFamilyNotFound):
		return http.StatusNotFound, errorMessage(err)
	}

	return http.StatusInternalServerError, ""
}

// errorMessage gives the client-facing text for known sentinels
func errorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrUserExists):
		return "User already exists with this email or username"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, service.ErrInvalidInvitationCode):
		return "Invalid invitation code"
	case errors.Is(err, service.ErrInvalidResetToken):
		return "Invalid or expired reset token"
	case errors.Is(err, service.ErrAlreadyInFamily):
		return "You are already a member of a family"
	case errors.Is(err, service.ErrNotFamilyLeader):
		return "Only the family leader can create tasks"
	case errors.Is(err, service.ErrNotFamilyMember):
		return "Assigned user is not a member of this family"
	case errors.Is(err, service.ErrFamilyNotFound):
		return "You are not part of any family"
	case errors.Is(err, service.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, service.ErrFamilyTaskNotFound):
		return "Task not found or permission denied"
	default:
		return err.Error()
	}
}
