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
	ErrFamilyNotFound        = errors.New("family not found")
	ErrAlreadyInFamily       = errors.New("you are already a member of a family")
	ErrInvalidInvitationCode = errors.New("invalid invitation code")
	ErrNotFamilyLeader       = errors.New("only the family leader can create tasks")
	ErrNotFamilyMember       = errors.New("user is not a member of this family")
	ErrFamilyTaskNotFound    = errors.New("family task not found")
)

const invitationCodeRetries = 5

// FamilyService handles family and family task business logic
type FamilyService struct {
	familyRepo *repository.FamilyRepository
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo *repository.FamilyRepository) *FamilyService {
	return &FamilyService{familyRepo: familyRepo}
}

// CreateFamily creates a family with a fresh invitation code and
// enrolls the creator. Code collisions are retried with a new code.
func (s *FamilyService) CreateFamily(userID int64, name string) (*models.Family, error) {
	if err := utils.ValidateFamilyName(name); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)

	for attempt := 0; attempt < invitationCodeRetries; attempt++ {
		code, err := utils.GenerateInvitationCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate invitation code: %w", err)
		}

		family, err := s.familyRepo.CreateFamily(name, userID, code)
		if err == nil {
			return family, nil
		}
		if errors.Is(err, repository.ErrDuplicateMembership) {
			return nil, ErrAlreadyInFamily
		}
		if errors.Is(err, repository.ErrDuplicateInvitationCode) {
			continue
		}
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	return nil, errors.New("failed to generate a unique invitation code")
}

// JoinFamily adds the user to the family matching the invitation code
func (s *FamilyService) JoinFamily(userID int64, invitationCode string) (*models.Family, error) {
	code := strings.ToUpper(strings.TrimSpace(invitationCode))
	if code == "" {
		return nil, ErrInvalidInvitationCode
	}

	family, err := s.familyRepo.GetFamilyByCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invitation code: %w", err)
	}
	if family == nil {
		return nil, ErrInvalidInvitationCode
	}

	if err := s.familyRepo.AddFamilyMember(family.ID, userID); err != nil {
		if errors.Is(err, repository.ErrDuplicateMembership) {
			return nil, ErrAlreadyInFamily
		}
		return nil, fmt.Errorf("failed to join family: %w", err)
	}

	return family, nil
}

// GetFamilyInfo returns the user's family, or ErrFamilyNotFound
func (s *FamilyService) GetFamilyInfo(userID int64) (*models.Family, error) {
	family, err := s.familyRepo.GetFamilyByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}
	return family, nil
}

// GetFamilyMembers returns the members of the user's family
func (s *FamilyService) GetFamilyMembers(userID int64) ([]models.FamilyMemberInfo, error) {
	family, err := s.GetFamilyInfo(userID)
	if err != nil {
		return nil, err
	}

	members, err := s.familyRepo.GetFamilyMembers(family.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family members: %w", err)
	}
	if members == nil {
		members = []models.FamilyMemberInfo{}
	}
	return members, nil
}

// GetFamilyTasks returns all tasks of the user's family
func (s *FamilyService) GetFamilyTasks(userID int64) ([]models.FamilyTask, error) {
	family, err := s.GetFamilyInfo(userID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.familyRepo.GetFamilyTasks(family.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.FamilyTask{}
	}
	return tasks, nil
}

// CreateFamilyTask creates a task in the user's family. Only the
// family leader may create tasks; the assignee must be a member.
func (s *FamilyService) CreateFamilyTask(userID int64, title, description string, priority int, assignedTo int64) (*models.FamilyTask, error) {
	family, err := s.GetFamilyInfo(userID)
	if err != nil {
		return nil, err
	}
	if family.CreatedBy != userID {
		return nil, ErrNotFamilyLeader
	}

	if err := utils.ValidateTaskTitle(title); err != nil {
		return nil, err
	}
	if priority == 0 {
		priority = 1
	}
	if !utils.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}
	if assignedTo == 0 {
		assignedTo = userID
	}

	isMember, err := s.familyRepo.IsFamilyMember(assignedTo, family.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignee membership: %w", err)
	}
	if !isMember {
		return nil, ErrNotFamilyMember
	}

	task := &models.FamilyTask{
		FamilyID:    family.ID,
		CreatedBy:   userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Priority:    priority,
		Status:      models.StatusPending,
		AssignedTo:  assignedTo,
		WeekStart:   models.NewDate(utils.WeekStart(time.Now())),
	}

	if err := s.familyRepo.CreateFamilyTask(task); err != nil {
		return nil, fmt.Errorf("failed to create family task: %w", err)
	}

	return task, nil
}

// UpdateFamilyTask merges a partial update into a family task. Any
// member of the task's family may update it.
func (s *FamilyService) UpdateFamilyTask(userID, taskID int64, update TaskUpdate) (*models.FamilyTask, error) {
	task, err := s.familyRepo.GetFamilyTaskByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family task: %w", err)
	}
	if task == nil {
		return nil, ErrFamilyTaskNotFound
	}

	isMember, err := s.familyRepo.IsFamilyMember(userID, task.FamilyID)
	if err != nil {
		return nil, fmt.Errorf("failed to check family membership: %w", err)
	}
	if !isMember {
		return nil, ErrFamilyTaskNotFound
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

	if err := s.familyRepo.UpdateFamilyTask(task); err != nil {
		return nil, fmt.Errorf("failed to update family task: %w", err)
	}

	return task, nil
}

// DeleteFamilyTask removes a family task. Only its creator may
// delete it.
func (s *FamilyService) DeleteFamilyTask(userID, taskID int64) error {
	deleted, err := s.familyRepo.DeleteFamilyTask(taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete family task: %w", err)
	}
	if !deleted {
		return ErrFamilyTaskNotFound
	}
	return nil
}
