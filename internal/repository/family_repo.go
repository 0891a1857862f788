package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskflow/internal/database"
	"taskflow/internal/models"
)

var (
	// ErrDuplicateMembership is returned when an insert trips the
	// family_members.user_id unique constraint. The constraint is the
	// authoritative "already in a family" signal; no prior SELECT is made.
	ErrDuplicateMembership = errors.New("user already belongs to a family")

	// ErrDuplicateInvitationCode is returned when a generated invitation
	// code collides with an existing family's code.
	ErrDuplicateInvitationCode = errors.New("invitation code already in use")
)

// FamilyRepository handles database operations for families, memberships and family tasks
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateFamily creates a family and enrolls the creator as its first
// member in a single transaction.
func (r *FamilyRepository) CreateFamily(name string, creatorUserID int64, invitationCode string) (*models.Family, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO families (name, created_by, invitation_code) VALUES (?, ?, ?)"
	familyID, err := tx.ExecReturningID(query, name, creatorUserID, invitationCode)
	if err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return nil, ErrDuplicateInvitationCode
		}
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	query = "INSERT INTO family_members (family_id, user_id) VALUES (?, ?)"
	if _, err := tx.Exec(query, familyID, creatorUserID); err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return nil, ErrDuplicateMembership
		}
		return nil, fmt.Errorf("failed to add family member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	family := &models.Family{
		ID:             familyID,
		Name:           name,
		CreatedBy:      creatorUserID,
		InvitationCode: invitationCode,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	return family, nil
}

// GetFamilyByUserID retrieves the family a user belongs to, or nil
func (r *FamilyRepository) GetFamilyByUserID(userID int64) (*models.Family, error) {
	query := `
		SELECT f.id, f.name, f.created_by, f.invitation_code, f.created_at, f.updated_at
		FROM families f
		INNER JOIN family_members fm ON f.id = fm.family_id
		WHERE fm.user_id = ?
	`
	return r.scanFamily(r.db.QueryRow(query, userID))
}

// GetFamilyByCode retrieves a family by invitation code, or nil
func (r *FamilyRepository) GetFamilyByCode(code string) (*models.Family, error) {
	query := `
		SELECT id, name, created_by, invitation_code, created_at, updated_at
		FROM families
		WHERE invitation_code = ?
	`
	return r.scanFamily(r.db.QueryRow(query, code))
}

func (r *FamilyRepository) scanFamily(row *sql.Row) (*models.Family, error) {
	family := &models.Family{}
	err := row.Scan(
		&family.ID,
		&family.Name,
		&family.CreatedBy,
		&family.InvitationCode,
		&family.CreatedAt,
		&family.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}

	return family, nil
}

// AddFamilyMember adds a user to a family. The user_id unique
// constraint rejects users who already belong to any family.
func (r *FamilyRepository) AddFamilyMember(familyID, userID int64) error {
	query := "INSERT INTO family_members (family_id, user_id) VALUES (?, ?)"
	_, err := r.db.Exec(query, familyID, userID)
	if err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return ErrDuplicateMembership
		}
		return fmt.Errorf("failed to add family member: %w", err)
	}
	return nil
}

// IsFamilyMember checks if a user is a member of a family
func (r *FamilyRepository) IsFamilyMember(userID, familyID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM family_members WHERE user_id = ? AND family_id = ?"
	var count int
	err := r.db.QueryRow(query, userID, familyID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check family membership: %w", err)
	}
	return count > 0, nil
}

// GetFamilyMembers retrieves all members of a family with their user details
func (r *FamilyRepository) GetFamilyMembers(familyID int64) ([]models.FamilyMemberInfo, error) {
	query := `
		SELECT u.id, u.username, u.email, fm.joined_at
		FROM family_members fm
		INNER JOIN users u ON fm.user_id = u.id
		WHERE fm.family_id = ?
		ORDER BY fm.joined_at ASC
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	var members []models.FamilyMemberInfo
	for rows.Next() {
		var member models.FamilyMemberInfo
		if err := rows.Scan(&member.UserID, &member.Username, &member.Email, &member.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// CreateFamilyTask inserts a new family task and fills in its generated ID
func (r *FamilyRepository) CreateFamilyTask(task *models.FamilyTask) error {
	query := `
		INSERT INTO family_tasks (family_id, created_by, title, description, priority, status, assigned_to, week_start, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		task.FamilyID,
		task.CreatedBy,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.AssignedTo,
		task.WeekStart,
		task.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create family task: %w", err)
	}

	task.ID = id
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	return nil
}

// GetFamilyTaskByID retrieves a family task by ID, or nil
func (r *FamilyRepository) GetFamilyTaskByID(taskID int64) (*models.FamilyTask, error) {
	query := `
		SELECT id, family_id, created_by, title, description, priority, status,
		       assigned_to, week_start, completed_at, created_at, updated_at
		FROM family_tasks
		WHERE id = ?
	`
	task := &models.FamilyTask{}
	var completedAt sql.NullTime
	err := r.db.QueryRow(query, taskID).Scan(
		&task.ID,
		&task.FamilyID,
		&task.CreatedBy,
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.Status,
		&task.AssignedTo,
		&task.WeekStart,
		&completedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family task: %w", err)
	}

	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}
	return task, nil
}

// GetFamilyTasks retrieves all tasks of a family with assignee and
// creator usernames, newest first.
func (r *FamilyRepository) GetFamilyTasks(familyID int64) ([]models.FamilyTask, error) {
	query := `
		SELECT ft.id, ft.family_id, ft.created_by, ft.title, ft.description, ft.priority, ft.status,
		       ft.assigned_to, ft.week_start, ft.completed_at, ft.created_at, ft.updated_at,
		       au.username, cu.username
		FROM family_tasks ft
		INNER JOIN users au ON ft.assigned_to = au.id
		INNER JOIN users cu ON ft.created_by = cu.id
		WHERE ft.family_id = ?
		ORDER BY ft.created_at DESC
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.FamilyTask
	for rows.Next() {
		var task models.FamilyTask
		var completedAt sql.NullTime
		if err := rows.Scan(
			&task.ID,
			&task.FamilyID,
			&task.CreatedBy,
			&task.Title,
			&task.Description,
			&task.Priority,
			&task.Status,
			&task.AssignedTo,
			&task.WeekStart,
			&completedAt,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.AssignedUsername,
			&task.CreatorUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan family task: %w", err)
		}
		if completedAt.Valid {
			task.CompletedAt = &completedAt.Time
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// UpdateFamilyTask overwrites the mutable fields of a family task
func (r *FamilyRepository) UpdateFamilyTask(task *models.FamilyTask) error {
	query := `
		UPDATE family_tasks
		SET title = ?, description = ?, priority = ?, status = ?, assigned_to = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.AssignedTo,
		task.CompletedAt,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update family task: %w", err)
	}
	return nil
}

// DeleteFamilyTask removes a family task created by createdBy.
// Returns false when no row matched.
func (r *FamilyRepository) DeleteFamilyTask(taskID, createdBy int64) (bool, error) {
	query := "DELETE FROM family_tasks WHERE id = ? AND created_by = ?"
	result, err := r.db.Exec(query, taskID, createdBy)
	if err != nil {
		return false, fmt.Errorf("failed to delete family task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}
