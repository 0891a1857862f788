package models

import "time"

// Family represents a group of users sharing tasks. The creating user
// is the permanent leader; only the leader may create family tasks.
type Family struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	CreatedBy      int64     `json:"created_by"`
	InvitationCode string    `json:"invitation_code"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FamilyMember represents the relationship between a user and a family
type FamilyMember struct {
	ID       int64     `json:"id"`
	FamilyID int64     `json:"family_id"`
	UserID   int64     `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// FamilyMemberInfo combines a membership row with the member's user details
type FamilyMemberInfo struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

// FamilyTask is a task scoped to a family rather than a single owner.
// Week bucketing and completion semantics mirror personal tasks.
type FamilyTask struct {
	ID               int64      `json:"id"`
	FamilyID         int64      `json:"family_id"`
	CreatedBy        int64      `json:"created_by"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Priority         int        `json:"priority"`
	Status           string     `json:"status"`
	AssignedTo       int64      `json:"assigned_to"`
	WeekStart        Date       `json:"week_start"`
	CompletedAt      *time.Time `json:"completed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	AssignedUsername string     `json:"assigned_username,omitempty"`
	CreatorUsername  string     `json:"creator_username,omitempty"`
}
