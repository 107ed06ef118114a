package domain

import (
	"time"

	"github.com/google/uuid"
)

// IssueStatus represents the kanban pipeline state of an issue.
type IssueStatus string

const (
	StatusOpen       IssueStatus = "open"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
	StatusClosed     IssueStatus = "closed"
)

func (s IssueStatus) String() string { return string(s) }

// IsTerminal reports whether the status ends the pipeline.
func (s IssueStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// IssuePriority represents the urgency of an issue.
type IssuePriority string

const (
	PriorityUrgent IssuePriority = "urgent"
	PriorityHigh   IssuePriority = "high"
	PriorityMedium IssuePriority = "medium"
	PriorityLow    IssuePriority = "low"
)

func (p IssuePriority) String() string { return string(p) }

// UserRole represents a user's role within a library.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"
	RolePatron  UserRole = "patron"
)

func (r UserRole) String() string { return string(r) }

// CanViewMetrics reports whether the role may call metrics endpoints.
func (r UserRole) CanViewMetrics() bool {
	return r == RoleAdmin || r == RoleManager
}

// IsTeamMember reports whether the role participates in performance and
// workload metrics.
func (r UserRole) IsTeamMember() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleStaff
}

// Issue is a staff-reported equipment problem or suggestion. The metrics
// engine only reads issues; their lifecycle is owned elsewhere. ResolvedAt is
// the resolution signal for all duration math: the engine trusts
// `resolved_at IS NOT NULL` rather than the status field, so it tolerates
// datasets where the two disagree.
type Issue struct {
	ID           uuid.UUID
	LibraryID    uuid.UUID
	Title        string
	Status       IssueStatus
	Priority     IssuePriority
	AssignedTo   *uuid.UUID
	CollectionID *uuid.UUID
	DueDate      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ResolvedAt   *time.Time
}

// User is a library account. Only active staff/admin/manager users appear in
// team metrics.
type User struct {
	ID        uuid.UUID
	LibraryID uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Role      UserRole
	IsActive  bool
	LastLogin *time.Time
	CreatedAt time.Time
}

// FullName returns the display name used in metric rows.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Collection is a tagging dimension for issues (e.g. a branch or equipment
// group).
type Collection struct {
	ID        uuid.UUID
	LibraryID uuid.UUID
	Name      string
	Color     string
	IsActive  bool
	CreatedAt time.Time
}

// IssueComment is a discussion entry on an issue. The engine derives
// first-response latency from the earliest comment per issue.
type IssueComment struct {
	ID        uuid.UUID
	IssueID   uuid.UUID
	UserID    uuid.UUID
	Body      string
	CreatedAt time.Time
}
