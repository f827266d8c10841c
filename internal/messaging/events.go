package messaging

import (
	"fmt"
	"time"
)

// Event routing keys
const (
	EventOrganizationCreated = "organization.created"
	EventOrganizationDeleted = "organization.deleted"

	EventMemberAdded       = "member.added"
	EventMemberRemoved     = "member.removed"
	EventMemberRoleChanged = "member.role_changed"

	EventGradeCreated = "grade.created"
	EventGradeUpdated = "grade.updated"
	EventGradeDeleted = "grade.deleted"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     fmt.Sprintf("%d", time.Now().UnixNano()),
		Timestamp:   time.Now().UTC(),
		ServiceName: "organization-service",
	}
}

// OrganizationCreatedEvent is emitted for both main and child organizations;
// ParentOrgID is nil for the main organization.
type OrganizationCreatedEvent struct {
	BaseEvent
	Data OrganizationCreatedData `json:"data"`
}

type OrganizationCreatedData struct {
	OrganizationID string  `json:"organization_id"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	ParentOrgID    *string `json:"parent_org_id"`
	CreatedBy      string  `json:"created_by"`
}

func NewOrganizationCreatedEvent(orgID, name, slug string, parentOrgID *string, createdBy string) OrganizationCreatedEvent {
	return OrganizationCreatedEvent{
		BaseEvent: NewBaseEvent(EventOrganizationCreated),
		Data: OrganizationCreatedData{
			OrganizationID: orgID,
			Name:           name,
			Slug:           slug,
			ParentOrgID:    parentOrgID,
			CreatedBy:      createdBy,
		},
	}
}

// OrganizationDeletedEvent reports a cascade delete: memberships first, then
// the organization record.
type OrganizationDeletedEvent struct {
	BaseEvent
	Data OrganizationDeletedData `json:"data"`
}

type OrganizationDeletedData struct {
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	MembersRemoved int    `json:"members_removed"`
	DeletedBy      string `json:"deleted_by"`
}

func NewOrganizationDeletedEvent(orgID, name string, membersRemoved int, deletedBy string) OrganizationDeletedEvent {
	return OrganizationDeletedEvent{
		BaseEvent: NewBaseEvent(EventOrganizationDeleted),
		Data: OrganizationDeletedData{
			OrganizationID: orgID,
			Name:           name,
			MembersRemoved: membersRemoved,
			DeletedBy:      deletedBy,
		},
	}
}

// MemberEvent covers member.added and member.removed.
type MemberEvent struct {
	BaseEvent
	Data MemberEventData `json:"data"`
}

type MemberEventData struct {
	MemberID       string `json:"member_id"`
	OrganizationID string `json:"organization_id"`
	UserID         string `json:"user_id"`
	Role           string `json:"role"`
	ActorID        string `json:"actor_id"`
}

func NewMemberEvent(eventType, memberID, orgID, userID, role, actorID string) MemberEvent {
	return MemberEvent{
		BaseEvent: NewBaseEvent(eventType),
		Data: MemberEventData{
			MemberID:       memberID,
			OrganizationID: orgID,
			UserID:         userID,
			Role:           role,
			ActorID:        actorID,
		},
	}
}

// MemberRoleChangedEvent reports a role toggle between ADMIN and MEMBER.
type MemberRoleChangedEvent struct {
	BaseEvent
	Data MemberRoleChangedData `json:"data"`
}

type MemberRoleChangedData struct {
	MemberID       string `json:"member_id"`
	OrganizationID string `json:"organization_id"`
	UserID         string `json:"user_id"`
	OldRole        string `json:"old_role"`
	NewRole        string `json:"new_role"`
	ActorID        string `json:"actor_id"`
}

func NewMemberRoleChangedEvent(memberID, orgID, userID, oldRole, newRole, actorID string) MemberRoleChangedEvent {
	return MemberRoleChangedEvent{
		BaseEvent: NewBaseEvent(EventMemberRoleChanged),
		Data: MemberRoleChangedData{
			MemberID:       memberID,
			OrganizationID: orgID,
			UserID:         userID,
			OldRole:        oldRole,
			NewRole:        newRole,
			ActorID:        actorID,
		},
	}
}

// GradeEvent covers grade.created, grade.updated and grade.deleted.
type GradeEvent struct {
	BaseEvent
	Data GradeEventData `json:"data"`
}

type GradeEventData struct {
	GradeID string `json:"grade_id"`
	Name    string `json:"name"`
	ActorID string `json:"actor_id"`
}

func NewGradeEvent(eventType, gradeID, name, actorID string) GradeEvent {
	return GradeEvent{
		BaseEvent: NewBaseEvent(eventType),
		Data: GradeEventData{
			GradeID: gradeID,
			Name:    name,
			ActorID: actorID,
		},
	}
}
