package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AuditPropertyApproved = "PROPERTY_APPROVED"
	AuditPropertyRejected = "PROPERTY_REJECTED"
	AuditPropertyCreated  = "PROPERTY_CREATED"
	AuditPropertyDeleted  = "PROPERTY_DELETED"
	AuditRoleChanged      = "ROLE_CHANGED"

	TargetUser     = "User"
	TargetProperty = "Property"
)

// AuditLog is append-only. Nothing in the application updates or deletes it.
type AuditLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Admin      primitive.ObjectID `bson:"admin" json:"admin"`
	Action     string             `bson:"action" json:"action"`
	TargetType string             `bson:"targetType" json:"targetType"`
	TargetID   primitive.ObjectID `bson:"targetId" json:"targetId"`
	Meta       map[string]any     `bson:"meta" json:"meta"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

type AuditLogWithAdmin struct {
	AuditLog
	Admin *AgentSummary `json:"admin"`
}
