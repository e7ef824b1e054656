package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAgent = "agent"
	RoleAdmin = "admin"
)

var Roles = []string{RoleUser, RoleAgent, RoleAdmin}

// User represents an account. Favorites is a set; uniqueness is kept by the
// favorites ledger, not by the schema.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"`
	PasswordHash string               `bson:"passwordHash" json:"-"`
	Role         string               `bson:"role" json:"role"`
	Favorites    []primitive.ObjectID `bson:"favorites" json:"favorites"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) Summary() *AgentSummary {
	if u == nil {
		return nil
	}
	return &AgentSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
