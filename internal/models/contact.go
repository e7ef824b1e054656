package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContactTypePhone = "phone"
	ContactTypeEmail = "email"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// Contact is a general inbound message that is not tied to a listing.
type Contact struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Name        string              `bson:"name" json:"name"`
	Contact     string              `bson:"contact" json:"contact"`
	Message     string              `bson:"message" json:"message"`
	Method      string              `bson:"method" json:"method"`
	IsRead      bool                `bson:"isRead" json:"isRead"`
	Archived    bool                `bson:"archived" json:"archived"`
	ContactType string              `bson:"contactType" json:"contactType"`
	HandledBy   *primitive.ObjectID `bson:"handledBy" json:"handledBy"`
	Priority    string              `bson:"priority" json:"priority"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type ContactFilter struct {
	UnreadOnly   bool
	ArchivedOnly bool
	Search       string
}

type ContactSort string

const (
	ContactSortNewest      ContactSort = "newest"
	ContactSortOldest      ContactSort = "oldest"
	ContactSortUnreadFirst ContactSort = ""
)
