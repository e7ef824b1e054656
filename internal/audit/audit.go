// Package audit records administrative actions.
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/models"
)

type Store interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, skip, limit int64) ([]models.AuditLog, error)
	Count(ctx context.Context) (int64, error)
}

type UserLookup interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// Recorder appends audit entries. Recording never fails the caller: write
// errors are logged and dropped.
type Recorder struct {
	store Store
	users UserLookup
	log   *zap.Logger
	now   func() time.Time
}

func NewRecorder(store Store, users UserLookup, log *zap.Logger) *Recorder {
	return &Recorder{store: store, users: users, log: log.Named("audit"), now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, admin primitive.ObjectID, action, targetType string, target primitive.ObjectID, meta map[string]any) {
	if meta == nil {
		meta = map[string]any{}
	}
	entry := &models.AuditLog{
		Admin:      admin,
		Action:     action,
		TargetType: targetType,
		TargetID:   target,
		Meta:       meta,
		CreatedAt:  r.now(),
	}
	if err := r.store.Insert(ctx, entry); err != nil {
		r.log.Error("audit write failed",
			zap.String("action", action),
			zap.String("target", target.Hex()),
			zap.Error(err),
		)
	}
}

// Latest returns the newest limit entries.
func (r *Recorder) Latest(ctx context.Context, limit int64) ([]models.AuditLog, error) {
	return r.store.List(ctx, 0, limit)
}

// Page returns one page of entries with the acting admin resolved, and the
// total entry count.
func (r *Recorder) Page(ctx context.Context, page, limit int64) ([]models.AuditLogWithAdmin, int64, error) {
	entries, err := r.store.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Admin)
	}
	admins, err := r.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[primitive.ObjectID]*models.AgentSummary, len(admins))
	for i := range admins {
		s := admins[i].Summary()
		s.Role = ""
		byID[admins[i].ID] = s
	}

	out := make([]models.AuditLogWithAdmin, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.AuditLogWithAdmin{AuditLog: e, Admin: byID[e.Admin]})
	}
	return out, total, nil
}
