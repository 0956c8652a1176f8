// Package audit records security-relevant events.
package audit

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/adamscao/userapi/internal/models"
)

// Store persists audit entries
type Store interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// Recorder writes audit entries on a best-effort basis: a failed write is
// logged and never reported to the caller.
type Recorder struct {
	store  Store
	logger *zap.Logger
}

// NewRecorder creates a new audit recorder. A nil store disables recording.
func NewRecorder(store Store, logger *zap.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record writes entry
func (r *Recorder) Record(ctx context.Context, entry *models.AuditLog) {
	if r == nil || r.store == nil {
		return
	}

	if err := r.store.Create(ctx, entry); err != nil {
		r.logger.Error("failed to create audit log",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

// Details encodes extra event fields as JSON for the details column
func Details(fields map[string]any) string {
	data, err := json.Marshal(fields)
	if err != nil {
		return ""
	}
	return string(data)
}
