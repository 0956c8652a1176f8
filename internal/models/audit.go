package models

import "time"

// AuditLog represents an audit log entry
type AuditLog struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor,omitempty"`       // External ID of the authenticated API key
	ResourceID string    `json:"resource_id,omitempty"` // External ID of the affected record
	ClientIP   string    `json:"client_ip"`
	UserAgent  string    `json:"user_agent,omitempty"`
	Success    bool      `json:"success"`
	ErrorMsg   string    `json:"error_msg,omitempty"`
	Details    string    `json:"details,omitempty"` // JSON
}

// Audit action constants
const (
	ActionAPIKeyCreate = "apikey_create"
	ActionAPIKeyUpdate = "apikey_update"
	ActionAPIKeyDelete = "apikey_delete"
	ActionUserCreate   = "user_create"
	ActionUserUpdate   = "user_update"
	ActionUserDelete   = "user_delete"
	ActionAuthFailed   = "auth_failed"
)

// AuditActions lists every action the service records
var AuditActions = []string{
	ActionAPIKeyCreate,
	ActionAPIKeyUpdate,
	ActionAPIKeyDelete,
	ActionUserCreate,
	ActionUserUpdate,
	ActionUserDelete,
	ActionAuthFailed,
}
