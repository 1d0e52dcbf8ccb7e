package models

import "time"

type AuditAction string

const (
	AuditSessionStart          AuditAction = "SESSION_START"
	AuditSessionTerminated     AuditAction = "SESSION_TERMINATED"
	AuditAllSessionsTerminated AuditAction = "ALL_SESSIONS_TERMINATED"
	AuditSignOut               AuditAction = "SIGN_OUT"
	AuditPasswordChange        AuditAction = "PASSWORD_CHANGE"
	AuditBulkDelete            AuditAction = "BULK_DELETE"
	AuditRecordsImported       AuditAction = "RECORDS_IMPORTED"
	AuditRecordsExported       AuditAction = "RECORDS_EXPORTED"
)

type AuditEntry struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Action       AuditAction    `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type AuditFilter struct {
	UserID  string
	Actions []AuditAction
	Limit   int
	Offset  int
}
