package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxCancellationReasonLength = 500
)

// Audit actions
const (
	AuditActionCreated      = "reservation.created"
	AuditActionUpdated      = "reservation.updated"
	AuditActionReprogrammed = "reservation.reprogrammed"
	AuditActionCancelled    = "reservation.cancelled"
)
