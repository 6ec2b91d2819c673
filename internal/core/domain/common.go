package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Version is the optimistic-concurrency stamp for mutable records; immutable
// records keep it at 1 forever.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
	Version       int64     `json:"version"`
}
