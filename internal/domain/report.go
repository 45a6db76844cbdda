package domain

import "time"

type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportReviewed ReportStatus = "reviewed"
	ReportResolved ReportStatus = "resolved"
	ReportRejected ReportStatus = "rejected"
)

type ReportType string

const (
	ReportTypeUser    ReportType = "user"
	ReportTypeProduct ReportType = "product"
)

type Report struct {
	ID         int64        `json:"id"`
	ReporterID int64        `json:"reporter_id" validate:"required"`
	Type       ReportType   `json:"type" validate:"required"`
	TargetID   int64        `json:"target_id" validate:"required"`
	Reason     string       `json:"reason" validate:"required" gorm:"type:text"`
	Status     ReportStatus `json:"status"`
	ReviewerID *int64       `json:"reviewer_id,omitempty"`
	AdminNotes string       `json:"admin_notes,omitempty" gorm:"type:text"`
	ReviewedAt *time.Time   `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`

	Reporter *User `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
}
