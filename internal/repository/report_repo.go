package repository

import (
	"context"
	"time"

	"rentlens/internal/domain"

	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

type reportModel struct {
	ID         int64      `gorm:"column:id;primaryKey"`
	ReporterID int64      `gorm:"column:reporter_id;index"`
	Type       string     `gorm:"column:type"`
	TargetID   int64      `gorm:"column:target_id;index"`
	Reason     string     `gorm:"column:reason"`
	Status     string     `gorm:"column:status;index"`
	ReviewerID *int64     `gorm:"column:reviewer_id"`
	AdminNotes *string    `gorm:"column:admin_notes"`
	ReviewedAt *time.Time `gorm:"column:reviewed_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (reportModel) TableName() string { return "reports" }

func toDomainReport(m reportModel) *domain.Report {
	var notes string
	if m.AdminNotes != nil {
		notes = *m.AdminNotes
	}

	return &domain.Report{
		ID:         m.ID,
		ReporterID: m.ReporterID,
		Type:       domain.ReportType(m.Type),
		TargetID:   m.TargetID,
		Reason:     m.Reason,
		Status:     domain.ReportStatus(m.Status),
		ReviewerID: m.ReviewerID,
		AdminNotes: notes,
		ReviewedAt: m.ReviewedAt,
		CreatedAt:  m.CreatedAt,
	}
}

func toReportModel(rep *domain.Report) reportModel {
	var notes *string
	if rep.AdminNotes != "" {
		v := rep.AdminNotes
		notes = &v
	}

	return reportModel{
		ID:         rep.ID,
		ReporterID: rep.ReporterID,
		Type:       string(rep.Type),
		TargetID:   rep.TargetID,
		Reason:     rep.Reason,
		Status:     string(rep.Status),
		ReviewerID: rep.ReviewerID,
		AdminNotes: notes,
		ReviewedAt: rep.ReviewedAt,
		CreatedAt:  rep.CreatedAt,
	}
}

func (r *ReportRepository) Create(ctx context.Context, rep *domain.Report) error {
	m := toReportModel(rep)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*rep = *toDomainReport(m)
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*domain.Report, error) {
	var m reportModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReport(m), nil
}

type ReportFilters struct {
	Status string
	Type   string
	Limit  int
	Offset int
}

func (r *ReportRepository) List(ctx context.Context, f ReportFilters) ([]domain.Report, int64, error) {
	q := r.db.WithContext(ctx).Model(&reportModel{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []reportModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Report, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReport(m))
	}
	return out, total, nil
}

func (r *ReportRepository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&reportModel{}).
		Where("status = ?", string(domain.ReportPending)).
		Count(&n).Error
	return n, err
}

// ReviewGuardedTx transitions a report out of pending inside tx. Zero
// rows affected means the report was already reviewed (or missing) and
// the whole transaction should roll back.
func ReviewGuardedTx(tx *gorm.DB, reportID, reviewerID int64, to domain.ReportStatus, notes string) (bool, error) {
	now := time.Now().UTC()
	res := tx.Model(&reportModel{}).
		Where("id = ? AND status = ?", reportID, string(domain.ReportPending)).
		Updates(map[string]any{
			"status":      string(to),
			"reviewer_id": reviewerID,
			"admin_notes": notes,
			"reviewed_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
