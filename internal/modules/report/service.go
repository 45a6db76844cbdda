package report

import (
	"context"
	"errors"
	"log"
	"strings"

	"rentlens/internal/domain"
	"rentlens/internal/repository"

	"gorm.io/gorm"
)

// Service handles report intake and admin moderation. Moderation
// writes are guarded on the pending status so two admins cannot act on
// the same report twice; ban-and-resolve runs in a single transaction.
type Service struct {
	db       *gorm.DB
	reports  ReportRepository
	users    UserReader
	products ProductReader
}

func NewService(db *gorm.DB, reports ReportRepository, users UserReader, products ProductReader) *Service {
	return &Service{
		db:       db,
		reports:  reports,
		users:    users,
		products: products,
	}
}

func (s *Service) Create(ctx context.Context, reporterID int64, req CreateReportRequest) (*domain.Report, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrEmptyReason
	}

	switch domain.ReportType(req.Type) {
	case domain.ReportTypeUser:
		if req.TargetID == reporterID {
			return nil, ErrValidation
		}
		if _, err := s.users.GetByID(ctx, req.TargetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTargetNotFound
			}
			return nil, err
		}
	case domain.ReportTypeProduct:
		p, err := s.products.GetByID(ctx, req.TargetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTargetNotFound
			}
			return nil, err
		}
		if p.OwnerID == reporterID {
			return nil, ErrValidation
		}
	default:
		return nil, ErrValidation
	}

	rep := &domain.Report{
		ReporterID: reporterID,
		Type:       domain.ReportType(req.Type),
		TargetID:   req.TargetID,
		Reason:     reason,
		Status:     domain.ReportPending,
	}
	if err := s.reports.Create(ctx, rep); err != nil {
		return nil, err
	}

	log.Printf("level=info msg=report created report_id=%d type=%s target_id=%d reporter_id=%d", rep.ID, rep.Type, rep.TargetID, reporterID)
	return rep, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Report, error) {
	rep, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rep, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Report, int64, error) {
	return s.reports.List(ctx, repository.ReportFilters{
		Status: q.Status,
		Type:   q.Type,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
}

// Dismiss closes a report as rejected with no further side effects.
func (s *Service) Dismiss(ctx context.Context, reportID, reviewerID int64, notes string) (*domain.Report, error) {
	return s.review(ctx, reportID, reviewerID, domain.ReportRejected, notes)
}

// MarkReviewed acknowledges a report without a verdict, e.g. when the
// admin has looked but needs more information from the reporter.
func (s *Service) MarkReviewed(ctx context.Context, reportID, reviewerID int64, notes string) (*domain.Report, error) {
	return s.review(ctx, reportID, reviewerID, domain.ReportReviewed, notes)
}

// Resolve closes a report as resolved with no further side effects.
func (s *Service) Resolve(ctx context.Context, reportID, reviewerID int64, notes string) (*domain.Report, error) {
	return s.review(ctx, reportID, reviewerID, domain.ReportResolved, notes)
}

func (s *Service) review(ctx context.Context, reportID, reviewerID int64, to domain.ReportStatus, notes string) (*domain.Report, error) {
	if _, err := s.GetByID(ctx, reportID); err != nil {
		return nil, err
	}

	ok, err := repository.ReviewGuardedTx(s.db.WithContext(ctx), reportID, reviewerID, to, notes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyReviewed
	}

	log.Printf("level=info msg=report reviewed report_id=%d status=%s reviewer_id=%d", reportID, to, reviewerID)
	return s.GetByID(ctx, reportID)
}

// BanAndResolve bans the reported user and marks the report resolved
// in one transaction. For a product report the product's owner is
// banned. Either both writes land or neither does.
func (s *Service) BanAndResolve(ctx context.Context, reportID, reviewerID int64, notes, banReason string) (*domain.Report, error) {
	rep, err := s.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	bannedUserID := rep.TargetID
	if rep.Type == domain.ReportTypeProduct {
		p, err := s.products.GetByID(ctx, rep.TargetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTargetNotFound
			}
			return nil, err
		}
		bannedUserID = p.OwnerID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := repository.ReviewGuardedTx(tx, reportID, reviewerID, domain.ReportResolved, notes)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyReviewed
		}
		return repository.SetBannedTx(tx, bannedUserID, true, banReason)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("level=info msg=report resolved with ban report_id=%d banned_user_id=%d reviewer_id=%d", reportID, bannedUserID, reviewerID)
	return s.GetByID(ctx, reportID)
}
