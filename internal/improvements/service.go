package improvements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-service/internal/improver"
	"resume-service/internal/queue"
	"resume-service/internal/resumes"
	"resume-service/internal/shared/metrics"
	"resume-service/internal/shared/telemetry"
)

const eventPublishTimeout = 5 * time.Second

// ResumeGetter resolves an owned resume.
type ResumeGetter interface {
	Get(ctx context.Context, id, ownerID int64) (resumes.Resume, error)
}

// Service orchestrates improvements and serves history.
type Service struct {
	Repo     Repo
	Resumes  ResumeGetter
	Improver improver.Client
	// Events is optional; nil disables publishing.
	Events queue.Client
}

// NewService constructs a Service.
func NewService(repo Repo, resumes ResumeGetter, imp improver.Client, events queue.Client) *Service {
	return &Service{Repo: repo, Resumes: resumes, Improver: imp, Events: events}
}

// Improve runs the improver over the caller's resume and appends the result to history.
// The resume content itself is left unchanged.
func (s *Service) Improve(ctx context.Context, resumeID, ownerID int64, tz string) (Record, error) {
	loc, err := ResolveLocation(tz)
	if err != nil {
		metrics.IncImprovement("invalid_timezone")
		return Record{}, err
	}

	resume, err := s.Resumes.Get(ctx, resumeID, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.IncImprovement("not_found")
		} else {
			metrics.IncImprovement("error")
		}
		return Record{}, err
	}

	improved, err := s.Improver.Improve(ctx, resume.Content)
	if err != nil {
		metrics.IncImprovement("error")
		if errors.Is(err, context.Canceled) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("%w: %v", ErrImproverUnavailable, err)
	}

	rec, err := s.Repo.Append(ctx, resume.ID, improved)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.IncImprovement("not_found")
		} else {
			metrics.IncImprovement("error")
		}
		return Record{}, err
	}
	metrics.IncImprovement("ok")

	s.publish(ctx, rec, ownerID)

	rec.CreatedAt = InZone(rec.CreatedAt, loc)
	return rec, nil
}

// History lists improvements of the caller's resume, newest first.
func (s *Service) History(ctx context.Context, resumeID, ownerID int64, tz string) ([]Record, error) {
	loc, err := ResolveLocation(tz)
	if err != nil {
		return nil, err
	}
	if _, err := s.Resumes.Get(ctx, resumeID, ownerID); err != nil {
		return nil, err
	}
	list, err := s.Repo.ListByResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].CreatedAt = InZone(list[i].CreatedAt, loc)
	}
	return list, nil
}

func (s *Service) publish(ctx context.Context, rec Record, ownerID int64) {
	if s.Events == nil {
		return
	}
	requestID := telemetry.RequestIDFrom(ctx)
	msg := queue.NewImprovementCreated(rec.ResumeID, rec.ID, ownerID, rec.CreatedAt, requestID)

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	if err := s.Events.Send(sendCtx, msg); err != nil {
		telemetry.Warn("improvement.event_failed", map[string]any{
			"resume_id":  rec.ResumeID,
			"history_id": rec.ID,
			"request_id": requestID,
			"error":      err,
		})
	}
}
