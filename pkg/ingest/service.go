package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amrwatch/surveillance/pkg/cleaning"
	"github.com/amrwatch/surveillance/pkg/common/kafka"
	"github.com/amrwatch/surveillance/pkg/common/logger"
	"github.com/amrwatch/surveillance/pkg/common/models"
	"github.com/amrwatch/surveillance/pkg/registry"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EventIsolateCleaned is published for every isolate the service accepts.
const EventIsolateCleaned = "isolate.cleaned"

type Service struct {
	validator   *Validator
	transformer *cleaning.Transformer
	submissions *Repository
	isolates    *registry.Repository
	producer    *kafka.Producer
	dlq         *kafka.Producer
	auditTTL    time.Duration
}

func NewService(validator *Validator, transformer *cleaning.Transformer, submissions *Repository, isolates *registry.Repository, producer *kafka.Producer, dlq *kafka.Producer, auditTTL time.Duration) *Service {
	return &Service{
		validator:   validator,
		transformer: transformer,
		submissions: submissions,
		isolates:    isolates,
		producer:    producer,
		dlq:         dlq,
		auditTTL:    auditTTL,
	}
}

// Process validates and cleans one raw laboratory row, persists the
// resulting isolate, and publishes a cleaned-isolate event for the
// analysis service.
func (s *Service) Process(ctx context.Context, req models.SubmitRequest) (*models.SubmitResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	sub := &Submission{
		ID:      id,
		Source:  req.Source,
		Payload: datatypes.JSONMap(req.Row),
		Status:  StatusAccepted,
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("persisting submission: %w", err)
	}

	iso, err := s.transformer.Transform(req.Row)
	if err != nil {
		_ = s.submissions.UpdateStatus(ctx, id, StatusFailed, err.Error())
		return nil, ValidationError{reason: err}
	}

	if err := s.isolates.Create(ctx, *iso); err != nil {
		_ = s.submissions.UpdateStatus(ctx, id, StatusFailed, err.Error())
		return nil, fmt.Errorf("persisting isolate: %w", err)
	}

	payload := map[string]interface{}{
		"submission_id": id,
		"source":        req.Source,
		"isolate":       isolateMap(*iso),
		"received_at":   time.Now().UTC(),
	}

	if sendErr := s.producer.PublishEvent(ctx, EventIsolateCleaned, req.Source, payload); sendErr != nil {
		logger.Log.WithError(sendErr).Error("failed to publish cleaned isolate event")
		_ = s.submissions.UpdateStatus(ctx, id, StatusFailed, sendErr.Error())
		if s.dlq != nil {
			if dlqErr := s.dlq.PublishEvent(ctx, EventIsolateCleaned, req.Source, payload); dlqErr != nil {
				logger.Log.WithError(dlqErr).Error("failed to push event to DLQ")
			}
		}
		return nil, fmt.Errorf("publishing event: %w", sendErr)
	}

	_ = s.submissions.UpdateStatus(ctx, id, StatusPublished, "")
	_ = s.submissions.SetIsolateID(ctx, id, iso.ID)

	return &models.SubmitResponse{
		ID:        id,
		IsolateID: iso.ID,
		Status:    StatusPublished,
		Timestamp: time.Now().UTC(),
	}, nil
}

func (s *Service) Status(ctx context.Context, id string) (*Submission, error) {
	return s.submissions.Get(ctx, id)
}

func (s *Service) Cleanup(ctx context.Context) error {
	return s.submissions.CleanupExpired(ctx, s.auditTTL)
}

// isolateMap flattens an isolate into the generic event payload shape.
func isolateMap(iso models.Isolate) map[string]interface{} {
	raw, err := json.Marshal(iso)
	if err != nil {
		return map[string]interface{}{"id": iso.ID}
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]interface{}{"id": iso.ID}
	}
	return out
}
