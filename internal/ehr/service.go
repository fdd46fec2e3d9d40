package ehr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

// Service manages health records.
type Service struct {
	repo   Repository
	logger *logging.Logger
}

func NewService(repo Repository, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Get returns a patient's record, creating an empty one on first access.
// Patients read their own record; doctors and admins may name a patient.
func (s *Service) Get(ctx context.Context, caller auth.Principal, patientID string) (*Record, error) {
	patientID = s.resolvePatient(caller, patientID)

	rec, err := s.repo.GetByPatient(ctx, patientID)
	if errors.Is(err, ErrNotFound) {
		rec = &Record{PatientID: patientID}
		if err := s.repo.Create(ctx, rec); err != nil {
			return nil, fmt.Errorf("creating health record: %w", err)
		}
		s.logger.Info("health record created", "patient_id", patientID)
		return rec, nil
	}
	return rec, err
}

// Update applies patient edits to their own record, creating it first if
// needed.
func (s *Service) Update(ctx context.Context, caller auth.Principal, upd UpdateRequest) (*Record, error) {
	if _, err := s.Get(ctx, caller, caller.ID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, caller.ID, upd)
}

// AddDocument appends a document to the caller's record, upserting the
// record if absent.
func (s *Service) AddDocument(ctx context.Context, caller auth.Principal, req AddDocumentRequest) (*Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	doc := Document{
		Title:      req.Title,
		Type:       req.Type,
		URL:        req.URL,
		UploadedAt: time.Now().UTC(),
	}
	return s.repo.AddDocument(ctx, caller.ID, doc)
}

func (s *Service) resolvePatient(caller auth.Principal, patientID string) string {
	if caller.Role == auth.RolePatient || patientID == "" {
		return caller.ID
	}
	return patientID
}
