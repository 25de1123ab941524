package patient

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
	"github.com/Alreriabiceps/clinic-sched/pkg/pagination"
)

// API is the slice of the upstream client this service uses.
type API interface {
	ListPatients(ctx context.Context, token string) ([]upstream.Patient, error)
	SearchPatients(ctx context.Context, token, query string) ([]upstream.Patient, error)
	GetPatient(ctx context.Context, token, id string) (*upstream.Patient, error)
	CreatePatient(ctx context.Context, token string, p upstream.Patient) (*upstream.Patient, error)
	UpdatePatient(ctx context.Context, token string, p upstream.Patient) (*upstream.Patient, error)
	DeletePatient(ctx context.Context, token, id string) error
	AddConsultation(ctx context.Context, token, patientID string, c upstream.Consultation) error
	AddImmunization(ctx context.Context, token, patientID string, im upstream.Immunization) error
}

type Service struct {
	api    API
	logger zerolog.Logger

	now func() time.Time
}

func NewService(api API, logger zerolog.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger.With().Str("component", "patient").Logger(),
		now:    time.Now,
	}
}

// ListResult is one page of the patient list.
type ListResult struct {
	Page  []Summary
	Total int
}

// List returns a page of patient summaries, optionally narrowed by a
// search query, sorted by name. Type filters to one track when set.
func (s *Service) List(ctx context.Context, token, query string, typ Type, pg pagination.Params) (*ListResult, error) {
	var raw []upstream.Patient
	var err error
	if strings.TrimSpace(query) != "" {
		raw, err = s.api.SearchPatients(ctx, token, query)
	} else {
		raw, err = s.api.ListPatients(ctx, token)
	}
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(raw))
	for _, p := range raw {
		sum := Summarize(p)
		if typ != "" && sum.Type != typ {
			continue
		}
		summaries = append(summaries, sum)
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Name != summaries[j].Name {
			return summaries[i].Name < summaries[j].Name
		}
		return summaries[i].ID < summaries[j].ID
	})

	total := len(summaries)
	start, end := pg.Bounds(total)
	return &ListResult{Page: summaries[start:end], Total: total}, nil
}

func (s *Service) Get(ctx context.Context, token, id string) (*upstream.Patient, error) {
	return s.api.GetPatient(ctx, token, id)
}

func (s *Service) Create(ctx context.Context, token string, p upstream.Patient) (*upstream.Patient, error) {
	created, err := s.api.CreatePatient(ctx, token, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("patient_id", created.ID).Str("type", created.PatientType).Msg("patient created")
	return created, nil
}

func (s *Service) Update(ctx context.Context, token string, p upstream.Patient) (*upstream.Patient, error) {
	return s.api.UpdatePatient(ctx, token, p)
}

func (s *Service) Delete(ctx context.Context, token, id string) error {
	if err := s.api.DeletePatient(ctx, token, id); err != nil {
		return err
	}
	s.logger.Info().Str("patient_id", id).Msg("patient deleted")
	return nil
}

func (s *Service) AddConsultation(ctx context.Context, token, patientID string, c upstream.Consultation) error {
	return s.api.AddConsultation(ctx, token, patientID, c)
}

func (s *Service) AddImmunization(ctx context.Context, token, patientID string, im upstream.Immunization) error {
	return s.api.AddImmunization(ctx, token, patientID, im)
}
