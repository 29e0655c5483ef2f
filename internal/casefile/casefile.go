package casefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"clinsim/internal/models"
)

// Store reads case records and the case catalog from a data directory:
// <dir>/patient_cases.json for the catalog and
// <dir>/cases/<caseId>_<variant>.json for the per-case records.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) casePath(caseID, variant string) string {
	return filepath.Join(s.dir, "cases", caseID+"_"+variant+".json")
}

// LoadPatientCase reads and decodes the patient record for a case.
func (s *Store) LoadPatientCase(caseID string) (*models.PatientCase, error) {
	var record models.PatientCase
	if err := s.readJSON(s.casePath(caseID, models.VariantPatient), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// LoadPhysicianCase reads and decodes the physician record for a case.
func (s *Store) LoadPhysicianCase(caseID string) (*models.PhysicianCase, error) {
	var record models.PhysicianCase
	if err := s.readJSON(s.casePath(caseID, models.VariantPhysician), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// CaseFile returns the raw JSON of a case record, validated but otherwise
// untouched, for the pass-through file endpoint.
func (s *Store) CaseFile(caseID, variant string) (json.RawMessage, error) {
	path := s.casePath(caseID, variant)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("case file %s_%s: %w", caseID, variant, models.ErrNotFound)
		}
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("case file %s_%s: invalid JSON", caseID, variant)
	}
	return json.RawMessage(data), nil
}

// ListCases returns the case catalog in file order.
func (s *Store) ListCases() ([]models.CaseSummary, error) {
	var cases []models.CaseSummary
	if err := s.readJSON(filepath.Join(s.dir, "patient_cases.json"), &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// GetCase looks up one catalog entry by id.
func (s *Store) GetCase(caseID string) (models.CaseSummary, error) {
	cases, err := s.ListCases()
	if err != nil {
		return models.CaseSummary{}, err
	}
	for _, c := range cases {
		if c.ID == caseID {
			return c, nil
		}
	}
	return models.CaseSummary{}, fmt.Errorf("case %s: %w", caseID, models.ErrNotFound)
}

func (s *Store) readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", filepath.Base(path), models.ErrNotFound)
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
