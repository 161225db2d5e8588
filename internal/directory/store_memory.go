package directory

import (
	"context"
	"sync"

	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/sentinel"
)

// InMemoryStore keeps the directory in process memory. The hierarchy is
// loaded once (seed data or tests) and read concurrently after that.
type InMemoryStore struct {
	mu          sync.RWMutex
	offices     map[id.OfficeID]Office
	departments map[id.DepartmentID]Department
	faats       map[id.FaatID]Faat
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		offices:     make(map[id.OfficeID]Office),
		departments: make(map[id.DepartmentID]Department),
		faats:       make(map[id.FaatID]Faat),
	}
}

// AddOffice loads an office. Not part of the Store interface: the workflow
// never mutates the directory, only seeding does.
func (s *InMemoryStore) AddOffice(office Office) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offices[office.ID] = office
}

func (s *InMemoryStore) AddDepartment(department Department) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departments[department.ID] = department
}

func (s *InMemoryStore) AddFaat(faat Faat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faats[faat.ID] = faat
}

func (s *InMemoryStore) GetOffice(_ context.Context, officeID id.OfficeID) (Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if office, ok := s.offices[officeID]; ok {
		return office, nil
	}
	return Office{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) GetDepartment(_ context.Context, departmentID id.DepartmentID) (Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if department, ok := s.departments[departmentID]; ok {
		return department, nil
	}
	return Department{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) GetFaat(_ context.Context, faatID id.FaatID) (Faat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if faat, ok := s.faats[faatID]; ok {
		return faat, nil
	}
	return Faat{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListDepartments(_ context.Context, officeID id.OfficeID) ([]Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Department
	for _, department := range s.departments {
		if department.OfficeID == officeID {
			out = append(out, department)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListFaats(_ context.Context, departmentID id.DepartmentID) ([]Faat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Faat
	for _, faat := range s.faats {
		if faat.DepartmentID == departmentID {
			out = append(out, faat)
		}
	}
	return out, nil
}
