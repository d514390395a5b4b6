package repository

import (
	"context"
	"strconv"
	"sync"

	"restaurant-admin/internal/domain"
)

// MemoryRepository keeps rows in process memory; used by the "memory"
// database driver and by service tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID map[string]int64
	rows   map[string][]memRow
}

type memRow struct {
	id   int64
	vals domain.Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: map[string]int64{}, rows: map[string][]memRow{}}
}

func (m *MemoryRepository) List(_ context.Context, s domain.Schema) ([]domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Record, 0, len(m.rows[s.Name]))
	for _, row := range m.rows[s.Name] {
		out = append(out, render(s, row))
	}
	return out, nil
}

func (m *MemoryRepository) Get(_ context.Context, s domain.Schema, id string) (domain.Record, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.index(s.Name, n); i >= 0 {
		return render(s, m.rows[s.Name][i]), nil
	}
	return nil, domain.ErrNotFound
}

func (m *MemoryRepository) FindBy(_ context.Context, s domain.Schema, field, value string) (domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, row := range m.rows[s.Name] {
		if domain.FormatValue(row.vals[field]) == value {
			return render(s, row), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MemoryRepository) Insert(_ context.Context, s domain.Schema, rec domain.Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.unique(s, rec, 0); err != nil {
		return "", err
	}
	m.nextID[s.Name]++
	id := m.nextID[s.Name]
	m.rows[s.Name] = append(m.rows[s.Name], memRow{id: id, vals: pick(s, rec)})
	return strconv.FormatInt(id, 10), nil
}

func (m *MemoryRepository) Replace(_ context.Context, s domain.Schema, id string, rec domain.Record) error {
	n, ok := parseID(id)
	if !ok {
		return domain.ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(s.Name, n)
	if i < 0 {
		return domain.ErrNotFound
	}
	if err := m.unique(s, rec, n); err != nil {
		return err
	}
	m.rows[s.Name][i].vals = pick(s, rec)
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, s domain.Schema, id string) error {
	n, ok := parseID(id)
	if !ok {
		return domain.ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(s.Name, n)
	if i < 0 {
		return domain.ErrNotFound
	}
	rows := m.rows[s.Name]
	m.rows[s.Name] = append(rows[:i:i], rows[i+1:]...)
	return nil
}

func (m *MemoryRepository) index(table string, id int64) int {
	for i, row := range m.rows[table] {
		if row.id == id {
			return i
		}
	}
	return -1
}

// unique mirrors the UNIQUE constraint on usuarios.email.
func (m *MemoryRepository) unique(s domain.Schema, rec domain.Record, self int64) error {
	if s.Name != domain.Usuarios.Name {
		return nil
	}
	email := domain.FormatValue(rec["email"])
	for _, row := range m.rows[s.Name] {
		if row.id != self && domain.FormatValue(row.vals["email"]) == email {
			return domain.ErrConflict
		}
	}
	return nil
}

func pick(s domain.Schema, rec domain.Record) domain.Record {
	out := make(domain.Record, len(s.Fields))
	for _, f := range s.Fields {
		out[f.Name] = rec[f.Name]
	}
	return out
}

func render(s domain.Schema, row memRow) domain.Record {
	out := make(domain.Record, len(s.Fields)+1)
	out[s.IDField] = number(row.id)
	for _, f := range s.Fields {
		out[f.Name] = fromColumn(f.Kind, row.vals[f.Name])
	}
	return out
}
