package machine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nerrad567/masterdata-core/internal/masterdata"
)

type naturalKey struct {
	id       string
	langCode string
}

// MemoryRepository implements Store and HistoryStore in process memory.
// It backs the "memory" database driver and the service tests.
//
// All methods are safe for concurrent use.
type MemoryRepository struct {
	mu        sync.RWMutex
	machines  map[naturalKey]Machine
	histories []MachineHistory
}

// NewMemoryRepository creates an empty in-memory machine repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{machines: make(map[naturalKey]Machine)}
}

// Seed stores rows as given, including soft-deleted ones, replacing any row
// with the same key.
func (r *MemoryRepository) Seed(rows ...Machine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range rows {
		r.machines[naturalKey{m.ID, m.LangCode}] = m
	}
}

// FindByIDAndLocaleActive returns the active rows for one id in one locale.
func (r *MemoryRepository) FindByIDAndLocaleActive(ctx context.Context, id, langCode string) ([]Machine, error) {
	return r.find(ctx, func(m Machine) bool { return m.ID == id && m.LangCode == langCode })
}

// FindByLocaleActive returns the active rows in one locale.
func (r *MemoryRepository) FindByLocaleActive(ctx context.Context, langCode string) ([]Machine, error) {
	return r.find(ctx, func(m Machine) bool { return m.LangCode == langCode })
}

// FindAllActive returns every active row.
func (r *MemoryRepository) FindAllActive(ctx context.Context) ([]Machine, error) {
	return r.find(ctx, func(Machine) bool { return true })
}

// InsertRecord stores a new row. An existing (id, lang_code) pair is
// reported as ErrMachineExists.
func (r *MemoryRepository) InsertRecord(ctx context.Context, m Machine) (Machine, error) {
	if err := ctx.Err(); err != nil {
		return Machine{}, fmt.Errorf("%w: %w", masterdata.ErrAccessFailure, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := naturalKey{m.ID, m.LangCode}
	if _, exists := r.machines[key]; exists {
		return Machine{}, fmt.Errorf("%w: inserting machine %s/%s: %w",
			masterdata.ErrAccessFailure, m.ID, m.LangCode, ErrMachineExists)
	}
	r.machines[key] = m
	return m, nil
}

// InsertHistory appends a history row.
func (r *MemoryRepository) InsertHistory(ctx context.Context, h MachineHistory) (MachineHistory, error) {
	if err := ctx.Err(); err != nil {
		return MachineHistory{}, fmt.Errorf("%w: %w", masterdata.ErrAccessFailure, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.histories = append(r.histories, h)
	return h, nil
}

// Histories returns a copy of the history rows in insertion order.
func (r *MemoryRepository) Histories() []MachineHistory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MachineHistory, len(r.histories))
	copy(out, r.histories)
	return out
}

func (r *MemoryRepository) find(ctx context.Context, match func(Machine) bool) ([]Machine, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", masterdata.ErrAccessFailure, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Machine
	for _, m := range r.machines {
		if match(m) && masterdata.StatusOf(m.IsDeleted).IsActive() {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].LangCode < out[j].LangCode
	})
	return out, nil
}
