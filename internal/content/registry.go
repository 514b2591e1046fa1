package content

import (
	"fmt"
	"sort"
	"sync"

	"github.com/felixgeelhaar/kaina/internal/domain"
)

// Registry holds the loaded catalog in memory and answers arm and row
// lookups for selection and binding.
type Registry struct {
	loader    *Loader
	mu        sync.RWMutex
	packs     map[string]*Pack
	rows      map[int]Row
	byPattern map[domain.NumberPattern][]Row
	loaded    bool
}

// NewRegistry creates a registry over the given loader.
func NewRegistry(loader *Loader) *Registry {
	return &Registry{
		loader:    loader,
		packs:     make(map[string]*Pack),
		rows:      make(map[int]Row),
		byPattern: make(map[domain.NumberPattern][]Row),
	}
}

// Load reads every pack and the latest CSV drop into memory. CSV rows are
// applied first, pack rows override them number by number.
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	csvRows, err := r.loader.LoadLatestCSV()
	if err != nil {
		return fmt.Errorf("load csv rows: %w", err)
	}
	for _, row := range csvRows {
		r.rows[row.Number] = row
	}

	packs, err := r.loader.LoadAllPacks()
	if err != nil {
		return fmt.Errorf("load packs: %w", err)
	}
	for _, pack := range packs {
		r.packs[pack.ID] = pack
		for _, row := range pack.Rows {
			r.rows[row.Number] = row
		}
	}

	for _, row := range r.rows {
		pat := row.Pattern()
		r.byPattern[pat] = append(r.byPattern[pat], row)
	}
	for _, rows := range r.byPattern {
		sort.Slice(rows, func(i, j int) bool { return rows[i].Number < rows[j].Number })
	}

	r.loaded = true
	return nil
}

// Reload drops the catalog and loads it again.
func (r *Registry) Reload() error {
	r.mu.Lock()
	r.packs = make(map[string]*Pack)
	r.rows = make(map[int]Row)
	r.byPattern = make(map[domain.NumberPattern][]Row)
	r.loaded = false
	r.mu.Unlock()

	return r.Load()
}

// Arms returns the flat selection catalog: every question type crossed
// with every number pattern the content actually covers, in stable order.
func (r *Registry) Arms() []domain.Arm {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var arms []domain.Arm
	for _, typ := range []domain.ExerciseType{domain.TypeKokia, domain.TypeKiek} {
		for _, pat := range []domain.NumberPattern{
			domain.PatternSingleDigit,
			domain.PatternTeens,
			domain.PatternDecade,
			domain.PatternCompound,
		} {
			if len(r.byPattern[pat]) == 0 {
				continue
			}
			arms = append(arms, domain.Arm{Type: typ, Case: domain.CaseFor(typ), Pattern: pat})
		}
	}
	return arms
}

// InstancesFor returns the rows an arm can be bound to.
func (r *Registry) InstancesFor(arm domain.Arm) []Row {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byPattern[arm.Pattern]
	out := make([]Row, len(rows))
	copy(out, rows)
	return out
}

// Row returns the catalog entry for a number.
func (r *Registry) Row(number int) (Row, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[number]
	return row, ok
}

// Rows returns every catalog entry ordered by number.
func (r *Registry) Rows() []Row {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Row, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Packs returns the loaded packs ordered by ID.
func (r *Registry) Packs() []*Pack {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Pack, 0, len(r.packs))
	for _, pack := range r.packs {
		out = append(out, pack)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
