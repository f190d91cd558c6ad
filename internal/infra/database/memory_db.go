package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"gasolinera-golang/internal/domain"

	"github.com/google/uuid"
)

// MemDB keeps movements per fuel type ordered by RecordedAt.
type MemDB struct {
	mu   sync.RWMutex
	data map[int][]domain.Movement
}

func NewMemDB() *MemDB {
	return &MemDB{
		data: make(map[int][]domain.Movement),
	}
}

func (s *MemDB) StoreMovement(_ context.Context, m domain.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.CarryBalance {
		m.InitialBalance = s.lastFinalBalance(m.FuelTypeID)
		m.CarryBalance = false
	}
	m.Settle()
	s.insert(m)
	return nil
}

func (s *MemDB) GetMovement(_ context.Context, id uuid.UUID) (domain.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fuel, i := s.find(id)
	if i < 0 {
		return domain.Movement{}, domain.ErrMovementNotFound
	}
	return s.data[fuel][i], nil
}

func (s *MemDB) UpdateMovement(_ context.Context, m domain.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fuel, i := s.find(m.ID)
	if i < 0 {
		return domain.ErrMovementNotFound
	}
	if s.data[fuel][i].Automatic {
		return domain.ErrAutomaticMovement
	}
	s.remove(fuel, i)
	m.CarryBalance = false
	m.Settle()
	s.insert(m)
	return nil
}

func (s *MemDB) DeleteMovement(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fuel, i := s.find(id)
	if i < 0 {
		return domain.ErrMovementNotFound
	}
	if s.data[fuel][i].Automatic {
		return domain.ErrAutomaticMovement
	}
	s.remove(fuel, i)
	return nil
}

func (s *MemDB) ListMovements(_ context.Context, from, to time.Time) ([]domain.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Movement
	for _, values := range s.data {
		for _, m := range values {
			if m.RecordedAt.Before(from) {
				continue
			}
			if !m.RecordedAt.Before(to) {
				break
			}
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].RecordedAt.After(out[j].RecordedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out, nil
}

func (s *MemDB) LastFinalBalance(_ context.Context, fuelTypeID int) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFinalBalance(fuelTypeID), nil
}

func (s *MemDB) SumLitersOut(_ context.Context, from, to time.Time) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, values := range s.data {
		for _, m := range values {
			if m.RecordedAt.Before(from) {
				continue
			}
			if !m.RecordedAt.Before(to) {
				break
			}
			total += m.LitersOut
		}
	}
	return total, nil
}

func (s *MemDB) PurgeMovements(_ context.Context) error {
	s.mu.Lock()
	s.data = make(map[int][]domain.Movement)
	s.mu.Unlock()
	return nil
}

func (s *MemDB) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, values := range s.data {
		n += len(values)
	}
	return n
}

func (s *MemDB) lastFinalBalance(fuelTypeID int) float64 {
	values := s.data[fuelTypeID]
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1].FinalBalance
}

// insert keeps each slice sorted; equal timestamps stay in insertion order.
func (s *MemDB) insert(m domain.Movement) {
	values := s.data[m.FuelTypeID]
	i := sort.Search(len(values), func(i int) bool {
		return values[i].RecordedAt.After(m.RecordedAt)
	})
	values = append(values, domain.Movement{})
	copy(values[i+1:], values[i:])
	values[i] = m
	s.data[m.FuelTypeID] = values
}

func (s *MemDB) remove(fuel, i int) {
	values := s.data[fuel]
	s.data[fuel] = append(values[:i], values[i+1:]...)
}

func (s *MemDB) find(id uuid.UUID) (int, int) {
	for fuel, values := range s.data {
		for i, m := range values {
			if m.ID == id {
				return fuel, i
			}
		}
	}
	return 0, -1
}
