package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lm1285/project3-instrument-management-sub001/internal/models"
	appErrors "github.com/lm1285/project3-instrument-management-sub001/pkg/errors"
	"github.com/lm1285/project3-instrument-management-sub001/pkg/kv"
)

// StoreObserver receives persisted payload stats after successful writes.
type StoreObserver interface {
	ObserveStore(payloadBytes, records int)
}

// InstrumentStore owns the persisted record collection inside a size-bounded
// key-value slot. Every operation replaces the whole collection or changes
// nothing; there is no partial-failure state.
type InstrumentStore struct {
	slot     kv.Slot
	maxBytes int
	logger   *zap.Logger
	observer StoreObserver

	now func() time.Time

	// Guards the read-modify-write cycle; the medium itself is exclusive
	// to this process.
	mu sync.Mutex
}

// StoreOption configures the store.
type StoreOption func(*InstrumentStore)

// WithObserver attaches a payload stats observer.
func WithObserver(observer StoreObserver) StoreOption {
	return func(s *InstrumentStore) { s.observer = observer }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *InstrumentStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewInstrumentStore builds a store over the given slot with a serialized
// payload bound in bytes.
func NewInstrumentStore(slot kv.Slot, maxBytes int, logger *zap.Logger, opts ...StoreOption) *InstrumentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	s := &InstrumentStore{
		slot:     slot,
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// GetAll returns the persisted collection in insertion order. A missing or
// structurally invalid payload yields an empty collection without touching
// the stored value.
func (s *InstrumentStore) GetAll(ctx context.Context) []models.InstrumentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// SaveAll serializes and overwrites the whole collection. The write is
// rejected without side effects when the payload exceeds the byte bound.
func (s *InstrumentStore) SaveAll(ctx context.Context, records []models.InstrumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, records)
}

// Add assigns identity and creation stamp to the record, appends it, and
// persists the collection.
func (s *InstrumentStore) Add(ctx context.Context, record models.InstrumentRecord) (*models.InstrumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.ID = s.newID()
	record.CreatedAt = s.now().Format(time.RFC3339)

	records := s.load(ctx)
	records = append(records, record)
	if err := s.save(ctx, records); err != nil {
		return nil, err
	}
	return &record, nil
}

// Update resolves the target record, merges the patch over it with the
// original id pinned, refreshes UpdatedAt, and persists. Resolution order:
// exact id match, then exact managementNumber match from the patch; an
// unresolved update is a failure, never an insert.
func (s *InstrumentStore) Update(ctx context.Context, id string, patch models.InstrumentPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	idx := resolveIndex(records, id, patch.ManagementNumber)
	if idx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "no record matches id or management number")
	}

	record := records[idx]
	originalID := record.ID
	patch.Apply(&record)
	record.ID = originalID
	if record.ID == "" {
		// Defensive fallback for legacy rows persisted without identity.
		record.ID = s.newID()
	}
	record.UpdatedAt = s.now().Format(time.RFC3339)

	records[idx] = record
	return s.save(ctx, records)
}

// Remove hard-deletes the record with the given id.
func (s *InstrumentStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	kept := make([]models.InstrumentRecord, 0, len(records))
	found := false
	for _, record := range records {
		if record.ID == id {
			found = true
			continue
		}
		kept = append(kept, record)
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "no record matches id")
	}
	return s.save(ctx, kept)
}

func (s *InstrumentStore) load(ctx context.Context) []models.InstrumentRecord {
	payload, ok, err := s.slot.Load(ctx)
	if err != nil {
		s.logger.Warn("slot read failed", zap.Error(err))
		return []models.InstrumentRecord{}
	}
	if !ok || len(payload) == 0 {
		return []models.InstrumentRecord{}
	}

	var records []models.InstrumentRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		s.logger.Warn("slot payload failed structural validation", zap.Error(err))
		return []models.InstrumentRecord{}
	}
	if records == nil {
		return []models.InstrumentRecord{}
	}
	return records
}

func (s *InstrumentStore) save(ctx context.Context, records []models.InstrumentRecord) error {
	if records == nil {
		records = []models.InstrumentRecord{}
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "collection is not serializable")
	}
	if len(payload) > s.maxBytes {
		return appErrors.Clone(appErrors.ErrCapacity,
			fmt.Sprintf("serialized collection is %d bytes, bound is %d", len(payload), s.maxBytes))
	}
	if err := s.slot.Store(ctx, payload); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist collection")
	}
	if s.observer != nil {
		s.observer.ObserveStore(len(payload), len(records))
	}
	return nil
}

// newID builds a time-prefixed id with a random suffix. Uniqueness is
// probabilistic; collisions are tolerated as a latent risk, not checked.
func (s *InstrumentStore) newID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%d", s.now().Format("20060102150405"), s.now().UnixNano()%100000)
	}
	return fmt.Sprintf("%s-%s", s.now().Format("20060102150405"), hex.EncodeToString(buf))
}

func resolveIndex(records []models.InstrumentRecord, id string, managementNumber *string) int {
	if id != "" {
		for i := range records {
			if records[i].ID == id {
				return i
			}
		}
	}
	if managementNumber != nil && *managementNumber != "" {
		for i := range records {
			if records[i].ManagementNumber == *managementNumber {
				return i
			}
		}
	}
	return -1
}
