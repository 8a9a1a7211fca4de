package service

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/Aravindkumar2195/mom-app/config"
	"github.com/Aravindkumar2195/mom-app/model"
)

// SupplierStore is an in-memory store for suppliers
// In production, this should be replaced with a database
type SupplierStore struct {
	suppliers map[string]*model.Supplier
	mu        sync.RWMutex
}

func NewSupplierStore() *SupplierStore {
	return &SupplierStore{suppliers: make(map[string]*model.Supplier)}
}

// Upsert saves a supplier, replacing any existing one with the same ID
func (s *SupplierStore) Upsert(supplier *model.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *supplier
	s.suppliers[supplier.ID] = &cp
}

func (s *SupplierStore) Get(id string) *model.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sup, ok := s.suppliers[id]; ok {
		cp := *sup
		return &cp
	}
	return nil
}

// List returns all suppliers ordered by name
func (s *SupplierStore) List() []*model.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Supplier, 0, len(s.suppliers))
	for _, sup := range s.suppliers {
		cp := *sup
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result
}

func (s *SupplierStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.suppliers)
}

// RecordStore is an in-memory store for finalized meeting records
type RecordStore struct {
	records    map[string]*model.MeetingRecord
	mu         sync.RWMutex
	maxRecords int // Maximum records to keep, 0 = unlimited
}

func NewRecordStore(maxRecords int) *RecordStore {
	if maxRecords < 0 {
		maxRecords = 0
	}
	return &RecordStore{
		records:    make(map[string]*model.MeetingRecord),
		maxRecords: maxRecords,
	}
}

var (
	globalSuppliers *SupplierStore
	globalRecords   *RecordStore
	storeOnce       sync.Once
)

// InitStores initializes the global stores with configuration
func InitStores(cfg *config.StoreConfig) {
	storeOnce.Do(func() {
		globalSuppliers = NewSupplierStore()
		globalRecords = NewRecordStore(cfg.MaxRecords)
		slog.Info("stores initialized", "max_records", cfg.MaxRecords)
	})
}

// GetSupplierStore returns the global supplier store
func GetSupplierStore() *SupplierStore {
	if globalSuppliers == nil {
		globalSuppliers = NewSupplierStore()
	}
	return globalSuppliers
}

// GetRecordStore returns the global record store
func GetRecordStore() *RecordStore {
	if globalRecords == nil {
		globalRecords = NewRecordStore(0)
	}
	return globalRecords
}

// Upsert saves a record, fully replacing any existing one with the same ID
func (s *RecordStore) Upsert(record *model.MeetingRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *record
	cp.Participants = model.CloneParticipants(record.Participants)
	cp.Observations = model.CloneObservations(record.Observations)
	s.records[record.ID] = &cp

	s.cleanupIfNeeded()
}

func (s *RecordStore) Get(id string) *model.MeetingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.records[id]; ok {
		return cloneRecord(r)
	}
	return nil
}

// List returns all records ordered by visit date descending
func (s *RecordStore) List() []*model.MeetingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.MeetingRecord, 0, len(s.records))
	for _, r := range s.records {
		result = append(result, cloneRecord(r))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date == result[j].Date {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].Date > result[j].Date
	})
	return result
}

func (s *RecordStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
}

// Count returns the number of records in the store
func (s *RecordStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// cleanupIfNeeded removes oldest records if store exceeds maxRecords
// Must be called with lock held
func (s *RecordStore) cleanupIfNeeded() {
	if s.maxRecords <= 0 {
		return // Unlimited
	}

	if len(s.records) <= s.maxRecords {
		return
	}

	records := make([]*model.MeetingRecord, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt < records[j].CreatedAt
	})

	removeCount := len(records) - s.maxRecords
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-cleaning old record",
			"record_id", records[i].ID,
			"created_at", records[i].CreatedAt,
		)
		delete(s.records, records[i].ID)
	}
}

func cloneRecord(r *model.MeetingRecord) *model.MeetingRecord {
	cp := *r
	cp.Participants = model.CloneParticipants(r.Participants)
	cp.Observations = model.CloneObservations(r.Observations)
	return &cp
}
