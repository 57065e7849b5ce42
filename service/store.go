package service

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trust2025gb/contractkit/config"
	"github.com/trust2025gb/contractkit/model"
)

// ContractStore is the in-memory backing store for the local development
// server. It keeps contracts, their documents and the raw uploaded bytes;
// nothing is persisted across restarts.
type ContractStore struct {
	mu           sync.RWMutex
	contracts    map[string]*model.Contract
	documents    map[string][]model.ContractDocument
	fileData     map[string][]byte
	tenants      map[string]string
	seq          int
	maxContracts int
}

var (
	globalStore *ContractStore
	storeOnce   sync.Once
)

// InitContractStore initializes the global contract store with configuration
func InitContractStore(cfg *config.StoreConfig) {
	storeOnce.Do(func() {
		maxContracts := cfg.MaxContracts
		if maxContracts < 0 {
			maxContracts = 0
		}
		globalStore = NewContractStore(maxContracts)
		slog.Info("contract store initialized", "max_contracts", maxContracts)
	})
}

// GetContractStore returns the global contract store
func GetContractStore() *ContractStore {
	if globalStore == nil {
		globalStore = NewContractStore(100)
	}
	return globalStore
}

// NewContractStore creates a store keeping at most maxContracts entries;
// 0 means unlimited.
func NewContractStore(maxContracts int) *ContractStore {
	return &ContractStore{
		contracts:    make(map[string]*model.Contract),
		documents:    make(map[string][]model.ContractDocument),
		fileData:     make(map[string][]byte),
		tenants:      make(map[string]string),
		maxContracts: maxContracts,
	}
}

// Create assigns an ID and contract number, stamps timestamps and stores
// the contract under the tenant.
func (s *ContractStore) Create(tenant string, contract *model.Contract) *model.Contract {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	now := time.Now()
	contract.ID = uuid.New().String()
	contract.ContractNumber = fmt.Sprintf("CT-%d-%04d", now.Year(), s.seq)
	contract.CreatedAt = now
	contract.UpdatedAt = now
	if contract.Status == "" {
		contract.Status = model.StatusDraft
	}
	if contract.SignatureInfo.SignatureStatus == "" {
		contract.SignatureInfo.SignatureStatus = model.SignatureNotSigned
	}

	s.contracts[contract.ID] = contract
	s.tenants[contract.ID] = tenant

	s.cleanupIfNeeded()
	return contract
}

// Get returns the contract if it exists and belongs to the tenant.
func (s *ContractStore) Get(tenant, id string) *model.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(tenant, id)
}

func (s *ContractStore) getLocked(tenant, id string) *model.Contract {
	c, ok := s.contracts[id]
	if !ok || s.tenants[id] != tenant {
		return nil
	}
	return c
}

// Save replaces a contract, refreshing its update timestamp.
func (s *ContractStore) Save(contract *model.Contract) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contract.UpdatedAt = time.Now()
	s.contracts[contract.ID] = contract
}

// Delete removes a contract with its documents. Returns false when the
// contract was not present for the tenant.
func (s *ContractStore) Delete(tenant, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getLocked(tenant, id) == nil {
		return false
	}
	for _, doc := range s.documents[id] {
		delete(s.fileData, doc.ID)
	}
	delete(s.documents, id)
	delete(s.contracts, id)
	delete(s.tenants, id)
	return true
}

// StoreFilter mirrors the list endpoint's query parameters.
type StoreFilter struct {
	Status        model.ContractStatus
	Type          model.ContractType
	CustomerID    string
	Search        string
	StartDateFrom string
	StartDateTo   string
	EndDateFrom   string
	EndDateTo     string
	ProductID     string
	IsSigned      *bool
	Page          int
	PerPage       int
}

// List returns the tenant's contracts matching the filter, newest first,
// paginated into the standard envelope.
func (s *ContractStore) List(tenant string, filter StoreFilter) *model.ContractPage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []model.Contract
	for id, c := range s.contracts {
		if s.tenants[id] != tenant {
			continue
		}
		if matchesFilter(c, filter) {
			matched = append(matched, *c)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 20
	}

	total := len(matched)
	totalPages := (total + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	data := matched[start:end]
	if data == nil {
		data = []model.Contract{}
	}
	return &model.ContractPage{
		Data:       data,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

func matchesFilter(c *model.Contract, f StoreFilter) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Type != "" && c.Type != f.Type {
		return false
	}
	if f.CustomerID != "" && c.CustomerID != f.CustomerID {
		return false
	}
	if f.ProductID != "" && c.ProductID != f.ProductID {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystack := strings.ToLower(c.ContractNumber + " " + c.CustomerName + " " + c.ProductName)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	if f.StartDateFrom != "" && (c.StartDate == "" || c.StartDate < f.StartDateFrom) {
		return false
	}
	if f.StartDateTo != "" && (c.StartDate == "" || c.StartDate > f.StartDateTo) {
		return false
	}
	if f.EndDateFrom != "" && (c.EndDate == "" || c.EndDate < f.EndDateFrom) {
		return false
	}
	if f.EndDateTo != "" && (c.EndDate == "" || c.EndDate > f.EndDateTo) {
		return false
	}
	if f.IsSigned != nil {
		signed := c.SignatureInfo.SignatureStatus == model.SignatureFullySigned
		if signed != *f.IsSigned {
			return false
		}
	}
	return true
}

// Documents returns a contract's documents in upload order.
func (s *ContractStore) Documents(tenant, contractID string) ([]model.ContractDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.getLocked(tenant, contractID) == nil {
		return nil, false
	}
	docs := s.documents[contractID]
	result := make([]model.ContractDocument, len(docs))
	copy(result, docs)
	return result, true
}

// AddDocument stores an uploaded document and bumps the contract's
// documents_count.
func (s *ContractStore) AddDocument(tenant, contractID string, doc model.ContractDocument, data []byte) (*model.ContractDocument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.getLocked(tenant, contractID)
	if c == nil {
		return nil, false
	}

	doc.ID = uuid.New().String()
	doc.ContractID = contractID
	doc.UploadedAt = time.Now()
	doc.FileSize = int64(len(data))
	doc.FileURL = fmt.Sprintf("/api/contracts/%s/documents/%s/content", contractID, doc.ID)

	s.documents[contractID] = append(s.documents[contractID], doc)
	s.fileData[doc.ID] = data
	c.DocumentsCount = len(s.documents[contractID])
	c.UpdatedAt = time.Now()

	return &doc, true
}

// DeleteDocument removes one document and its bytes.
func (s *ContractStore) DeleteDocument(tenant, contractID, documentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.getLocked(tenant, contractID)
	if c == nil {
		return false
	}

	docs := s.documents[contractID]
	for i, doc := range docs {
		if doc.ID == documentID {
			s.documents[contractID] = append(docs[:i], docs[i+1:]...)
			delete(s.fileData, documentID)
			c.DocumentsCount = len(s.documents[contractID])
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// FileData returns the raw bytes of an uploaded document.
func (s *ContractStore) FileData(documentID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.fileData[documentID]
	return data, ok
}

// Count returns the number of contracts in the store.
func (s *ContractStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contracts)
}

// cleanupIfNeeded removes oldest contracts if store exceeds maxContracts.
// Must be called with lock held.
func (s *ContractStore) cleanupIfNeeded() {
	if s.maxContracts <= 0 {
		return
	}
	if len(s.contracts) <= s.maxContracts {
		return
	}

	contracts := make([]*model.Contract, 0, len(s.contracts))
	for _, c := range s.contracts {
		contracts = append(contracts, c)
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].CreatedAt.Before(contracts[j].CreatedAt)
	})

	removeCount := len(contracts) - s.maxContracts
	for i := 0; i < removeCount; i++ {
		old := contracts[i]
		slog.Info("auto-cleaning old contract",
			"contract_id", old.ID,
			"created_at", old.CreatedAt,
		)
		for _, doc := range s.documents[old.ID] {
			delete(s.fileData, doc.ID)
		}
		delete(s.documents, old.ID)
		delete(s.contracts, old.ID)
		delete(s.tenants, old.ID)
	}
}
