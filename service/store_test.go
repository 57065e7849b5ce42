package service

import (
	"testing"
	"time"

	"github.com/trust2025gb/contractkit/model"
)

func TestStoreCreateAssignsIdentity(t *testing.T) {
	store := NewContractStore(0)

	c := store.Create("default", &model.Contract{Type: model.TypeInsurance, CustomerID: "cust-1"})
	if c.ID == "" {
		t.Error("Expected generated ID")
	}
	if c.ContractNumber == "" {
		t.Error("Expected generated contract number")
	}
	if c.Status != model.StatusDraft {
		t.Errorf("Expected draft status by default, got %s", c.Status)
	}
	if c.SignatureInfo.SignatureStatus != model.SignatureNotSigned {
		t.Errorf("Expected not_signed by default, got %s", c.SignatureInfo.SignatureStatus)
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be stamped")
	}

	second := store.Create("default", &model.Contract{Type: model.TypeInsurance, CustomerID: "cust-2"})
	if second.ContractNumber == c.ContractNumber {
		t.Error("Expected unique contract numbers")
	}
}

func TestStoreTenantIsolation(t *testing.T) {
	store := NewContractStore(0)

	c := store.Create("tenant-a", &model.Contract{CustomerID: "cust-1"})

	if got := store.Get("tenant-b", c.ID); got != nil {
		t.Error("Expected other tenant to see nothing")
	}
	if got := store.Get("tenant-a", c.ID); got == nil {
		t.Error("Expected owner tenant to see the contract")
	}
	if store.Delete("tenant-b", c.ID) {
		t.Error("Expected other tenant delete to fail")
	}
	if !store.Delete("tenant-a", c.ID) {
		t.Error("Expected owner tenant delete to succeed")
	}
}

func TestStoreListFilters(t *testing.T) {
	store := NewContractStore(0)

	store.Create("default", &model.Contract{
		Status: model.StatusActive, Type: model.TypeInsurance,
		CustomerID: "cust-1", CustomerName: "Acme Corp",
		StartDate: "2025-01-01", EndDate: "2025-12-31",
	})
	store.Create("default", &model.Contract{
		Status: model.StatusActive, Type: model.TypeRider,
		CustomerID: "cust-2", CustomerName: "Beta LLC",
		StartDate: "2025-06-01", EndDate: "2026-05-31",
	})
	store.Create("default", &model.Contract{
		Status: model.StatusDraft, Type: model.TypeInsurance,
		CustomerID: "cust-1", CustomerName: "Acme Branch",
	})

	tests := []struct {
		name   string
		filter StoreFilter
		want   int
	}{
		{"by status", StoreFilter{Status: model.StatusActive}, 2},
		{"by type", StoreFilter{Type: model.TypeRider}, 1},
		{"by customer", StoreFilter{CustomerID: "cust-1"}, 2},
		{"search matches name", StoreFilter{Search: "acme"}, 2},
		{"status and search", StoreFilter{Status: model.StatusActive, Search: "acme"}, 1},
		{"start date range", StoreFilter{StartDateFrom: "2025-03-01"}, 1},
		{"end date range", StoreFilter{EndDateTo: "2025-12-31"}, 1},
		{"no match", StoreFilter{Search: "nonexistent"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := store.List("default", tt.filter)
			if page.Total != tt.want {
				t.Errorf("Expected %d contracts, got %d", tt.want, page.Total)
			}
			if page.Data == nil {
				t.Error("Expected non-nil data slice")
			}
		})
	}
}

func TestStoreListSignedFilter(t *testing.T) {
	store := NewContractStore(0)

	signed := store.Create("default", &model.Contract{CustomerID: "cust-1"})
	signed.SignatureInfo.SignatureStatus = model.SignatureFullySigned
	store.Save(signed)
	store.Create("default", &model.Contract{CustomerID: "cust-2"})

	yes, no := true, false
	if page := store.List("default", StoreFilter{IsSigned: &yes}); page.Total != 1 {
		t.Errorf("Expected 1 signed contract, got %d", page.Total)
	}
	if page := store.List("default", StoreFilter{IsSigned: &no}); page.Total != 1 {
		t.Errorf("Expected 1 unsigned contract, got %d", page.Total)
	}
}

func TestStoreListPagination(t *testing.T) {
	store := NewContractStore(0)
	for i := 0; i < 5; i++ {
		store.Create("default", &model.Contract{CustomerID: "cust-1"})
		time.Sleep(time.Millisecond)
	}

	page := store.List("default", StoreFilter{Page: 1, PerPage: 2})
	if len(page.Data) != 2 || page.Total != 5 || page.TotalPages != 3 {
		t.Errorf("Expected page 1 of 3 with 2 items, got %+v", page)
	}

	last := store.List("default", StoreFilter{Page: 3, PerPage: 2})
	if len(last.Data) != 1 {
		t.Errorf("Expected 1 item on last page, got %d", len(last.Data))
	}

	beyond := store.List("default", StoreFilter{Page: 10, PerPage: 2})
	if len(beyond.Data) != 0 || beyond.Data == nil {
		t.Errorf("Expected empty non-nil slice past the end, got %v", beyond.Data)
	}

	// Newest first.
	all := store.List("default", StoreFilter{})
	for i := 1; i < len(all.Data); i++ {
		if all.Data[i].CreatedAt.After(all.Data[i-1].CreatedAt) {
			t.Error("Expected newest-first ordering")
		}
	}
}

func TestStoreDocuments(t *testing.T) {
	store := NewContractStore(0)
	c := store.Create("default", &model.Contract{CustomerID: "cust-1"})

	doc, ok := store.AddDocument("default", c.ID,
		model.ContractDocument{Name: "policy.pdf", Type: model.DocumentContract, MimeType: "application/pdf"},
		[]byte("%PDF-1.4"))
	if !ok {
		t.Fatal("AddDocument failed")
	}
	if doc.ID == "" || doc.ContractID != c.ID {
		t.Errorf("Expected assigned document identity, got %+v", doc)
	}
	if doc.FileSize != 8 {
		t.Errorf("Expected file size 8, got %d", doc.FileSize)
	}
	if doc.FileURL == "" {
		t.Error("Expected file URL")
	}
	if got := store.Get("default", c.ID).DocumentsCount; got != 1 {
		t.Errorf("Expected documents_count 1, got %d", got)
	}

	data, ok := store.FileData(doc.ID)
	if !ok || string(data) != "%PDF-1.4" {
		t.Errorf("Expected stored bytes, got %q", data)
	}

	docs, ok := store.Documents("default", c.ID)
	if !ok || len(docs) != 1 {
		t.Fatalf("Expected 1 document, got %v", docs)
	}

	if !store.DeleteDocument("default", c.ID, doc.ID) {
		t.Fatal("DeleteDocument failed")
	}
	if got := store.Get("default", c.ID).DocumentsCount; got != 0 {
		t.Errorf("Expected documents_count 0 after delete, got %d", got)
	}
	if _, ok := store.FileData(doc.ID); ok {
		t.Error("Expected file bytes removed with document")
	}
	if store.DeleteDocument("default", c.ID, doc.ID) {
		t.Error("Expected repeat delete to report missing")
	}
}

func TestStoreCleanup(t *testing.T) {
	store := NewContractStore(3)

	var first *model.Contract
	for i := 0; i < 5; i++ {
		c := store.Create("default", &model.Contract{CustomerID: "cust-1"})
		if i == 0 {
			first = c
		}
		time.Sleep(time.Millisecond)
	}

	if store.Count() != 3 {
		t.Errorf("Expected store capped at 3, got %d", store.Count())
	}
	if store.Get("default", first.ID) != nil {
		t.Error("Expected oldest contract evicted")
	}
}
