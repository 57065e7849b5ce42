package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestContractStatusValues(t *testing.T) {
	expected := []string{"draft", "pending", "active", "expired", "terminated", "renewed"}

	if len(AllStatuses) != len(expected) {
		t.Fatalf("Expected %d statuses, got %d", len(expected), len(AllStatuses))
	}
	for i, s := range AllStatuses {
		if string(s) != expected[i] {
			t.Errorf("Expected '%s', got '%s'", expected[i], s)
		}
		if !s.Valid() {
			t.Errorf("Expected %s to be valid", s)
		}
		if s.Label() == "" {
			t.Errorf("Expected label for %s", s)
		}
		if s.Color() == "" {
			t.Errorf("Expected color for %s", s)
		}
	}

	if ContractStatus("cancelled").Valid() {
		t.Error("Expected unknown status to be invalid")
	}
	if ContractStatus("cancelled").Label() != "" {
		t.Error("Expected empty label for unknown status")
	}
}

func TestContractStatusTerminal(t *testing.T) {
	terminal := map[ContractStatus]bool{
		StatusDraft:      false,
		StatusPending:    false,
		StatusActive:     false,
		StatusExpired:    true,
		StatusTerminated: true,
		StatusRenewed:    true,
	}
	for s, want := range terminal {
		if s.Terminal() != want {
			t.Errorf("Expected Terminal()=%v for %s", want, s)
		}
	}
}

func TestContractTypeValues(t *testing.T) {
	for _, ct := range AllTypes {
		if !ct.Valid() {
			t.Errorf("Expected %s to be valid", ct)
		}
		if ct.Label() == "" {
			t.Errorf("Expected label for %s", ct)
		}
	}
	if ContractType("lease").Valid() {
		t.Error("Expected unknown type to be invalid")
	}
}

func TestDocumentTypeValues(t *testing.T) {
	for _, dt := range AllDocumentTypes {
		if !dt.Valid() {
			t.Errorf("Expected %s to be valid", dt)
		}
		if dt.Label() == "" {
			t.Errorf("Expected label for %s", dt)
		}
	}
}

func TestSignatureMethodAvailability(t *testing.T) {
	if !MethodElectronic.Available() {
		t.Error("Expected electronic to be available")
	}
	if !MethodHandwritten.Available() {
		t.Error("Expected handwritten to be available")
	}
	if MethodDigital.Available() {
		t.Error("Expected digital to be unavailable")
	}
	if !MethodDigital.Valid() {
		t.Error("Expected digital to remain a valid enum value")
	}
}

func TestContractJSONShape(t *testing.T) {
	value := decimal.NewFromFloat(12500.50)
	contract := Contract{
		ID:             "c1",
		ContractNumber: "CT-2025-0001",
		Status:         StatusActive,
		Type:           TypeInsurance,
		CustomerID:     "cust-1",
		TotalValue:     &value,
		SignatureInfo: SignatureInfo{
			SignatureRequired: true,
			SignatureStatus:   SignatureFullySigned,
		},
	}

	data, err := json.Marshal(contract)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if decoded["status"] != "active" {
		t.Errorf("Expected status 'active', got %v", decoded["status"])
	}
	if decoded["total_value"] != "12500.5" {
		t.Errorf("Expected total_value '12500.5', got %v", decoded["total_value"])
	}
	if _, ok := decoded["order_id"]; ok {
		t.Error("Expected empty order_id to be omitted")
	}
	info, ok := decoded["signature_info"].(map[string]any)
	if !ok {
		t.Fatal("Expected embedded signature_info")
	}
	if info["signature_status"] != "fully_signed" {
		t.Errorf("Expected signature_status 'fully_signed', got %v", info["signature_status"])
	}
}
