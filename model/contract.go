package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractStatus is the lifecycle state of a contract.
// The set is closed: draft -> pending -> active -> {expired, terminated, renewed}.
type ContractStatus string

const (
	StatusDraft      ContractStatus = "draft"
	StatusPending    ContractStatus = "pending"
	StatusActive     ContractStatus = "active"
	StatusExpired    ContractStatus = "expired"
	StatusTerminated ContractStatus = "terminated"
	StatusRenewed    ContractStatus = "renewed"
)

// AllStatuses lists every valid contract status.
var AllStatuses = []ContractStatus{
	StatusDraft,
	StatusPending,
	StatusActive,
	StatusExpired,
	StatusTerminated,
	StatusRenewed,
}

// Valid reports whether s is one of the defined statuses.
func (s ContractStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusActive, StatusExpired, StatusTerminated, StatusRenewed:
		return true
	}
	return false
}

// Label returns the display label for the status. Unknown values return "".
func (s ContractStatus) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusPending:
		return "Pending Signature"
	case StatusActive:
		return "Active"
	case StatusExpired:
		return "Expired"
	case StatusTerminated:
		return "Terminated"
	case StatusRenewed:
		return "Renewed"
	}
	return ""
}

// Color returns the hex color used to render the status. Unknown values return "".
func (s ContractStatus) Color() string {
	switch s {
	case StatusDraft:
		return "#9E9E9E"
	case StatusPending:
		return "#FF9800"
	case StatusActive:
		return "#4CAF50"
	case StatusExpired:
		return "#795548"
	case StatusTerminated:
		return "#F44336"
	case StatusRenewed:
		return "#2196F3"
	}
	return ""
}

// Terminal reports whether the status ends the contract's current lifecycle.
func (s ContractStatus) Terminal() bool {
	switch s {
	case StatusExpired, StatusTerminated, StatusRenewed:
		return true
	}
	return false
}

// ContractType classifies the kind of agreement.
type ContractType string

const (
	TypeInsurance   ContractType = "insurance"
	TypeEndorsement ContractType = "endorsement"
	TypeRider       ContractType = "rider"
	TypeAmendment   ContractType = "amendment"
)

// AllTypes lists every valid contract type.
var AllTypes = []ContractType{TypeInsurance, TypeEndorsement, TypeRider, TypeAmendment}

// Valid reports whether t is one of the defined types.
func (t ContractType) Valid() bool {
	switch t {
	case TypeInsurance, TypeEndorsement, TypeRider, TypeAmendment:
		return true
	}
	return false
}

// Label returns the display label for the type. Unknown values return "".
func (t ContractType) Label() string {
	switch t {
	case TypeInsurance:
		return "Insurance Policy"
	case TypeEndorsement:
		return "Endorsement"
	case TypeRider:
		return "Rider"
	case TypeAmendment:
		return "Amendment"
	}
	return ""
}

// Contract is the aggregate root: a legal agreement with a customer.
// start_date and end_date are calendar days in "2006-01-02" form;
// timestamps are server-managed RFC3339 values.
type Contract struct {
	ID             string         `json:"id"`
	ContractNumber string         `json:"contract_number"`
	Status         ContractStatus `json:"status"`
	Type           ContractType   `json:"type"`

	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name,omitempty"`
	OrderID      string `json:"order_id,omitempty"`
	ProductID    string `json:"product_id,omitempty"`
	ProductName  string `json:"product_name,omitempty"`

	StartDate string     `json:"start_date,omitempty"`
	EndDate   string     `json:"end_date,omitempty"`
	SignedAt  *time.Time `json:"signed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	TotalValue   *decimal.Decimal `json:"total_value,omitempty"`
	PaymentTerms string           `json:"payment_terms,omitempty"`
	RenewalTerms string           `json:"renewal_terms,omitempty"`

	HasElectronicSignature bool `json:"has_electronic_signature"`
	IsRenewable            bool `json:"is_renewable"`
	AutoRenewal            bool `json:"auto_renewal"`

	SignatureInfo  SignatureInfo `json:"signature_info"`
	DocumentsCount int           `json:"documents_count"`
}

// ContractPage is the pagination envelope returned by list endpoints.
type ContractPage struct {
	Data       []Contract `json:"data"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	TotalPages int        `json:"total_pages"`
}
