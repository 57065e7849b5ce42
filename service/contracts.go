package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/trust2025gb/contractkit/model"
	"github.com/trust2025gb/contractkit/pkg/logger"
)

// ContractService is the typed client for contract CRUD, document
// management and workflow actions. It owns request shaping (JSON vs
// multipart) and client-side required-field validation; everything else is
// the server's job.
type ContractService struct {
	client   *Client
	validate *validator.Validate
	inflight singleflight.Group
}

func NewContractService(client *Client) *ContractService {
	return &ContractService{
		client:   client,
		validate: validator.New(),
	}
}

// CreateContractRequest creates a new contract. When Documents is
// non-empty the request is multipart encoded, with each document appended
// as documents[0], documents[1], ... in input order.
type CreateContractRequest struct {
	Type       model.ContractType `json:"type" validate:"required"`
	CustomerID string             `json:"customer_id" validate:"required"`
	OrderID    string             `json:"order_id,omitempty"`
	ProductID  string             `json:"product_id,omitempty"`

	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	TotalValue   *decimal.Decimal `json:"total_value,omitempty"`
	PaymentTerms string           `json:"payment_terms,omitempty"`
	RenewalTerms string           `json:"renewal_terms,omitempty"`

	HasElectronicSignature bool `json:"has_electronic_signature"`
	IsRenewable            bool `json:"is_renewable"`
	AutoRenewal            bool `json:"auto_renewal"`

	SignatureInfo *model.SignatureInfo `json:"signature_info,omitempty"`

	Documents []model.FileUpload `json:"-"`
}

// formFields flattens the request for multipart encoding. Objects are
// serialized to JSON text by the form builder.
func (r *CreateContractRequest) formFields() map[string]any {
	fields := map[string]any{
		"type":                     r.Type,
		"customer_id":              r.CustomerID,
		"order_id":                 r.OrderID,
		"product_id":               r.ProductID,
		"start_date":               r.StartDate,
		"end_date":                 r.EndDate,
		"total_value":              r.TotalValue,
		"payment_terms":            r.PaymentTerms,
		"renewal_terms":            r.RenewalTerms,
		"has_electronic_signature": r.HasElectronicSignature,
		"is_renewable":             r.IsRenewable,
		"auto_renewal":             r.AutoRenewal,
	}
	if r.SignatureInfo != nil {
		fields["signature_info"] = r.SignatureInfo
	}
	return fields
}

// UpdateContractRequest is a partial update; nil/zero fields are omitted
// from the body and left unchanged server-side.
type UpdateContractRequest struct {
	Status    model.ContractStatus `json:"status,omitempty"`
	StartDate string               `json:"start_date,omitempty"`
	EndDate   string               `json:"end_date,omitempty"`

	TotalValue   *decimal.Decimal `json:"total_value,omitempty"`
	PaymentTerms string           `json:"payment_terms,omitempty"`
	RenewalTerms string           `json:"renewal_terms,omitempty"`

	IsRenewable *bool `json:"is_renewable,omitempty"`
	AutoRenewal *bool `json:"auto_renewal,omitempty"`
}

// DeleteResult is the server's acknowledgement of a delete.
type DeleteResult struct {
	Success bool `json:"success"`
}

// ListContracts fetches a page of contracts matching the query.
func (s *ContractService) ListContracts(ctx context.Context, query ContractQuery) (*model.ContractPage, error) {
	ctx = logger.WithOperation(ctx, "listContracts")
	var page model.ContractPage
	if err := s.client.getJSON(ctx, "/contracts", query.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetContract fetches a single contract by ID.
func (s *ContractService) GetContract(ctx context.Context, id string) (*model.Contract, error) {
	ctx = logger.WithOperation(ctx, "getContract")
	var contract model.Contract
	if err := s.client.getJSON(ctx, "/contracts/"+id, nil, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// CreateContract creates a contract. With attached documents the request is
// multipart; otherwise it is a plain JSON body.
func (s *ContractService) CreateContract(ctx context.Context, req *CreateContractRequest) (*model.Contract, error) {
	ctx = logger.WithOperation(ctx, "createContract")
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	var contract model.Contract
	if len(req.Documents) > 0 {
		files := make([]FilePart, len(req.Documents))
		for i, doc := range req.Documents {
			files[i] = FilePart{Field: fmt.Sprintf("documents[%d]", i), File: doc}
		}
		if err := s.client.postForm(ctx, "/contracts", req.formFields(), files, &contract); err != nil {
			return nil, err
		}
		return &contract, nil
	}

	if err := s.client.postJSON(ctx, "/contracts", req, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// UpdateContract applies a partial update and returns the merged contract.
func (s *ContractService) UpdateContract(ctx context.Context, id string, req *UpdateContractRequest) (*model.Contract, error) {
	ctx = logger.WithOperation(ctx, "updateContract")
	var contract model.Contract
	if err := s.client.putJSON(ctx, "/contracts/"+id, req, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// DeleteContract deletes a contract. The service keeps no state: repeated
// deletes simply pass through whatever the server reports.
func (s *ContractService) DeleteContract(ctx context.Context, id string) (*DeleteResult, error) {
	ctx = logger.WithOperation(ctx, "deleteContract")
	result, err, _ := s.inflight.Do("delete:"+id, func() (any, error) {
		var res DeleteResult
		if err := s.client.deleteJSON(ctx, "/contracts/"+id, &res); err != nil {
			return nil, err
		}
		return &res, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*DeleteResult), nil
}

// ContractsByStatus lists contracts with the status filter overriding the
// base query.
func (s *ContractService) ContractsByStatus(ctx context.Context, status model.ContractStatus, base ContractQuery) (*model.ContractPage, error) {
	return s.ListContracts(ctx, base.WithStatus(status))
}

// ContractsByCustomer lists contracts with the customer filter overriding
// the base query.
func (s *ContractService) ContractsByCustomer(ctx context.Context, customerID string, base ContractQuery) (*model.ContractPage, error) {
	return s.ListContracts(ctx, base.WithCustomer(customerID))
}

// ContractsByType lists contracts with the type filter overriding the base
// query.
func (s *ContractService) ContractsByType(ctx context.Context, contractType model.ContractType, base ContractQuery) (*model.ContractPage, error) {
	return s.ListContracts(ctx, base.WithType(contractType))
}

// SearchContracts lists contracts with the search text overriding the base
// query.
func (s *ContractService) SearchContracts(ctx context.Context, search string, base ContractQuery) (*model.ContractPage, error) {
	return s.ListContracts(ctx, base.WithSearch(search))
}

// validateStruct converts validator failures into field-level errors.
func (s *ContractService) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %s validation", fe.Tag()),
		}
	}
	return &ValidationError{Fields: fields}
}
