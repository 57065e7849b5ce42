package service

import (
	"context"
	"strings"

	"github.com/trust2025gb/contractkit/model"
	"github.com/trust2025gb/contractkit/pkg/logger"
)

// SignContract submits a signature for a pending contract and returns the
// updated contract. Validation runs before any network call: the signatory
// name is always required, handwritten signatures need a captured image and
// digital-certificate signing is rejected outright. With an image attached
// the request is multipart; otherwise it is a plain JSON body. Concurrent
// duplicate submissions for the same contract collapse to a single wire
// call.
func (s *ContractService) SignContract(ctx context.Context, id string, req *model.SignatureRequest) (*model.Contract, error) {
	ctx = logger.WithOperation(ctx, "signContract")
	if err := s.validateSignature(req); err != nil {
		return nil, err
	}

	result, err, _ := s.inflight.Do("sign:"+id, func() (any, error) {
		var contract model.Contract

		if req.SignatureImage != nil && len(req.SignatureImage.Data) > 0 {
			fields := map[string]any{
				"signature_method":    req.SignatureMethod,
				"signatory_name":      req.SignatoryName,
				"signatory_title":     req.SignatoryTitle,
				"signatory_id_number": req.SignatoryIDNumber,
				"signature_location":  req.SignatureLocation,
			}
			files := []FilePart{{Field: "signature_image", File: *req.SignatureImage}}
			if err := s.client.postForm(ctx, "/contracts/"+id+"/sign", fields, files, &contract); err != nil {
				return nil, err
			}
			return &contract, nil
		}

		if err := s.client.postJSON(ctx, "/contracts/"+id+"/sign", req, &contract); err != nil {
			return nil, err
		}
		return &contract, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Contract), nil
}

func (s *ContractService) validateSignature(req *model.SignatureRequest) error {
	if req.SignatureMethod == model.MethodDigital {
		return ErrDigitalSignatureUnavailable
	}
	if !req.SignatureMethod.Valid() {
		return validationError(FieldError{Field: "signature_method", Message: "unknown signature method"})
	}
	if err := s.validateStruct(req); err != nil {
		return err
	}
	if req.SignatureMethod == model.MethodHandwritten {
		if req.SignatureImage == nil || len(req.SignatureImage.Data) == 0 {
			return validationError(FieldError{Field: "signature_image", Message: "handwritten signature requires an image"})
		}
	}
	return nil
}

type terminateRequest struct {
	Reason string `json:"reason"`
}

// TerminateContract terminates an active contract. The reason is required
// non-empty text and is checked before submission.
func (s *ContractService) TerminateContract(ctx context.Context, id, reason string) (*model.Contract, error) {
	ctx = logger.WithOperation(ctx, "terminateContract")
	if strings.TrimSpace(reason) == "" {
		return nil, validationError(FieldError{Field: "reason", Message: "termination reason is required"})
	}

	result, err, _ := s.inflight.Do("terminate:"+id, func() (any, error) {
		var contract model.Contract
		if err := s.client.postJSON(ctx, "/contracts/"+id+"/terminate", terminateRequest{Reason: reason}, &contract); err != nil {
			return nil, err
		}
		return &contract, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Contract), nil
}

// RenewContractRequest carries the renewed term dates.
type RenewContractRequest struct {
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	Description string `json:"description,omitempty"`
}

// RenewContract renews a contract for a new term and returns the contract
// as the server reports it after renewal.
func (s *ContractService) RenewContract(ctx context.Context, id string, req *RenewContractRequest) (*model.Contract, error) {
	ctx = logger.WithOperation(ctx, "renewContract")
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	result, err, _ := s.inflight.Do("renew:"+id, func() (any, error) {
		var contract model.Contract
		if err := s.client.postJSON(ctx, "/contracts/"+id+"/renew", req, &contract); err != nil {
			return nil, err
		}
		return &contract, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Contract), nil
}
