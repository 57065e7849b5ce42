package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/trust2025gb/contractkit/model"
	"github.com/trust2025gb/contractkit/pkg/logger"
)

// GetContractDocuments lists a contract's documents in server order.
func (s *ContractService) GetContractDocuments(ctx context.Context, contractID string) ([]model.ContractDocument, error) {
	ctx = logger.WithOperation(ctx, "getContractDocuments")
	var docs []model.ContractDocument
	if err := s.client.getJSON(ctx, "/contracts/"+contractID+"/documents", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// AddContractDocument uploads one document. The request is always
// multipart: the file plus a type field, and a description field only when
// one is given. An empty docType defaults to attachment.
func (s *ContractService) AddContractDocument(ctx context.Context, contractID string, file model.FileUpload, docType model.DocumentType, description string) (*model.ContractDocument, error) {
	ctx = logger.WithOperation(ctx, "addContractDocument")
	if len(file.Data) == 0 {
		return nil, validationError(FieldError{Field: "file", Message: "file content is required"})
	}
	if docType == "" {
		docType = model.DocumentAttachment
	}
	if !docType.Valid() {
		return nil, validationError(FieldError{Field: "type", Message: "unknown document type"})
	}

	fields := map[string]any{
		"type":        docType,
		"description": description,
	}
	files := []FilePart{{Field: "file", File: file}}

	// Collapse duplicates only when the bytes match too. Different files
	// can share a name, and both uploads must reach the server.
	digest := sha256.Sum256(file.Data)
	key := "adddoc:" + contractID + ":" + file.FileName + ":" + hex.EncodeToString(digest[:8])

	result, err, _ := s.inflight.Do(key, func() (any, error) {
		var doc model.ContractDocument
		if err := s.client.postForm(ctx, "/contracts/"+contractID+"/documents", fields, files, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.ContractDocument), nil
}

// DeleteContractDocument removes one document by ID. Pass-through on
// repeats; the server decides the outcome.
func (s *ContractService) DeleteContractDocument(ctx context.Context, contractID, documentID string) (*DeleteResult, error) {
	ctx = logger.WithOperation(ctx, "deleteContractDocument")
	result, err, _ := s.inflight.Do("deldoc:"+contractID+":"+documentID, func() (any, error) {
		var res DeleteResult
		if err := s.client.deleteJSON(ctx, "/contracts/"+contractID+"/documents/"+documentID, &res); err != nil {
			return nil, err
		}
		return &res, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*DeleteResult), nil
}

// DownloadContractDocument fetches the binary content behind a document's
// file URL.
func (s *ContractService) DownloadContractDocument(ctx context.Context, doc *model.ContractDocument) ([]byte, error) {
	ctx = logger.WithOperation(ctx, "downloadContractDocument")
	url := doc.FileURL
	if url == "" {
		url = doc.FilePath
	}
	if url == "" {
		return nil, &FileAccessError{Path: doc.Name, Err: errNoFileLocation}
	}
	return s.client.DownloadFile(ctx, url)
}
