package model

import "time"

// DocumentType classifies a document attached to a contract.
type DocumentType string

const (
	DocumentContract   DocumentType = "contract"
	DocumentAttachment DocumentType = "attachment"
	DocumentSignature  DocumentType = "signature"
	DocumentReceipt    DocumentType = "receipt"
	DocumentOther      DocumentType = "other"
)

// AllDocumentTypes lists every valid document type.
var AllDocumentTypes = []DocumentType{
	DocumentContract,
	DocumentAttachment,
	DocumentSignature,
	DocumentReceipt,
	DocumentOther,
}

// Valid reports whether t is one of the defined document types.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentContract, DocumentAttachment, DocumentSignature, DocumentReceipt, DocumentOther:
		return true
	}
	return false
}

// Label returns the display label for the document type. Unknown values return "".
func (t DocumentType) Label() string {
	switch t {
	case DocumentContract:
		return "Contract"
	case DocumentAttachment:
		return "Attachment"
	case DocumentSignature:
		return "Signature"
	case DocumentReceipt:
		return "Receipt"
	case DocumentOther:
		return "Other"
	}
	return ""
}

// ContractDocument is a file owned by exactly one contract. Documents are
// immutable after upload: replacement is delete followed by re-upload.
type ContractDocument struct {
	ID          string       `json:"id"`
	ContractID  string       `json:"contract_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Type        DocumentType `json:"type"`
	FilePath    string       `json:"file_path,omitempty"`
	FileURL     string       `json:"file_url,omitempty"`
	FileSize    int64        `json:"file_size"`
	MimeType    string       `json:"mime_type,omitempty"`
	UploadedAt  time.Time    `json:"uploaded_at"`
	IsSigned    bool         `json:"is_signed"`
}
