package model

// SignatureStatus tracks how far signing has progressed on a contract.
type SignatureStatus string

const (
	SignatureNotSigned       SignatureStatus = "not_signed"
	SignaturePartiallySigned SignatureStatus = "partially_signed"
	SignatureFullySigned     SignatureStatus = "fully_signed"
)

// Valid reports whether s is one of the defined signature statuses.
func (s SignatureStatus) Valid() bool {
	switch s {
	case SignatureNotSigned, SignaturePartiallySigned, SignatureFullySigned:
		return true
	}
	return false
}

// Label returns the display label for the signature status. Unknown values return "".
func (s SignatureStatus) Label() string {
	switch s {
	case SignatureNotSigned:
		return "Not Signed"
	case SignaturePartiallySigned:
		return "Partially Signed"
	case SignatureFullySigned:
		return "Fully Signed"
	}
	return ""
}

// SignatureMethod is how a signature is captured.
//
// MethodDigital is listed for wire compatibility but has no working backing
// implementation; it must be presented as disabled and is rejected before
// submission.
type SignatureMethod string

const (
	MethodElectronic  SignatureMethod = "electronic"
	MethodHandwritten SignatureMethod = "handwritten"
	MethodDigital     SignatureMethod = "digital"
)

// Valid reports whether m is one of the defined signature methods.
func (m SignatureMethod) Valid() bool {
	switch m {
	case MethodElectronic, MethodHandwritten, MethodDigital:
		return true
	}
	return false
}

// Available reports whether the method can actually be submitted.
func (m SignatureMethod) Available() bool {
	switch m {
	case MethodElectronic, MethodHandwritten:
		return true
	case MethodDigital:
		return false
	}
	return false
}

// Label returns the display label for the signature method. Unknown values return "".
func (m SignatureMethod) Label() string {
	switch m {
	case MethodElectronic:
		return "Electronic"
	case MethodHandwritten:
		return "Handwritten"
	case MethodDigital:
		return "Digital Certificate"
	}
	return ""
}

// SignatureInfo is the signature state embedded in a contract.
type SignatureInfo struct {
	SignatureRequired bool            `json:"signature_required"`
	SignatureStatus   SignatureStatus `json:"signature_status"`
	SignatoryName     string          `json:"signatory_name,omitempty"`
	SignatoryTitle    string          `json:"signatory_title,omitempty"`
	SignatoryIDNumber string          `json:"signatory_id_number,omitempty"`
	SignatureImageURL string          `json:"signature_image_url,omitempty"`
}

// FileUpload is a binary attachment carried in a multipart request.
type FileUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// SignatureRequest is the transient payload for signing a contract. It is
// never persisted on its own.
type SignatureRequest struct {
	SignatureMethod   SignatureMethod `json:"signature_method" validate:"required"`
	SignatoryName     string          `json:"signatory_name" validate:"required"`
	SignatoryTitle    string          `json:"signatory_title,omitempty"`
	SignatoryIDNumber string          `json:"signatory_id_number,omitempty"`
	SignatureLocation string          `json:"signature_location,omitempty"`
	SignatureImage    *FileUpload     `json:"-"`
}
