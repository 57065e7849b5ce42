package handler

import "errors"

var (
	errInvalidTotalValue    = errors.New("invalid total_value")
	errInvalidSignatureInfo = errors.New("invalid signature_info")
	errUnreadableDocument   = errors.New("failed to read document file")
)
