package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trust2025gb/contractkit/model"
)

// FilePart is a binary attachment bound to a named form field.
type FilePart struct {
	Field string
	File  model.FileUpload
}

// BuildForm encodes scalar fields and binary attachments into a multipart
// body. Scalar values are written as plain form fields; structured values
// (structs, maps, slices) are serialized to JSON text, which the server
// parses back. Fields are written in sorted key order so the encoding is
// deterministic; files follow in input order. Returns the body and its
// Content-Type (including the boundary).
func BuildForm(fields map[string]any, files []FilePart) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, ok := formatFormValue(fields[key])
		if !ok {
			continue
		}
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	for _, part := range files {
		fw, err := writer.CreatePart(filePartHeader(part))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file field %s: %w", part.Field, err)
		}
		if _, err := fw.Write(part.File.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write file %s: %w", part.File.FileName, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

var partQuoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, `\"`)

// filePartHeader builds the MIME header for a file part, carrying the
// upload's declared content type so the server stores the right mime type
// instead of a generic octet-stream.
func filePartHeader(part FilePart) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		partQuoteEscaper.Replace(part.Field), partQuoteEscaper.Replace(part.File.FileName)))
	contentType := part.File.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return h
}

// formatFormValue renders a single field value as form text. The second
// return is false when the value should be omitted entirely (nil pointers,
// empty optional strings).
func formatFormValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		if val == "" {
			return "", false
		}
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case decimal.Decimal:
		return val.String(), true
	case *decimal.Decimal:
		if val == nil {
			return "", false
		}
		return val.String(), true
	case model.ContractStatus:
		return string(val), true
	case model.ContractType:
		return string(val), true
	case model.DocumentType:
		return string(val), true
	case model.SignatureMethod:
		return string(val), true
	case model.SignatureStatus:
		return string(val), true
	default:
		// Structured value: serialize to JSON text.
		data, err := json.Marshal(val)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}
