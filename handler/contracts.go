package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/trust2025gb/contractkit/middleware"
	"github.com/trust2025gb/contractkit/model"
	"github.com/trust2025gb/contractkit/service"
	"github.com/trust2025gb/contractkit/workflow"
)

// ContractHandler serves the contract endpoints of the local development
// server. It mimics the production contract API closely enough for clients
// to be developed against it: same envelopes, same workflow gates.
type ContractHandler struct {
	store *service.ContractStore
}

func NewContractHandler() *ContractHandler {
	return &ContractHandler{store: service.GetContractStore()}
}

// List returns a filtered, paginated page of the tenant's contracts.
func (h *ContractHandler) List(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	filter := service.StoreFilter{
		Status:        model.ContractStatus(c.Query("status")),
		Type:          model.ContractType(c.Query("type")),
		CustomerID:    c.Query("customer_id"),
		Search:        c.Query("search"),
		StartDateFrom: c.Query("start_date_from"),
		StartDateTo:   c.Query("start_date_to"),
		EndDateFrom:   c.Query("end_date_from"),
		EndDateTo:     c.Query("end_date_to"),
		ProductID:     c.Query("product_id"),
	}
	if raw := c.Query("is_signed"); raw != "" {
		signed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid is_signed value"})
			return
		}
		filter.IsSigned = &signed
	}
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.PerPage, _ = strconv.Atoi(c.Query("per_page"))

	c.JSON(http.StatusOK, h.store.List(tenant, filter))
}

// Get returns a single contract.
func (h *ContractHandler) Get(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	contract := h.store.Get(tenant, c.Param("id"))
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	c.JSON(http.StatusOK, contract)
}

// Create accepts either a JSON body or, when documents are attached, a
// multipart form whose scalar fields mirror the JSON shape.
func (h *ContractHandler) Create(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	var req service.CreateContractRequest
	var uploads []fileUpload

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
			return
		}
		if err := bindCreateForm(form, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		uploads, err = collectDocumentFiles(form)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}

	if !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract type"})
		return
	}
	if req.CustomerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id is required"})
		return
	}

	contract := &model.Contract{
		Type:                   req.Type,
		Status:                 model.StatusDraft,
		CustomerID:             req.CustomerID,
		OrderID:                req.OrderID,
		ProductID:              req.ProductID,
		StartDate:              req.StartDate,
		EndDate:                req.EndDate,
		TotalValue:             req.TotalValue,
		PaymentTerms:           req.PaymentTerms,
		RenewalTerms:           req.RenewalTerms,
		HasElectronicSignature: req.HasElectronicSignature,
		IsRenewable:            req.IsRenewable,
		AutoRenewal:            req.AutoRenewal,
	}
	if req.SignatureInfo != nil {
		contract.SignatureInfo = *req.SignatureInfo
	}
	if contract.HasElectronicSignature {
		contract.SignatureInfo.SignatureRequired = true
		contract.Status = model.StatusPending
	}

	h.store.Create(tenant, contract)

	for _, up := range uploads {
		h.store.AddDocument(tenant, contract.ID, model.ContractDocument{
			Name:     up.filename,
			Type:     model.DocumentContract,
			MimeType: up.contentType,
		}, up.data)
	}
	// Re-read so documents_count reflects the uploads.
	contract = h.store.Get(tenant, contract.ID)

	c.JSON(http.StatusCreated, contract)
}

// Update applies a partial update; absent fields keep their values.
func (h *ContractHandler) Update(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	contract := h.store.Get(tenant, c.Param("id"))
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	var req service.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Status != "" {
		if !req.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		if req.Status != contract.Status && !workflow.CanTransition(contract.Status, req.Status) {
			c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
			return
		}
		contract.Status = req.Status
	}
	if req.StartDate != "" {
		contract.StartDate = req.StartDate
	}
	if req.EndDate != "" {
		contract.EndDate = req.EndDate
	}
	if req.TotalValue != nil {
		contract.TotalValue = req.TotalValue
	}
	if req.PaymentTerms != "" {
		contract.PaymentTerms = req.PaymentTerms
	}
	if req.RenewalTerms != "" {
		contract.RenewalTerms = req.RenewalTerms
	}
	if req.IsRenewable != nil {
		contract.IsRenewable = *req.IsRenewable
	}
	if req.AutoRenewal != nil {
		contract.AutoRenewal = *req.AutoRenewal
	}

	h.store.Save(contract)
	c.JSON(http.StatusOK, contract)
}

// Delete removes a contract and acknowledges with {success}.
func (h *ContractHandler) Delete(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	if !h.store.Delete(tenant, c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Sign records a signature on a pending contract. Accepts JSON, or
// multipart when a signature image is attached; the image is stored as a
// signature document.
func (h *ContractHandler) Sign(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	contract := h.store.Get(tenant, c.Param("id"))
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if !workflow.CanSign(contract) {
		c.JSON(http.StatusConflict, gin.H{"error": "Contract is not pending signature"})
		return
	}

	var req model.SignatureRequest
	var image *fileUpload

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
			return
		}
		req.SignatureMethod = model.SignatureMethod(formValue(form, "signature_method"))
		req.SignatoryName = formValue(form, "signatory_name")
		req.SignatoryTitle = formValue(form, "signatory_title")
		req.SignatoryIDNumber = formValue(form, "signatory_id_number")
		req.SignatureLocation = formValue(form, "signature_location")

		if headers := form.File["signature_image"]; len(headers) > 0 {
			up, err := readUpload(headers[0])
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read signature image"})
				return
			}
			image = up
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}

	if req.SignatoryName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "signatory_name is required"})
		return
	}
	if !req.SignatureMethod.Valid() || !req.SignatureMethod.Available() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported signature method"})
		return
	}
	if req.SignatureMethod == model.MethodHandwritten && image == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Handwritten signature requires an image"})
		return
	}

	now := time.Now()
	contract.Status = model.StatusActive
	contract.SignedAt = &now
	contract.SignatureInfo.SignatureStatus = model.SignatureFullySigned
	contract.SignatureInfo.SignatoryName = req.SignatoryName
	contract.SignatureInfo.SignatoryTitle = req.SignatoryTitle
	contract.SignatureInfo.SignatoryIDNumber = req.SignatoryIDNumber

	if image != nil {
		doc, ok := h.store.AddDocument(tenant, contract.ID, model.ContractDocument{
			Name:     image.filename,
			Type:     model.DocumentSignature,
			MimeType: image.contentType,
			IsSigned: true,
		}, image.data)
		if ok {
			contract.SignatureInfo.SignatureImageURL = doc.FileURL
		}
	}

	h.store.Save(contract)
	c.JSON(http.StatusOK, contract)
}

type terminateBody struct {
	Reason string `json:"reason"`
}

// Terminate ends an active contract for the given reason.
func (h *ContractHandler) Terminate(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	contract := h.store.Get(tenant, c.Param("id"))
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if !workflow.CanTerminate(contract) {
		c.JSON(http.StatusConflict, gin.H{"error": "Only active contracts can be terminated"})
		return
	}

	var body terminateBody
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Reason) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reason is required"})
		return
	}

	contract.Status = model.StatusTerminated
	h.store.Save(contract)
	c.JSON(http.StatusOK, contract)
}

type renewBody struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

// Renew marks the contract renewed and starts a successor contract with the
// new term dates; the successor is returned.
func (h *ContractHandler) Renew(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	contract := h.store.Get(tenant, c.Param("id"))
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if !workflow.CanRenew(contract) {
		c.JSON(http.StatusConflict, gin.H{"error": "Contract is not renewable"})
		return
	}

	var body renewBody
	if err := c.ShouldBindJSON(&body); err != nil || body.StartDate == "" || body.EndDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date are required"})
		return
	}

	if contract.Status == model.StatusActive {
		contract.Status = model.StatusRenewed
		h.store.Save(contract)
	}

	successor := &model.Contract{
		Type:                   contract.Type,
		Status:                 model.StatusActive,
		CustomerID:             contract.CustomerID,
		CustomerName:           contract.CustomerName,
		OrderID:                contract.OrderID,
		ProductID:              contract.ProductID,
		ProductName:            contract.ProductName,
		StartDate:              body.StartDate,
		EndDate:                body.EndDate,
		TotalValue:             contract.TotalValue,
		PaymentTerms:           contract.PaymentTerms,
		RenewalTerms:           body.Description,
		HasElectronicSignature: contract.HasElectronicSignature,
		IsRenewable:            contract.IsRenewable,
		AutoRenewal:            contract.AutoRenewal,
		SignatureInfo:          contract.SignatureInfo,
	}
	h.store.Create(tenant, successor)

	c.JSON(http.StatusOK, successor)
}

// fileUpload is one parsed multipart file.
type fileUpload struct {
	filename    string
	contentType string
	data        []byte
}

func readUpload(header *multipart.FileHeader) (*fileUpload, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &fileUpload{
		filename:    header.Filename,
		contentType: header.Header.Get("Content-Type"),
		data:        data,
	}, nil
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// bindCreateForm maps flattened multipart fields back into the create
// request; signature_info arrives as JSON text.
func bindCreateForm(form *multipart.Form, req *service.CreateContractRequest) error {
	req.Type = model.ContractType(formValue(form, "type"))
	req.CustomerID = formValue(form, "customer_id")
	req.OrderID = formValue(form, "order_id")
	req.ProductID = formValue(form, "product_id")
	req.StartDate = formValue(form, "start_date")
	req.EndDate = formValue(form, "end_date")
	req.PaymentTerms = formValue(form, "payment_terms")
	req.RenewalTerms = formValue(form, "renewal_terms")

	if raw := formValue(form, "total_value"); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return errInvalidTotalValue
		}
		req.TotalValue = &value
	}
	req.HasElectronicSignature = formValue(form, "has_electronic_signature") == "true"
	req.IsRenewable = formValue(form, "is_renewable") == "true"
	req.AutoRenewal = formValue(form, "auto_renewal") == "true"

	if raw := formValue(form, "signature_info"); raw != "" {
		var info model.SignatureInfo
		if err := json.Unmarshal([]byte(raw), &info); err != nil {
			return errInvalidSignatureInfo
		}
		req.SignatureInfo = &info
	}
	return nil
}

// collectDocumentFiles reads indexed documents[i] file fields in order.
func collectDocumentFiles(form *multipart.Form) ([]fileUpload, error) {
	var keys []string
	for key := range form.File {
		if strings.HasPrefix(key, "documents[") {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return documentIndex(keys[i]) < documentIndex(keys[j])
	})

	var uploads []fileUpload
	for _, key := range keys {
		for _, header := range form.File[key] {
			up, err := readUpload(header)
			if err != nil {
				return nil, errUnreadableDocument
			}
			uploads = append(uploads, *up)
		}
	}
	return uploads, nil
}

func documentIndex(key string) int {
	raw := strings.TrimSuffix(strings.TrimPrefix(key, "documents["), "]")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return idx
}
