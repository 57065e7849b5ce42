package service

import (
	"net/url"
	"strconv"

	"github.com/trust2025gb/contractkit/model"
)

// ContractQuery is the filter set accepted by the contract list endpoint.
// Zero-valued fields are omitted from the request entirely.
type ContractQuery struct {
	Status        model.ContractStatus
	Type          model.ContractType
	CustomerID    string
	Search        string
	StartDateFrom string
	StartDateTo   string
	EndDateFrom   string
	EndDateTo     string
	ProductID     string
	IsSigned      *bool

	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
}

// Values encodes the query as URL parameters, omitting absent fields.
func (q ContractQuery) Values() url.Values {
	values := url.Values{}

	setString := func(key, val string) {
		if val != "" {
			values.Set(key, val)
		}
	}

	setString("status", string(q.Status))
	setString("type", string(q.Type))
	setString("customer_id", q.CustomerID)
	setString("search", q.Search)
	setString("start_date_from", q.StartDateFrom)
	setString("start_date_to", q.StartDateTo)
	setString("end_date_from", q.EndDateFrom)
	setString("end_date_to", q.EndDateTo)
	setString("product_id", q.ProductID)
	setString("sort_by", q.SortBy)
	setString("sort_order", q.SortOrder)

	if q.IsSigned != nil {
		values.Set("is_signed", strconv.FormatBool(*q.IsSigned))
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(q.PerPage))
	}

	return values
}

// WithStatus returns a copy of the query with the status filter overridden.
func (q ContractQuery) WithStatus(status model.ContractStatus) ContractQuery {
	q.Status = status
	return q
}

// WithType returns a copy of the query with the type filter overridden.
func (q ContractQuery) WithType(contractType model.ContractType) ContractQuery {
	q.Type = contractType
	return q
}

// WithCustomer returns a copy of the query with the customer filter overridden.
func (q ContractQuery) WithCustomer(customerID string) ContractQuery {
	q.CustomerID = customerID
	return q
}

// WithSearch returns a copy of the query with the search text overridden.
func (q ContractQuery) WithSearch(search string) ContractQuery {
	q.Search = search
	return q
}
