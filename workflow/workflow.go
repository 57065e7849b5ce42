// Package workflow defines the contract lifecycle rules: which status
// transitions exist and which actions may be offered for a contract in a
// given status. The gates are advisory; the server remains authoritative.
package workflow

import (
	"github.com/trust2025gb/contractkit/model"
)

// Action is a workflow operation a caller may offer on a contract.
type Action string

const (
	ActionSign           Action = "sign"
	ActionTerminate      Action = "terminate"
	ActionRenew          Action = "renew"
	ActionUploadDocument Action = "upload_document"
	ActionDeleteDocument Action = "delete_document"
)

// transitions maps each status to the statuses it may move to.
var transitions = map[model.ContractStatus][]model.ContractStatus{
	model.StatusDraft:      {model.StatusPending},
	model.StatusPending:    {model.StatusActive},
	model.StatusActive:     {model.StatusExpired, model.StatusTerminated, model.StatusRenewed},
	model.StatusExpired:    {},
	model.StatusTerminated: {},
	// A renewed contract starts a fresh lifecycle via the renew operation;
	// the original record stays terminal.
	model.StatusRenewed: {},
}

// CanTransition reports whether a contract may move from one status to another.
func CanTransition(from, to model.ContractStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanSign reports whether signing may be offered. Signing is only
// meaningful while the contract awaits signatures.
func CanSign(c *model.Contract) bool {
	return c.Status == model.StatusPending
}

// CanTerminate reports whether termination may be offered.
func CanTerminate(c *model.Contract) bool {
	return c.Status == model.StatusActive
}

// CanRenew reports whether renewal may be offered. Renewal applies to
// active contracts, and to any contract flagged renewable.
func CanRenew(c *model.Contract) bool {
	return c.Status == model.StatusActive || c.IsRenewable
}

// CanManageDocuments reports whether document upload/delete may be offered.
// Documents are allowed in every status.
func CanManageDocuments(c *model.Contract) bool {
	return c.Status.Valid()
}

// Available returns the actions that may be offered for the contract,
// in a stable order.
func Available(c *model.Contract) []Action {
	var actions []Action
	if CanSign(c) {
		actions = append(actions, ActionSign)
	}
	if CanTerminate(c) {
		actions = append(actions, ActionTerminate)
	}
	if CanRenew(c) {
		actions = append(actions, ActionRenew)
	}
	if CanManageDocuments(c) {
		actions = append(actions, ActionUploadDocument, ActionDeleteDocument)
	}
	return actions
}

// MethodSelectable reports whether a signature method should be offered as
// an enabled choice. Digital certificate signing has no backing
// implementation and stays disabled.
func MethodSelectable(m model.SignatureMethod) bool {
	return m.Valid() && m.Available()
}
