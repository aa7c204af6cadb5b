// Package workflow declares the legal status transitions of invoices, BM/Ads
// orders and shared BM/Ads records.
package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Fuonder/bmadsoffice/internal/models"
)

// Machine is a finite-state machine over comparable status values.
type Machine[S comparable] struct {
	name        string
	transitions map[S][]S
}

func NewMachine[S comparable](name string, transitions map[S][]S) *Machine[S] {
	return &Machine[S]{name: name, transitions: transitions}
}

// Can reports whether from -> to is declared. Staying in the same known state
// is always allowed so plain edits keep working.
func (m *Machine[S]) Can(from, to S) bool {
	next, known := m.transitions[from]
	if from == to {
		return known
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

func (m *Machine[S]) Next(from S) []S {
	out := make([]S, len(m.transitions[from]))
	copy(out, m.transitions[from])
	return out
}

func (m *Machine[S]) Validate(from, to S) error {
	if m.Can(from, to) {
		return nil
	}
	return fmt.Errorf("%w: %s %v -> %v", models.ErrIllegalTransition, m.name, from, to)
}

func (m *Machine[S]) States() []S {
	out := make([]S, 0, len(m.transitions))
	for s := range m.transitions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return fmt.Sprint(out[i]) < fmt.Sprint(out[j]) })
	return out
}

var Invoice = NewMachine("invoice", map[models.InvoiceStatus][]models.InvoiceStatus{
	models.InvoiceStatusPending:  {models.InvoiceStatusApproved, models.InvoiceStatusRejected},
	models.InvoiceStatusApproved: {models.InvoiceStatusReOpened},
	models.InvoiceStatusRejected: {models.InvoiceStatusReOpened},
	models.InvoiceStatusReOpened: {models.InvoiceStatusApproved, models.InvoiceStatusRejected, models.InvoiceStatusPending},
})

var Order = NewMachine("order", map[string][]string{
	models.OrderStatusDraft:      {models.OrderStatusApplied},
	models.OrderStatusApplied:    {models.OrderStatusChecked, models.OrderStatusRejected},
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusRejected},
	models.OrderStatusChecked:    {models.OrderStatusProcessing, models.OrderStatusRejected},
	models.OrderStatusProcessing: {models.OrderStatusDone, models.OrderStatusRejected},
	models.OrderStatusDone:       {},
	models.OrderStatusRejected:   {models.OrderStatusApplied},
})

var Shared = NewMachine("shared", map[string][]string{
	models.SharedStatusFail: {models.SharedStatusPass},
	models.SharedStatusPass: {},
})

// ValidateInvoiceChange checks the remarks rule before the transition table,
// so both are enforced ahead of any network call.
func ValidateInvoiceChange(from models.InvoiceStatus, change models.StatusChange) error {
	if err := CheckRemarks(change); err != nil {
		return err
	}
	return Invoice.Validate(from, change.Status)
}

// CheckRemarks applies the remarks rule alone; it needs no current status.
func CheckRemarks(change models.StatusChange) error {
	if change.Status != models.InvoiceStatusPending && strings.TrimSpace(change.Remarks) == "" {
		return models.ErrRemarksRequired
	}
	return nil
}

// SharedEditable reports whether a shared record may still be changed.
func SharedEditable(status string) bool {
	return status == models.SharedStatusFail
}
