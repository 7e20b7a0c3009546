// Package ledger keeps the payments recorded against a service's fixed total.
// All arithmetic is in integer cents and the sum of payments never exceeds
// the total: a mutation that would break this is rejected and the input
// slice is left untouched.
package ledger

import (
	"errors"
	"fmt"
	"time"
)

type Method string

const (
	MethodCash     Method = "cash"
	MethodPix      Method = "pix"
	MethodCard     Method = "card"
	MethodBankSlip Method = "bank_slip"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodCash, MethodPix, MethodCard, MethodBankSlip:
		return true
	}
	return false
}

// Payment is one entry of the ledger. Installments only matter for card payments.
type Payment struct {
	Method       Method    `json:"method"`
	ValueCents   int64     `json:"value_cents"`
	Installments int       `json:"installments,omitempty"`
	Date         time.Time `json:"date"`
}

var (
	ErrInvalidMethod = errors.New("ledger: invalid payment method")
	ErrInvalidValue  = errors.New("ledger: payment value must be positive")
	ErrInvalidIndex  = errors.New("ledger: payment index out of range")
)

// OverLimitError rejects a payment that would push the ledger past the total.
type OverLimitError struct {
	Attempted  int64
	MaxAllowed int64
}

func (e *OverLimitError) Error() string {
	return fmt.Sprintf("ledger: payment of %d cents exceeds remaining balance of %d cents", e.Attempted, e.MaxAllowed)
}

// AddOrReplacePayment appends candidate (index == nil) or overwrites the entry
// at *index, provided the other entries plus candidate stay within totalPriceCents.
func AddOrReplacePayment(existing []Payment, index *int, candidate Payment, totalPriceCents int64) ([]Payment, error) {
	if !candidate.Method.IsValid() {
		return existing, ErrInvalidMethod
	}
	if candidate.ValueCents <= 0 {
		return existing, ErrInvalidValue
	}
	if index != nil && (*index < 0 || *index >= len(existing)) {
		return existing, ErrInvalidIndex
	}

	var committedOthers int64
	for i, p := range existing {
		if index != nil && i == *index {
			continue
		}
		committedOthers += p.ValueCents
	}

	if committedOthers+candidate.ValueCents > totalPriceCents {
		return existing, &OverLimitError{
			Attempted:  candidate.ValueCents,
			MaxAllowed: totalPriceCents - committedOthers,
		}
	}

	candidate = normalizeInstallments(candidate)

	out := make([]Payment, len(existing), len(existing)+1)
	copy(out, existing)
	if index == nil {
		return append(out, candidate), nil
	}
	out[*index] = candidate
	return out, nil
}

// PayInFull records a single payment of the whole total. It goes through the
// same check as any other payment.
func PayInFull(existing []Payment, method Method, date time.Time, totalPriceCents int64) ([]Payment, error) {
	return AddOrReplacePayment(existing, nil, Payment{
		Method:     method,
		ValueCents: totalPriceCents,
		Date:       date,
	}, totalPriceCents)
}

// RemovePayment drops the entry at index. An out-of-range index returns a copy
// of the ledger unchanged.
func RemovePayment(existing []Payment, index int) []Payment {
	out := make([]Payment, 0, len(existing))
	for i, p := range existing {
		if i == index {
			continue
		}
		out = append(out, p)
	}
	return out
}

func TotalPaid(payments []Payment) int64 {
	var total int64
	for _, p := range payments {
		total += p.ValueCents
	}
	return total
}

// PendingBalance is the signed remainder; it is negative when a ledger
// somehow holds more than the total.
func PendingBalance(totalPriceCents int64, payments []Payment) int64 {
	return totalPriceCents - TotalPaid(payments)
}

// DisplayPending floors PendingBalance at zero for presentation.
func DisplayPending(totalPriceCents int64, payments []Payment) int64 {
	if p := PendingBalance(totalPriceCents, payments); p > 0 {
		return p
	}
	return 0
}

// Validate checks a whole ledger against a total, e.g. after the total was
// recomputed from a changed procedure selection.
func Validate(payments []Payment, totalPriceCents int64) error {
	paid := TotalPaid(payments)
	if paid > totalPriceCents {
		last := int64(0)
		if len(payments) > 0 {
			last = payments[len(payments)-1].ValueCents
		}
		return &OverLimitError{
			Attempted:  last,
			MaxAllowed: totalPriceCents - (paid - last),
		}
	}
	return nil
}

func normalizeInstallments(p Payment) Payment {
	if p.Method != MethodCard {
		p.Installments = 0
		return p
	}
	if p.Installments < 1 {
		p.Installments = 1
	}
	return p
}
