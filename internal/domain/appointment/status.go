package appointment

import "github.com/vitororigens/glowapp-site-sub000/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusNoShow    Status = "no_show"
)

// ===============================
// Validations
// ===============================

func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanCancel: pendente ou confirmado
func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanMarkNoShow(current Status) error {
	return CanCancel(current)
}

// CanComplete exige confirmação prévia
func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanConvert: só concluído e uma única vez
func CanConvert(current Status, serviceRecordID *string) error {
	if current != StatusCompleted {
		return httperr.ErrBusiness("invalid_state")
	}
	if serviceRecordID != nil {
		return httperr.ErrBusiness("already_converted")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}

// Blocking indica se o horário continua ocupado na agenda.
func (s Status) Blocking() bool {
	return s == StatusPending || s == StatusConfirmed
}
