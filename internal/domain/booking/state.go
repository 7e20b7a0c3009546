package booking

// ===============================
// States
// ===============================

type State string

const (
	StateClientEntry        State = "client_entry"
	StateProcedureSelection State = "procedure_selection"
	StatePayment            State = "payment"
	StateAttachments        State = "attachments"
	StateReview             State = "review"
	StatePersisted          State = "persisted"
	StateExited             State = "exited"
)

// ===============================
// Variants
// ===============================

type Variant string

const (
	VariantQuote       Variant = "quote"
	VariantFullService Variant = "full_service"
	VariantAppointment Variant = "appointment"
)

// path lists the states of a variant in order.
func (v Variant) path() []State {
	switch v {
	case VariantFullService:
		return []State{
			StateClientEntry,
			StateProcedureSelection,
			StatePayment,
			StateAttachments,
			StateReview,
			StatePersisted,
		}
	default:
		return []State{
			StateClientEntry,
			StateProcedureSelection,
			StateReview,
			StatePersisted,
		}
	}
}

func (v Variant) neighbour(s State, step int) (State, bool) {
	p := v.path()
	for i, st := range p {
		if st != s {
			continue
		}
		j := i + step
		if j < 0 || j >= len(p) {
			return "", false
		}
		return p[j], true
	}
	return "", false
}
