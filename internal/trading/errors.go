package trading

// RejectKind classifies why an operation was refused so the HTTP layer can map
// it to a status code without parsing messages.
type RejectKind int

const (
	RejectValidation RejectKind = iota // malformed or out-of-range input
	RejectEligibility                  // business rule said no, state untouched
	RejectNotFound
	RejectConflict // storage contention, retry exhausted
	RejectInternal
)

type RejectError struct {
	Kind    RejectKind
	Message string
}

func (e *RejectError) Error() string {
	return e.Message
}

func validationErr(msg string) *RejectError {
	return &RejectError{Kind: RejectValidation, Message: msg}
}

func eligibilityErr(msg string) *RejectError {
	return &RejectError{Kind: RejectEligibility, Message: msg}
}

func notFoundErr(msg string) *RejectError {
	return &RejectError{Kind: RejectNotFound, Message: msg}
}

func internalErr() *RejectError {
	return &RejectError{Kind: RejectInternal, Message: "internal error"}
}
