package dto

// BulkStatus summarizes a bulk status change the same way the per-item
// outcome lists do: every selected ID is accounted for on one side.
type BulkStatus string

const (
	BulkAllSuccess BulkStatus = "ALL_SUCCESS"
	BulkPartial    BulkStatus = "PARTIAL"
	BulkAllFailed  BulkStatus = "ALL_FAILED"
)

type FailureReason string

const (
	ReasonNotFound          FailureReason = "NOT_FOUND"
	ReasonIllegalTransition FailureReason = "ILLEGAL_TRANSITION"
)

type IDSuccess struct {
	OrderID string
}

type IDFailure struct {
	OrderID string
	Reason  FailureReason
}

type BulkResult struct {
	Status    BulkStatus
	Successes []IDSuccess
	Failures  []IDFailure
}
