package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Generic request errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"

	// Record validation errors
	CodeNameRequired      Code = "NAME_REQUIRED"
	CodeFactorOutOfRange  Code = "FACTOR_OUT_OF_RANGE"
	CodeInvalidGender     Code = "INVALID_GENDER"
	CodeSelfRelation      Code = "SELF_RELATION"
	CodeCountOutOfRange   Code = "COUNT_OUT_OF_RANGE"
	CodeYearsAgoNegative  Code = "YEARS_AGO_NEGATIVE"
	CodeReferenceRequired Code = "REFERENCE_REQUIRED"

	// Changelist errors
	CodeInvalidFilter  Code = "INVALID_FILTER"
	CodeInvalidOrder   Code = "INVALID_ORDER"
	CodeUnknownAction  Code = "UNKNOWN_ACTION"
	CodeEmptySelection Code = "EMPTY_SELECTION"

	// CSV import errors
	CodeCSVMissingColumn Code = "CSV_MISSING_COLUMN"
	CodeCSVMalformedRow  Code = "CSV_MALFORMED_ROW"
	CodeCSVEmpty         Code = "CSV_EMPTY"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument,
		CodeNameRequired,
		CodeFactorOutOfRange,
		CodeInvalidGender,
		CodeSelfRelation,
		CodeCountOutOfRange,
		CodeYearsAgoNegative,
		CodeReferenceRequired,
		CodeInvalidFilter,
		CodeInvalidOrder,
		CodeUnknownAction,
		CodeEmptySelection,
		CodeCSVMissingColumn,
		CodeCSVMalformedRow,
		CodeCSVEmpty:
		return http.StatusBadRequest

	case CodeNotFound:
		return http.StatusNotFound

	case CodeAlreadyExists:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
