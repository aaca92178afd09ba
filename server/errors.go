package server

import (
	"net/http"

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/src-d/go-mldb/sql"
	"github.com/src-d/go-mldb/sql/analyzer"
	"github.com/src-d/go-mldb/sql/expression"
	"github.com/src-d/go-mldb/sql/parse"
)

var (
	// ErrInvalidBody is returned when a request body cannot be decoded.
	ErrInvalidBody = errors.NewKind("invalid request body: %s")

	// ErrMissingQuery is returned when the query endpoint is called without
	// the q parameter.
	ErrMissingQuery = errors.NewKind("missing query parameter q")

	// ErrInvalidFormat is returned for an unknown result format.
	ErrInvalidFormat = errors.NewKind("unknown result format %q")

	// ErrInvalidParam is returned when a query string parameter cannot be
	// parsed.
	ErrInvalidParam = errors.NewKind("invalid value %q for parameter %s")

	// ErrBodyTooLarge is returned when a request body exceeds the configured
	// maximum size.
	ErrBodyTooLarge = errors.NewKind("request body larger than %d bytes")
)

// badRequest errors are caused by the request content.
var badRequest = []*errors.Kind{
	ErrInvalidBody,
	ErrMissingQuery,
	ErrInvalidFormat,
	ErrInvalidParam,
	parse.ErrInvalidQuery,
	parse.ErrUnsupportedSyntax,
	parse.ErrUnsupportedFeature,
	parse.ErrInvalidSQLValType,
	parse.ErrInvalidSortOrder,
	analyzer.ErrValidationResolved,
	expression.ErrInvalidArithmeticOperand,
	sql.ErrInvalidType,
	sql.ErrAllColumnsNotSupported,
	sql.ErrColumnNotFound,
	sql.ErrNoDatasetForColumn,
	sql.ErrFunctionNotFound,
	sql.ErrInvalidArgumentCount,
	sql.ErrInvalidRowName,
	sql.ErrInvalidColumnName,
	sql.ErrInvalidValue,
	sql.ErrInvalidTimestamp,
	sql.ErrInvalidCell,
	sql.ErrInvalidDatasetID,
	sql.ErrUnknownDatasetKind,
}

// errorStatus returns the HTTP status for an error. A missing dataset is a
// 404 on dataset routes but a bad query otherwise.
func errorStatus(err error, datasetRoute bool) int {
	switch {
	case sql.ErrDatasetNotFound.Is(err):
		if datasetRoute {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	case sql.ErrDatasetAlreadyExists.Is(err):
		return http.StatusConflict
	case ErrBodyTooLarge.Is(err):
		return http.StatusRequestEntityTooLarge
	}

	for _, kind := range badRequest {
		if kind.Is(err) {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}
