package sql

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrInvalidType is thrown when there is an unexpected type at some part of
	// the execution tree.
	ErrInvalidType = errors.NewKind("invalid type: %s")

	// ErrDatasetNotFound is returned when the dataset does not exist.
	ErrDatasetNotFound = errors.NewKind("dataset not found: %s")

	// ErrDatasetAlreadyExists is returned when a dataset with the same id
	// is already registered.
	ErrDatasetAlreadyExists = errors.NewKind("dataset with id %s already exists")

	// ErrUnknownDatasetKind is returned when creating a dataset of a type
	// no factory was registered for.
	ErrUnknownDatasetKind = errors.NewKind("unknown dataset type %q")

	// ErrInvalidDatasetID is returned when a dataset id cannot be used.
	ErrInvalidDatasetID = errors.NewKind("invalid dataset id %q")

	// ErrInvalidRowName is returned when a row is recorded without a name.
	ErrInvalidRowName = errors.NewKind("invalid row name %q")

	// ErrInvalidColumnName is returned when a cell has no column name.
	ErrInvalidColumnName = errors.NewKind("invalid column name %q in row %q")

	// ErrInvalidValue is returned when a cell value has an unsupported type.
	ErrInvalidValue = errors.NewKind("invalid value of type %T for column %q")

	// ErrInvalidTimestamp is returned when a cell timestamp cannot be parsed.
	ErrInvalidTimestamp = errors.NewKind("invalid timestamp %v for column %q")

	// ErrInvalidCell is returned when a cell is not a [column, value, ts]
	// tuple.
	ErrInvalidCell = errors.NewKind("invalid cell %v: expected [column, value, timestamp]")

	// ErrAllColumnsNotSupported is returned when every column of a scope is
	// requested but the scope cannot enumerate its columns.
	ErrAllColumnsNotSupported = errors.NewKind("binding scope %s must override getAllColumns: wanted %s")

	// ErrColumnNotFound is returned when the column does not exist in any
	// dataset in scope.
	ErrColumnNotFound = errors.NewKind("column %q could not be found in any dataset in scope")

	// ErrNoDatasetForColumn is returned when a column is read in a query
	// without FROM clause.
	ErrNoDatasetForColumn = errors.NewKind("cannot read column %q with no FROM clause")

	// ErrFunctionNotFound is thrown when a function is not found.
	ErrFunctionNotFound = errors.NewKind("function not found: %s")

	// ErrInvalidArgumentCount is thrown when a function is called with the
	// wrong number of arguments.
	ErrInvalidArgumentCount = errors.NewKind("expecting %v arguments for calling this function, %d received")

	// ErrInvalidChildrenNumber is returned when the WithChildren method of a
	// node or expression is called with an invalid number of arguments.
	ErrInvalidChildrenNumber = errors.NewKind("%T: invalid children number, got %d, expected %d")

	// ErrDatasetClosed is returned when operating on a dataset that was
	// dropped.
	ErrDatasetClosed = errors.NewKind("dataset %s is closed")
)
