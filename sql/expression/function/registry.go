package function

import "github.com/src-d/go-mldb/sql"

// Defaults is the function map with all the default functions.
var Defaults = sql.Functions{
	"rowname": sql.Function0(NewRowName),
	"lower":   sql.Function1(NewLower),
	"upper":   sql.Function1(NewUpper),
	"abs":     sql.Function1(NewAbsVal),
	"concat":  sql.FunctionN(NewConcat),
}
