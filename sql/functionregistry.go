package sql

import "strings"

// FunctionRegistry is used to register functions. Names are case
// insensitive.
type FunctionRegistry map[string]Function

// NewFunctionRegistry creates a new FunctionRegistry.
func NewFunctionRegistry() FunctionRegistry {
	return make(FunctionRegistry)
}

// RegisterFunction registers a function with the given name.
func (r FunctionRegistry) RegisterFunction(name string, f Function) {
	r[strings.ToLower(name)] = f
}

// RegisterFunctions registers a map of functions.
func (r FunctionRegistry) RegisterFunctions(funcs Functions) {
	for name, f := range funcs {
		r.RegisterFunction(name, f)
	}
}

// Function returns a function with the given name.
func (r FunctionRegistry) Function(name string) (Function, error) {
	if f, ok := r[strings.ToLower(name)]; ok {
		return f, nil
	}

	return nil, ErrFunctionNotFound.New(name)
}

// Functions is a map of functions identified by their name.
type Functions map[string]Function
