package analyzer

// OnceBeforeDefault contains the rules to be applied just once before the
// DefaultRules.
var OnceBeforeDefault = []Rule{
	{"resolve_tables", resolveTables},
	{"resolve_functions", resolveFunctions},
}

// DefaultRules to apply when analyzing nodes.
var DefaultRules = []Rule{
	{"expand_stars", expandStars},
	{"resolve_orderby_aliases", resolveOrderByAliases},
	{"resolve_columns", resolveColumns},
}

// DefaultValidationRules to apply while analyzing nodes.
var DefaultValidationRules = []Rule{
	{"validate_resolved", validateIsResolved},
}
