// Package params implements string-keyed method parameters.
//
// A method (a distance space or an index) is configured from a list of
// "name=value" tokens. Parse turns the tokens into an ordered, name-unique
// Params. A Manager wraps a Params and hands typed values to the method:
//
//	err := params.Use(p, func(m *params.Manager) error {
//	    if err := params.GetRequired(m, "M", &cfg.M); err != nil {
//	        return err
//	    }
//	    return params.GetOptional(m, "efSearch", &cfg.EfSearch)
//	})
//
// Every query marks its name as seen. Finish (called by Use after the callback
// returns) fails with UnknownParameterError if any parameter was never read, so
// a misspelled or stale parameter stops the configuration instead of being
// silently ignored.
//
// ExtractExcept splits the parameters of a composite method: the names on the
// exclusion list stay with the outer method and everything else is returned as
// a fresh Params for the nested method, whose own Manager validates it again.
//
// A Manager is not safe for concurrent use.
package params
