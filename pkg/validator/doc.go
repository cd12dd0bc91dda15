// Package validator provides small declarative validation rules for request
// input.
//
// A Rule pairs a Check function with the ValidationError reported when the
// check fails. Apply evaluates rules in order and aggregates failures into
// ValidationErrors, which implements error:
//
//	err := validator.Apply(
//	    validator.Required("email", req.Email),
//	    validator.ValidEmail("email", req.Email),
//	    validator.MaxLen("password", req.Password, 72),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    for _, field := range verrs.Fields() {
//	        // render verrs.Get(field)
//	    }
//	}
//
// Every error carries a TranslationKey and TranslationValues so messages can
// be localised by the caller. Rules hold no shared state and are safe for
// concurrent use.
package validator
