// Package binder binds HTTP request data to Go structs.
//
// Form binds application/x-www-form-urlencoded and multipart/form-data bodies
// using `form:"name"` tags; Query binds URL query parameters using
// `query:"name"` tags. A tag of "-" skips the field and untagged exported
// fields bind to their lowercased name.
//
// Supported field types are string, the integer, unsigned and float kinds,
// bool (also "on", "yes", "1" and their negatives), pointers to those for
// optional values, and slices for multi-value parameters. Slice values may
// also be comma separated.
//
//	type LoginRequest struct {
//	    Email    string `form:"email"`
//	    Password string `form:"password"`
//	}
//
//	var req LoginRequest
//	if err := binder.Form()(r, &req); err != nil {
//	    // errors.Is(err, binder.ErrUnsupportedMediaType) etc.
//	}
//
// Binding errors wrap one of the package's sentinel errors. Multipart file
// parts are not bound; read them from r.MultipartForm after binding.
package binder
