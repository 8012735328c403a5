// Package binder decodes JSON request bodies.
//
//	var req registerRequest
//	if err := binder.JSON(r, &req); err != nil {
//		return err // 400, 413 or 415 via the error sink
//	}
//
// Bodies are capped at DefaultMaxJSONSize. A missing Content-Type is accepted;
// any other media type than application/json is rejected.
package binder
