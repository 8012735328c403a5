// Package requestlog provides the request observer middleware.
//
// Clients upload profile pictures as base64 strings inside JSON bodies, which
// would flood the logs. The observer logs a shallow copy of POST and PUT bodies
// with such fields replaced by a length placeholder:
//
//	{"name":"Ann","profileImage":"[base64 data, length: 48213]"}
//
// Only top-level fields are inspected. Nested objects are logged as they are.
package requestlog
