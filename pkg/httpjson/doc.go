// Package httpjson writes the gateway's JSON bodies and defines HTTPError for
// expected client failures. Every body carries a top-level "message".
package httpjson
