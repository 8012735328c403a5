// Package requestid attaches a correlation id to every request.
//
// Middleware keeps a client supplied X-Request-ID when it is short and made of
// [a-zA-Z0-9_-], otherwise it generates a UUIDv4. The id is echoed back in the
// response header and stored in the request context, where FromContext reads it
// and LoggerExtractor adds it to every log record, the error sink's records included.
package requestid
