// Package account is the authentication module mounted at /api/auth.
//
// Users register with name, email and password (optionally an inline base64
// profile image), log in to receive an HS256 bearer token, and read or update
// their profile with that token. Passwords are hashed with bcrypt and accounts
// live in the MongoDB "users" collection, reached through the shared
// connection manager on every call.
package account
