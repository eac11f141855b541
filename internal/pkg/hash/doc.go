// Package hash hashes secrets that must never be stored in clear text:
// password reset tokens (HMAC-SHA256, deterministic so they can be looked up)
// and passwords (bcrypt).
package hash
