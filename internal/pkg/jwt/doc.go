// Package jwt issues and verifies the HS512 operator tokens that guard the
// administrative HTTP endpoints, and carries verified claims through a
// request context.
package jwt
