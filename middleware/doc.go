// Package middleware provides net/http wrappers that resolve bearer
// tokens through an authcore.Engine and inject the resulting principal
// into the request context.
package middleware
