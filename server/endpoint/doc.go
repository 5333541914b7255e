// Package endpoint provides the operational HTTP handlers mounted next to
// the function route.
package endpoint
