// Package httpapi exposes the data service as JSON over HTTP. Every body is
// a result envelope and the status code follows the envelope's error type.
//
// Domain files:
// - orders, with an optional joined details view
// - customers, listed with order counts
// - packages
// - admin: dashboard counts, export, and import
package httpapi
