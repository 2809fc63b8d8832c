// Package handler contains the echo handlers of the HTTP surface.  Each
// handler binds an explicit request struct, validates it, calls a service
// and maps service errors to status codes.  Store failures never leak raw
// driver text unless EXPOSE_STORE_ERRORS is set.
package handler
