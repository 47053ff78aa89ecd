// Package handler implements the HTTP surface of the split service: the
// /cantonese_split endpoint, structured error responses, request IDs,
// request logging and panic recovery.
package handler
