// Package healthcheck reports whether the service is ready for traffic and
// lets clients wait for a remote instance to become ready.
package healthcheck
