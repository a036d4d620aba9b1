// Package api handles incoming HTTP requests for the task endpoints:
// request parsing, delegation to internal/service, and
// response formatting. Errors are mapped to status codes in one place
// (MapErrorToStatusCode) and clients only ever see the safe message
// returned by GetSafeErrorMessage.
package api
