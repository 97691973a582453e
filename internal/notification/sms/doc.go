// Package sms sends text messages through an msg91-style HTTP gateway.
//
// Contact numbers are validated before any request is built: they must be
// all digits and their length must fall within the configured range.
// Invalid numbers fail with a masterdata InvalidInput error (KER-NOS-001)
// and the gateway is never called.
//
// A valid send is a single GET request with the message and credentials as
// query parameters. Any non-2xx answer becomes ErrGatewayRejected carrying
// the response body.
//
// When sms.enabled is false the provider validates, logs and reports
// success without calling out.
package sms
