package sms

import (
	"errors"

	"github.com/nerrad567/masterdata-core/internal/masterdata"
)

// InvalidNumber is the code raised when a contact number fails validation.
// The message is completed with the configured length range.
var InvalidNumber = masterdata.ErrorCode{
	Code:    "KER-NOS-001",
	Message: "Number length should be in between ",
}

// Sentinel errors for gateway calls.
//
//	if errors.Is(err, sms.ErrGatewayRejected) {
//	    // gateway answered with a non-2xx status
//	}
var (
	// ErrGatewayRejected indicates the gateway answered with a non-2xx status.
	// The wrapping error carries the response body.
	ErrGatewayRejected = errors.New("sms: gateway rejected request")

	// ErrGatewayUnreachable indicates the request never got a response.
	ErrGatewayUnreachable = errors.New("sms: gateway unreachable")
)
