package payarc

import (
	"errors"
	"fmt"
)

// GatewayError: PayArc answered with a non-2xx status or an unparsable body.
// Message carries the gateway's own message when one was present.
type GatewayError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("payarc %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("payarc %s: status %d", e.Op, e.StatusCode)
}

func AsGatewayError(err error) (*GatewayError, bool) {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// UserMessage: what a charge/refund caller may show to the end user.
// Transport failures get a generic connectivity message; gateway declines
// surface the gateway's text.
func UserMessage(err error) string {
	if ge, ok := AsGatewayError(err); ok && ge.Message != "" {
		return ge.Message
	}
	if _, ok := AsGatewayError(err); ok {
		return "Payment was declined."
	}
	return "Could not reach the payment gateway. Please try again."
}
