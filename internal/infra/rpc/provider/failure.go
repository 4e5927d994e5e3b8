package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/rpc"
)

// Failure codes.
const (
	CodeNetworkError      = "NETWORK_ERROR"
	CodeConnectionReset   = "ECONNRESET"
	CodeConnectionRefused = "ECONNREFUSED"
	CodeTimeout           = "TIMEOUT"
	CodeServerError       = "SERVER_ERROR"
	CodeCallException     = "CALL_EXCEPTION"
	CodeUnknown           = "UNKNOWN_ERROR"
	CodeCancelled         = "CANCELLED" // the caller cancelled its own context
)

// Failure is a provider error carrying a classification code.
type Failure struct {
	Code    string
	Message string
	Err     error
}

// NewFailure creates a Failure with the given code.
func NewFailure(code, message string, err error) *Failure {
	return &Failure{Code: code, Message: message, Err: err}
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure normalizes any transport or node error into a *Failure.
// Errors that already are (or wrap) a *Failure are returned as is.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}

	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	return NewFailure(codeOf(err), err.Error(), err)
}

func codeOf(err error) string {
	// Order matters: syscall errors and cancelled requests are also net.Errors.
	switch {
	case errors.Is(err, context.Canceled):
		return CodeCancelled
	case errors.Is(err, syscall.ECONNRESET):
		return CodeConnectionReset
	case errors.Is(err, syscall.ECONNREFUSED):
		return CodeConnectionRefused
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.Is(err, rpc.ErrClientQuit):
		return CodeNetworkError
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return CodeTimeout
		}
		return CodeNetworkError
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return CodeNetworkError
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return CodeServerError
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		if rpcErr.ErrorCode() == 3 || strings.Contains(strings.ToLower(rpcErr.Error()), "revert") {
			return CodeCallException
		}
		return CodeServerError
	}

	return CodeUnknown
}

// isNetworkCode reports whether a failure means the transport is unhealthy.
func isNetworkCode(code string) bool {
	switch code {
	case CodeNetworkError, CodeConnectionReset, CodeConnectionRefused, CodeTimeout:
		return true
	}
	return false
}
