package resilience

import (
	"errors"

	"github.com/vietddude/blockworker/internal/infra/rpc/provider"
)

// RetryClass selects the backoff applied after a failed call.
type RetryClass int

const (
	RetryStandard RetryClass = iota // Anything not known to be a transient network fault
	RetryQuick                      // Transient network faults
)

func (c RetryClass) String() string {
	if c == RetryQuick {
		return "quick"
	}
	return "standard"
}

// DefaultQuickRetryCodes are the failure codes retried after the quick timeout.
var DefaultQuickRetryCodes = []string{
	provider.CodeNetworkError,
	provider.CodeConnectionReset,
	provider.CodeConnectionRefused,
	provider.CodeTimeout,
}

// Classifier maps failure codes to retry classes. The zero value classifies
// everything as RetryStandard.
type Classifier struct {
	quick map[string]struct{}
}

// NewClassifier creates a classifier whose quick class is exactly quickCodes.
func NewClassifier(quickCodes []string) Classifier {
	quick := make(map[string]struct{}, len(quickCodes))
	for _, code := range quickCodes {
		quick[code] = struct{}{}
	}
	return Classifier{quick: quick}
}

// Classify returns the retry class for a failure code. Unknown and empty
// codes are RetryStandard.
func (c Classifier) Classify(code string) RetryClass {
	if _, ok := c.quick[code]; ok {
		return RetryQuick
	}
	return RetryStandard
}

// FailureCode returns the code of the first *provider.Failure in err's chain,
// or "" when there is none.
func FailureCode(err error) string {
	var f *provider.Failure
	if errors.As(err, &f) {
		return f.Code
	}
	return ""
}

func failureMessage(err error) string {
	var f *provider.Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}
