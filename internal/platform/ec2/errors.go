package ec2

import (
	"errors"

	"github.com/aws/smithy-go"
)

// transientCodes are EC2 API error codes worth retrying.
var transientCodes = map[string]bool{
	"RequestLimitExceeded": true,
	"Throttling":           true,
	"ThrottlingException":  true,
	"InternalError":        true,
	"Unavailable":          true,
	"ServiceUnavailable":   true,
}

// invalidCodes indicate a bad request that retrying cannot fix.
var invalidCodes = map[string]bool{
	"InvalidParameterValue":       true,
	"InvalidParameterCombination": true,
	"MissingParameter":            true,
	"UnauthorizedOperation":       true,
	"AuthFailure":                 true,
}

// IsTransient reports whether err is a retryable cloud API error.
func IsTransient(err error) bool {
	return hasAPICode(err, transientCodes)
}

// IsInvalid reports whether err indicates a non-retryable bad request.
func IsInvalid(err error) bool {
	return hasAPICode(err, invalidCodes)
}

func hasAPICode(err error, codes map[string]bool) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return codes[apiErr.ErrorCode()]
	}
	return false
}
