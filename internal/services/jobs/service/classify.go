package service

import (
	"context"
	"errors"

	perr "querycanon/internal/platform/errors"
	jobsdom "querycanon/internal/services/jobs/domain"
)

// Classify maps a RunOne failure to a result kind. nil is processed.
//
// Cancellation is fatal, transient store and analyzer failures are retryable,
// and input the pipeline refuses is rejected. Everything else stops the run.
func Classify(err error) jobsdom.Kind {
	switch {
	case err == nil:
		return jobsdom.KindProcessed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return jobsdom.KindFatal
	case perr.Retryable(err):
		return jobsdom.KindRetryable
	}
	switch perr.CodeOf(err) {
	case perr.ErrorCodeInvalidArgument, perr.ErrorCodeValidation, perr.ErrorCodeConflict:
		return jobsdom.KindRejected
	}
	return jobsdom.KindFatal
}
