// Package retry provides the backoff wrapper and provider error
// classification shared by all resource clients. Transient provider errors
// are retried with bounded exponential backoff; everything else surfaces
// immediately.
package retry

import (
	"context"
	"errors"
	"time"

	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/cenkalti/backoff/v4"

	"github.com/lakeops/lakectl/logging"
)

// Kind is the retry-relevant category of a provider error.
type Kind int

const (
	KindPermanent Kind = iota // surfaced immediately, never retried
	KindTransient             // throttling or eventual consistency, retried
	KindNotFound              // resource absent
	KindConflict              // resource already exists
)

// Backoff parameters. Five attempts with a 500ms initial interval stays
// under a minute even at the cap. Variables so tests can shrink the waits.
var (
	maxAttempts     = 5
	initialInterval = 500 * time.Millisecond
	maxInterval     = 15 * time.Second
)

// isTransientCode reports whether an API error code is worth retrying
// regardless of service. S3 reports throttling as SlowDown, IAM and Glue as
// Throttling or ThrottlingException, EC2 as RequestLimitExceeded.
func isTransientCode(code string) bool {
	switch code {
	case "Throttling", "ThrottlingException", "TooManyRequestsException",
		"RequestLimitExceeded", "SlowDown", "ServiceUnavailable",
		"ServiceUnavailableException", "RequestTimeout", "InternalError",
		"InternalFailure", "InternalServiceException",
		"OperationTimeoutException", "ConcurrentModificationException":
		return true
	}
	return false
}

// isNotFoundCode covers the services whose SDKs do not model absence as a
// typed error, EC2 in particular.
func isNotFoundCode(code string) bool {
	switch code {
	case "NotFound", "NoSuchBucket", "NoSuchEntity", "EntityNotFoundException",
		"InvalidVpcEndpointId.NotFound", "InvalidVpcEndpoint.NotFound":
		return true
	}
	return false
}

// Classify maps a provider error onto a retry Kind. Typed errors from the
// SDKs are checked first, then the generic smithy error code.
func Classify(err error) Kind {
	if err == nil {
		return KindPermanent
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindPermanent
	}

	var (
		s3NoBucket    *s3types.NoSuchBucket
		s3NotFound    *s3types.NotFound
		iamNoEntity   *iamtypes.NoSuchEntityException
		glueNotFound  *gluetypes.EntityNotFoundException
		s3BucketMine  *s3types.BucketAlreadyOwnedByYou
		s3BucketTaken *s3types.BucketAlreadyExists
		iamExists     *iamtypes.EntityAlreadyExistsException
		glueExists    *gluetypes.AlreadyExistsException
	)
	switch {
	case errors.As(err, &s3NoBucket), errors.As(err, &s3NotFound),
		errors.As(err, &iamNoEntity), errors.As(err, &glueNotFound):
		return KindNotFound
	case errors.As(err, &s3BucketMine), errors.As(err, &s3BucketTaken),
		errors.As(err, &iamExists), errors.As(err, &glueExists):
		return KindConflict
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if isNotFoundCode(code) {
			return KindNotFound
		}
		if isTransientCode(code) {
			return KindTransient
		}
	}

	return KindPermanent
}

// IsNotFound reports whether err means the resource is absent.
func IsNotFound(err error) bool {
	return Classify(err) == KindNotFound
}

// IsAlreadyExists reports whether err means the resource already exists.
func IsAlreadyExists(err error) bool {
	return Classify(err) == KindConflict
}

// Do runs fn, retrying transient errors with exponential backoff up to the
// attempt ceiling. Non-transient errors stop the loop immediately and are
// returned unchanged so callers can still classify them.
func Do(ctx context.Context, op string, fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval
	bo.MaxInterval = maxInterval

	wrapped := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if Classify(err) != KindTransient {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		logging.Warnf("%s: transient error, retrying in %s: %v", op, wait, err)
	}

	return backoff.RetryNotify(wrapped,
		backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxAttempts-1)), ctx),
		notify)
}
