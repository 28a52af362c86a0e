package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code}
}

// fastBackoff shrinks the retry waits for the duration of a test.
func fastBackoff(t *testing.T) {
	t.Helper()
	prev := initialInterval
	initialInterval = time.Millisecond
	t.Cleanup(func() { initialInterval = prev })
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindPermanent},
		{"plain error", errors.New("boom"), KindPermanent},
		{"context canceled", context.Canceled, KindPermanent},
		{"s3 no such bucket", &s3types.NoSuchBucket{}, KindNotFound},
		{"s3 head not found", &s3types.NotFound{}, KindNotFound},
		{"iam no such entity", &iamtypes.NoSuchEntityException{}, KindNotFound},
		{"glue entity not found", &gluetypes.EntityNotFoundException{}, KindNotFound},
		{"ec2 endpoint not found", apiError("InvalidVpcEndpointId.NotFound"), KindNotFound},
		{"bucket owned by you", &s3types.BucketAlreadyOwnedByYou{}, KindConflict},
		{"bucket taken", &s3types.BucketAlreadyExists{}, KindConflict},
		{"iam role exists", &iamtypes.EntityAlreadyExistsException{}, KindConflict},
		{"glue already exists", &gluetypes.AlreadyExistsException{}, KindConflict},
		{"throttling", apiError("Throttling"), KindTransient},
		{"slow down", apiError("SlowDown"), KindTransient},
		{"request limit", apiError("RequestLimitExceeded"), KindTransient},
		{"glue internal", apiError("InternalServiceException"), KindTransient},
		{"access denied", apiError("AccessDenied"), KindPermanent},
		{"wrapped not found", fmt.Errorf("head bucket: %w", &s3types.NoSuchBucket{}), KindNotFound},
		{"wrapped transient", fmt.Errorf("put object: %w", apiError("SlowDown")), KindTransient},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Errorf("Classify(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestDoRetriesTransientErrors(t *testing.T) {
	fastBackoff(t)
	attempts := 0
	err := Do(context.Background(), "test op", func() error {
		attempts++
		if attempts < 3 {
			return apiError("Throttling")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	attempts := 0
	wantErr := apiError("AccessDenied")
	err := Do(context.Background(), "test op", func() error {
		attempts++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected original error back, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 for permanent error", attempts)
	}
}

func TestDoPreservesClassification(t *testing.T) {
	err := Do(context.Background(), "test op", func() error {
		return &iamtypes.NoSuchEntityException{}
	})
	if !IsNotFound(err) {
		t.Errorf("expected NotFound classification to survive Do, got: %v", err)
	}
}

func TestDoGivesUpAfterCeiling(t *testing.T) {
	fastBackoff(t)
	attempts := 0
	err := Do(context.Background(), "test op", func() error {
		attempts++
		return apiError("SlowDown")
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 5 {
		t.Errorf("attempts = %d, want 5", attempts)
	}
}
