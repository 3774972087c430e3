// Package gateway implements the core API Gateway provisioning logic:
// resource path resolution, the idempotent create-or-update pipeline,
// resource listing, and deletion. All AWS dependencies are injected via
// the narrow interfaces in internal/aws.
package gateway

import (
	"errors"
	"fmt"

	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
)

// NotFoundError reports that a referenced API, resource, or function does
// not exist in the remote control plane.
type NotFoundError struct {
	Kind string // "API", "resource", "function"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// StepError wraps a remote failure with the provisioning step that caused
// it, so a failed create-or-update run identifies exactly where it stopped.
// No rollback is attempted: every step is idempotent, so retrying the whole
// operation converges.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// stepErr wraps err in a StepError unless it is nil.
func stepErr(step string, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Err: err}
}

// isConflict reports whether err is an "already exists" condition from
// either service. Conflicts at idempotent steps are treated as success.
func isConflict(err error) bool {
	var apigwConflict *apigwtypes.ConflictException
	if errors.As(err, &apigwConflict) {
		return true
	}
	var lambdaConflict *lambdatypes.ResourceConflictException
	return errors.As(err, &lambdaConflict)
}

// isNotFound reports whether err indicates a missing remote entity.
// The generic smithy.APIError fallback covers services that surface the
// condition only as an error code.
func isNotFound(err error) bool {
	var apigwNotFound *apigwtypes.NotFoundException
	if errors.As(err, &apigwNotFound) {
		return true
	}
	var lambdaNotFound *lambdatypes.ResourceNotFoundException
	if errors.As(err, &lambdaNotFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFoundException", "ResourceNotFoundException":
			return true
		}
	}
	return false
}
