// Package invoke provides synchronous direct invocation of Lambda
// functions, bypassing the API Gateway data plane.
package invoke

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"

	apigwaws "github.com/nicholasgasior/apigw/internal/aws"
)

// InvocationError reports that the function itself signaled a failure
// (handled or unhandled) while the Invoke API call succeeded.
type InvocationError struct {
	FunctionName string
	Message      string
	Payload      []byte // raw error payload returned by the function
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("function %q reported %s: %s", e.FunctionName, e.Message, e.Payload)
}

// Invoker calls Lambda functions synchronously and decodes their JSON
// responses. Stateless; no retry is built in.
type Invoker struct {
	client apigwaws.InvokeAPI
}

// NewInvoker creates an Invoker with the given Lambda client.
func NewInvoker(client apigwaws.InvokeAPI) *Invoker {
	return &Invoker{client: client}
}

// Invoke calls functionName with the JSON-serializable payload and returns
// the decoded response. A nil payload invokes with an empty JSON object.
// A FunctionError in the response surfaces as an InvocationError carrying
// the function's error payload.
func (i *Invoker) Invoke(ctx context.Context, functionName string, payload any) (json.RawMessage, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	out, err := i.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(functionName),
		InvocationType: lambdatypes.InvocationTypeRequestResponse,
		Payload:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("lambda invoke %q: %w", functionName, err)
	}

	if out.FunctionError != nil {
		return nil, &InvocationError{
			FunctionName: functionName,
			Message:      *out.FunctionError,
			Payload:      out.Payload,
		}
	}

	return json.RawMessage(out.Payload), nil
}
