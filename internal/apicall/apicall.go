// Package apicall performs one-shot HTTP requests against deployed API
// Gateway endpoints, optionally SigV4-signed with the caller's AWS
// credentials. Stateless; no retry is built in.
package apicall

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// defaultTimeout bounds a single endpoint request.
const defaultTimeout = 30 * time.Second

// signingService is the SigV4 service name for API Gateway data-plane calls.
const signingService = "execute-api"

// NetworkError reports a transport-level failure: DNS, connect, TLS, or
// timeout. HTTP error statuses are not NetworkErrors; they come back as a
// Response, since a non-2xx status is valid application data.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Request describes one endpoint invocation.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    []byte
	Sign    bool // SigV4-sign the request with the client's credentials
}

// Response is the structured result of an endpoint invocation. Exactly one
// of JSON and Text carries the body: JSON when the response content type
// indicates JSON and the body parses, Text otherwise.
type Response struct {
	StatusCode int
	Headers    http.Header
	JSON       json.RawMessage
	Text       string
}

// OK reports whether the response status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client makes HTTP requests to API Gateway endpoints.
type Client struct {
	httpClient *http.Client
	signer     *v4.Signer
	creds      aws.CredentialsProvider
	region     string
}

// NewClient creates a Client. creds may be nil when signing is never
// requested; a signed Request against a nil-credential client fails.
func NewClient(region string, creds aws.CredentialsProvider) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		signer:     v4.NewSigner(),
		creds:      creds,
		region:     region,
	}
}

// Do performs the request and returns the structured response. The default
// method is GET and a JSON content type is set when a body is present and
// no explicit Content-Type header was given.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if len(req.Body) > 0 && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if req.Sign {
		if err := c.sign(ctx, httpReq, req.Body); err != nil {
			return nil, err
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: req.URL, Err: err}
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
	}
	if isJSON(resp.Header.Get("Content-Type")) && json.Valid(body) {
		out.JSON = json.RawMessage(body)
	} else {
		out.Text = string(body)
	}
	return out, nil
}

// sign applies a SigV4 signature for the execute-api service.
func (c *Client) sign(ctx context.Context, req *http.Request, body []byte) error {
	if c.creds == nil {
		return fmt.Errorf("signing requested but no credentials configured")
	}

	creds, err := c.creds.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("retrieve credentials: %w", err)
	}

	sum := sha256.Sum256(body)
	payloadHash := hex.EncodeToString(sum[:])

	if err := c.signer.SignHTTP(ctx, creds, req, payloadHash, signingService, c.region, time.Now()); err != nil {
		return fmt.Errorf("sign request: %w", err)
	}
	return nil
}

// isJSON reports whether a Content-Type header indicates a JSON body.
func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}
