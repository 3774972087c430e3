package gateway

import (
	"fmt"
	"strings"
)

// InvokeURL derives the public invoke URL for a deployed resource. The
// format must match what API Gateway serves:
//
//	https://{api_id}.execute-api.{region}.amazonaws.com/{stage}/{resource_path}
//
// An empty resourcePath yields the bare stage URL; a missing leading slash
// is added.
func InvokeURL(apiID, region, stage, resourcePath string) string {
	if resourcePath != "" && !strings.HasPrefix(resourcePath, "/") {
		resourcePath = "/" + resourcePath
	}
	return fmt.Sprintf("https://%s.execute-api.%s.amazonaws.com/%s%s", apiID, region, stage, resourcePath)
}

// IntegrationURI builds the API Gateway integration URI that proxies a
// method to a Lambda function. The 2015-03-31 path segment is the Lambda
// invocations API version and is fixed.
func IntegrationURI(region, functionARN string) string {
	return fmt.Sprintf("arn:aws:apigateway:%s:lambda:path/2015-03-31/functions/%s/invocations", region, functionARN)
}

// SourceARN builds the execute-api source ARN used in the Lambda permission
// statement. The trailing /* wildcard covers every stage, method, and path
// of the API so a single grant serves all future deployments.
func SourceARN(region, accountID, apiID string) string {
	return fmt.Sprintf("arn:aws:execute-api:%s:%s:%s/*", region, accountID, apiID)
}

// StatementID derives the permission statement id for an (API, function)
// pair. Deterministic so that repeated grants collide with the existing
// statement instead of accumulating duplicates.
func StatementID(apiID, functionName string) string {
	return fmt.Sprintf("apigateway-%s-%s", apiID, functionName)
}

// SplitPath normalizes a slash-delimited resource path into its non-empty
// segments. Leading and trailing slashes are ignored; "/" or "" yield nil.
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
