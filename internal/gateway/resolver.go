package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"

	apigwaws "github.com/nicholasgasior/apigw/internal/aws"
)

// treePageLimit is the page size requested from GetResources. API Gateway
// caps pages at 500 items.
const treePageLimit = 500

// Resolver resolves slash-delimited resource paths to API Gateway resource
// ids, creating missing intermediate resources along the way.
type Resolver struct {
	getResources   apigwaws.GetResourcesAPI
	createResource apigwaws.CreateResourceAPI
}

// NewResolver creates a Resolver with the given API Gateway clients.
func NewResolver(getResources apigwaws.GetResourcesAPI, createResource apigwaws.CreateResourceAPI) *Resolver {
	return &Resolver{
		getResources:   getResources,
		createResource: createResource,
	}
}

// fetchTree retrieves the full resource tree for an API as a map from full
// resource path ("/", "/a", "/a/b", ...) to resource id, following
// pagination until exhausted.
func (r *Resolver) fetchTree(ctx context.Context, apiID string) (map[string]string, error) {
	tree := make(map[string]string)

	var position *string
	for {
		out, err := r.getResources.GetResources(ctx, &apigateway.GetResourcesInput{
			RestApiId: aws.String(apiID),
			Position:  position,
			Limit:     aws.Int32(treePageLimit),
		})
		if err != nil {
			if isNotFound(err) {
				return nil, &NotFoundError{Kind: "API", Name: apiID}
			}
			return nil, fmt.Errorf("apigateway get-resources: %w", err)
		}

		for _, item := range out.Items {
			if item.Id != nil && item.Path != nil {
				tree[*item.Path] = *item.Id
			}
		}

		if out.Position == nil {
			break
		}
		position = out.Position
	}

	return tree, nil
}

// ResolveOrCreate walks the given path segment by segment starting at the
// root resource, reusing existing resources and creating missing children,
// and returns the terminal resource id. An empty path resolves to the root.
//
// A ConflictException on create means another caller created the same
// segment concurrently; the tree is re-fetched and the segment re-resolved,
// so the race converges to the winner's id.
func (r *Resolver) ResolveOrCreate(ctx context.Context, apiID, path string) (string, error) {
	tree, err := r.fetchTree(ctx, apiID)
	if err != nil {
		return "", err
	}

	rootID, ok := tree["/"]
	if !ok {
		return "", &NotFoundError{Kind: "API", Name: apiID}
	}

	parentID := rootID
	fullPath := ""
	for _, segment := range SplitPath(path) {
		fullPath += "/" + segment

		if id, ok := tree[fullPath]; ok {
			parentID = id
			continue
		}

		out, err := r.createResource.CreateResource(ctx, &apigateway.CreateResourceInput{
			RestApiId: aws.String(apiID),
			ParentId:  aws.String(parentID),
			PathPart:  aws.String(segment),
		})
		if err != nil {
			if isConflict(err) {
				// Lost a duplicate-create race. The resource now exists;
				// re-fetch and adopt the winner's id.
				refreshed, ferr := r.fetchTree(ctx, apiID)
				if ferr != nil {
					return "", ferr
				}
				if id, ok := refreshed[fullPath]; ok {
					parentID = id
					tree = refreshed
					continue
				}
			}
			return "", fmt.Errorf("create resource %q at %s: %w", segment, fullPath, err)
		}
		parentID = aws.ToString(out.Id)
		tree[fullPath] = parentID
	}

	return parentID, nil
}

// LookupPath resolves an existing path to its resource id without creating
// anything. Returns NotFoundError when the path is not registered.
func (r *Resolver) LookupPath(ctx context.Context, apiID, path string) (string, error) {
	tree, err := r.fetchTree(ctx, apiID)
	if err != nil {
		return "", err
	}

	fullPath := "/" + strings.Join(SplitPath(path), "/")
	if id, ok := tree[fullPath]; ok {
		return id, nil
	}
	return "", &NotFoundError{Kind: "resource", Name: fullPath}
}
