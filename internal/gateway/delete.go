package gateway

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"

	apigwaws "github.com/nicholasgasior/apigw/internal/aws"
)

// Deleter removes resource nodes from an API's tree. Deleting a node also
// removes its children, per ordinary tree-delete semantics.
type Deleter struct {
	deleteResource apigwaws.DeleteResourceAPI
	resolver       *Resolver
}

// NewDeleter creates a Deleter with the given API Gateway clients. The
// getResources client is needed only for path-based deletion.
func NewDeleter(deleteResource apigwaws.DeleteResourceAPI, getResources apigwaws.GetResourcesAPI) *Deleter {
	return &Deleter{
		deleteResource: deleteResource,
		resolver:       NewResolver(getResources, nil),
	}
}

// DeleteByID removes the resource with the given id.
func (d *Deleter) DeleteByID(ctx context.Context, apiID, resourceID string) error {
	_, err := d.deleteResource.DeleteResource(ctx, &apigateway.DeleteResourceInput{
		RestApiId:  aws.String(apiID),
		ResourceId: aws.String(resourceID),
	})
	if err != nil {
		if isNotFound(err) {
			return &NotFoundError{Kind: "resource", Name: resourceID}
		}
		return fmt.Errorf("apigateway delete-resource %s: %w", resourceID, err)
	}
	return nil
}

// DeleteByPath resolves path to its resource id and deletes that node.
// Deleting by path and by the path's resolved id remove the same node.
func (d *Deleter) DeleteByPath(ctx context.Context, apiID, path string) error {
	resourceID, err := d.resolver.LookupPath(ctx, apiID, path)
	if err != nil {
		return err
	}
	return d.DeleteByID(ctx, apiID, resourceID)
}
