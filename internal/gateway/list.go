package gateway

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"

	apigwaws "github.com/nicholasgasior/apigw/internal/aws"
)

// Resource is one node of an API's resource tree as shown to the user.
type Resource struct {
	ID      string
	Path    string
	Methods []string // sorted HTTP verbs bound on this node
}

// ListResources returns the full resource tree of an API, sorted by path,
// following pagination until exhausted.
func ListResources(ctx context.Context, client apigwaws.GetResourcesAPI, apiID string) ([]Resource, error) {
	var resources []Resource

	var position *string
	for {
		out, err := client.GetResources(ctx, &apigateway.GetResourcesInput{
			RestApiId: aws.String(apiID),
			Position:  position,
			Limit:     aws.Int32(treePageLimit),
		})
		if err != nil {
			if isNotFound(err) {
				return nil, &NotFoundError{Kind: "API", Name: apiID}
			}
			return nil, err
		}

		for _, item := range out.Items {
			var methods []string
			for verb := range item.ResourceMethods {
				methods = append(methods, verb)
			}
			sort.Strings(methods)

			resources = append(resources, Resource{
				ID:      aws.ToString(item.Id),
				Path:    aws.ToString(item.Path),
				Methods: methods,
			})
		}

		if out.Position == nil {
			break
		}
		position = out.Position
	}

	sort.Slice(resources, func(i, j int) bool { return resources[i].Path < resources[j].Path })
	return resources, nil
}
