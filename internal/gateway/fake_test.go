package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// fakeResource is one node in the fake control plane's resource tree.
type fakeResource struct {
	id       string
	parentID string
	pathPart string
	path     string
	methods  map[string]string // verb -> integration URI ("" = method without integration)
}

// fakeControlPlane is an in-memory stand-in for the API Gateway and Lambda
// control planes, tracking call counts so tests can assert idempotence.
type fakeControlPlane struct {
	apis      map[string]string               // api id -> name
	apiOrder  []string                        // creation order for stable paging
	resources map[string]map[string]*fakeResource // api id -> path -> node
	functions map[string]string               // function name -> ARN
	grants    map[string]bool                 // statement id -> granted
	stages    []string                        // one entry per deployment

	nextID int

	createRestApiCalls  int
	createResourceCalls int
	putMethodCalls      int
	putIntegrationCalls int
	addPermissionCalls  int

	// failOn maps an operation name to an error returned instead of
	// executing it. Operation names: GetRestApis, CreateRestApi,
	// GetResources, CreateResource, GetMethod, PutMethod, PutIntegration,
	// CreateDeployment, GetFunction, AddPermission, DeleteResource.
	failOn map[string]error
}

func newFakeControlPlane() *fakeControlPlane {
	return &fakeControlPlane{
		apis:      make(map[string]string),
		resources: make(map[string]map[string]*fakeResource),
		functions: make(map[string]string),
		grants:    make(map[string]bool),
		failOn:    make(map[string]error),
	}
}

func (f *fakeControlPlane) genID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%04d", prefix, f.nextID)
}

// addAPI seeds an API with a root resource and returns its id.
func (f *fakeControlPlane) addAPI(name string) string {
	id := f.genID("api")
	f.apis[id] = name
	f.apiOrder = append(f.apiOrder, id)
	f.resources[id] = map[string]*fakeResource{
		"/": {id: f.genID("res"), path: "/", methods: map[string]string{}},
	}
	return id
}

// addResource seeds a resource at path (parents must already exist).
func (f *fakeControlPlane) addResource(apiID, path string) string {
	parentPath := "/"
	if idx := strings.LastIndex(path, "/"); idx > 0 {
		parentPath = path[:idx]
	}
	parent := f.resources[apiID][parentPath]
	node := &fakeResource{
		id:       f.genID("res"),
		parentID: parent.id,
		pathPart: path[strings.LastIndex(path, "/")+1:],
		path:     path,
		methods:  map[string]string{},
	}
	f.resources[apiID][path] = node
	return node.id
}

func (f *fakeControlPlane) fail(op string) error {
	if err, ok := f.failOn[op]; ok {
		return err
	}
	return nil
}

func notFound(msg string) error {
	return &apigwtypes.NotFoundException{Message: aws.String(msg)}
}

func conflict(msg string) error {
	return &apigwtypes.ConflictException{Message: aws.String(msg)}
}

// ---------------------------------------------------------------------------
// API Gateway operations
// ---------------------------------------------------------------------------

func (f *fakeControlPlane) GetRestApis(ctx context.Context, params *apigateway.GetRestApisInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error) {
	if err := f.fail("GetRestApis"); err != nil {
		return nil, err
	}
	out := &apigateway.GetRestApisOutput{}
	for _, id := range f.apiOrder {
		out.Items = append(out.Items, apigwtypes.RestApi{
			Id:   aws.String(id),
			Name: aws.String(f.apis[id]),
		})
	}
	return out, nil
}

func (f *fakeControlPlane) CreateRestApi(ctx context.Context, params *apigateway.CreateRestApiInput, optFns ...func(*apigateway.Options)) (*apigateway.CreateRestApiOutput, error) {
	if err := f.fail("CreateRestApi"); err != nil {
		return nil, err
	}
	f.createRestApiCalls++
	id := f.addAPI(aws.ToString(params.Name))
	return &apigateway.CreateRestApiOutput{Id: aws.String(id)}, nil
}

func (f *fakeControlPlane) GetResources(ctx context.Context, params *apigateway.GetResourcesInput, optFns ...func(*apigateway.Options)) (*apigateway.GetResourcesOutput, error) {
	if err := f.fail("GetResources"); err != nil {
		return nil, err
	}
	tree, ok := f.resources[aws.ToString(params.RestApiId)]
	if !ok {
		return nil, notFound("Invalid API identifier")
	}

	paths := make([]string, 0, len(tree))
	for p := range tree {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := &apigateway.GetResourcesOutput{}
	for _, p := range paths {
		node := tree[p]
		methods := map[string]apigwtypes.Method{}
		for verb := range node.methods {
			methods[verb] = apigwtypes.Method{HttpMethod: aws.String(verb)}
		}
		item := apigwtypes.Resource{
			Id:   aws.String(node.id),
			Path: aws.String(node.path),
		}
		if node.pathPart != "" {
			item.PathPart = aws.String(node.pathPart)
		}
		if node.parentID != "" {
			item.ParentId = aws.String(node.parentID)
		}
		if len(methods) > 0 {
			item.ResourceMethods = methods
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (f *fakeControlPlane) CreateResource(ctx context.Context, params *apigateway.CreateResourceInput, optFns ...func(*apigateway.Options)) (*apigateway.CreateResourceOutput, error) {
	if err := f.fail("CreateResource"); err != nil {
		return nil, err
	}
	f.createResourceCalls++

	apiID := aws.ToString(params.RestApiId)
	tree, ok := f.resources[apiID]
	if !ok {
		return nil, notFound("Invalid API identifier")
	}

	var parent *fakeResource
	for _, node := range tree {
		if node.id == aws.ToString(params.ParentId) {
			parent = node
			break
		}
	}
	if parent == nil {
		return nil, notFound("Invalid parent identifier")
	}

	path := parent.path
	if path == "/" {
		path = ""
	}
	path += "/" + aws.ToString(params.PathPart)

	if _, exists := tree[path]; exists {
		return nil, conflict("Resource already exists")
	}

	node := &fakeResource{
		id:       f.genID("res"),
		parentID: parent.id,
		pathPart: aws.ToString(params.PathPart),
		path:     path,
		methods:  map[string]string{},
	}
	tree[path] = node
	return &apigateway.CreateResourceOutput{Id: aws.String(node.id)}, nil
}

func (f *fakeControlPlane) findResourceByID(apiID, resourceID string) *fakeResource {
	for _, node := range f.resources[apiID] {
		if node.id == resourceID {
			return node
		}
	}
	return nil
}

func (f *fakeControlPlane) GetMethod(ctx context.Context, params *apigateway.GetMethodInput, optFns ...func(*apigateway.Options)) (*apigateway.GetMethodOutput, error) {
	if err := f.fail("GetMethod"); err != nil {
		return nil, err
	}
	node := f.findResourceByID(aws.ToString(params.RestApiId), aws.ToString(params.ResourceId))
	if node == nil {
		return nil, notFound("Invalid resource identifier")
	}
	verb := aws.ToString(params.HttpMethod)
	if _, ok := node.methods[verb]; !ok {
		return nil, notFound("Invalid method")
	}
	return &apigateway.GetMethodOutput{HttpMethod: aws.String(verb)}, nil
}

func (f *fakeControlPlane) PutMethod(ctx context.Context, params *apigateway.PutMethodInput, optFns ...func(*apigateway.Options)) (*apigateway.PutMethodOutput, error) {
	if err := f.fail("PutMethod"); err != nil {
		return nil, err
	}
	f.putMethodCalls++
	node := f.findResourceByID(aws.ToString(params.RestApiId), aws.ToString(params.ResourceId))
	if node == nil {
		return nil, notFound("Invalid resource identifier")
	}
	node.methods[aws.ToString(params.HttpMethod)] = ""
	return &apigateway.PutMethodOutput{}, nil
}

func (f *fakeControlPlane) PutIntegration(ctx context.Context, params *apigateway.PutIntegrationInput, optFns ...func(*apigateway.Options)) (*apigateway.PutIntegrationOutput, error) {
	if err := f.fail("PutIntegration"); err != nil {
		return nil, err
	}
	f.putIntegrationCalls++
	node := f.findResourceByID(aws.ToString(params.RestApiId), aws.ToString(params.ResourceId))
	if node == nil {
		return nil, notFound("Invalid resource identifier")
	}
	node.methods[aws.ToString(params.HttpMethod)] = aws.ToString(params.Uri)
	return &apigateway.PutIntegrationOutput{}, nil
}

func (f *fakeControlPlane) CreateDeployment(ctx context.Context, params *apigateway.CreateDeploymentInput, optFns ...func(*apigateway.Options)) (*apigateway.CreateDeploymentOutput, error) {
	if err := f.fail("CreateDeployment"); err != nil {
		return nil, err
	}
	if _, ok := f.apis[aws.ToString(params.RestApiId)]; !ok {
		return nil, notFound("Invalid API identifier")
	}
	f.stages = append(f.stages, aws.ToString(params.StageName))
	return &apigateway.CreateDeploymentOutput{Id: aws.String(f.genID("dep"))}, nil
}

func (f *fakeControlPlane) DeleteResource(ctx context.Context, params *apigateway.DeleteResourceInput, optFns ...func(*apigateway.Options)) (*apigateway.DeleteResourceOutput, error) {
	if err := f.fail("DeleteResource"); err != nil {
		return nil, err
	}
	apiID := aws.ToString(params.RestApiId)
	node := f.findResourceByID(apiID, aws.ToString(params.ResourceId))
	if node == nil {
		return nil, notFound("Invalid resource identifier")
	}
	for p := range f.resources[apiID] {
		if p == node.path || strings.HasPrefix(p, node.path+"/") {
			delete(f.resources[apiID], p)
		}
	}
	return &apigateway.DeleteResourceOutput{}, nil
}

// ---------------------------------------------------------------------------
// Lambda operations
// ---------------------------------------------------------------------------

func (f *fakeControlPlane) GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error) {
	if err := f.fail("GetFunction"); err != nil {
		return nil, err
	}
	arn, ok := f.functions[aws.ToString(params.FunctionName)]
	if !ok {
		return nil, &lambdatypes.ResourceNotFoundException{Message: aws.String("Function not found")}
	}
	return &lambda.GetFunctionOutput{
		Configuration: &lambdatypes.FunctionConfiguration{FunctionArn: aws.String(arn)},
	}, nil
}

func (f *fakeControlPlane) AddPermission(ctx context.Context, params *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error) {
	if err := f.fail("AddPermission"); err != nil {
		return nil, err
	}
	f.addPermissionCalls++
	sid := aws.ToString(params.StatementId)
	if f.grants[sid] {
		return nil, &lambdatypes.ResourceConflictException{Message: aws.String("The statement id already exists")}
	}
	f.grants[sid] = true
	return &lambda.AddPermissionOutput{}, nil
}
