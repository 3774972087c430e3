package cmd

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigateway/types"
)

// treeStub serves a fixed resource tree for list tests.
type treeStub struct {
	items []apigwtypes.Resource
}

func (s *treeStub) GetResources(ctx context.Context, params *apigateway.GetResourcesInput, optFns ...func(*apigateway.Options)) (*apigateway.GetResourcesOutput, error) {
	return &apigateway.GetResourcesOutput{Items: s.items}, nil
}

func sampleTree() *treeStub {
	return &treeStub{items: []apigwtypes.Resource{
		{Id: aws.String("root1"), Path: aws.String("/")},
		{Id: aws.String("res1"), Path: aws.String("/orders"), PathPart: aws.String("orders"),
			ResourceMethods: map[string]apigwtypes.Method{
				"GET":  {HttpMethod: aws.String("GET")},
				"POST": {HttpMethod: aws.String("POST")},
			}},
	}}
}

func TestListResourcesCommand(t *testing.T) {
	root, buf := newTestRoot(newListResourcesCommandWithDeps(&listResourcesDeps{
		getResources: sampleTree(),
	}))
	root.SetArgs([]string{"list-resources", "--api-id", "api1"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ID") || !strings.Contains(out, "PATH") || !strings.Contains(out, "METHODS") {
		t.Errorf("output missing table header:\n%s", out)
	}
	if !strings.Contains(out, "/orders") {
		t.Errorf("output missing resource path:\n%s", out)
	}
	if !strings.Contains(out, "GET,POST") {
		t.Errorf("output missing method list:\n%s", out)
	}
	// The bare root has no methods; shown as a dash.
	rootLine := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "root1") {
			rootLine = line
		}
	}
	if !strings.Contains(rootLine, "-") {
		t.Errorf("root line %q missing dash for no methods", rootLine)
	}
}

func TestListResourcesCommandJSON(t *testing.T) {
	root, buf := newTestRoot(newListResourcesCommandWithDeps(&listResourcesDeps{
		getResources: sampleTree(),
	}))
	root.SetArgs([]string{"list-resources", "--json", "--api-id", "api1"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got []resourceJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(got) != 2 {
		t.Fatalf("resources = %d, want 2", len(got))
	}
	if got[1].Path != "/orders" {
		t.Errorf("second path = %q, want /orders (sorted)", got[1].Path)
	}
	if len(got[1].Methods) != 2 {
		t.Errorf("methods = %v, want two verbs", got[1].Methods)
	}
}

func TestListResourcesCommandEmpty(t *testing.T) {
	root, buf := newTestRoot(newListResourcesCommandWithDeps(&listResourcesDeps{
		getResources: &treeStub{},
	}))
	root.SetArgs([]string{"list-resources", "--api-id", "api1"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No resources found.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestListResourcesCommandDefaultAPIID(t *testing.T) {
	root, _ := newTestRoot(newListResourcesCommandWithDeps(&listResourcesDeps{
		getResources: sampleTree(),
		defaultAPIID: "cfgapi",
	}))
	root.SetArgs([]string{"list-resources"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}

func TestListResourcesCommandNoAPIID(t *testing.T) {
	root, _ := newTestRoot(newListResourcesCommandWithDeps(&listResourcesDeps{
		getResources: sampleTree(),
	}))
	root.SetArgs([]string{"list-resources"})

	if err := root.Execute(); err == nil {
		t.Fatal("expected error when no api id is given anywhere")
	}
}
