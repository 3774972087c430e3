package gateway

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestListResources(t *testing.T) {
	fake := newFakeControlPlane()
	apiID := fake.addAPI("orders")
	fake.addResource(apiID, "/b")
	fake.addResource(apiID, "/a")
	fake.resources[apiID]["/a"].methods["POST"] = ""
	fake.resources[apiID]["/a"].methods["GET"] = ""

	got, err := ListResources(context.Background(), fake, apiID)
	if err != nil {
		t.Fatalf("ListResources() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	paths := []string{got[0].Path, got[1].Path, got[2].Path}
	if !reflect.DeepEqual(paths, []string{"/", "/a", "/b"}) {
		t.Errorf("paths = %v, want sorted [/ /a /b]", paths)
	}
	if !reflect.DeepEqual(got[1].Methods, []string{"GET", "POST"}) {
		t.Errorf("methods for /a = %v, want [GET POST]", got[1].Methods)
	}
	if got[2].Methods != nil {
		t.Errorf("methods for /b = %v, want none", got[2].Methods)
	}
}

func TestListResourcesMissingAPI(t *testing.T) {
	fake := newFakeControlPlane()

	_, err := ListResources(context.Background(), fake, "missing")

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Kind != "API" {
		t.Errorf("Kind = %q, want %q", nf.Kind, "API")
	}
}
