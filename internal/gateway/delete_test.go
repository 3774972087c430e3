package gateway

import (
	"context"
	"errors"
	"testing"
)

func TestDeleteByID(t *testing.T) {
	fake := newFakeControlPlane()
	apiID := fake.addAPI("orders")
	resID := fake.addResource(apiID, "/a")
	fake.addResource(apiID, "/a/b")

	d := NewDeleter(fake, fake)
	if err := d.DeleteByID(context.Background(), apiID, resID); err != nil {
		t.Fatalf("DeleteByID() error = %v", err)
	}

	if _, ok := fake.resources[apiID]["/a"]; ok {
		t.Error("resource /a still exists")
	}
	if _, ok := fake.resources[apiID]["/a/b"]; ok {
		t.Error("child /a/b still exists after deleting its parent")
	}
}

func TestDeleteByPath(t *testing.T) {
	fake := newFakeControlPlane()
	apiID := fake.addAPI("orders")
	fake.addResource(apiID, "/a")

	d := NewDeleter(fake, fake)
	if err := d.DeleteByPath(context.Background(), apiID, "a"); err != nil {
		t.Fatalf("DeleteByPath() error = %v", err)
	}
	if _, ok := fake.resources[apiID]["/a"]; ok {
		t.Error("resource /a still exists")
	}
}

func TestDeleteByPathAndByIDTargetSameNode(t *testing.T) {
	fake := newFakeControlPlane()
	apiID := fake.addAPI("orders")
	resID := fake.addResource(apiID, "/a")

	d := NewDeleter(fake, fake)
	got, err := d.resolver.LookupPath(context.Background(), apiID, "a")
	if err != nil {
		t.Fatalf("LookupPath() error = %v", err)
	}
	if got != resID {
		t.Errorf("path resolves to %q, id form targets %q", got, resID)
	}
}

func TestDeleteByIDNotFound(t *testing.T) {
	fake := newFakeControlPlane()
	apiID := fake.addAPI("orders")

	d := NewDeleter(fake, fake)
	err := d.DeleteByID(context.Background(), apiID, "nope")

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Kind != "resource" {
		t.Errorf("Kind = %q, want %q", nf.Kind, "resource")
	}
}

func TestDeleteByPathNotFound(t *testing.T) {
	fake := newFakeControlPlane()
	apiID := fake.addAPI("orders")

	d := NewDeleter(fake, fake)
	err := d.DeleteByPath(context.Background(), apiID, "nope")

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
