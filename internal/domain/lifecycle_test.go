package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLifecycleMarkDeleted(t *testing.T) {
	t.Parallel()
	actor := uuid.New()
	lc := NewLifecycle(actor)

	if lc.IsDeleted {
		t.Error("Expected new lifecycle to be active")
	}

	deletedAt := time.Now().UTC()
	deletedBy := uuid.New()
	if err := lc.MarkDeleted(deletedAt, deletedBy); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !lc.IsDeleted {
		t.Error("Expected lifecycle to be deleted")
	}
	if lc.DeletedAt == nil || !lc.DeletedAt.Equal(deletedAt) {
		t.Errorf("Expected DeletedAt %v, got %v", deletedAt, lc.DeletedAt)
	}
	if lc.DeletedBy == nil || *lc.DeletedBy != deletedBy {
		t.Errorf("Expected DeletedBy %s, got %v", deletedBy, lc.DeletedBy)
	}

	// Deleting twice must fail so the original metadata survives.
	if err := lc.MarkDeleted(time.Now().UTC(), uuid.New()); err != ErrAlreadyDeleted {
		t.Errorf("Expected ErrAlreadyDeleted, got %v", err)
	}
	if *lc.DeletedBy != deletedBy {
		t.Error("Expected original deletion metadata to be preserved")
	}
}

func TestLifecycleRestore(t *testing.T) {
	t.Parallel()
	lc := NewLifecycle(uuid.New())

	if err := lc.Restore(); err != ErrNotDeleted {
		t.Errorf("Expected ErrNotDeleted on active entity, got %v", err)
	}

	if err := lc.MarkDeleted(time.Now().UTC(), uuid.New()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := lc.Restore(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if lc.IsDeleted {
		t.Error("Expected lifecycle to be active after restore")
	}
	if lc.DeletedAt != nil || lc.DeletedBy != nil {
		t.Error("Expected deletion metadata to be cleared after restore")
	}
}

func TestTenantSameOrganization(t *testing.T) {
	t.Parallel()
	orgID := uuid.New()
	depID := uuid.New()

	a := Tenant{OrganizationID: orgID}
	b := Tenant{OrganizationID: orgID, DepartmentID: &depID}
	c := Tenant{OrganizationID: uuid.New()}

	if !a.SameOrganization(b) {
		t.Error("Expected tenants in the same organization to match")
	}
	if a.SameOrganization(c) {
		t.Error("Expected tenants in different organizations not to match")
	}
}
