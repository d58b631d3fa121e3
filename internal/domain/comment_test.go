package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewTaskComment(t *testing.T) {
	t.Parallel()
	tenant := testTenant()

	comment, err := NewTaskComment(uuid.New(), ModelTask, "Looks good", tenant, uuid.New())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if comment.ParentModel != ModelTask {
		t.Errorf("Expected parent model %s, got %s", ModelTask, comment.ParentModel)
	}

	// Replies hang off other comments.
	reply, err := NewTaskComment(comment.ID, ModelTaskComment, "Agreed", tenant, uuid.New())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if reply.ParentID != comment.ID {
		t.Errorf("Expected parent ID %s, got %s", comment.ID, reply.ParentID)
	}

	// Attachments cannot host comments.
	if _, err := NewTaskComment(uuid.New(), ModelAttachment, "nope", tenant, uuid.New()); err != ErrInvalidCommentHost {
		t.Errorf("Expected ErrInvalidCommentHost, got %v", err)
	}

	if _, err := NewTaskComment(uuid.New(), ModelTask, "", tenant, uuid.New()); err != ErrEmptyCommentBody {
		t.Errorf("Expected ErrEmptyCommentBody, got %v", err)
	}
}

func TestNewAttachment(t *testing.T) {
	t.Parallel()
	tenant := testTenant()

	att, err := NewAttachment(uuid.New(), ModelTaskActivity, "report.pdf", tenant, uuid.New())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if att.ParentModel != ModelTaskActivity {
		t.Errorf("Expected parent model %s, got %s", ModelTaskActivity, att.ParentModel)
	}

	if _, err := NewAttachment(uuid.New(), ModelUser, "report.pdf", tenant, uuid.New()); err != ErrInvalidAttachmentHost {
		t.Errorf("Expected ErrInvalidAttachmentHost, got %v", err)
	}
}
