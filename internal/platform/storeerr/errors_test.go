package storeerr

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestMark_KeepsMessageAndClass(t *testing.T) {
	t.Parallel()

	base := fmt.Errorf("insert players: %w", errors.New("pq: duplicate key value violates unique constraint"))
	marked := Mark(base, ErrDuplicateKey)

	if !IsDuplicateKey(marked) {
		t.Fatalf("expected duplicate key class")
	}
	if !IsIntegrity(marked) {
		t.Fatalf("expected integrity class")
	}
	if IsUnavailable(marked) {
		t.Fatalf("did not expect unavailable class")
	}
	if marked.Error() != base.Error() {
		t.Fatalf("unexpected message: got=%q want=%q", marked.Error(), base.Error())
	}
	if Mark(nil, ErrUnavailable) != nil {
		t.Fatalf("expected nil passthrough")
	}
}
