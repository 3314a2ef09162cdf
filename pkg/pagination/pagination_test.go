package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if NormalizeLimit(0) != DefaultLimit {
		t.Fatal("zero should normalize to default")
	}
	if NormalizeLimit(-5) != DefaultLimit {
		t.Fatal("negative should normalize to default")
	}
	if NormalizeLimit(MaxLimit+1) != MaxLimit {
		t.Fatal("oversized should cap at max")
	}
	if NormalizeLimit(10) != 10 {
		t.Fatal("valid limit should pass through")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Date(2025, time.June, 1, 12, 30, 0, 0, time.UTC), ID: uuid.New()}
	out, err := ParseCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("cursor mismatch: %+v vs %+v", out, in)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	if cursor, err := ParseCursor(""); err != nil || cursor != nil {
		t.Fatal("empty cursor should parse to nil")
	}
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}
