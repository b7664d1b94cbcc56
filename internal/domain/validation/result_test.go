package validation

import (
	"testing"

	"github.com/lodestone-ai/lodestone/internal/domain/document"
)

func doc(t *testing.T, id string, metadata map[string]any) document.Document {
	t.Helper()
	d, err := document.New(id, "model_chunk", "some text", metadata, nil)
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return d
}

func TestFingerprintDeterministic(t *testing.T) {
	a := doc(t, "c1", map[string]any{"model_id": "m1", "chunk_id": float64(1)})
	b := doc(t, "c1", map[string]any{"chunk_id": float64(1), "model_id": "m1"})

	fa, fb := Fingerprint(a), Fingerprint(b)
	if fa == "" {
		t.Fatal("empty fingerprint")
	}
	if fa != fb {
		t.Errorf("equal payloads digest differently: %s vs %s", fa, fb)
	}
}

func TestFingerprintSensitive(t *testing.T) {
	a := doc(t, "c1", map[string]any{"model_id": "m1"})
	b := doc(t, "c1", map[string]any{"model_id": "m2"})
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("different payloads digest equally")
	}
}

func TestNewValidCarriesFingerprint(t *testing.T) {
	d := doc(t, "c1", map[string]any{"model_id": "m1"})
	r := NewValid(d, "model_chunk_schema", "1.0.0")

	if !r.IsValid() {
		t.Error("IsValid = false")
	}
	if r.Fingerprint() != Fingerprint(d) {
		t.Error("fingerprint does not bind the normalized document")
	}
	if r.SchemaID() != "model_chunk_schema" || r.SchemaVersion() != "1.0.0" {
		t.Errorf("schema coords = %s:%s", r.SchemaID(), r.SchemaVersion())
	}
}

func TestNewInvalidSortsByPath(t *testing.T) {
	r := NewInvalid([]Violation{
		NewViolation("metadata.z", "string", "null"),
		NewViolation("metadata.a", "integer", "string"),
	})

	if r.IsValid() {
		t.Error("IsValid = true for invalid result")
	}
	vs := r.Violations()
	if len(vs) != 2 || vs[0].Path() != "metadata.a" || vs[1].Path() != "metadata.z" {
		t.Errorf("violations not sorted by path: %v", vs)
	}
}

func TestResultError(t *testing.T) {
	r := NewInvalid([]Violation{NewViolation("metadata.chunk_id", "integer", "absent")})
	want := "metadata.chunk_id: expected integer, got absent"
	if r.Error() != want {
		t.Errorf("Error() = %q, want %q", r.Error(), want)
	}
}
