package guard

import (
	"reflect"
	"testing"
)

func TestAuthorize(t *testing.T) {
	claims := Claims{Permissions: []string{"reports:read", "reports:pending:view"}}

	if err := Authorize(claims, "reports:read"); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if err := Authorize(claims, "reports:monitoring"); err != ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := Authorize(Claims{}, "reports:read"); err != ErrPermissionDenied {
		t.Fatalf("expected deny on empty permission set, got %v", err)
	}
}

func sampleRecord() Record {
	return Record{
		"referenceCode": "FB-001",
		"amountDue":     1000.0,
		"student": Record{
			"firstName":     "Amina",
			"guardianEmail": "a@b.com",
			"guardianPhone": "+256700000001",
		},
	}
}

func TestMaskNestedField(t *testing.T) {
	masked := Mask([]Record{sampleRecord()}, []string{"student.guardianEmail"})

	student, ok := masked[0]["student"].(Record)
	if !ok {
		t.Fatal("expected nested student record")
	}
	if _, present := student["guardianEmail"]; present {
		t.Fatal("guardianEmail should have been stripped")
	}
	if student["guardianPhone"] != "+256700000001" {
		t.Fatal("guardianPhone should survive masking")
	}
	if masked[0]["referenceCode"] != "FB-001" {
		t.Fatal("unmasked fields should survive")
	}
}

func TestMaskRootField(t *testing.T) {
	masked := Mask([]Record{sampleRecord()}, []string{"student"})
	if _, present := masked[0]["student"]; present {
		t.Fatal("bare root mask should delete the whole key")
	}
}

func TestMaskEmptySetIsNoop(t *testing.T) {
	records := []Record{sampleRecord()}
	masked := Mask(records, nil)
	if !reflect.DeepEqual(records, masked) {
		t.Fatal("empty mask set must be a no-op")
	}
}

func TestMaskDoesNotMutateInput(t *testing.T) {
	record := sampleRecord()
	Mask([]Record{record}, []string{"student.guardianEmail", "amountDue"})

	if _, present := record["amountDue"]; !present {
		t.Fatal("input record was mutated")
	}
	student := record["student"].(Record)
	if student["guardianEmail"] != "a@b.com" {
		t.Fatal("nested input record was mutated")
	}
}

func TestMaskIdempotent(t *testing.T) {
	masks := []string{"student.guardianEmail"}
	once := Mask([]Record{sampleRecord()}, masks)
	twice := Mask(once, masks)
	if !reflect.DeepEqual(once, twice) {
		t.Fatal("masking must be idempotent")
	}
}

func TestMaskMissingPathsIgnored(t *testing.T) {
	masked := Mask([]Record{sampleRecord()}, []string{"student.missing", "ghost.field", "ghost"})
	student := masked[0]["student"].(Record)
	if student["guardianEmail"] != "a@b.com" {
		t.Fatal("unrelated masks must leave fields intact")
	}
}
