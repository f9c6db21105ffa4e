package domain

import (
	"testing"

	apperrors "github.com/classbridge/classbridge/internal/errors"
	"github.com/classbridge/classbridge/internal/store"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestBinaryItemRecord(t *testing.T) {
	record := BinaryItemRecord{
		Identifier: "q1",
		Title:      "Question 1",
		Type:       intPtr(int(store.BinaryPassFail)),
		IsCorrect:  boolPtr(true),
	}

	item, err := record.Item()
	if err != nil {
		t.Fatalf("item: %v", err)
	}
	if item.Kind != store.ItemBinary || item.BinaryType != store.BinaryPassFail || !item.Correct {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestBinaryItemRecordRejectsMissingFields(t *testing.T) {
	records := []BinaryItemRecord{
		{Title: "Question 1", Type: intPtr(0), IsCorrect: boolPtr(true)},
		{Identifier: "q1", Type: intPtr(0), IsCorrect: boolPtr(true)},
		{Identifier: "q1", Title: "Question 1", IsCorrect: boolPtr(true)},
		{Identifier: "q1", Title: "Question 1", Type: intPtr(0)},
	}
	for i, record := range records {
		if _, err := record.Item(); !apperrors.IsCode(err, apperrors.CodeValidationFailure) {
			t.Fatalf("record %d: expected validation failure, got %v", i, err)
		}
	}
}

func TestBinaryItemRecordRejectsUnknownType(t *testing.T) {
	for _, typ := range []int{-1, 3, 42} {
		record := BinaryItemRecord{
			Identifier: "q1",
			Title:      "Question 1",
			Type:       intPtr(typ),
			IsCorrect:  boolPtr(false),
		}
		if _, err := record.Item(); !apperrors.IsCode(err, apperrors.CodeValidationFailure) {
			t.Fatalf("type %d: expected validation failure, got %v", typ, err)
		}
	}
}

func TestScoreItemRecord(t *testing.T) {
	record := ScoreItemRecord{
		Identifier: "total",
		Title:      "Total Score",
		Score:      floatPtr(0),
		MaxScore:   floatPtr(10),
		Primary:    true,
	}

	item, err := record.Item()
	if err != nil {
		t.Fatalf("item: %v", err)
	}
	if item.Kind != store.ItemScore || item.Score != 0 || item.MaxScore != 10 {
		t.Fatalf("unexpected item: %+v", item)
	}
	if !record.Primary {
		t.Fatal("expected primary flag to survive")
	}
}

func TestScoreItemRecordRejectsMissingScore(t *testing.T) {
	record := ScoreItemRecord{Identifier: "total", Title: "Total Score", MaxScore: floatPtr(10)}
	if _, err := record.Item(); !apperrors.IsCode(err, apperrors.CodeValidationFailure) {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestQuantityItemRecord(t *testing.T) {
	record := QuantityItemRecord{Identifier: "hints", Title: "Hints Used", Quantity: floatPtr(3)}

	item, err := record.Item()
	if err != nil {
		t.Fatalf("item: %v", err)
	}
	if item.Kind != store.ItemQuantity || item.Quantity != 3 {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestQuantityItemRecordRejectsMissingQuantity(t *testing.T) {
	record := QuantityItemRecord{Identifier: "hints", Title: "Hints Used"}
	if _, err := record.Item(); !apperrors.IsCode(err, apperrors.CodeValidationFailure) {
		t.Fatalf("expected validation failure, got %v", err)
	}
}
