package models_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"vitalsd/internal/models"
)

func TestNormalizeExactDecimalForm(t *testing.T) {
	// 98.6 has no exact binary representation; the decimal must come
	// from the canonical string form, not the float bits.
	got := models.Normalize(98.6)

	d, ok := got.(decimal.Decimal)
	if !ok {
		t.Fatalf("expected decimal.Decimal, got %T", got)
	}
	if d.String() != "98.6" {
		t.Errorf("expected 98.6, got %s", d.String())
	}
}

func TestNormalizeJSONNumberPreservesLiteral(t *testing.T) {
	got := models.Normalize(json.Number("100.40"))

	d, ok := got.(decimal.Decimal)
	if !ok {
		t.Fatalf("expected decimal.Decimal, got %T", got)
	}
	if !d.Equal(decimal.RequireFromString("100.40")) {
		t.Errorf("unexpected value: %s", d.String())
	}
}

func TestNormalizeRecursesContainers(t *testing.T) {
	in := map[string]any{
		"vitals": map[string]any{
			"heart_rate": 75.5,
		},
		"samples": []any{96.1, "text", 42},
		"note":    "ok",
	}

	got := models.Normalize(in).(map[string]any)

	vitals := got["vitals"].(map[string]any)
	if d := vitals["heart_rate"].(decimal.Decimal); d.String() != "75.5" {
		t.Errorf("nested map leaf not normalized: %s", d.String())
	}

	samples := got["samples"].([]any)
	if d := samples[0].(decimal.Decimal); d.String() != "96.1" {
		t.Errorf("sequence leaf not normalized: %s", d.String())
	}
	if samples[1] != "text" {
		t.Errorf("non-numeric sequence element changed: %v", samples[1])
	}
	if samples[2] != 42 {
		t.Errorf("non-float leaf changed: %v", samples[2])
	}
	if got["note"] != "ok" {
		t.Errorf("string leaf changed: %v", got["note"])
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := map[string]any{
		"heart_rate":  150.0,
		"temperature": json.Number("98.6"),
		"tags":        []any{1.25, "a"},
	}

	once := models.Normalize(in)
	twice := models.Normalize(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalization not idempotent:\nonce:  %#v\ntwice: %#v", once, twice)
	}
}

func TestNormalizeVitals(t *testing.T) {
	vitals := map[string]json.Number{
		"heart_rate":        "150",
		"temperature":       "98.6",
		"oxygen_saturation": "97",
	}

	got, err := models.NormalizeVitals(vitals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["temperature"].String() != "98.6" {
		t.Errorf("temperature not exact: %s", got["temperature"].String())
	}
	if got["heart_rate"].String() != "150" {
		t.Errorf("heart_rate: %s", got["heart_rate"].String())
	}
}

func TestNormalizeVitalsInvalidNumber(t *testing.T) {
	_, err := models.NormalizeVitals(map[string]json.Number{"heart_rate": "not-a-number"})
	if err == nil {
		t.Fatal("expected error for invalid numeric literal")
	}
}
