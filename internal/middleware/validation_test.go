package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type createPayload struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Price    float64 `json:"price" validate:"gte=0"`
}

func TestDecodeAndValidateAcceptsValidPayload(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Phone","quantity":2,"price":99.5}`))

	var payload createPayload
	if err := DecodeAndValidate(req, &payload); err != nil {
		t.Fatalf("expected valid payload to pass, got %v", err)
	}
	if payload.Name != "Phone" || payload.Quantity != 2 {
		t.Errorf("unexpected decoded payload: %+v", payload)
	}
}

func TestDecodeAndValidateRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))

	var payload createPayload
	if err := DecodeAndValidate(req, &payload); err == nil {
		t.Fatal("expected malformed JSON to fail")
	}
}

func TestDecodeAndValidateRejectsMissingRequiredField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":2}`))

	var payload createPayload
	err := DecodeAndValidate(req, &payload)
	if err == nil {
		t.Fatal("expected missing name to fail validation")
	}

	errors := FormatValidationErrors(err)
	if len(errors) != 1 {
		t.Fatalf("expected 1 validation error, got %d", len(errors))
	}
	if errors[0].Field != "Name" {
		t.Errorf("expected error on Name, got %s", errors[0].Field)
	}
	if errors[0].Message != "This field is required" {
		t.Errorf("unexpected message %q", errors[0].Message)
	}
}

func TestDecodeAndValidateRejectsNonPositiveQuantity(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Phone","quantity":0}`))

	var payload createPayload
	err := DecodeAndValidate(req, &payload)
	if err == nil {
		t.Fatal("expected zero quantity to fail validation")
	}

	errors := FormatValidationErrors(err)
	if len(errors) != 1 || errors[0].Field != "Quantity" {
		t.Fatalf("expected error on Quantity, got %v", errors)
	}
}

func TestFormatValidationErrorsIgnoresOtherErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))

	var payload createPayload
	err := DecodeAndValidate(req, &payload)
	if err == nil {
		t.Fatal("expected decode error")
	}

	if errors := FormatValidationErrors(err); len(errors) != 0 {
		t.Errorf("expected no validation errors for a decode failure, got %v", errors)
	}
}
