package schema

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

const validDocumentJSON = `{
  "id": "msFYActMfJHqNTKH8YSvF1",
  "name": "Sample Contract",
  "autonumbering_sequence_name": null,
  "date_created": "2021-02-04T16:49:26.759000Z",
  "date_modified": "2021-02-04T16:55:09.512000Z",
  "date_completed": null,
  "created_by": {
    "id": "FyXaS4SlT2FY7uLPqKD9f2",
    "email": "john.appleseed@example.com",
    "first_name": "John",
    "last_name": "Appleseed",
    "avatar": null,
    "membership_id": "mem-1"
  },
  "template": {
    "id": "tpl-1",
    "name": "Contract Template"
  },
  "expiration_date": null,
  "metadata": {"salesforce_opp_id": "006100000abcdef"},
  "tokens": [
    {"name": "Client.Name", "value": "Acme Inc"}
  ],
  "fields": [
    {
      "field_id": "Signature1",
      "uuid": "aff4a3a4-4dbe-4b14-9d3a-0a2d3f8ca6ae",
      "name": "Signature1",
      "title": "Signature",
      "placeholder": null,
      "value": {},
      "assignee": "jane.doe@example.com",
      "type": "signature",
      "merge_field": null
    }
  ],
  "pricing": {
    "tables": [
      {
        "id": "pt-1",
        "name": "Pricing Table 1",
        "total": "100.00",
        "is_included_in_total": true,
        "summary": {"subtotal": "100.00", "total": "100.00", "discount": "0.00", "tax": "0.00"},
        "items": [
          {
            "id": "pti-1",
            "sku": "SKU-1",
            "qty": "1",
            "name": "Widget",
            "const": "widget",
            "price": "100.00",
            "description": "A widget",
            "custom_fields": {},
            "custom_columns": {"Images": "", "Cost": "", "Subtotal": ""},
            "discount": {"type": "percent", "value": "0"},
            "tax_first": {"type": "percent", "value": "0"},
            "tax_second": {"type": "percent", "value": "0"},
            "subtotal": "100.00",
            "options": {
              "optional": false,
              "option_selected": false,
              "multichoice_enabled": false,
              "multichoice_selected": false
            },
            "sale_price": "100.00",
            "taxes": {},
            "fees": {},
            "discounts": {},
            "merged_data": {"Name": "Widget"}
          }
        ],
        "currency": "USD"
      }
    ],
    "total": "100.00"
  },
  "version": "2",
  "tags": ["sales", "q1"],
  "status": "document.draft",
  "recipients": [
    {
      "id": "rcp-1",
      "contact_id": "contact-1",
      "recipient_type": "signer",
      "roles": ["signer"],
      "first_name": "Jane",
      "last_name": "Doe",
      "signing_order": null,
      "shared_link": "https://app.pandadoc.com/s/abcdef",
      "has_completed": false
    }
  ],
  "sent_by": null,
  "grand_total": {"amount": "100.00", "currency": "USD"},
  "linked_objects": [
    {"provider": "hubspot", "entity_type": "deal", "entity_id": "42", "id": "lo-1"}
  ]
}`

// validDocument returns a fresh decoded copy of the fixture so tests can
// mutate it freely.
func validDocument(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(validDocumentJSON), &m); err != nil {
		t.Fatalf("fixture does not parse: %v", err)
	}
	return m
}

// hasViolation reports whether err is a *ValidationError containing a
// violation at path.
func hasViolation(err error, path string) bool {
	verr, ok := err.(*ValidationError)
	if !ok {
		return false
	}
	for _, v := range verr.Violations {
		if v.Path == path {
			return true
		}
	}
	return false
}

func TestDecodeDocumentValid(t *testing.T) {
	doc, err := DecodeDocument(validDocument(t))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}

	if doc.ID != "msFYActMfJHqNTKH8YSvF1" {
		t.Errorf("ID = %q", doc.ID)
	}
	if doc.Status != StatusDraft {
		t.Errorf("Status = %q, want %q", doc.Status, StatusDraft)
	}
	if doc.Template == nil || doc.Template.Name != "Contract Template" {
		t.Errorf("Template = %+v", doc.Template)
	}
	if doc.SentBy != nil {
		t.Errorf("SentBy = %+v, want nil", doc.SentBy)
	}
	if doc.DateCompleted != nil {
		t.Errorf("DateCompleted = %v, want nil", doc.DateCompleted)
	}
	if len(doc.Fields) != 1 {
		t.Fatalf("Fields len = %d", len(doc.Fields))
	}
	if kind := doc.Fields[0].Value.Kind(); kind != ValueObject {
		t.Errorf("field value kind = %v, want ValueObject", kind)
	}
	if doc.Pricing.Empty {
		t.Error("Pricing.Empty = true, want populated")
	}
	if len(doc.Pricing.Tables) != 1 || len(doc.Pricing.Tables[0].Items) != 1 {
		t.Fatalf("Pricing tables = %+v", doc.Pricing.Tables)
	}
	if doc.Pricing.Tables[0].Items[0].Discount.Type != "percent" {
		t.Errorf("item discount = %+v", doc.Pricing.Tables[0].Items[0].Discount)
	}
	if len(doc.Recipients) != 1 || doc.Recipients[0].SharedLink != "https://app.pandadoc.com/s/abcdef" {
		t.Errorf("Recipients = %+v", doc.Recipients)
	}
	if doc.GrandTotal.Currency != "USD" {
		t.Errorf("GrandTotal = %+v", doc.GrandTotal)
	}
}

func TestDecodeDocumentRoundTrip(t *testing.T) {
	input := validDocument(t)
	doc, err := DecodeDocument(input)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}

	wire, err := doc.Wire()
	if err != nil {
		t.Fatalf("Wire: %v", err)
	}

	if !reflect.DeepEqual(wire, input) {
		for k := range input {
			if !reflect.DeepEqual(wire[k], input[k]) {
				t.Errorf("field %q: wire %#v != input %#v", k, wire[k], input[k])
			}
		}
		t.Fatal("round trip mismatch")
	}
}

func TestDecodeDocumentUnknownFieldsIgnored(t *testing.T) {
	input := validDocument(t)
	input["some_future_field"] = map[string]any{"nested": true}

	doc, err := DecodeDocument(input)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}

	wire, err := doc.Wire()
	if err != nil {
		t.Fatalf("Wire: %v", err)
	}
	if _, ok := wire["some_future_field"]; ok {
		t.Error("unknown input field survived re-serialization")
	}
}

func TestDecodeDocumentMissingRequired(t *testing.T) {
	for _, field := range []string{"id", "status", "name", "grand_total", "created_by"} {
		t.Run(field, func(t *testing.T) {
			input := validDocument(t)
			delete(input, field)

			_, err := DecodeDocument(input)
			if err == nil {
				t.Fatalf("missing %q accepted", field)
			}
			if !hasViolation(err, field) {
				t.Errorf("error %v has no violation at path %q", err, field)
			}
		})
	}
}

func TestDecodeDocumentStatusEnum(t *testing.T) {
	valid := []string{
		"document.draft", "document.sent", "document.completed",
		"document.uploaded", "document.error", "document.viewed",
		"document.waiting_approval", "document.approved", "document.rejected",
		"document.waiting_pay", "document.paid", "document.voided",
		"document.declined", "document.external_review",
	}
	for _, s := range valid {
		input := validDocument(t)
		input["status"] = s
		if _, err := DecodeDocument(input); err != nil {
			t.Errorf("status %q rejected: %v", s, err)
		}
	}

	for _, s := range []string{"document.bogus", "draft", "", "DOCUMENT.DRAFT"} {
		input := validDocument(t)
		input["status"] = s
		_, err := DecodeDocument(input)
		if err == nil {
			t.Errorf("status %q accepted", s)
			continue
		}
		if !hasViolation(err, "status") {
			t.Errorf("status %q: error %v has no violation at path status", s, err)
		}
	}
}

func TestRecipientSharedLink(t *testing.T) {
	tests := []struct {
		name    string
		link    string
		wantErr bool
	}{
		{name: "empty string", link: ""},
		{name: "https url", link: "https://app.pandadoc.com/s/abc"},
		{name: "http url", link: "http://example.com/x"},
		{name: "not a url", link: "not-a-url", wantErr: true},
		{name: "relative path", link: "/s/abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validDocument(t)
			recipient := input["recipients"].([]any)[0].(map[string]any)
			recipient["shared_link"] = tt.link

			_, err := DecodeDocument(input)
			if tt.wantErr {
				if !hasViolation(err, "recipients[0].shared_link") {
					t.Errorf("link %q: want violation at recipients[0].shared_link, got %v", tt.link, err)
				}
				return
			}
			if err != nil {
				t.Errorf("link %q rejected: %v", tt.link, err)
			}
		})
	}
}

func TestDocumentFieldValueUnion(t *testing.T) {
	accepted := []struct {
		name  string
		value any
		kind  ValueKind
	}{
		{name: "string", value: "2021-02-04", kind: ValueString},
		{name: "boolean", value: true, kind: ValueBool},
		{name: "object", value: map[string]any{}, kind: ValueObject},
		{name: "null", value: nil, kind: ValueAbsent},
	}
	for _, tt := range accepted {
		t.Run(tt.name, func(t *testing.T) {
			input := validDocument(t)
			field := input["fields"].([]any)[0].(map[string]any)
			field["value"] = tt.value

			doc, err := DecodeDocument(input)
			if err != nil {
				t.Fatalf("value %v rejected: %v", tt.value, err)
			}
			if got := doc.Fields[0].Value.Kind(); got != tt.kind {
				t.Errorf("kind = %v, want %v", got, tt.kind)
			}
		})
	}

	rejected := []any{float64(5), []any{"x"}}
	for _, v := range rejected {
		input := validDocument(t)
		field := input["fields"].([]any)[0].(map[string]any)
		field["value"] = v

		_, err := DecodeDocument(input)
		if !hasViolation(err, "fields[0].value") {
			t.Errorf("value %#v: want violation at fields[0].value, got %v", v, err)
		}
	}
}

func TestPricingEmptyMarker(t *testing.T) {
	t.Run("empty object is the no-pricing marker", func(t *testing.T) {
		input := validDocument(t)
		input["pricing"] = map[string]any{}

		doc, err := DecodeDocument(input)
		if err != nil {
			t.Fatalf("DecodeDocument: %v", err)
		}
		if !doc.Pricing.Empty {
			t.Error("Pricing.Empty = false")
		}

		wire, err := doc.Wire()
		if err != nil {
			t.Fatalf("Wire: %v", err)
		}
		pricing, ok := wire["pricing"].(map[string]any)
		if !ok || len(pricing) != 0 {
			t.Errorf("pricing serialized as %#v, want {}", wire["pricing"])
		}
	})

	t.Run("stray keys are forbidden", func(t *testing.T) {
		input := validDocument(t)
		input["pricing"] = map[string]any{"foo": float64(1)}

		_, err := DecodeDocument(input)
		if !hasViolation(err, "pricing") {
			t.Errorf("want violation at pricing, got %v", err)
		}
	})
}

func TestUserEmailValidation(t *testing.T) {
	input := validDocument(t)
	creator := input["created_by"].(map[string]any)
	creator["email"] = "not-an-email"

	_, err := DecodeDocument(input)
	if !hasViolation(err, "created_by.email") {
		t.Errorf("want violation at created_by.email, got %v", err)
	}
}

func TestDocumentFieldUUIDValidation(t *testing.T) {
	input := validDocument(t)
	field := input["fields"].([]any)[0].(map[string]any)
	field["uuid"] = "not-a-uuid"

	_, err := DecodeDocument(input)
	if !hasViolation(err, "fields[0].uuid") {
		t.Errorf("want violation at fields[0].uuid, got %v", err)
	}
}

func TestStrictScalarTyping(t *testing.T) {
	// A JSON number is never coerced into a declared string.
	input := validDocument(t)
	input["version"] = float64(2)

	_, err := DecodeDocument(input)
	if !hasViolation(err, "version") {
		t.Errorf("want violation at version, got %v", err)
	}
}

func TestCollectAllViolations(t *testing.T) {
	input := validDocument(t)
	delete(input, "id")
	input["status"] = "document.bogus"
	input["created_by"].(map[string]any)["email"] = "nope"
	input["recipients"].([]any)[0].(map[string]any)["shared_link"] = "not-a-url"

	_, err := DecodeDocument(input)
	if err == nil {
		t.Fatal("broken document accepted")
	}
	for _, path := range []string{"id", "status", "created_by.email", "recipients[0].shared_link"} {
		if !hasViolation(err, path) {
			t.Errorf("error %v has no violation at %q", err, path)
		}
	}
}

func TestNestedViolationPath(t *testing.T) {
	input := validDocument(t)
	item := input["pricing"].(map[string]any)["tables"].([]any)[0].(map[string]any)["items"].([]any)[0].(map[string]any)
	item["discount"].(map[string]any)["type"] = float64(7)

	_, err := DecodeDocument(input)
	want := "pricing.tables[0].items[0].discount.type"
	if !hasViolation(err, want) {
		t.Errorf("want violation at %q, got %v", want, err)
	}
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	for _, raw := range []any{nil, "x", float64(1), []any{}} {
		if _, err := DecodeDocument(raw); err == nil {
			t.Errorf("DecodeDocument(%#v) accepted", raw)
		}
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := Decode(Kind("bogus"), map[string]any{})
	if err == nil || !strings.Contains(err.Error(), "unknown entity kind") {
		t.Errorf("err = %v", err)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Violations: []Violation{
		{Path: "id", Reason: "required field is missing"},
		{Path: "status", Reason: `"x" is not a recognized document status`},
	}}
	msg := err.Error()
	if !strings.Contains(msg, "id: required field is missing") {
		t.Errorf("message %q missing first violation", msg)
	}
	if !strings.Contains(msg, "status:") {
		t.Errorf("message %q missing second violation", msg)
	}
}
