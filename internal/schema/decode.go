package schema

import (
	"fmt"
	"net/mail"
	"net/url"

	"github.com/google/uuid"
)

// Kind names a decodable entity schema.
type Kind string

const (
	KindDocument Kind = "document"
)

// Entity is a fully-typed value produced by Decode. Wire re-serializes it to
// its wire-name JSON form as a generic mapping.
type Entity interface {
	Wire() (map[string]any, error)
}

// Decode validates raw (a generic decoded JSON value) against the named
// entity schema and returns the typed result. On failure the error is a
// *ValidationError listing every violation found, each located by a dotted
// and indexed field path.
func Decode(kind Kind, raw any) (Entity, error) {
	switch kind {
	case KindDocument:
		doc, err := DecodeDocument(raw)
		if err != nil {
			return nil, err
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}

// DecodeDocument validates raw against the Document schema. All violations
// are collected before returning; a partial Document is never returned
// alongside an error.
func DecodeDocument(raw any) (*Document, error) {
	errs := &violations{}
	doc := decodeDocument(raw, "", errs)
	if err := errs.err(); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeDocument(raw any, path string, errs *violations) *Document {
	o, ok := newObject(raw, path, errs)
	if !ok {
		return nil
	}

	doc := &Document{
		ID:                        o.str("id"),
		Name:                      o.str("name"),
		AutonumberingSequenceName: o.opaque("autonumbering_sequence_name"),
		DateCreated:               o.str("date_created"),
		DateModified:              o.str("date_modified"),
		DateCompleted:             o.optStr("date_completed"),
		ExpirationDate:            o.optStr("expiration_date"),
		Metadata:                  o.openMap("metadata"),
		Version:                   o.str("version"),
		Tags:                      o.strList("tags"),
		GrandTotal:                decodeGrandTotal(o, "grand_total"),
	}

	if v, ok := o.require("created_by"); ok {
		doc.CreatedBy = decodeUser(v, o.at("created_by"), errs)
	}
	if v, present := o.raw["template"]; present && v != nil {
		tpl := decodeTemplate(v, o.at("template"), errs)
		doc.Template = &tpl
	}
	if v, present := o.raw["sent_by"]; present && v != nil {
		u := decodeUser(v, o.at("sent_by"), errs)
		doc.SentBy = &u
	}

	if items, ok := o.items("tokens"); ok {
		doc.Tokens = make([]Token, 0, len(items))
		for i, item := range items {
			doc.Tokens = append(doc.Tokens, decodeToken(item, indexed(o.at("tokens"), i), errs))
		}
	}
	if items, ok := o.items("fields"); ok {
		doc.Fields = make([]DocumentField, 0, len(items))
		for i, item := range items {
			doc.Fields = append(doc.Fields, decodeDocumentField(item, indexed(o.at("fields"), i), errs))
		}
	}
	if items, ok := o.items("recipients"); ok {
		doc.Recipients = make([]Recipient, 0, len(items))
		for i, item := range items {
			doc.Recipients = append(doc.Recipients, decodeRecipient(item, indexed(o.at("recipients"), i), errs))
		}
	}
	if items, ok := o.items("linked_objects"); ok {
		doc.LinkedObjects = make([]LinkedObject, 0, len(items))
		for i, item := range items {
			doc.LinkedObjects = append(doc.LinkedObjects, decodeLinkedObject(item, indexed(o.at("linked_objects"), i), errs))
		}
	}

	if v, ok := o.require("pricing"); ok {
		doc.Pricing = decodePricing(v, o.at("pricing"), errs)
	}

	if v, ok := o.require("status"); ok {
		s, isStr := v.(string)
		switch {
		case !isStr:
			errs.addf(o.at("status"), "expected string, got %s", typeName(v))
		case !Status(s).Valid():
			errs.addf(o.at("status"), "%q is not a recognized document status", s)
		}
		doc.Status = Status(s)
	}

	return doc
}

func decodeUser(raw any, path string, errs *violations) User {
	o, ok := newObject(raw, path, errs)
	if !ok {
		return User{}
	}
	return User{
		ID:           o.str("id"),
		Email:        o.email("email"),
		FirstName:    o.str("first_name"),
		LastName:     o.str("last_name"),
		Avatar:       o.optURL("avatar"),
		MembershipID: o.str("membership_id"),
	}
}

func decodeTemplate(raw any, path string, errs *violations) Template {
	o, ok := newObject(raw, path, errs)
	if !ok {
		return Template{}
	}
	return Template{
		ID:   o.str("id"),
		Name: o.str("name"),
	}
}

func decodeToken(raw any, path string, errs *violations) Token {
	o, ok := newObject(raw, path, errs)
	if !ok {
		return Token{}
	}
	return Token{
		Name:  o.str("name"),
		Value: o.str("value"),
	}
}

func decodeDocumentField(raw any, path string, errs *violations) DocumentField {
	o, ok := newObject(raw, path, errs)
	if !ok {
		return DocumentField{}
	}
	f := DocumentField{
		FieldID:     o.str("field_id"),
		Name:        o.str("name"),
		Title:       o.str("title"),
		Placeholder: o.optStr("placeholder"),
		Assignee:    o.str("assignee"),
		Type:        o.str("type"),
		MergeField:  o.optStr("merge_field"),
	}

	if v, ok := o.require("uuid"); ok {
		s, isStr := v.(string)
		if !isStr {
			errs.addf(o.at("uuid"), "expected string, got %s", typeName(v))
		} else {
			f.UUID = s
			if _, err := uuid.Parse(s); err != nil {
				errs.addf(o.at("uuid"), "%q is not a valid UUID", s)
			}
		}
	}

	v, present := o.raw["value"]
	f.Value = decodeFieldValue(v, present, o.at("value"), errs)
	return f
}

func decodePricing(raw any, path string, errs *violations) Pricing {
	m, ok := raw.(map[string]any)
	if !ok {
		errs.addf(path, "expected object, got %s", typeName(raw))
		return Pricing{}
	}
	if len(m) == 0 {
		return Pricing{Empty: true}
	}

	// A non-empty object is only valid as populated pricing. Anything else
	// is a failed empty marker: the marker forbids extra fields.
	_, hasTables := m["tables"]
	_, hasTotal := m["total"]
	if !hasTables && !hasTotal {
		errs.add(path, "empty pricing marker must not contain extra fields")
		return Pricing{}
	}

	o := object{raw: m, path: path, errs: errs}
	p := Pricing{Total: o.str("total")}
	if items, ok := o.items("tables"); ok {
		p.Tables = make([]PricingTable, 0, len(items))
		for i, item := range items {
			p.Tables = append(p.Tables, decodePricingTable(item, indexed(o.at("tables"), i), errs))
		}
	}
	return p
}

func decodePricingTable(raw any, path string, errs *violations) PricingTable {
	o, ok := newObject(raw, path, errs)
	if !ok {
		return PricingTable{}
	}
	t := PricingTable{
		ID:                o.str("id"),
		Name:              o.str("name"),
		Total:             o.str("total"),
		IsIncludedInTotal: o.boolean("is_included_in_total"),
		Currency:          o.str("currency"),
	}
	if v, ok := o.require("summary"); ok {
		t.Summary = decodePricingTableSummary(v, o.at("summary"), errs)
	}
	if items, ok := o.items("items"); ok {
		t.Items = make([]PricingTableItem, 0, len(items))
		for i, item := range items {
			t.Items = append(t.Items, decodePricingTableItem(item, indexed(o.at("items"), i), errs))
		}
	}
	return t
}

func decodePricingTableSummary(raw any, path string, errs *violations) PricingTableSummary {
	o, ok := newObject(raw, path, errs)
	if !ok {
		return PricingTableSummary{}
	}
	return PricingTableSummary{
		Subtotal: o.str("subtotal"),
		Total:    o.str("total"),
		Discount: o.str("discount"),
		Tax:      o.str("tax"),
	}
}

func decodePricingAdjustment(raw any, path string, errs *violations) PricingAdjustment {
	o, ok := newObject(raw, path, errs)
	if !ok {
		return PricingAdjustment{}
	}
	return PricingAdjustment{
		Type:  o.str("type"),
		Value: o.str("value"),
	}
}

func decodePricingTableItemOptions(raw any, path string, errs *violations) PricingTableItemOptions {
	o, ok := newObject(raw, path, errs)
	if !ok {
		return PricingTableItemOptions{}
	}
	return PricingTableItemOptions{
		Optional:            o.boolean("optional"),
		OptionSelected:      o.boolean("option_selected"),
		MultichoiceEnabled:  o.boolean("multichoice_enabled"),
		MultichoiceSelected: o.boolean("multichoice_selected"),
	}
}

func decodePricingTableItem(raw any, path string, errs *violations) PricingTableItem {
	o, ok := newObject(raw, path, errs)
	if !ok {
		return PricingTableItem{}
	}
	item := PricingTableItem{
		ID:            o.str("id"),
		SKU:           o.str("sku"),
		Qty:           o.str("qty"),
		Name:          o.str("name"),
		Const:         o.str("const"),
		Price:         o.str("price"),
		Description:   o.str("description"),
		CustomFields:  o.openMap("custom_fields"),
		CustomColumns: o.openMap("custom_columns"),
		Subtotal:      o.str("subtotal"),
		SalePrice:     o.str("sale_price"),
		Taxes:         o.openMap("taxes"),
		Fees:          o.openMap("fees"),
		Discounts:     o.openMap("discounts"),
		MergedData:    o.openMap("merged_data"),
	}
	if v, ok := o.require("discount"); ok {
		item.Discount = decodePricingAdjustment(v, o.at("discount"), errs)
	}
	if v, ok := o.require("tax_first"); ok {
		item.TaxFirst = decodePricingAdjustment(v, o.at("tax_first"), errs)
	}
	if v, ok := o.require("tax_second"); ok {
		item.TaxSecond = decodePricingAdjustment(v, o.at("tax_second"), errs)
	}
	if v, ok := o.require("options"); ok {
		item.Options = decodePricingTableItemOptions(v, o.at("options"), errs)
	}
	return item
}

func decodeRecipient(raw any, path string, errs *violations) Recipient {
	o, ok := newObject(raw, path, errs)
	if !ok {
		return Recipient{}
	}
	r := Recipient{
		ID:            o.str("id"),
		ContactID:     o.str("contact_id"),
		RecipientType: o.str("recipient_type"),
		Roles:         o.strList("roles"),
		FirstName:     o.optStr("first_name"),
		LastName:      o.optStr("last_name"),
		SigningOrder:  o.opaque("signing_order"),
		HasCompleted:  o.boolean("has_completed"),
	}

	// shared_link is exactly a valid absolute URL or the empty string.
	link := o.str("shared_link")
	if link != "" && !isHTTPURL(link) {
		errs.addf(o.at("shared_link"), "%q is neither a valid URL nor empty", link)
	}
	r.SharedLink = link
	return r
}

func decodeGrandTotal(parent object, name string) GrandTotal {
	v, ok := parent.require(name)
	if !ok {
		return GrandTotal{}
	}
	o, ok := newObject(v, parent.at(name), parent.errs)
	if !ok {
		return GrandTotal{}
	}
	return GrandTotal{
		Amount:   o.str("amount"),
		Currency: o.str("currency"),
	}
}

func decodeLinkedObject(raw any, path string, errs *violations) LinkedObject {
	o, ok := newObject(raw, path, errs)
	if !ok {
		return LinkedObject{}
	}
	return LinkedObject{
		Provider:   o.str("provider"),
		EntityType: o.str("entity_type"),
		EntityID:   o.str("entity_id"),
		ID:         o.str("id"),
	}
}

// isEmail reports whether s is a bare, syntactically valid email address
// (no display name, no angle brackets).
func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// isHTTPURL reports whether s is an absolute http(s) URL.
func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
