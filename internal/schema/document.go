package schema

import "encoding/json"

// Status is a document lifecycle state. The set is closed: any other string
// fails validation rather than being accepted as-is.
type Status string

const (
	StatusDraft           Status = "document.draft"
	StatusSent            Status = "document.sent"
	StatusCompleted       Status = "document.completed"
	StatusUploaded        Status = "document.uploaded"
	StatusError           Status = "document.error"
	StatusViewed          Status = "document.viewed"
	StatusWaitingApproval Status = "document.waiting_approval"
	StatusApproved        Status = "document.approved"
	StatusRejected        Status = "document.rejected"
	StatusWaitingPay      Status = "document.waiting_pay"
	StatusPaid            Status = "document.paid"
	StatusVoided          Status = "document.voided"
	StatusDeclined        Status = "document.declined"
	StatusExternalReview  Status = "document.external_review"
)

var validStatuses = map[Status]struct{}{
	StatusDraft:           {},
	StatusSent:            {},
	StatusCompleted:       {},
	StatusUploaded:        {},
	StatusError:           {},
	StatusViewed:          {},
	StatusWaitingApproval: {},
	StatusApproved:        {},
	StatusRejected:        {},
	StatusWaitingPay:      {},
	StatusPaid:            {},
	StatusVoided:          {},
	StatusDeclined:        {},
	StatusExternalReview:  {},
}

// Valid reports whether s is one of the declared lifecycle states.
func (s Status) Valid() bool {
	_, ok := validStatuses[s]
	return ok
}

// User is a PandaDoc user. The wire field "id" maps to ID.
type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Avatar       *string `json:"avatar"`
	MembershipID string  `json:"membership_id"`
}

// Template references the document template a document was created from.
type Template struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Token is a name/value pair used for templating.
type Token struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DocumentField is a field carrying user-defined data. UUID must parse as a
// UUID; Value is polymorphic (see FieldValue).
type DocumentField struct {
	FieldID     string     `json:"field_id"`
	UUID        string     `json:"uuid"`
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Placeholder *string    `json:"placeholder"`
	Value       FieldValue `json:"value"`
	Assignee    string     `json:"assignee"`
	Type        string     `json:"type"`
	MergeField  *string    `json:"merge_field"`
}

// PricingTableSummary is the display summary of a pricing table.
type PricingTableSummary struct {
	Subtotal string `json:"subtotal"`
	Total    string `json:"total"`
	Discount string `json:"discount"`
	Tax      string `json:"tax"`
}

// PricingAdjustment is a typed value applied to a pricing table item, used
// for the item discount and both tax entries.
type PricingAdjustment struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// PricingTableItemOptions holds the selection flags of a pricing table item.
type PricingTableItemOptions struct {
	Optional            bool `json:"optional"`
	OptionSelected      bool `json:"option_selected"`
	MultichoiceEnabled  bool `json:"multichoice_enabled"`
	MultichoiceSelected bool `json:"multichoice_selected"`
}

// PricingTableItem is one line item in a pricing table. The open maps
// (custom fields, custom columns, taxes, fees, discounts, merged data) have
// no declared structure upstream and pass through unchanged.
type PricingTableItem struct {
	ID            string                  `json:"id"`
	SKU           string                  `json:"sku"`
	Qty           string                  `json:"qty"`
	Name          string                  `json:"name"`
	Const         string                  `json:"const"`
	Price         string                  `json:"price"`
	Description   string                  `json:"description"`
	CustomFields  map[string]any          `json:"custom_fields"`
	CustomColumns map[string]any          `json:"custom_columns"`
	Discount      PricingAdjustment       `json:"discount"`
	TaxFirst      PricingAdjustment       `json:"tax_first"`
	TaxSecond     PricingAdjustment       `json:"tax_second"`
	Subtotal      string                  `json:"subtotal"`
	Options       PricingTableItemOptions `json:"options"`
	SalePrice     string                  `json:"sale_price"`
	Taxes         map[string]any          `json:"taxes"`
	Fees          map[string]any          `json:"fees"`
	Discounts     map[string]any          `json:"discounts"`
	MergedData    map[string]any          `json:"merged_data"`
}

// PricingTable describes one pricing table in a document.
type PricingTable struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Total             string              `json:"total"`
	IsIncludedInTotal bool                `json:"is_included_in_total"`
	Summary           PricingTableSummary `json:"summary"`
	Items             []PricingTableItem  `json:"items"`
	Currency          string              `json:"currency"`
}

// Pricing is either a populated pricing structure or an explicitly empty
// marker. The marker is exactly the empty object: an object with stray keys
// in the pricing position fails validation.
type Pricing struct {
	Empty  bool
	Tables []PricingTable
	Total  string
}

// MarshalJSON emits {} for the empty marker, otherwise the populated form.
func (p Pricing) MarshalJSON() ([]byte, error) {
	if p.Empty {
		return []byte("{}"), nil
	}
	type wire struct {
		Tables []PricingTable `json:"tables"`
		Total  string         `json:"total"`
	}
	return json.Marshal(wire{Tables: p.Tables, Total: p.Total})
}

// Recipient is a document recipient. SharedLink is either a valid absolute
// URL or the empty string; SigningOrder has no declared shape upstream and
// passes through unchanged.
type Recipient struct {
	ID            string   `json:"id"`
	ContactID     string   `json:"contact_id"`
	RecipientType string   `json:"recipient_type"`
	Roles         []string `json:"roles"`
	FirstName     *string  `json:"first_name"`
	LastName      *string  `json:"last_name"`
	SigningOrder  any      `json:"signing_order"`
	SharedLink    string   `json:"shared_link"`
	HasCompleted  bool     `json:"has_completed"`
}

// GrandTotal is the document grand total.
type GrandTotal struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// LinkedObject is a cross-reference into an external system (e.g. a CRM).
type LinkedObject struct {
	Provider   string `json:"provider"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	ID         string `json:"id"`
}

// Document is one PandaDoc document at a point in time. Loosely based on the
// document details response: https://openapi.pandadoc.com/#/operations/detailsDocument
//
// Instances are built once per decode and not mutated afterwards. Fields of
// type any (autonumbering sequence name, metadata values, signing order,
// the open maps in pricing items) are opaque passthrough values.
type Document struct {
	ID                        string          `json:"id"`
	Name                      string          `json:"name"`
	AutonumberingSequenceName any             `json:"autonumbering_sequence_name"`
	DateCreated               string          `json:"date_created"`
	DateModified              string          `json:"date_modified"`
	DateCompleted             *string         `json:"date_completed"`
	CreatedBy                 User            `json:"created_by"`
	Template                  *Template       `json:"template"`
	ExpirationDate            *string         `json:"expiration_date"`
	Metadata                  map[string]any  `json:"metadata"`
	Tokens                    []Token         `json:"tokens"`
	Fields                    []DocumentField `json:"fields"`
	Pricing                   Pricing         `json:"pricing"`
	Version                   string          `json:"version"`
	Tags                      []string        `json:"tags"`
	Status                    Status          `json:"status"`
	Recipients                []Recipient     `json:"recipients"`
	SentBy                    *User           `json:"sent_by"`
	GrandTotal                GrandTotal      `json:"grand_total"`
	LinkedObjects             []LinkedObject  `json:"linked_objects"`
}
