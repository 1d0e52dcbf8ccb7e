package models

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

type Stage string

const (
	StageLead        Stage = "Lead"
	StageQualified   Stage = "Qualified"
	StageDiscussions Stage = "Discussions"
	StageOffered     Stage = "Offered"
	StageWon         Stage = "Won"
	StageLost        Stage = "Lost"

	// Alternate-view stages. Valid on a record, but the board has no column for them.
	StageRFQ     Stage = "RFQ"
	StageDropped Stage = "Dropped"
)

// BoardStages are the kanban columns, left to right.
var BoardStages = []Stage{
	StageLead,
	StageQualified,
	StageDiscussions,
	StageOffered,
	StageWon,
	StageLost,
}

func (s Stage) Valid() bool {
	switch s {
	case StageLead, StageQualified, StageDiscussions, StageOffered, StageWon, StageLost,
		StageRFQ, StageDropped:
		return true
	}
	return false
}

// Closed reports whether the stage ends the pipeline.
func (s Stage) Closed() bool {
	return s == StageWon || s == StageLost || s == StageDropped
}

type Deal struct {
	ID                  string           `json:"id"`
	DealName            string           `json:"deal_name"`
	ProjectName         string           `json:"project_name,omitempty"`
	CustomerName        string           `json:"customer_name,omitempty"`
	LeadName            string           `json:"lead_name,omitempty"`
	LeadOwner           string           `json:"lead_owner,omitempty"`
	Stage               Stage            `json:"stage"`
	TotalContractValue  *decimal.Decimal `json:"total_contract_value,omitempty"`
	TotalRevenue        *decimal.Decimal `json:"total_revenue,omitempty"`
	Currency            string           `json:"currency,omitempty"`
	Probability         *int             `json:"probability,omitempty"`
	Priority            int              `json:"priority,omitempty"`
	Region              string           `json:"region,omitempty"`
	ExpectedClosingDate *time.Time       `json:"expected_closing_date,omitempty"`
	StartDate           *time.Time       `json:"start_date,omitempty"`
	EndDate             *time.Time       `json:"end_date,omitempty"`
	ProposalDueDate     *time.Time       `json:"proposal_due_date,omitempty"`
	ProjectDuration     *int             `json:"project_duration,omitempty"`
	OwnerID             string           `json:"owner_id"`
	CreatedAt           time.Time        `json:"created_at"`
	ModifiedAt          time.Time        `json:"modified_at"`
}

// DealFields lists every field key a deal exposes to search, sort and CSV.
var DealFields = []string{
	"deal_name", "project_name", "customer_name", "lead_name", "lead_owner",
	"stage", "total_contract_value", "total_revenue", "currency", "probability",
	"priority", "region", "expected_closing_date", "start_date", "end_date",
	"proposal_due_date", "project_duration", "created_at", "modified_at",
}

func (d *Deal) RecordID() string { return d.ID }

func (d *Deal) FieldKeys() []string { return DealFields }

// Field returns the value behind a field key, or nil when the field is unset.
func (d *Deal) Field(key string) any {
	switch key {
	case "id":
		return d.ID
	case "deal_name":
		return d.DealName
	case "project_name":
		return d.ProjectName
	case "customer_name":
		return d.CustomerName
	case "lead_name":
		return d.LeadName
	case "lead_owner":
		return d.LeadOwner
	case "stage":
		return string(d.Stage)
	case "total_contract_value":
		return decimalOrNil(d.TotalContractValue)
	case "total_revenue":
		return decimalOrNil(d.TotalRevenue)
	case "currency":
		return d.Currency
	case "probability":
		return intOrNil(d.Probability)
	case "priority":
		if d.Priority == 0 {
			return nil
		}
		return d.Priority
	case "region":
		return d.Region
	case "expected_closing_date":
		return timeOrNil(d.ExpectedClosingDate)
	case "start_date":
		return timeOrNil(d.StartDate)
	case "end_date":
		return timeOrNil(d.EndDate)
	case "proposal_due_date":
		return timeOrNil(d.ProposalDueDate)
	case "project_duration":
		return intOrNil(d.ProjectDuration)
	case "owner_id":
		return d.OwnerID
	case "created_at":
		return d.CreatedAt
	case "modified_at":
		return d.ModifiedAt
	}
	return nil
}

// ErrUnknownField is returned by SetField for keys that are unknown or not writable.
var ErrUnknownField = errors.New("unknown field")

// SetField parses a textual value into the field behind key. An empty value clears optional fields.
func (d *Deal) SetField(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "deal_name":
		d.DealName = value
	case "project_name":
		d.ProjectName = value
	case "customer_name":
		d.CustomerName = value
	case "lead_name":
		d.LeadName = value
	case "lead_owner":
		d.LeadOwner = value
	case "stage":
		d.Stage = Stage(value)
	case "currency":
		d.Currency = value
	case "region":
		d.Region = value
	case "total_contract_value":
		return parseDecimal(value, &d.TotalContractValue)
	case "total_revenue":
		return parseDecimal(value, &d.TotalRevenue)
	case "probability":
		return parseInt(value, &d.Probability)
	case "project_duration":
		return parseInt(value, &d.ProjectDuration)
	case "priority":
		var p *int
		if err := parseInt(value, &p); err != nil {
			return err
		}
		d.Priority = 0
		if p != nil {
			d.Priority = *p
		}
	case "expected_closing_date":
		return parseDate(value, &d.ExpectedClosingDate)
	case "start_date":
		return parseDate(value, &d.StartDate)
	case "end_date":
		return parseDate(value, &d.EndDate)
	case "proposal_due_date":
		return parseDate(value, &d.ProposalDueDate)
	default:
		return ErrUnknownField
	}
	return nil
}

// DealPatch carries a partial update. Absent fields are left untouched; an
// explicit JSON null clears an optional field.
type DealPatch struct {
	DealName            *string          `json:"deal_name"`
	ProjectName         *string          `json:"project_name"`
	CustomerName        *string          `json:"customer_name"`
	LeadName            *string          `json:"lead_name"`
	LeadOwner           *string          `json:"lead_owner"`
	Stage               *Stage           `json:"stage"`
	TotalContractValue  *decimal.Decimal `json:"total_contract_value"`
	TotalRevenue        *decimal.Decimal `json:"total_revenue"`
	Currency            *string          `json:"currency"`
	Probability         *int             `json:"probability"`
	Priority            *int             `json:"priority"`
	Region              *string          `json:"region"`
	ExpectedClosingDate *time.Time       `json:"expected_closing_date"`
	StartDate           *time.Time       `json:"start_date"`
	EndDate             *time.Time       `json:"end_date"`
	ProposalDueDate     *time.Time       `json:"proposal_due_date"`
	ProjectDuration     *int             `json:"project_duration"`
	OwnerID             *string          `json:"owner_id"`

	cleared map[string]bool
}

// clearable fields accept null. deal_name, stage and owner_id are required.
var clearable = map[string]bool{
	"project_name": true, "customer_name": true, "lead_name": true, "lead_owner": true,
	"total_contract_value": true, "total_revenue": true, "currency": true,
	"probability": true, "priority": true, "region": true,
	"expected_closing_date": true, "start_date": true, "end_date": true,
	"proposal_due_date": true, "project_duration": true,
}

func (p *DealPatch) UnmarshalJSON(data []byte) error {
	type plain DealPatch
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = DealPatch(v)
	for key, msg := range raw {
		if clearable[key] && string(bytes.TrimSpace(msg)) == "null" {
			p.Clear(key)
		}
	}
	return nil
}

// Clear marks an optional field to be emptied by Apply. Unknown or required keys are ignored.
func (p *DealPatch) Clear(key string) {
	if !clearable[key] {
		return
	}
	if p.cleared == nil {
		p.cleared = map[string]bool{}
	}
	p.cleared[key] = true
}

func (p *DealPatch) Clears(key string) bool { return p.cleared[key] }

func (p *DealPatch) Apply(d *Deal) {
	for key := range p.cleared {
		// SetField with "" empties every clearable field.
		_ = d.SetField(key, "")
	}
	if p.DealName != nil {
		d.DealName = *p.DealName
	}
	if p.ProjectName != nil {
		d.ProjectName = *p.ProjectName
	}
	if p.CustomerName != nil {
		d.CustomerName = *p.CustomerName
	}
	if p.LeadName != nil {
		d.LeadName = *p.LeadName
	}
	if p.LeadOwner != nil {
		d.LeadOwner = *p.LeadOwner
	}
	if p.Stage != nil {
		d.Stage = *p.Stage
	}
	if p.TotalContractValue != nil {
		v := *p.TotalContractValue
		d.TotalContractValue = &v
	}
	if p.TotalRevenue != nil {
		v := *p.TotalRevenue
		d.TotalRevenue = &v
	}
	if p.Currency != nil {
		d.Currency = *p.Currency
	}
	if p.Probability != nil {
		v := *p.Probability
		d.Probability = &v
	}
	if p.Priority != nil {
		d.Priority = *p.Priority
	}
	if p.Region != nil {
		d.Region = *p.Region
	}
	if p.ExpectedClosingDate != nil {
		d.ExpectedClosingDate = p.ExpectedClosingDate
	}
	if p.StartDate != nil {
		d.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		d.EndDate = p.EndDate
	}
	if p.ProposalDueDate != nil {
		d.ProposalDueDate = p.ProposalDueDate
	}
	if p.ProjectDuration != nil {
		v := *p.ProjectDuration
		d.ProjectDuration = &v
	}
	if p.OwnerID != nil {
		d.OwnerID = *p.OwnerID
	}
}

func decimalOrNil(v *decimal.Decimal) any {
	if v == nil {
		return nil
	}
	return *v
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func timeOrNil(v *time.Time) any {
	if v == nil || v.IsZero() {
		return nil
	}
	return *v
}

func parseDecimal(value string, dst **decimal.Decimal) error {
	if value == "" {
		*dst = nil
		return nil
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
	if err != nil {
		return fmt.Errorf("invalid number %q", value)
	}
	*dst = &v
	return nil
}

func parseInt(value string, dst **int) error {
	if value == "" {
		*dst = nil
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
	if err != nil {
		return fmt.Errorf("invalid integer %q", value)
	}
	*dst = &v
	return nil
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "02.01.2006", "01/02/2006"}

func parseDate(value string, dst **time.Time) error {
	if value == "" {
		*dst = nil
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			*dst = &t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", value)
}
