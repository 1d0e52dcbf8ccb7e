package models

import "time"

type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "New"
	LeadStatusContacted   LeadStatus = "Contacted"
	LeadStatusQualified   LeadStatus = "Qualified"
	LeadStatusUnqualified LeadStatus = "Unqualified"
	LeadStatusConverted   LeadStatus = "Converted"
	LeadStatusLost        LeadStatus = "Lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusUnqualified,
		LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

type Lead struct {
	ID            string     `json:"id"`
	LeadName      string     `json:"lead_name"`
	CompanyName   string     `json:"company_name,omitempty"`
	Position      string     `json:"position,omitempty"`
	Email         string     `json:"email,omitempty"`
	PhoneNo       string     `json:"phone_no,omitempty"`
	LinkedIn      string     `json:"linkedin,omitempty"`
	Website       string     `json:"website,omitempty"`
	ContactSource string     `json:"contact_source,omitempty"`
	Industry      string     `json:"industry,omitempty"`
	Country       string     `json:"country,omitempty"`
	LeadStatus    LeadStatus `json:"lead_status"`
	ContactOwner  string     `json:"contact_owner,omitempty"`
	CreatedBy     string     `json:"created_by,omitempty"`
	Description   string     `json:"description,omitempty"`
	CreatedTime   time.Time  `json:"created_time"`
	ModifiedTime  time.Time  `json:"modified_time"`
}

var LeadFields = []string{
	"lead_name", "company_name", "position", "email", "phone_no", "linkedin",
	"website", "contact_source", "industry", "country", "lead_status",
	"contact_owner", "created_by", "description", "created_time", "modified_time",
}

func (l *Lead) RecordID() string { return l.ID }

func (l *Lead) FieldKeys() []string { return LeadFields }

func (l *Lead) Field(key string) any {
	switch key {
	case "id":
		return l.ID
	case "lead_name":
		return l.LeadName
	case "company_name":
		return l.CompanyName
	case "position":
		return l.Position
	case "email":
		return l.Email
	case "phone_no":
		return l.PhoneNo
	case "linkedin":
		return l.LinkedIn
	case "website":
		return l.Website
	case "contact_source":
		return l.ContactSource
	case "industry":
		return l.Industry
	case "country":
		return l.Country
	case "lead_status":
		return string(l.LeadStatus)
	case "contact_owner":
		return l.ContactOwner
	case "created_by":
		return l.CreatedBy
	case "description":
		return l.Description
	case "created_time":
		return l.CreatedTime
	case "modified_time":
		return l.ModifiedTime
	}
	return nil
}

// SetField assigns a string field by key. Unknown and read-only keys return ErrUnknownField.
func (l *Lead) SetField(key, value string) error {
	switch key {
	case "lead_name":
		l.LeadName = value
	case "company_name":
		l.CompanyName = value
	case "position":
		l.Position = value
	case "email":
		l.Email = value
	case "phone_no":
		l.PhoneNo = value
	case "linkedin":
		l.LinkedIn = value
	case "website":
		l.Website = value
	case "contact_source":
		l.ContactSource = value
	case "industry":
		l.Industry = value
	case "country":
		l.Country = value
	case "lead_status":
		l.LeadStatus = LeadStatus(value)
	case "contact_owner":
		l.ContactOwner = value
	case "description":
		l.Description = value
	default:
		return ErrUnknownField
	}
	return nil
}
