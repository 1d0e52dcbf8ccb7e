package models

import "time"

// Contact is a person at a customer company.
type Contact struct {
	ID            string    `json:"id"`
	ContactName   string    `json:"contact_name"`
	CompanyName   string    `json:"company_name,omitempty"`
	Email         string    `json:"email,omitempty"`
	PhoneNo       string    `json:"phone_no,omitempty"`
	Position      string    `json:"position,omitempty"`
	ContactSource string    `json:"contact_source,omitempty"`
	ContactOwner  string    `json:"contact_owner,omitempty"`
	CreatedTime   time.Time `json:"created_time"`
	ModifiedTime  time.Time `json:"modified_time"`
}

var ContactFields = []string{
	"contact_name", "company_name", "email", "phone_no", "position",
	"contact_source", "contact_owner", "created_time", "modified_time",
}

func (c *Contact) RecordID() string { return c.ID }

func (c *Contact) FieldKeys() []string { return ContactFields }

func (c *Contact) Field(key string) any {
	switch key {
	case "id":
		return c.ID
	case "contact_name":
		return c.ContactName
	case "company_name":
		return c.CompanyName
	case "email":
		return c.Email
	case "phone_no":
		return c.PhoneNo
	case "position":
		return c.Position
	case "contact_source":
		return c.ContactSource
	case "contact_owner":
		return c.ContactOwner
	case "created_time":
		return c.CreatedTime
	case "modified_time":
		return c.ModifiedTime
	}
	return nil
}

func (c *Contact) SetField(key, value string) error {
	switch key {
	case "contact_name":
		c.ContactName = value
	case "company_name":
		c.CompanyName = value
	case "email":
		c.Email = value
	case "phone_no":
		c.PhoneNo = value
	case "position":
		c.Position = value
	case "contact_source":
		c.ContactSource = value
	case "contact_owner":
		c.ContactOwner = value
	default:
		return ErrUnknownField
	}
	return nil
}
