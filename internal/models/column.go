package models

type View string

const (
	ViewDeals    View = "deals"
	ViewLeads    View = "leads"
	ViewContacts View = "contacts"
)

func (v View) Valid() bool {
	return v == ViewDeals || v == ViewLeads || v == ViewContacts
}

type Column struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Visible bool   `json:"visible"`
	Order   int    `json:"order"`
}

type ColumnConfig struct {
	View    View     `json:"view"`
	Columns []Column `json:"columns"`
	Custom  bool     `json:"custom"`
}

// VisibleFields returns the keys of visible columns in display order.
func (c *ColumnConfig) VisibleFields() []string {
	out := make([]string, 0, len(c.Columns))
	for _, col := range c.Columns {
		if col.Visible {
			out = append(out, col.Field)
		}
	}
	return out
}
