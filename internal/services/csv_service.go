package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"crmhub/internal/apperrors"
	"crmhub/internal/listing"
	"crmhub/internal/models"
)

const idHeader = "ID"

type ExportFile struct {
	Name string
	Data []byte
	Rows int
}

type ImportOptions struct {
	UpdateExisting bool
}

type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportResult struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Errors  []ImportRowError `json:"errors"`
}

type CSVService struct {
	Deals    *DealService
	Leads    *LeadService
	Contacts *ContactService
	Columns  *ColumnService
	Audit    *AuditService
}

func NewCSVService(deals *DealService, leads *LeadService, contacts *ContactService, columns *ColumnService, audit *AuditService) *CSVService {
	return &CSVService{Deals: deals, Leads: leads, Contacts: contacts, Columns: columns, Audit: audit}
}

// csvView binds one list view to its record service.
type csvView struct {
	nameField string
	writable  func(field string) bool
	load      func(ctx context.Context, actor Actor) ([]listing.Record, error)
	exists    func(ctx context.Context, actor Actor, id string) bool
	create    func(ctx context.Context, actor Actor, fields map[string]string) error
	update    func(ctx context.Context, actor Actor, id string, fields map[string]string) error
}

func records[T listing.Record](in []T) []listing.Record {
	out := make([]listing.Record, len(in))
	for i, r := range in {
		out[i] = r
	}
	return out
}

func (s *CSVService) view(v models.View) (*csvView, error) {
	switch v {
	case models.ViewDeals:
		return &csvView{
			nameField: "deal_name",
			writable:  settable((&models.Deal{}).SetField),
			load: func(ctx context.Context, a Actor) ([]listing.Record, error) {
				all, err := s.Deals.All(ctx, a)
				return records(all), err
			},
			exists: func(ctx context.Context, a Actor, id string) bool {
				_, err := s.Deals.Get(ctx, a, id)
				return err == nil
			},
			create: func(ctx context.Context, a Actor, fields map[string]string) error {
				d := &models.Deal{}
				for k, val := range fields {
					if err := d.SetField(k, val); err != nil {
						return fieldError(k, err)
					}
				}
				_, err := s.Deals.Create(ctx, a, d)
				return err
			},
			update: func(ctx context.Context, a Actor, id string, fields map[string]string) error {
				_, err := s.Deals.UpdateFields(ctx, a, id, fields)
				return err
			},
		}, nil
	case models.ViewLeads:
		return &csvView{
			nameField: "lead_name",
			writable:  settable((&models.Lead{}).SetField),
			load: func(ctx context.Context, a Actor) ([]listing.Record, error) {
				all, err := s.Leads.All(ctx, a)
				return records(all), err
			},
			exists: func(ctx context.Context, a Actor, id string) bool {
				_, err := s.Leads.Get(ctx, a, id)
				return err == nil
			},
			create: func(ctx context.Context, a Actor, fields map[string]string) error {
				l := &models.Lead{}
				for k, val := range fields {
					if err := l.SetField(k, strings.TrimSpace(val)); err != nil {
						return fieldError(k, err)
					}
				}
				_, err := s.Leads.Create(ctx, a, l)
				return err
			},
			update: func(ctx context.Context, a Actor, id string, fields map[string]string) error {
				_, err := s.Leads.Update(ctx, a, id, fields)
				return err
			},
		}, nil
	case models.ViewContacts:
		return &csvView{
			nameField: "contact_name",
			writable:  settable((&models.Contact{}).SetField),
			load: func(ctx context.Context, a Actor) ([]listing.Record, error) {
				all, err := s.Contacts.All(ctx, a)
				return records(all), err
			},
			exists: func(ctx context.Context, a Actor, id string) bool {
				_, err := s.Contacts.Get(ctx, a, id)
				return err == nil
			},
			create: func(ctx context.Context, a Actor, fields map[string]string) error {
				c := &models.Contact{}
				for k, val := range fields {
					if err := c.SetField(k, strings.TrimSpace(val)); err != nil {
						return fieldError(k, err)
					}
				}
				_, err := s.Contacts.Create(ctx, a, c)
				return err
			},
			update: func(ctx context.Context, a Actor, id string, fields map[string]string) error {
				_, err := s.Contacts.Update(ctx, a, id, fields)
				return err
			},
		}, nil
	}
	return nil, apperrors.NotFound("View")
}

// settable reports the fields a record accepts from text; read-only
// columns such as created_at are skipped on import.
func settable(set func(key, value string) error) func(string) bool {
	return func(field string) bool {
		return !errors.Is(set(field, ""), models.ErrUnknownField)
	}
}

// Export renders the view as CSV: an ID column, then the caller's visible columns in order.
// A nil ids exports everything q matches; a non-nil ids exports only those records.
func (s *CSVService) Export(ctx context.Context, actor Actor, view models.View, ids []string, q listing.Query) (*ExportFile, error) {
	v, err := s.view(view)
	if err != nil {
		return nil, err
	}
	if ids != nil && len(compact(ids)) == 0 {
		return nil, apperrors.Validation("No records selected for export").
			WithDescription("No %s selected for export.", view)
	}
	cfg, err := s.Columns.Get(ctx, actor.UserID, view)
	if err != nil {
		return nil, err
	}
	all, err := v.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	rows := listing.Derive(all, q)
	name := string(view) + ".csv"
	if ids != nil {
		rows = listing.Pick(rows, listing.NewSelection(compact(ids)...))
		name = "selected_" + name
	}

	var cols []models.Column
	for _, c := range cfg.Columns {
		if c.Visible {
			cols = append(cols, c)
		}
	}

	var buf bytes.Buffer
	header := make([]string, 0, len(cols)+1)
	header = append(header, idHeader)
	for _, c := range cols {
		header = append(header, c.Label)
	}
	writeQuoted(&buf, header)
	for _, r := range rows {
		line := make([]string, 0, len(cols)+1)
		line = append(line, r.RecordID())
		for _, c := range cols {
			text, _ := listing.Text(r.Field(c.Field))
			line = append(line, text)
		}
		writeQuoted(&buf, line)
	}

	s.Audit.Record(ctx, actor.UserID, models.AuditRecordsExported, string(view), "", map[string]any{
		"count":    len(rows),
		"selected": ids != nil,
	})
	return &ExportFile{Name: name, Data: buf.Bytes(), Rows: len(rows)}, nil
}

// writeQuoted writes one CSV line with every field quoted.
func writeQuoted(w *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteString("\r\n")
}

// Import reads a CSV whose header names columns by label or field key, case-insensitively.
// Bad rows are reported with their line number; good rows are still imported.
func (s *CSVService) Import(ctx context.Context, actor Actor, view models.View, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	v, err := s.view(view)
	if err != nil {
		return nil, err
	}
	cfg, err := s.Columns.Get(ctx, actor.UserID, view)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.Validation("The file is empty")
	}
	if err != nil {
		return nil, apperrors.Validation("Invalid CSV file").WithDescription("%v", err)
	}
	mapping := mapHeader(header, view, cfg.Columns, v.writable)
	canCreate := mapping.has(v.nameField)
	if !canCreate && mapping.idCol < 0 {
		return nil, apperrors.Validation("Missing required column").
			WithDescription("The file needs a %q column", v.nameField)
	}

	res := &ImportResult{Errors: []ImportRowError{}}
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			res.Errors = append(res.Errors, ImportRowError{Row: line, Error: err.Error()})
			continue
		}
		if blank(rec) {
			continue
		}
		id, fields := mapping.row(rec)
		if opts.UpdateExisting && id != "" && v.exists(ctx, actor, id) {
			if err := v.update(ctx, actor, id, fields); err != nil {
				res.Errors = append(res.Errors, ImportRowError{Row: line, Error: rowError(err)})
				continue
			}
			res.Updated++
			continue
		}
		if !canCreate {
			res.Errors = append(res.Errors, ImportRowError{
				Row:   line,
				Error: fmt.Sprintf("Missing required column: new records need a %q column", v.nameField),
			})
			continue
		}
		if err := v.create(ctx, actor, fields); err != nil {
			res.Errors = append(res.Errors, ImportRowError{Row: line, Error: rowError(err)})
			continue
		}
		res.Created++
	}

	s.Audit.Record(ctx, actor.UserID, models.AuditRecordsImported, string(view), "", map[string]any{
		"created": res.Created,
		"updated": res.Updated,
		"failed":  len(res.Errors),
	})
	return res, nil
}

type headerMapping struct {
	idCol  int
	fields map[int]string
}

// mapHeader resolves header cells to writable field keys; unknown and read-only columns are ignored.
func mapHeader(header []string, view models.View, cols []models.Column, writable func(string) bool) headerMapping {
	lookup := map[string]string{}
	for _, c := range DefaultColumns(view) {
		lookup[strings.ToLower(c.Label)] = c.Field
		lookup[strings.ToLower(c.Field)] = c.Field
	}
	for _, c := range cols {
		lookup[strings.ToLower(c.Label)] = c.Field
	}

	m := headerMapping{idCol: -1, fields: map[int]string{}}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if key == "id" {
			m.idCol = i
			continue
		}
		if field, ok := lookup[key]; ok && writable(field) {
			m.fields[i] = field
		}
	}
	return m
}

func (m headerMapping) has(field string) bool {
	for _, f := range m.fields {
		if f == field {
			return true
		}
	}
	return false
}

func (m headerMapping) row(rec []string) (string, map[string]string) {
	var id string
	if m.idCol >= 0 && m.idCol < len(rec) {
		id = strings.TrimSpace(rec[m.idCol])
	}
	fields := make(map[string]string, len(m.fields))
	for i, f := range m.fields {
		if i < len(rec) {
			fields[f] = rec[i]
		}
	}
	return id, fields
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func rowError(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		if appErr.Description != "" {
			return fmt.Sprintf("%s: %s", appErr.Message, appErr.Description)
		}
		return appErr.Message
	}
	return err.Error()
}
