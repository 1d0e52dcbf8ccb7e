package services

import (
	"bytes"
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"crmhub/internal/apperrors"
	"crmhub/internal/models"
	"crmhub/internal/pdf"
)

var hundred = decimal.NewFromInt(100)

type StageSummary struct {
	Stage         models.Stage    `json:"stage"`
	Count         int             `json:"count"`
	TotalValue    decimal.Decimal `json:"total_value"`
	WeightedValue decimal.Decimal `json:"weighted_value"`
}

type PipelineSummary struct {
	Stages        []StageSummary  `json:"stages"`
	Count         int             `json:"count"`
	OpenCount     int             `json:"open_count"`
	TotalValue    decimal.Decimal `json:"total_value"`
	WeightedValue decimal.Decimal `json:"weighted_value"`
	Currencies    []string        `json:"currencies"`
}

// Summarize totals deals per stage. Weighted value is value * probability / 100; a deal
// without value or probability adds nothing to it. RFQ and Dropped rows appear only when used.
func Summarize(deals []*models.Deal) *PipelineSummary {
	order := append(slices.Clone(models.BoardStages), models.StageRFQ, models.StageDropped)
	rows := make(map[models.Stage]*StageSummary, len(order))
	for _, st := range order {
		rows[st] = &StageSummary{Stage: st}
	}

	sum := &PipelineSummary{Currencies: []string{}}
	for _, d := range deals {
		row, ok := rows[d.Stage]
		if !ok {
			continue
		}
		row.Count++
		sum.Count++
		if !d.Stage.Closed() {
			sum.OpenCount++
		}
		if d.Currency != "" && !slices.Contains(sum.Currencies, d.Currency) {
			sum.Currencies = append(sum.Currencies, d.Currency)
		}
		if d.TotalContractValue == nil {
			continue
		}
		v := *d.TotalContractValue
		row.TotalValue = row.TotalValue.Add(v)
		if d.Probability != nil {
			row.WeightedValue = row.WeightedValue.Add(v.Mul(decimal.NewFromInt(int64(*d.Probability))).Div(hundred))
		}
	}

	for _, st := range order {
		row := rows[st]
		if row.Count == 0 && (st == models.StageRFQ || st == models.StageDropped) {
			continue
		}
		sum.TotalValue = sum.TotalValue.Add(row.TotalValue)
		sum.WeightedValue = sum.WeightedValue.Add(row.WeightedValue)
		sum.Stages = append(sum.Stages, *row)
	}
	slices.Sort(sum.Currencies)
	return sum
}

type ReportService struct {
	Deals *DealService
	PDF   pdf.Generator
}

func NewReportService(deals *DealService, gen pdf.Generator) *ReportService {
	return &ReportService{Deals: deals, PDF: gen}
}

func (s *ReportService) Pipeline(ctx context.Context, actor Actor) (*PipelineSummary, error) {
	deals, err := s.Deals.All(ctx, actor)
	if err != nil {
		return nil, err
	}
	return Summarize(deals), nil
}

func (s *ReportService) PipelinePDF(ctx context.Context, actor Actor) ([]byte, error) {
	sum, err := s.Pipeline(ctx, actor)
	if err != nil {
		return nil, err
	}
	data := pdf.PipelineData{
		Title:       "Pipeline summary",
		GeneratedAt: timeNow(),
		Total: pdf.PipelineRow{
			Stage:    "Total",
			Count:    sum.Count,
			Value:    money(sum.TotalValue),
			Weighted: money(sum.WeightedValue),
		},
	}
	if !actor.SeesAll() {
		data.Owner = "your deals"
	}
	if len(sum.Currencies) > 1 {
		data.Currency = strings.Join(sum.Currencies, ", ")
	}
	for _, r := range sum.Stages {
		data.Rows = append(data.Rows, pdf.PipelineRow{
			Stage:    string(r.Stage),
			Count:    r.Count,
			Value:    money(r.TotalValue),
			Weighted: money(r.WeightedValue),
		})
	}

	var buf bytes.Buffer
	if err := s.PDF.PipelineReport(&buf, data); err != nil {
		return nil, apperrors.Internal("Failed to render report", err)
	}
	return buf.Bytes(), nil
}

// money renders zero as missing so the PDF shows the placeholder.
func money(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}
