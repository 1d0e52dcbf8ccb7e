package services

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"crmhub/internal/apperrors"
	"crmhub/internal/listing"
	"crmhub/internal/models"
)

// BoardSearchFields are the card fields the board search box looks at.
var BoardSearchFields = []string{"deal_name", "project_name", "customer_name", "lead_owner"}

type BoardColumn struct {
	Stage      models.Stage    `json:"stage"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
	Deals      []*models.Deal  `json:"deals"`
}

type Board struct {
	Columns []BoardColumn `json:"columns"`
	// Unplaced counts matching deals whose stage has no column (RFQ, Dropped).
	Unplaced int `json:"unplaced"`
	Total    int `json:"total"`
}

// Column returns the column for stage, or nil.
func (b *Board) Column(stage models.Stage) *BoardColumn {
	for i := range b.Columns {
		if b.Columns[i].Stage == stage {
			return &b.Columns[i]
		}
	}
	return nil
}

// BuildBoard groups the deals matching term into the fixed stage columns, keeping input order within a column.
func BuildBoard(deals []*models.Deal, term string) *Board {
	matched := listing.Search(deals, term, BoardSearchFields)

	b := &Board{Columns: make([]BoardColumn, len(models.BoardStages))}
	index := make(map[models.Stage]int, len(models.BoardStages))
	for i, st := range models.BoardStages {
		b.Columns[i] = BoardColumn{Stage: st, Deals: []*models.Deal{}}
		index[st] = i
	}
	for _, d := range matched {
		i, ok := index[d.Stage]
		if !ok {
			b.Unplaced++
			continue
		}
		col := &b.Columns[i]
		col.Deals = append(col.Deals, d)
		col.Count++
		if d.TotalContractValue != nil {
			col.TotalValue = col.TotalValue.Add(*d.TotalContractValue)
		}
	}
	b.Total = len(matched)
	return b
}

type BoardService struct {
	Deals *DealService
}

func NewBoardService(deals *DealService) *BoardService {
	return &BoardService{Deals: deals}
}

func (s *BoardService) Build(ctx context.Context, actor Actor, term string) (*Board, error) {
	deals, err := s.Deals.All(ctx, actor)
	if err != nil {
		return nil, err
	}
	return BuildBoard(deals, term), nil
}

// Move drops a card onto another column. A drop onto the card's own column writes nothing;
// otherwise exactly one stage update is issued.
func (s *BoardService) Move(ctx context.Context, actor Actor, id string, to models.Stage, term string) (*Board, error) {
	if !slices.Contains(models.BoardStages, to) {
		return nil, apperrors.Validation("Invalid stage").WithDescription("Deals can only be moved to a board column, got %q", to)
	}
	d, err := s.Deals.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if d.Stage != to {
		prev := d.Stage
		if err := s.Deals.Repo.UpdateStage(ctx, id, to); err != nil {
			return nil, repoError(err, "Deal")
		}
		d.Stage = to
		s.Deals.notifyClosed(ctx, prev, d)
	}

	deals, err := s.Deals.All(ctx, actor)
	if err != nil {
		return nil, err
	}
	for i, other := range deals {
		if other.ID == d.ID {
			deals[i] = d
		}
	}
	return BuildBoard(deals, term), nil
}
