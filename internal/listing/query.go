package listing

// Query is everything a list endpoint accepts.
type Query struct {
	Term   string
	Fields []string
	Equals map[string]string
	Filter *AdvancedFilter
	Sort   SortState
	Page   int
	Size   int
}

type Result[T any] struct {
	Items []T  `json:"items"`
	Page  Page `json:"pagination"`
}

// Run applies search, equality filters, the advanced filter, sort and paging, in that order.
func Run[T Record](records []T, q Query) Result[T] {
	out := Search(records, q.Term, q.Fields)
	for field, value := range q.Equals {
		out = Equals(out, field, value)
	}
	if q.Filter != nil {
		out = Apply(out, *q.Filter)
	}
	out = Sort(out, q.Sort)
	items, page := Paginate(out, q.Page, q.Size)
	return Result[T]{Items: items, Page: page}
}

// Derive is Run without paging, for exports and boards.
func Derive[T Record](records []T, q Query) []T {
	out := Search(records, q.Term, q.Fields)
	for field, value := range q.Equals {
		out = Equals(out, field, value)
	}
	if q.Filter != nil {
		out = Apply(out, *q.Filter)
	}
	return Sort(out, q.Sort)
}
