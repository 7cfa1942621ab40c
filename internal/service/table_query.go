package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gridedit/internal/dbclient"
	"gridedit/internal/domain"
	"gridedit/internal/normalize"
)

// ─────────────────────────────────────────────────────────────
// Table Query: grid read request -> store filter, sort, window
// ─────────────────────────────────────────────────────────────

// ColumnSearch is a search value typed into one column's search box.
type ColumnSearch struct {
	Column string
	Value  string
	Regex  bool
}

// TableQuery translates a grid read request into a document-store query.
// The global search box accepts free terms, matched case-insensitively
// against every searchable column, and field:value terms, matched against
// that field only. A custom filter, when given, is ANDed with both.
type TableQuery struct {
	req    domain.TableRequest
	custom map[string]any
}

// NewTableQuery creates a TableQuery. customFilter may be nil.
func NewTableQuery(req domain.TableRequest, customFilter map[string]any) *TableQuery {
	return &TableQuery{req: req, custom: customFilter}
}

// SearchTerms splits the global search value on whitespace.
func (q *TableQuery) SearchTerms() []string {
	return strings.Fields(q.req.Search.Value)
}

// GlobalTerms returns the search terms without a field prefix.
func (q *TableQuery) GlobalTerms() []string {
	var out []string
	for _, term := range q.SearchTerms() {
		if _, _, ok := splitFieldTerm(term); !ok {
			out = append(out, term)
		}
	}
	return out
}

// FieldTerms returns the field:value search terms.
func (q *TableQuery) FieldTerms() []string {
	var out []string
	for _, term := range q.SearchTerms() {
		if _, _, ok := splitFieldTerm(term); ok {
			out = append(out, term)
		}
	}
	return out
}

// splitFieldTerm splits "field:value". Terms with an empty side or an
// operator-like field name are treated as plain terms.
func splitFieldTerm(term string) (field, value string, ok bool) {
	field, value, found := strings.Cut(term, ":")
	if !found || field == "" || value == "" || strings.HasPrefix(field, "$") {
		return "", "", false
	}
	return field, value, true
}

// ColumnSearches returns the non-empty per-column search values of
// searchable columns.
func (q *TableQuery) ColumnSearches() []ColumnSearch {
	var out []ColumnSearch
	for _, col := range q.req.Columns {
		if col.Data == "" || !col.Searchable || col.Search.Value == "" {
			continue
		}
		out = append(out, ColumnSearch{Column: col.Data, Value: col.Search.Value, Regex: col.Search.Regex})
	}
	return out
}

// Columns returns the field names of the requested columns, in order.
func (q *TableQuery) Columns() []string {
	var out []string
	for _, col := range q.req.Columns {
		if col.Data != "" {
			out = append(out, col.Data)
		}
	}
	return out
}

// Draw echoes the request's draw counter; a missing or unparseable counter
// reads as 1.
func (q *TableQuery) Draw() int64 {
	if q.req.Draw == nil {
		return 1
	}
	s := strings.TrimSpace(fmt.Sprint(q.req.Draw))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return int64(f)
	}
	return 1
}

// Start is the page offset, never negative.
func (q *TableQuery) Start() int64 {
	return max(q.req.Start, 0)
}

// Limit is the page size. ok is false when every row was requested
// (length -1 or unset).
func (q *TableQuery) Limit() (n int64, ok bool) {
	if q.req.Length <= 0 {
		return 0, false
	}
	return q.req.Length, true
}

// OrderDirection returns the direction of the primary ordering: -1 for
// "desc", 1 otherwise.
func (q *TableQuery) OrderDirection() int {
	if len(q.req.Order) == 0 {
		return 1
	}
	return sortDir(q.req.Order[0].Dir)
}

func sortDir(dir string) int {
	if strings.EqualFold(strings.TrimSpace(dir), "desc") {
		return -1
	}
	return 1
}

// Sort returns the requested ordering, skipping out-of-range and
// non-orderable columns.
func (q *TableQuery) Sort() []dbclient.SortField {
	var out []dbclient.SortField
	for _, o := range q.req.Order {
		if o.Column < 0 || o.Column >= len(q.req.Columns) {
			continue
		}
		col := q.req.Columns[o.Column]
		if col.Data == "" || !col.Orderable {
			continue
		}
		out = append(out, dbclient.SortField{Field: col.Data, Dir: sortDir(o.Dir)})
	}
	return out
}

// Projection returns the top-level fields holding the requested columns.
// A dotted column projects its whole root document.
func (q *TableQuery) Projection() []string {
	var out []string
	seen := map[string]bool{}
	for _, col := range q.Columns() {
		root := normalize.ResolvePath(col, normalize.NestingAllowed)[0]
		if seen[root] {
			continue
		}
		seen[root] = true
		out = append(out, root)
	}
	return out
}

// GlobalSearch matches every free term (AND) in any searchable column (OR).
// Returns an empty filter when there is nothing to match.
func (q *TableQuery) GlobalSearch() map[string]any {
	var searchable []string
	for _, col := range q.req.Columns {
		if col.Data != "" && col.Searchable {
			searchable = append(searchable, col.Data)
		}
	}
	terms := q.GlobalTerms()
	if len(terms) == 0 || len(searchable) == 0 {
		return map[string]any{}
	}

	and := make([]any, 0, len(terms))
	for _, term := range terms {
		or := make([]any, 0, len(searchable))
		for _, col := range searchable {
			or = append(or, map[string]any{col: regexCondition(term, q.req.Search.Regex)})
		}
		and = append(and, map[string]any{"$or": or})
	}
	return map[string]any{"$and": and}
}

// ColumnFilter combines per-column searches and field:value terms.
func (q *TableQuery) ColumnFilter() map[string]any {
	out := map[string]any{}
	for _, cs := range q.ColumnSearches() {
		out[cs.Column] = regexCondition(cs.Value, cs.Regex)
	}
	for _, term := range q.FieldTerms() {
		field, value, _ := splitFieldTerm(term)
		out[field] = regexCondition(value, false)
	}
	return out
}

// Filter is the complete store filter: the custom filter, the global
// search and the column filter, ANDed together.
func (q *TableQuery) Filter() map[string]any {
	var parts []any
	for _, part := range []map[string]any{q.custom, q.GlobalSearch(), q.ColumnFilter()} {
		if len(part) > 0 {
			parts = append(parts, part)
		}
	}
	switch len(parts) {
	case 0:
		return map[string]any{}
	case 1:
		return parts[0].(map[string]any)
	}
	return map[string]any{"$and": parts}
}

// FindOptions returns the sort, window and projection for the page.
func (q *TableQuery) FindOptions() dbclient.FindOptions {
	limit, _ := q.Limit()
	return dbclient.FindOptions{
		Sort:       q.Sort(),
		Skip:       q.Start(),
		Limit:      limit,
		Projection: q.Projection(),
	}
}

// regexCondition builds a case-insensitive $regex condition. User regexes
// that fail to compile are matched literally.
func regexCondition(value string, isRegex bool) map[string]any {
	pattern := regexp.QuoteMeta(value)
	if isRegex {
		if _, err := regexp.Compile(value); err == nil {
			pattern = value
		}
	}
	return map[string]any{"$regex": pattern, "$options": "i"}
}
