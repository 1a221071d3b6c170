package catalog

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"golang.org/x/text/unicode/norm"

	"libris-backend/internal/platform/apierr"
)

const (
	dialectMySQL    = "mysql"
	defaultPageSize = 10
	maxPageSize     = 100
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// normalizeTerm folds full-width and compatibility forms so that "ＤＵＮＥ"
// finds "DUNE".
func normalizeTerm(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// likePattern makes term a literal substring pattern.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func (q SearchQuery) normalized() SearchQuery {
	q.Term = normalizeTerm(q.Term)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.CategoryID < 0 {
		q.CategoryID = 0
	}
	return q
}

// validate rejects page sizes the store will not serve. Run it before normalized.
func (q SearchQuery) validate() error {
	if q.PageSize > maxPageSize {
		return apierr.ErrInvalid(fmt.Sprintf("page_size must be at most %d.", maxPageSize))
	}
	return nil
}

func (q SearchQuery) offset() int { return (q.Page - 1) * q.PageSize }

func (q SearchQuery) filters() []exp.Expression {
	var where []exp.Expression
	if q.Term != "" {
		p := likePattern(q.Term)
		// ILike renders as plain LIKE in the MySQL dialect (Like is LIKE BINARY)
		where = append(where, goqu.Or(
			goqu.I("b.title").ILike(p),
			goqu.I("b.isbn").ILike(p),
		))
	}
	if q.CategoryID > 0 {
		where = append(where, goqu.I("b.category_id").Eq(q.CategoryID))
	}
	return where
}

// buildSearchSQL expects a normalized query.
func buildSearchSQL(q SearchQuery) (string, []any, error) {
	ds := goqu.Dialect(dialectMySQL).
		From(goqu.T("books").As("b")).
		Select(
			goqu.I("b.book_id"),
			goqu.I("b.title"),
			goqu.I("b.isbn"),
			goqu.I("b.category_id"),
			goqu.I("c.name").As("category_name"),
			goqu.L("COALESCE(SUM(CASE WHEN bc.status = 'available' THEN 1 ELSE 0 END), 0)").As("available_copies"),
		).
		LeftJoin(goqu.T("categories").As("c"), goqu.On(goqu.I("c.category_id").Eq(goqu.I("b.category_id")))).
		LeftJoin(goqu.T("book_copies").As("bc"), goqu.On(goqu.I("bc.book_id").Eq(goqu.I("b.book_id")))).
		Where(q.filters()...).
		GroupBy(goqu.I("b.book_id"), goqu.I("b.title"), goqu.I("b.isbn"), goqu.I("b.category_id"), goqu.I("c.name")).
		Order(goqu.I("b.title").Asc(), goqu.I("b.book_id").Asc()).
		Limit(uint(q.PageSize)).
		Offset(uint(q.offset())).
		Prepared(true)
	return ds.ToSQL()
}

func buildCountSQL(q SearchQuery) (string, []any, error) {
	return goqu.Dialect(dialectMySQL).
		From(goqu.T("books").As("b")).
		Select(goqu.COUNT(goqu.Star())).
		Where(q.filters()...).
		Prepared(true).
		ToSQL()
}
