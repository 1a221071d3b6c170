package catalog_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris-backend/internal/catalog"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "sqlmock"), mock
}

func Test_SQLStore_SearchScansRowsAndTotal(t *testing.T) {
	conn, mock := newMock(t)
	cols := []string{"book_id", "title", "isbn", "category_id", "category_name", "available_copies"}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `b`.`book_id`").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, "Dune", "9780441172719", 1, "Science Fiction", 2).
			AddRow(5, "Dune Messiah", "9780593098233", nil, nil, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectCommit()

	items, total, err := catalog.NewStore(conn).Search(context.Background(), catalog.SearchQuery{Term: "Dune"})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].AvailableCopies)
	assert.Equal(t, "Science Fiction", *items[0].CategoryName)
	assert.Nil(t, items[1].CategoryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_SQLStore_CreateBookLinksAuthorsAndCopies(t *testing.T) {
	conn, mock := newMock(t)
	loc := "Main"

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO books`).WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec(`INSERT INTO authors(.|\n)*ON DUPLICATE KEY UPDATE author_id = LAST_INSERT_ID\(author_id\)`).
		WithArgs("Frank", "Herbert").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec(`INSERT IGNORE INTO book_authors`).WithArgs(int64(5), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO book_copies`).WithArgs(int64(5), "Main").WillReturnResult(sqlmock.NewResult(30, 1))
	mock.ExpectExec(`INSERT INTO book_copies`).WithArgs(int64(5), "Main").WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectCommit()

	nb := &catalog.NewBook{
		Book:     catalog.Book{Title: "Dune", ISBN: "9780441172719"},
		Authors:  []catalog.Author{{FirstName: "Frank", LastName: "Herbert"}},
		Copies:   2,
		Location: &loc,
	}
	require.NoError(t, catalog.NewStore(conn).CreateBook(context.Background(), nb))

	assert.Equal(t, int64(5), nb.BookID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_SQLStore_UpdateCategoryUnknown(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectQuery(`SELECT category_id, name, description, is_disabled FROM categories WHERE category_id = \?`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"category_id", "name", "description", "is_disabled"}))

	err := catalog.NewStore(conn).UpdateCategory(context.Background(), catalog.Category{CategoryID: 7, Name: "x"})

	assert.ErrorContains(t, err, "no rows")
	assert.NoError(t, mock.ExpectationsWereMet())
}
