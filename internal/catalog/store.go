package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"libris-backend/internal/platform/db"
)

type NewBook struct {
	Book
	Authors  []Author
	Copies   int
	Location *string
}

type Store interface {
	Search(ctx context.Context, q SearchQuery) ([]BookSummary, int, error)
	// GetBook returns (nil, nil) when absent.
	GetBook(ctx context.Context, id int64) (*Book, error)
	Authors(ctx context.Context, bookID int64) ([]string, error)
	Copies(ctx context.Context, bookID int64) ([]Copy, error)
	// CreateBook inserts the book with its authors and initial copies atomically.
	CreateBook(ctx context.Context, b *NewBook) error
	AddCopy(ctx context.Context, bookID int64, location *string) (*Copy, error)

	ListCategories(ctx context.Context, includeDisabled bool) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
	GetCategoryByName(ctx context.Context, name string) (*Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	// UpdateCategory and DisableCategory return sql.ErrNoRows when id is unknown.
	UpdateCategory(ctx context.Context, c Category) error
	DisableCategory(ctx context.Context, id int64) error
}

type SQLStore struct{ db *sqlx.DB }

func NewStore(conn *sqlx.DB) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) Search(ctx context.Context, q SearchQuery) ([]BookSummary, int, error) {
	q = q.normalized()
	query, args, err := buildSearchSQL(q)
	if err != nil {
		return nil, 0, fmt.Errorf("build search: %w", err)
	}
	countQuery, countArgs, err := buildCountSQL(q)
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	items := []BookSummary{}
	var total int
	err = db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		if err := tx.SelectContext(ctx, &items, query, args...); err != nil {
			return err
		}
		return tx.GetContext(ctx, &total, countQuery, countArgs...)
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SQLStore) GetBook(ctx context.Context, id int64) (*Book, error) {
	const q = `
SELECT b.book_id, b.title, b.isbn, b.description, b.publisher, b.publication_year,
       b.category_id, c.name AS category_name
FROM books b
LEFT JOIN categories c ON c.category_id = b.category_id
WHERE b.book_id = ?`
	var b Book
	err := s.db.GetContext(ctx, &b, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *SQLStore) Authors(ctx context.Context, bookID int64) ([]string, error) {
	const q = `
SELECT TRIM(CONCAT(a.first_name, ' ', a.last_name))
FROM book_authors ba
JOIN authors a ON a.author_id = ba.author_id
WHERE ba.book_id = ?
ORDER BY a.last_name, a.first_name`
	out := []string{}
	if err := s.db.SelectContext(ctx, &out, q, bookID); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) Copies(ctx context.Context, bookID int64) ([]Copy, error) {
	const q = `SELECT copy_id, book_id, status, location FROM book_copies WHERE book_id = ? ORDER BY copy_id`
	out := []Copy{}
	if err := s.db.SelectContext(ctx, &out, q, bookID); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) CreateBook(ctx context.Context, nb *NewBook) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		const insBook = `
INSERT INTO books (title, isbn, description, publisher, publication_year, category_id)
VALUES (?, ?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, insBook,
			nb.Title, nb.ISBN, nb.Description, nb.Publisher, nb.PublicationYear, nb.CategoryID)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		nb.BookID = id

		for _, a := range nb.Authors {
			// LAST_INSERT_ID(expr) makes an existing author's id come back as the insert id
			const upsert = `
INSERT INTO authors (first_name, last_name) VALUES (?, ?)
ON DUPLICATE KEY UPDATE author_id = LAST_INSERT_ID(author_id)`
			res, err := tx.ExecContext(ctx, upsert, a.FirstName, a.LastName)
			if err != nil {
				return err
			}
			authorID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT IGNORE INTO book_authors (book_id, author_id) VALUES (?, ?)`, id, authorID); err != nil {
				return err
			}
		}

		for i := 0; i < nb.Copies; i++ {
			if _, err := insertCopy(ctx, tx, id, nb.Location); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertCopy(ctx context.Context, tx db.DBTX, bookID int64, location *string) (int64, error) {
	const q = `INSERT INTO book_copies (book_id, status, location) VALUES (?, 'available', ?)`
	res, err := tx.ExecContext(ctx, q, bookID, location)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLStore) AddCopy(ctx context.Context, bookID int64, location *string) (*Copy, error) {
	id, err := insertCopy(ctx, s.db, bookID, location)
	if err != nil {
		return nil, err
	}
	return &Copy{CopyID: id, BookID: bookID, Status: CopyAvailable, Location: location}, nil
}

// categories

func (s *SQLStore) ListCategories(ctx context.Context, includeDisabled bool) ([]Category, error) {
	q := `SELECT category_id, name, description, is_disabled FROM categories`
	if !includeDisabled {
		q += ` WHERE is_disabled = 0`
	}
	q += ` ORDER BY name, category_id`
	out := []Category{}
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) getCategory(ctx context.Context, where string, arg any) (*Category, error) {
	q := `SELECT category_id, name, description, is_disabled FROM categories WHERE ` + where
	var c Category
	err := s.db.GetContext(ctx, &c, q, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLStore) GetCategory(ctx context.Context, id int64) (*Category, error) {
	return s.getCategory(ctx, `category_id = ?`, id)
}

func (s *SQLStore) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	return s.getCategory(ctx, `name = ?`, strings.TrimSpace(name))
}

func (s *SQLStore) CreateCategory(ctx context.Context, c *Category) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, is_disabled) VALUES (?, ?, 0)`, c.Name, c.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.CategoryID = id
	c.IsDisabled = false
	return nil
}

func (s *SQLStore) UpdateCategory(ctx context.Context, c Category) error {
	// Existence is checked first: MySQL reports 0 affected rows when nothing changed.
	cur, err := s.GetCategory(ctx, c.CategoryID)
	if err != nil {
		return err
	}
	if cur == nil {
		return sql.ErrNoRows
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, is_disabled = ? WHERE category_id = ?`,
		c.Name, c.Description, c.IsDisabled, c.CategoryID)
	return err
}

func (s *SQLStore) DisableCategory(ctx context.Context, id int64) error {
	cur, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if cur == nil {
		return sql.ErrNoRows
	}
	_, err = s.db.ExecContext(ctx, `UPDATE categories SET is_disabled = 1 WHERE category_id = ?`, id)
	return err
}
