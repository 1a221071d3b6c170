package catalog

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"libris-backend/internal/platform/apierr"
)

type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) persistence(ctx context.Context, op string, err error) error {
	s.log.ErrorContext(ctx, op+" failed", "err", err)
	return apierr.Persistence(err)
}

// Search is a read-only, paginated catalog lookup. Term matches title or
// ISBN as a literal substring; all filters are conjunctive.
func (s *Service) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	q = q.normalized()
	items, total, err := s.store.Search(ctx, q)
	if err != nil {
		return nil, s.persistence(ctx, "catalog search", err)
	}
	return &SearchResult{Items: items, Page: q.Page, PageSize: q.PageSize, Total: total}, nil
}

func (s *Service) GetBook(ctx context.Context, id int64) (*BookDetail, error) {
	b, err := s.store.GetBook(ctx, id)
	if err != nil {
		return nil, s.persistence(ctx, "get book", err)
	}
	if b == nil {
		return nil, apierr.ErrNotFound("Book not found.")
	}
	authors, err := s.store.Authors(ctx, id)
	if err != nil {
		return nil, s.persistence(ctx, "book authors", err)
	}
	copies, err := s.store.Copies(ctx, id)
	if err != nil {
		return nil, s.persistence(ctx, "book copies", err)
	}
	avail := 0
	for _, c := range copies {
		if c.Status == CopyAvailable {
			avail++
		}
	}
	return &BookDetail{Book: *b, Authors: authors, Copies: copies, AvailableCopies: avail}, nil
}

// parseAuthor splits "Frank Herbert" into first and last name on the last space.
func parseAuthor(s string) (Author, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return Author{}, false
	}
	i := strings.LastIndex(s, " ")
	if i < 0 {
		return Author{LastName: s}, true
	}
	return Author{FirstName: s[:i], LastName: s[i+1:]}, true
}

func normalizeISBN(s string) string {
	return strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(s)))
}

func (s *Service) CreateBook(ctx context.Context, req CreateBookRequest) (*BookDetail, error) {
	title := strings.TrimSpace(req.Title)
	isbn := normalizeISBN(req.ISBN)
	if title == "" {
		return nil, apierr.ErrInvalid("title is required")
	}
	if isbn == "" || len(isbn) > 20 {
		return nil, apierr.ErrInvalid("isbn must be 1 to 20 characters")
	}
	if req.Copies < 0 || req.Copies > 100 {
		return nil, apierr.ErrInvalid("copies must be between 0 and 100")
	}

	nb := &NewBook{
		Book: Book{
			Title:           title,
			ISBN:            isbn,
			Description:     req.Description,
			Publisher:       req.Publisher,
			PublicationYear: req.PublicationYear,
			CategoryID:      req.CategoryID,
		},
		Copies:   req.Copies,
		Location: req.Location,
	}
	for _, name := range req.Authors {
		if a, ok := parseAuthor(name); ok {
			nb.Authors = append(nb.Authors, a)
		}
	}

	if err := s.store.CreateBook(ctx, nb); err != nil {
		switch {
		case apierr.IsDuplicateKey(err):
			return nil, apierr.ErrConflict("A book with this ISBN already exists.")
		case apierr.IsForeignKeyViolation(err):
			return nil, apierr.ErrInvalid("Unknown category.")
		}
		return nil, s.persistence(ctx, "create book", err)
	}
	s.log.InfoContext(ctx, "book created", "book_id", nb.BookID, "isbn", nb.ISBN, "copies", nb.Copies)
	return s.GetBook(ctx, nb.BookID)
}

func (s *Service) AddCopy(ctx context.Context, bookID int64, location *string) (*Copy, error) {
	if location != nil {
		l := strings.TrimSpace(*location)
		location = &l
	}
	c, err := s.store.AddCopy(ctx, bookID, location)
	if err != nil {
		if apierr.IsForeignKeyViolation(err) {
			return nil, apierr.ErrNotFound("Book not found.")
		}
		return nil, s.persistence(ctx, "add copy", err)
	}
	return c, nil
}

// categories

func parseBoolish(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "1" || s == "true" || s == "yes" || s == "all"
}

func normalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apierr.ErrInvalid("name is required")
	}
	return name, nil
}

func (s *Service) ListCategories(ctx context.Context, all string) ([]Category, error) {
	out, err := s.store.ListCategories(ctx, parseBoolish(all))
	if err != nil {
		return nil, s.persistence(ctx, "list categories", err)
	}
	return out, nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, s.persistence(ctx, "get category", err)
	}
	if c == nil {
		return nil, apierr.ErrNotFound("category not found")
	}
	return c, nil
}

func (s *Service) CreateCategory(ctx context.Context, name string, description *string) (*Category, error) {
	n, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}
	c := &Category{Name: n, Description: description}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		if apierr.IsDuplicateKey(err) {
			return nil, apierr.ErrConflict("category name already exists")
		}
		return nil, s.persistence(ctx, "create category", err)
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, req UpdateCategoryRequest) (*Category, error) {
	n, err := normalizeCategoryName(req.Name)
	if err != nil {
		return nil, err
	}
	err = s.store.UpdateCategory(ctx, Category{
		CategoryID: id, Name: n, Description: req.Description, IsDisabled: req.IsDisabled,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierr.ErrNotFound("category not found")
		}
		if apierr.IsDuplicateKey(err) {
			return nil, apierr.ErrConflict("category name already exists")
		}
		return nil, s.persistence(ctx, "update category", err)
	}
	return s.GetCategory(ctx, id)
}

// DisableCategory is a soft delete; books keep their category.
func (s *Service) DisableCategory(ctx context.Context, id int64) error {
	if err := s.store.DisableCategory(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apierr.ErrNotFound("category not found")
		}
		return s.persistence(ctx, "disable category", err)
	}
	return nil
}
