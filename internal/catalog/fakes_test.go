package catalog_test

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	mysql "github.com/go-sql-driver/mysql"

	"libris-backend/internal/catalog"
)

type memStore struct {
	books      map[int64]catalog.NewBook
	copies     []catalog.Copy
	categories map[int64]catalog.Category
	nextBook   int64
	lastQuery  catalog.SearchQuery
}

func newMemStore() *memStore {
	return &memStore{
		books:      map[int64]catalog.NewBook{},
		categories: map[int64]catalog.Category{1: {CategoryID: 1, Name: "Science Fiction"}},
	}
}

func (m *memStore) Search(_ context.Context, q catalog.SearchQuery) ([]catalog.BookSummary, int, error) {
	m.lastQuery = q
	out := []catalog.BookSummary{}
	for id, b := range m.books {
		if q.Term != "" && !strings.Contains(b.Title, q.Term) && !strings.Contains(b.ISBN, q.Term) {
			continue
		}
		out = append(out, catalog.BookSummary{BookID: id, Title: b.Title, ISBN: b.ISBN})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].BookID < out[j].BookID
	})
	return out, len(out), nil
}

func (m *memStore) GetBook(_ context.Context, id int64) (*catalog.Book, error) {
	b, ok := m.books[id]
	if !ok {
		return nil, nil
	}
	book := b.Book
	return &book, nil
}

func (m *memStore) Authors(_ context.Context, id int64) ([]string, error) {
	out := []string{}
	for _, a := range m.books[id].Authors {
		out = append(out, a.String())
	}
	return out, nil
}

func (m *memStore) Copies(_ context.Context, id int64) ([]catalog.Copy, error) {
	out := []catalog.Copy{}
	for _, c := range m.copies {
		if c.BookID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) CreateBook(_ context.Context, nb *catalog.NewBook) error {
	for _, b := range m.books {
		if b.ISBN == nb.ISBN {
			return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		}
	}
	if nb.CategoryID != nil {
		if _, ok := m.categories[*nb.CategoryID]; !ok {
			return &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
		}
	}
	m.nextBook++
	nb.BookID = m.nextBook
	m.books[nb.BookID] = *nb
	for i := 0; i < nb.Copies; i++ {
		_, _ = m.AddCopy(context.Background(), nb.BookID, nb.Location)
	}
	return nil
}

func (m *memStore) AddCopy(_ context.Context, bookID int64, loc *string) (*catalog.Copy, error) {
	if _, ok := m.books[bookID]; !ok {
		return nil, &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
	}
	c := catalog.Copy{CopyID: int64(len(m.copies) + 1), BookID: bookID, Status: catalog.CopyAvailable, Location: loc}
	m.copies = append(m.copies, c)
	return &c, nil
}

func (m *memStore) ListCategories(_ context.Context, all bool) ([]catalog.Category, error) {
	out := []catalog.Category{}
	for _, c := range m.categories {
		if all || !c.IsDisabled {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetCategory(_ context.Context, id int64) (*catalog.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memStore) GetCategoryByName(_ context.Context, name string) (*catalog.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateCategory(_ context.Context, c *catalog.Category) error {
	for _, x := range m.categories {
		if x.Name == c.Name {
			return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		}
	}
	c.CategoryID = int64(len(m.categories) + 1)
	m.categories[c.CategoryID] = *c
	return nil
}

func (m *memStore) UpdateCategory(_ context.Context, c catalog.Category) error {
	if _, ok := m.categories[c.CategoryID]; !ok {
		return sql.ErrNoRows
	}
	m.categories[c.CategoryID] = c
	return nil
}

func (m *memStore) DisableCategory(_ context.Context, id int64) error {
	c, ok := m.categories[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.IsDisabled = true
	m.categories[id] = c
	return nil
}
