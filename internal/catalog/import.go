package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"libris-backend/internal/platform/apierr"
)

const maxImportRows = 5000

// importColumns are the recognised header names; title and isbn are required.
var importColumns = []string{"title", "isbn", "category", "authors", "publisher", "publication_year", "copies", "location"}

// decoderFor picks the input decoder. The default honours a UTF-8 or UTF-16
// BOM and falls back to UTF-8; "shift_jis" covers spreadsheets saved by
// Japanese Excel.
func decoderFor(enc string) (transform.Transformer, error) {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", "utf-8", "utf8":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case "shift_jis", "sjis", "cp932":
		return japanese.ShiftJIS.NewDecoder(), nil
	default:
		return nil, apierr.ErrInvalid(fmt.Sprintf("unsupported encoding %q", enc))
	}
}

// ImportBooks creates one book per CSV data row. Rows are independent: a
// failing row is reported and the rest continue.
//
// Header example: title,isbn,category,authors,publisher,publication_year,copies,location
// authors is a ";" separated list; category is matched by name.
func (s *Service) ImportBooks(ctx context.Context, r io.Reader, enc string) (*ImportResult, error) {
	dec, err := decoderFor(enc)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, apierr.ErrInvalid("empty CSV")
	}
	if err != nil {
		return nil, apierr.ErrInvalid("invalid CSV header: " + err.Error())
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range importColumns[:2] {
		if _, ok := cols[req]; !ok {
			return nil, apierr.ErrInvalid("missing column: " + req)
		}
	}

	res := &ImportResult{Rows: []ImportRowResult{}}
	categoryIDs := map[string]*int64{}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if line-1 > maxImportRows {
			return nil, apierr.ErrInvalid(fmt.Sprintf("too many rows (max %d)", maxImportRows))
		}
		if err != nil {
			res.Failed++
			res.Rows = append(res.Rows, ImportRowResult{Line: line, Error: err.Error()})
			continue
		}

		get := func(name string) string {
			if i, ok := cols[name]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		row := ImportRowResult{Line: line, ISBN: normalizeISBN(get("isbn"))}
		req, err := s.rowToRequest(ctx, get, categoryIDs)
		if err == nil {
			var detail *BookDetail
			detail, err = s.CreateBook(ctx, req)
			if err == nil {
				row.BookID = detail.BookID
			}
		}
		if err != nil {
			var api *apierr.APIError
			if errors.As(err, &api) && api.Code == apierr.CodePersistenceFailure {
				return nil, err
			}
			row.Error = apierr.BodyFromErr(err).Error.Message
			res.Failed++
		} else {
			res.Created++
		}
		res.Rows = append(res.Rows, row)
	}

	s.log.InfoContext(ctx, "book import finished", "created", res.Created, "failed", res.Failed)
	return res, nil
}

func (s *Service) rowToRequest(ctx context.Context, get func(string) string, cache map[string]*int64) (CreateBookRequest, error) {
	req := CreateBookRequest{Title: get("title"), ISBN: get("isbn")}
	if v := get("publisher"); v != "" {
		req.Publisher = &v
	}
	if v := get("location"); v != "" {
		req.Location = &v
	}
	if v := get("publication_year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return req, apierr.ErrInvalid("invalid publication_year")
		}
		req.PublicationYear = &y
	}
	if v := get("copies"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, apierr.ErrInvalid("invalid copies")
		}
		req.Copies = n
	}
	if v := get("authors"); v != "" {
		req.Authors = strings.Split(v, ";")
	}
	if name := get("category"); name != "" {
		id, ok := cache[name]
		if !ok {
			c, err := s.store.GetCategoryByName(ctx, name)
			if err != nil {
				return req, s.persistence(ctx, "import category lookup", err)
			}
			if c != nil {
				id = &c.CategoryID
			}
			cache[name] = id
		}
		if id == nil {
			return req, apierr.ErrInvalid("Unknown category.")
		}
		req.CategoryID = id
	}
	return req, nil
}
