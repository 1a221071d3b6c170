package catalog

type SearchQuery struct {
	Term       string
	CategoryID int64
	Page       int
	PageSize   int
}

type SearchResult struct {
	Items    []BookSummary `json:"items"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int           `json:"total"`
}

type BookDetail struct {
	Book
	Authors         []string `json:"authors"`
	Copies          []Copy   `json:"copies"`
	AvailableCopies int      `json:"available_copies"`
}

type CreateBookRequest struct {
	Title           string   `json:"title" binding:"required"`
	ISBN            string   `json:"isbn" binding:"required"`
	Description     *string  `json:"description,omitempty"`
	Publisher       *string  `json:"publisher,omitempty"`
	PublicationYear *int     `json:"publication_year,omitempty"`
	CategoryID      *int64   `json:"category_id,omitempty"`
	Authors         []string `json:"authors,omitempty"`
	// Copies is the number of available copies to create with the book.
	Copies   int     `json:"copies,omitempty"`
	Location *string `json:"location,omitempty"`
}

type AddCopyRequest struct {
	Location *string `json:"location,omitempty"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
}

type UpdateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	IsDisabled  bool    `json:"is_disabled"`
}

// ImportRowResult reports the outcome of one CSV data row (1-based line).
type ImportRowResult struct {
	Line   int    `json:"line"`
	ISBN   string `json:"isbn,omitempty"`
	BookID int64  `json:"book_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

type ImportResult struct {
	Created int               `json:"created"`
	Failed  int               `json:"failed"`
	Rows    []ImportRowResult `json:"rows"`
}
