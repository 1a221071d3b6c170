package catalog

const (
	CopyAvailable = "available"
	CopyBorrowed  = "borrowed"
)

// BookSummary is one row of a catalog search.
type BookSummary struct {
	BookID          int64   `db:"book_id" json:"book_id"`
	Title           string  `db:"title" json:"title"`
	ISBN            string  `db:"isbn" json:"isbn"`
	CategoryID      *int64  `db:"category_id" json:"category_id,omitempty"`
	CategoryName    *string `db:"category_name" json:"category_name,omitempty"`
	AvailableCopies int     `db:"available_copies" json:"available_copies"`
}

type Book struct {
	BookID          int64   `db:"book_id" json:"book_id"`
	Title           string  `db:"title" json:"title"`
	ISBN            string  `db:"isbn" json:"isbn"`
	Description     *string `db:"description" json:"description,omitempty"`
	Publisher       *string `db:"publisher" json:"publisher,omitempty"`
	PublicationYear *int    `db:"publication_year" json:"publication_year,omitempty"`
	CategoryID      *int64  `db:"category_id" json:"category_id,omitempty"`
	CategoryName    *string `db:"category_name" json:"category_name,omitempty"`
}

type Copy struct {
	CopyID   int64   `db:"copy_id" json:"copy_id"`
	BookID   int64   `db:"book_id" json:"book_id"`
	Status   string  `db:"status" json:"status"`
	Location *string `db:"location" json:"location,omitempty"`
}

type Author struct {
	FirstName string
	LastName  string
}

func (a Author) String() string {
	if a.FirstName == "" {
		return a.LastName
	}
	return a.FirstName + " " + a.LastName
}

type Category struct {
	CategoryID  int64   `db:"category_id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
	IsDisabled  bool    `db:"is_disabled" json:"is_disabled"`
}
