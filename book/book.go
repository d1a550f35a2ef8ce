package book

/* Book represents a lendable book in the catalogue
 * No tags: the web and storage layers own their own representations
 */
type Book struct {
	ID     string
	Name   string
	Author string
	Status Status
}

// Borrow returns a copy of the book marked as borrowed
func (b Book) Borrow() Book {
	b.Status = Borrowed
	return b
}
