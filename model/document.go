package model

// Document represents one decoded source document. A document exclusively
// owns its pages; nothing in the tree is shared across documents, so whole
// documents may be processed in parallel.
type Document struct {
	Name  string
	Pages []*Page
}

// NewDocument creates a new empty document
func NewDocument(name string) *Document {
	return &Document{
		Name:  name,
		Pages: make([]*Page, 0),
	}
}

// AddPage appends a page and assigns its 0-based index.
func (d *Document) AddPage(page *Page) {
	page.Index = len(d.Pages)
	d.Pages = append(d.Pages, page)
}

// PageCount returns the total number of pages
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// FirstPage returns the first page, or nil for an empty document. The first
// page carries the protocol name/version header.
func (d *Document) FirstPage() *Page {
	if len(d.Pages) == 0 {
		return nil
	}
	return d.Pages[0]
}
