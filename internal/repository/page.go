package repository

const (
	DefaultPageLimit      = 50
	DefaultLargePageLimit = 100
	MaxPageLimit          = 200
)

// Page is a limit/offset window over an ordered listing.
type Page struct {
	Limit  int
	Offset int
}

// NewPage builds a page from optional arguments.
func NewPage(limit, offset *int) Page {
	var p Page
	if limit != nil {
		p.Limit = *limit
	}
	if offset != nil {
		p.Offset = *offset
	}
	return p
}

func (p Page) normalize(defaultLimit int) Page {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
