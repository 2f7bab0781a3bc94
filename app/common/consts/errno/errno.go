package errno

const (
	EmptyMessage = 50000 + iota
	CatalogUnavailable
)
