package state

// PageIndex defines the interface for page state operations. Consumers
// should depend on this interface rather than the concrete *DB type to
// facilitate testing with mocks.
type PageIndex interface {
	UpsertPage(p PageRow, body string) error
	DeletePage(outputPath string) error
	GetPage(outputPath string) (*PageRow, error)
	ListPages(limit, offset int, category, tag, sort string) ([]PageRow, int, error)
	SourceChecksums(category string) (map[string]string, error)
	OutputBySource(category string) (map[string]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies PageIndex at compile time.
var _ PageIndex = (*DB)(nil)
