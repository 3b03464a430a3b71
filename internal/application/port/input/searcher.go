package input

import "context"

type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}
