package menu

import "context"

// Lookup answers the two menu questions the conversation needs: the full
// menu, and the price rows for whatever flavor the user actually typed.
type Lookup struct {
	repo Repository
}

func NewLookup(repo Repository) *Lookup { return &Lookup{repo: repo} }

func (l *Lookup) Menu(ctx context.Context) ([]Entry, error) {
	return l.repo.List(ctx)
}

// Prices fuzzy-resolves userText against the canonical flavor list and
// returns the matching price rows. An unresolvable flavor is not an error:
// the result is simply empty, and the caller tells the user so.
func (l *Lookup) Prices(ctx context.Context, userText string) ([]Entry, error) {
	flavors, err := l.repo.Flavors(ctx)
	if err != nil {
		return nil, err
	}
	flavor, ok := ResolveFlavor(userText, flavors)
	if !ok {
		return []Entry{}, nil
	}
	return l.repo.PricesFor(ctx, flavor)
}
