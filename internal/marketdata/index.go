package marketdata

import (
	iradix "github.com/hashicorp/go-immutable-radix"

	"github.com/saiputra-labs/vantage/internal/exchange"
)

// Index is the in-memory registry a pattern is expanded against: every
// concrete Path a session can stream from must be registered before a
// pattern containing it will resolve. Keyed by a radix tree over each
// path's segments so that a pattern's literal (non-wildcard) prefix
// narrows the walk to only the candidates that could possibly match,
// rather than scanning every registered path.
type Index struct {
	tree *iradix.Tree
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{tree: iradix.New()}
}

// Register adds path to the index. Re-registering the same path is a
// no-op replace.
func (idx *Index) Register(path Path) {
	idx.tree, _, _ = idx.tree.Insert([]byte(indexKey(path)), path)
}

// Unregister removes path from the index, if present.
func (idx *Index) Unregister(path Path) {
	idx.tree, _, _ = idx.tree.Delete([]byte(indexKey(path)))
}

func indexKey(p Path) string {
	return p.Exchange + "/" + p.Instrument + "/" + string(p.Datatype) + "/"
}

// Expand resolves pattern against the registered paths, returning every
// match in registration-key order. Returns exchange.ErrDataNotFound if
// nothing registered satisfies the pattern -- the caller's recovery path
// per the error taxonomy is to fall back to a broader query (e.g. derive
// a ladder from a raw book instead of a missing ladder stream).
func (idx *Index) Expand(pattern Pattern) ([]Path, error) {
	var matches []Path
	idx.tree.Root().WalkPrefix([]byte(pattern.literalPrefix()), func(_ []byte, v interface{}) bool {
		path := v.(Path)
		if pattern.Matches(path) {
			matches = append(matches, path)
		}
		return false
	})
	if len(matches) == 0 {
		return nil, exchange.ErrDataNotFound
	}
	return matches, nil
}
