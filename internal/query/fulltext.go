package query

import (
	"strconv"

	"github.com/blevesearch/bleve/v2"

	"github.com/mvp-joe/symgrep/internal/index"
	"github.com/mvp-joe/symgrep/internal/symbol"
)

const fulltextBatchSize = 500

// FullText is a ranked, tokenized search over symbol names, backed by
// an in-memory bleve index built from a frozen symbol index. It serves
// the fuzzy search surface; the structural modes in Engine stay
// deterministic and unranked.
type FullText struct {
	ix  *index.Index
	idx bleve.Index
}

// NewFullText builds the bleve index over every symbol. The source
// index must be frozen.
func NewFullText(ix *index.Index) (*FullText, error) {
	syms, err := ix.Symbols()
	if err != nil {
		return nil, err
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}

	batch := idx.NewBatch()
	for i, sym := range syms {
		doc := map[string]any{
			"name":           sym.Name,
			"qualified_name": sym.QualifiedName,
			"kind":           string(sym.Kind),
			"language":       sym.Language,
			"path":           sym.Path,
		}
		if err := batch.Index(strconv.Itoa(sym.ID), doc); err != nil {
			_ = idx.Close()
			return nil, err
		}
		if batch.Size() >= fulltextBatchSize || i == len(syms)-1 {
			if err := idx.Batch(batch); err != nil {
				_ = idx.Close()
				return nil, err
			}
			batch = idx.NewBatch()
		}
	}

	return &FullText{ix: ix, idx: idx}, nil
}

// Search returns up to limit symbols ranked by relevance to text.
func (f *FullText) Search(text string, limit int) ([]*symbol.Symbol, error) {
	if limit <= 0 {
		limit = 50
	}

	q := bleve.NewMatchQuery(text)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := f.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]*symbol.Symbol, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		if sym := f.ix.Get(id); sym != nil {
			out = append(out, sym)
		}
	}
	return out, nil
}

// Close releases the bleve index.
func (f *FullText) Close() error {
	return f.idx.Close()
}
