package links

import (
	"errors"

	"linksift/internal/platform/crawlapi"
)

// ErrNoLinkTypes is the pipeline's only error condition: a request must
// select at least one side of the internal/external partition.
var ErrNoLinkTypes = errors.New("at least one link type must be selected")

// TypeSet selects which sides of the engine's partition to process.
type TypeSet struct {
	Internal bool
	External bool
}

// Process filters each requested list through the criteria, preserving
// the relative order of survivors, then optionally deduplicates by
// canonical key (stable, first occurrence wins). Dedup is idempotent and
// the whole pass is deterministic. The input collection is never mutated.
func Process(col crawlapi.LinkCollection, want TypeSet, cr Criteria, dedupe bool) (crawlapi.LinkCollection, error) {
	if !want.Internal && !want.External {
		return crawlapi.LinkCollection{}, ErrNoLinkTypes
	}
	var out crawlapi.LinkCollection
	if want.Internal {
		out.Internal = filterList(col.Internal, cr, dedupe)
	}
	if want.External {
		out.External = filterList(col.External, cr, dedupe)
	}
	return out, nil
}

func filterList(in []crawlapi.Link, cr Criteria, dedupe bool) []crawlapi.Link {
	out := make([]crawlapi.Link, 0, len(in))
	var seen map[string]struct{}
	if dedupe {
		seen = make(map[string]struct{}, len(in))
	}
	for _, l := range in {
		if !cr.Accepts(l) {
			continue
		}
		if dedupe {
			key := CanonicalKey(l.Href)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, l)
	}
	return out
}
