package links

import "linksift/internal/platform/crawlapi"

// Mode selects the output shape.
type Mode string

const (
	// ModeGrouped emits a single record aggregating both lists with
	// counts.
	ModeGrouped Mode = "grouped"
	// ModeSplit emits one record per surviving link.
	ModeSplit Mode = "split"
)

// Record is one emitted workflow row. The key set depends on the mode.
type Record map[string]interface{}

// FormatRecords renders a processed collection. Grouped mode always emits
// exactly one record. Split mode emits one record per link, or a single
// zero-count sentinel when nothing survived, so downstream consumers
// always see at least one output per invocation.
func FormatRecords(p crawlapi.LinkCollection, mode Mode, includeMeta bool) []Record {
	if mode == ModeSplit {
		return splitRecords(p, includeMeta)
	}
	return groupedRecord(p, includeMeta)
}

func groupedRecord(p crawlapi.LinkCollection, includeMeta bool) []Record {
	return []Record{{
		"internal_links": linkRows(p.Internal, includeMeta),
		"external_links": linkRows(p.External, includeMeta),
		"total_internal": len(p.Internal),
		"total_external": len(p.External),
		"total_links":    len(p.Internal) + len(p.External),
	}}
}

func splitRecords(p crawlapi.LinkCollection, includeMeta bool) []Record {
	out := make([]Record, 0, len(p.Internal)+len(p.External))
	for _, l := range p.Internal {
		out = append(out, splitRow(l, "internal", includeMeta))
	}
	for _, l := range p.External {
		out = append(out, splitRow(l, "external", includeMeta))
	}
	if len(out) == 0 {
		return []Record{{
			"message":     "no links matched the configured filters",
			"total_links": 0,
		}}
	}
	return out
}

func splitRow(l crawlapi.Link, linkType string, includeMeta bool) Record {
	rec := Record{"href": l.Href, "type": linkType}
	if includeMeta {
		rec["text"] = l.Text
		if l.Title != "" {
			rec["title"] = l.Title
		}
	}
	return rec
}

func linkRows(ls []crawlapi.Link, includeMeta bool) []Record {
	rows := make([]Record, 0, len(ls))
	for _, l := range ls {
		row := Record{"href": l.Href}
		if includeMeta {
			row["text"] = l.Text
			if l.Title != "" {
				row["title"] = l.Title
			}
		}
		rows = append(rows, row)
	}
	return rows
}
