package links

import (
	"testing"

	"linksift/internal/platform/crawlapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessRequiresAtLeastOneType(t *testing.T) {
	_, err := Process(crawlapi.LinkCollection{}, TypeSet{}, Criteria{}, false)
	assert.ErrorIs(t, err, ErrNoLinkTypes)
}

func TestProcessSelectsRequestedTypes(t *testing.T) {
	col := crawlapi.LinkCollection{
		Internal: []crawlapi.Link{link("https://a.com/x")},
		External: []crawlapi.Link{link("https://b.com/y")},
	}

	onlyInternal, err := Process(col, TypeSet{Internal: true}, Criteria{}, false)
	require.NoError(t, err)
	assert.Len(t, onlyInternal.Internal, 1)
	assert.Nil(t, onlyInternal.External)

	onlyExternal, err := Process(col, TypeSet{External: true}, Criteria{}, false)
	require.NoError(t, err)
	assert.Nil(t, onlyExternal.Internal)
	assert.Len(t, onlyExternal.External, 1)
}

func TestProcessPreservesOrder(t *testing.T) {
	col := crawlapi.LinkCollection{Internal: []crawlapi.Link{
		link("https://a.com/1"),
		link("https://a.com/drop.pdf"),
		link("https://a.com/2"),
		link("https://a.com/3"),
	}}
	cr := NewCriteria(CriteriaConfig{ExcludeFileTypes: "pdf"})

	out, err := Process(col, TypeSet{Internal: true}, cr, false)
	require.NoError(t, err)
	hrefs := make([]string, 0, len(out.Internal))
	for _, l := range out.Internal {
		hrefs = append(hrefs, l.Href)
	}
	assert.Equal(t, []string{"https://a.com/1", "https://a.com/2", "https://a.com/3"}, hrefs)
}

func TestProcessDedupeFirstWins(t *testing.T) {
	col := crawlapi.LinkCollection{Internal: []crawlapi.Link{
		{Href: "https://a.com/x", Text: "first"},
		{Href: "https://a.com/x/", Text: "second"},
		{Href: "HTTPS://A.com/x", Text: "third"},
	}}

	out, err := Process(col, TypeSet{Internal: true}, Criteria{}, true)
	require.NoError(t, err)
	require.Len(t, out.Internal, 1)
	assert.Equal(t, "first", out.Internal[0].Text)
}

func TestProcessDedupeIsIdempotent(t *testing.T) {
	col := crawlapi.LinkCollection{Internal: []crawlapi.Link{
		link("https://a.com/x"),
		link("https://a.com/x/"),
		link("https://a.com/y"),
	}}

	once, err := Process(col, TypeSet{Internal: true}, Criteria{}, true)
	require.NoError(t, err)
	twice, err := Process(once, TypeSet{Internal: true}, Criteria{}, true)
	require.NoError(t, err)
	assert.Equal(t, once.Internal, twice.Internal)
}

func TestProcessWithoutDedupeKeepsDuplicates(t *testing.T) {
	col := crawlapi.LinkCollection{Internal: []crawlapi.Link{
		link("https://a.com/x"),
		link("https://a.com/x"),
	}}

	out, err := Process(col, TypeSet{Internal: true}, Criteria{}, false)
	require.NoError(t, err)
	assert.Len(t, out.Internal, 2)
}

func TestProcessIsDeterministic(t *testing.T) {
	col := crawlapi.LinkCollection{
		Internal: []crawlapi.Link{
			link("https://a.com/blog/1"),
			link("https://a.com/blog/1/"),
			link("https://a.com/about"),
		},
		External: []crawlapi.Link{link("https://b.com/x")},
	}
	cr := NewCriteria(CriteriaConfig{IncludePatterns: "*/blog/*,*x*"})

	first, err := Process(col, TypeSet{Internal: true, External: true}, cr, true)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Process(col, TypeSet{Internal: true, External: true}, cr, true)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestProcessDoesNotMutateInput(t *testing.T) {
	col := crawlapi.LinkCollection{Internal: []crawlapi.Link{
		link("https://a.com/x"),
		link("https://a.com/x/"),
		link("https://a.com/drop.pdf"),
	}}
	cr := NewCriteria(CriteriaConfig{ExcludeFileTypes: "pdf"})

	_, err := Process(col, TypeSet{Internal: true}, cr, true)
	require.NoError(t, err)

	require.Len(t, col.Internal, 3)
	assert.Equal(t, "https://a.com/x", col.Internal[0].Href)
	assert.Equal(t, "https://a.com/x/", col.Internal[1].Href)
	assert.Equal(t, "https://a.com/drop.pdf", col.Internal[2].Href)
}
