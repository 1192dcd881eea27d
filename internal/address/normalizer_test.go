package address

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariants_NoLocality(t *testing.T) {
	t.Parallel()

	got := Variants("123 Lake Shore Rd")
	want := []string{
		"123 Lake Shore Rd, Wonder Lake, IL",
		"123 Lake Shore Rd",
		"123 Lake Shore Road, Wonder Lake, IL",
		"123 Lakeshore Rd, Wonder Lake, IL",
		"123 Lake Shore Road",
		"123 Lakeshore Rd",
		"123 Lake Shore Rd, McHenry County, IL",
	}
	assert.Equal(t, want, got)
}

func TestVariants_WithLocality(t *testing.T) {
	t.Parallel()

	got := Variants("123 Main St, Wonder Lake, IL 60097")
	want := []string{
		"123 Main St, Wonder Lake, IL 60097",
		"123 Main Street, Wonder Lake, IL 60097",
		"123 Main St, Wonderlake, IL 60097",
		"123 Main St, McHenry County, IL",
	}
	assert.Equal(t, want, got)
	for _, v := range got {
		assert.NotContains(t, v, LocalitySuffix+LocalitySuffix)
	}
}

func TestVariants_ExpandedInputAbbreviates(t *testing.T) {
	t.Parallel()

	got := Variants("456 North Lakeview Drive")
	require.NotEmpty(t, got)
	assert.Equal(t, "456 North Lakeview Drive, Wonder Lake, IL", got[0])
	assert.Equal(t, "456 North Lakeview Drive", got[1])
	assert.Equal(t, "456 N Lakeview Dr, Wonder Lake, IL", got[2])
	assert.Contains(t, got, "456 North Lake View Drive, Wonder Lake, IL")
	assert.Contains(t, got, "456 N Lakeview Dr")
	assert.Equal(t, "456 North Lakeview Drive, McHenry County, IL", got[len(got)-1])
}

func TestVariants_CollapsesWhitespace(t *testing.T) {
	t.Parallel()

	got := Variants("   7   Oak   Ct  ")
	require.NotEmpty(t, got)
	assert.Equal(t, "7 Oak Ct, Wonder Lake, IL", got[0])
	assert.Equal(t, "7 Oak Ct", got[1])
}

func TestVariants_EmptyInput(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Variants(""))
	assert.Nil(t, Variants(" \t\n "))
}

func TestVariants_NoDuplicatesOrEmpties(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"123 Lake Shore Rd",
		"8 E Wonder View Ave.",
		"1 West Sunset Lane, Wonder Lake, Illinois",
		"5510 Bay View Rd, Springfield, IL",
		"5510 Main St, McHenry County",
		"Wonder Lake",
	}
	for _, in := range inputs {
		got := Variants(in)
		require.NotEmpty(t, got, in)
		seen := map[string]bool{}
		for _, v := range got {
			assert.NotEmpty(t, strings.TrimSpace(v), in)
			assert.False(t, seen[v], "duplicate %q for %q", v, in)
			seen[v] = true
		}
	}
}

func TestVariants_WideAreaLast(t *testing.T) {
	t.Parallel()

	got := Variants("5510 Bay View Rd, Springfield, IL")
	assert.Equal(t, "5510 Bay View Rd", got[len(got)-1][:len("5510 Bay View Rd")])
	assert.True(t, strings.HasSuffix(got[len(got)-1], WideAreaSuffix))

	// Already naming the county: no second county suffix.
	for _, v := range Variants("5510 Main St, McHenry County") {
		assert.False(t, strings.HasSuffix(v, WideAreaSuffix), v)
	}
}

func TestHasLocality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"123 Lake Shore Rd", false},
		{"123 Lake Shore Rd, Wonder Lake", true},
		{"123 lake shore rd wonderlake", true},
		{"9 Elm St, Woodstock, Illinois", true},
		{"9 Elm St, Woodstock, IL", true},
		{"9 elm st, woodstock, il", true},
		{"9 elm st, woodstock, zz", false},
		{"9 Elm St Woodstock IL 60098", true},
		{"9 Elm St, Madison, WI", true},
		{"123 OAK CT", false},
		{"9 Elm St, Woodstock, XX", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HasLocality(tt.in), tt.in)
	}
}

func TestAbbreviateExpand_RoundTrip(t *testing.T) {
	t.Parallel()

	for full, abbr := range directionals {
		title := titleWord(full)
		assert.Equal(t, abbr, Abbreviate(Expand(abbr)), abbr)
		assert.Equal(t, title, Expand(Abbreviate(title)), title)
	}
	for full, abbr := range streetTypes {
		title := titleWord(full)
		assert.Equal(t, abbr, Abbreviate(Expand(abbr)), abbr)
		assert.Equal(t, title, Expand(Abbreviate(title)), title)
	}
}

func TestAbbreviateExpand_Phrases(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "100 E Main Ave", Abbreviate("100 East Main Avenue"))
	assert.Equal(t, "100 East Main Avenue", Expand("100 E Main Ave."))
	assert.Equal(t, "100 SW Lake Shore Rd", Abbreviate("100 southwest Lake Shore ROAD"))
	// Words that only contain an abbreviation are left alone.
	assert.Equal(t, "12 Stone Drive", Expand("12 Stone Dr"))
	assert.Equal(t, "12 Eastwood Ln", Abbreviate("12 Eastwood Lane"))
}

func TestExpand_KeepsLocalityTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "9 Elm Street, Hartford, CT", Expand("9 Elm St, Hartford, CT"))
	assert.Equal(t, "1 Main Street, St Paul, MN", Expand("1 Main St, St Paul, MN"))
	assert.Equal(t, "5 Oak Court Hartford CT 06101", Expand("5 Oak Ct Hartford CT 06101"))
}

func TestVariants_LowercaseStateIsLocality(t *testing.T) {
	t.Parallel()

	got := Variants("9 elm st, woodstock, il")
	require.NotEmpty(t, got)
	assert.Equal(t, "9 elm st, woodstock, il", got[0])
	assert.NotContains(t, got, "9 elm st, woodstock, il, Wonder Lake, IL")
}

func TestApplyAliases(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"1 Lakeshore Dr"}, ApplyAliases("1 Lake Shore Dr"))
	assert.Equal(t, []string{"1 Lake Shore Dr"}, ApplyAliases("1 LAKESHORE Dr"))
	assert.Equal(t, []string{"1 Lakeview Ct, Wonderlake"}, ApplyAliases("1 Lake  View Ct, Wonderlake")[:1])
	assert.Empty(t, ApplyAliases("1 Main St"))
}

func TestStreetPortion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "123 Lake Shore Road", StreetPortion("123 Lake Shore Road, Wonder Lake, IL, 60097"))
	assert.Equal(t, "Main St", StreetPortion("  Main St  "))
	assert.Equal(t, "", StreetPortion(", Wonder Lake"))
}
