package csvimport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

func TestParse_Basic(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("Title,Type,Year\nInception,movie,2010\nBreaking Bad,tv,2008\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Title", "Type", "Year"}, doc.Headers)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, 2, doc.Rows[0].Line)
	assert.Equal(t, "Inception", doc.Rows[0].Get("Title"))
	assert.Equal(t, 3, doc.Rows[1].Line)
	assert.Equal(t, "tv", doc.Rows[1].Get("Type"))
}

func TestParse_QuotedFields(t *testing.T) {
	t.Parallel()

	data := "Title,Note\n\"Crouching Tiger, Hidden Dragon\",\"line one\nline two\"\n\"The \"\"Quoted\"\" One\",\n"
	doc, err := Parse([]byte(data))
	require.NoError(t, err)

	require.Len(t, doc.Rows, 2)
	assert.Equal(t, "Crouching Tiger, Hidden Dragon", doc.Rows[0].Get("Title"))
	assert.Equal(t, "line one\nline two", doc.Rows[0].Values["Note"])
	assert.Equal(t, `The "Quoted" One`, doc.Rows[1].Get("Title"))
	assert.Equal(t, 3, doc.Rows[1].Line)
}

func TestParse_StripsBOMAndTrimsHeaders(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("\xEF\xBB\xBF  Title , Year\nAlien,1979\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Title", "Year"}, doc.Headers)
	assert.Equal(t, "Alien", doc.Rows[0].Get("Title"))
}

func TestParse_UTF16(t *testing.T) {
	t.Parallel()

	// ASCII text encoded as UTF-16LE with a BOM.
	data := []byte{0xFF, 0xFE}
	for _, r := range "Title,Year\nAlien,1979\n" {
		data = append(data, byte(r), 0)
	}

	doc, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Title", "Year"}, doc.Headers)
	assert.Equal(t, "1979", doc.Rows[0].Get("Year"))
}

func TestParse_RowAlignment(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("Title,Type,Year\nShort\nLong,movie,1999,extra,more\n"))
	require.NoError(t, err)
	require.Len(t, doc.Rows, 2)

	short := doc.Rows[0]
	assert.Equal(t, "Short", short.Get("Title"))
	assert.Equal(t, "", short.Values["Type"])
	assert.Contains(t, short.Values, "Year")

	long := doc.Rows[1]
	assert.Len(t, long.Values, 3)
	assert.Equal(t, "1999", long.Get("Year"))
}

func TestParse_DuplicateHeaderFirstWins(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("Title,Title\nfirst,second\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Title", "Title"}, doc.Headers)
	assert.Equal(t, "first", doc.Rows[0].Get("Title"))
}

func TestParse_SkipsBlankRecords(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("Title,Year\n,\nAlien,1979\n\n , \nAliens,1986\n"))
	require.NoError(t, err)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, 3, doc.Rows[0].Line)
	assert.Equal(t, "Aliens", doc.Rows[1].Get("Title"))
	assert.Equal(t, 5, doc.Rows[1].Line)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   []byte
		reason string
	}{
		{name: "empty input", data: []byte(""), reason: "file contains no data rows"},
		{name: "header only", data: []byte("Title,Year\n"), reason: "file contains no data rows"},
		{name: "only blank rows", data: []byte("Title,Year\n,\n,\n"), reason: "file contains no data rows"},
		{name: "empty header", data: []byte(" , ,\nAlien,1979,x\n"), reason: "header row is empty"},
		{name: "invalid utf8", data: []byte("Title\n\xff\xfe\xfd\n"), reason: "file is not valid UTF-8 text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.data)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.reason, pe.Reason)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
