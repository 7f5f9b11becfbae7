package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hackathon/pkg/nlp"
	"github.com/artem13815/hackathon/pkg/registration"
	"github.com/artem13815/hackathon/pkg/vocabulary"
)

// exportHeader mimics the padding the form export puts around some titles.
func exportHeader() []string {
	out := make([]string, len(Headers))
	for i, h := range Headers {
		switch h.field {
		case fieldFullName, fieldTrackURL:
			out[i] = h.Title + " "
		case fieldEmail:
			out[i] = "  " + h.Title + "  "
		case fieldPhone, fieldArea:
			out[i] = h.Title + "  "
		default:
			out[i] = h.Title
		}
	}
	return out
}

type row struct {
	ts, name, email, phone, tech string
}

func (r row) fields() []string {
	return []string{r.ts, r.name, r.email, r.phone, "Participante", "https://trilha/1", "Backend", r.tech, "Noite", "Sim", "Sim"}
}

func writeCSV(t *testing.T, rows ...row) string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(exportHeader()))
	for _, r := range rows {
		require.NoError(t, w.Write(r.fields()))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return writeFile(t, buf.String())
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inscritos_hackathon.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newPipeline() *Pipeline {
	return New(nlp.NewResolver(vocabulary.Default()))
}

func TestRun_EndToEnd(t *testing.T) {
	path := writeCSV(t, row{
		ts:    "2024/01/05 10:00:00",
		name:  " ana silva ",
		email: "a@x.com",
		phone: "11987654321",
		tech:  "Python, reactjs",
	})

	res, err := newPipeline().Run(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	got := res.Records[0]
	assert.Equal(t, "05/01/2024 - 10:00:00", got.Timestamp)
	assert.Equal(t, "Ana Silva", got.FullName)
	assert.Equal(t, "Python, React", got.Technologies)
	assert.Equal(t, "+5511987654321", got.Phone)
	assert.Equal(t, "Participante", got.Role)
	assert.Equal(t, "https://trilha/1", got.TrackURL)
	assert.Equal(t, "Backend", got.Area)
	assert.Equal(t, "Noite", got.Availability)
	assert.Equal(t, "Sim", got.Commitment)
	assert.Equal(t, "Sim", got.Teamwork)
	require.NotNil(t, got.SubmittedAt)

	assert.Equal(t, Stats{Read: 1, Kept: 1, MatchedTokens: 2}, res.Stats)
}

func TestRun_DeduplicatesByEmailFirstWins(t *testing.T) {
	path := writeCSV(t,
		row{ts: "2024/01/05 10:00:00", name: "first", email: "dup@x.com", phone: "1", tech: "python"},
		row{ts: "2024/01/05 11:00:00", name: "other", email: "other@x.com", phone: "2", tech: "react"},
		row{ts: "2024/01/06 09:00:00", name: "second", email: " DUP@x.com", phone: "3", tech: "java"},
	)

	res, err := newPipeline().Run(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	assert.Equal(t, "First", res.Records[0].FullName)
	assert.Equal(t, "Python", res.Records[0].Technologies)
	assert.Equal(t, "05/01/2024 - 10:00:00", res.Records[0].Timestamp)
	assert.Equal(t, "Other", res.Records[1].FullName, "original order is kept")
	assert.Equal(t, 1, res.Stats.Duplicates)
}

func TestRun_UnknownValuesDoNotAbort(t *testing.T) {
	path := writeCSV(t, row{ts: "sometime", name: "x", email: "x@x", phone: "", tech: "ok"})

	res, err := newPipeline().Run(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	assert.Equal(t, registration.UnknownTimestamp, res.Records[0].Timestamp)
	assert.Nil(t, res.Records[0].SubmittedAt)
	assert.Equal(t, registration.UnknownPhone, res.Records[0].Phone)
	assert.Equal(t, "", res.Records[0].Technologies, "two-letter answers are treated as empty")
	assert.Equal(t, 1, res.Stats.UnknownTimestamps)
	assert.Equal(t, 1, res.Stats.UnknownPhones)
}

func TestRun_StubResolver(t *testing.T) {
	exact := nlp.ScorerFunc(func(a, b string) float64 {
		if strings.TrimRight(a, ",") == b {
			return 100
		}
		return 0
	})
	p := New(nlp.NewResolver(vocabulary.MustNew("Go", "Rust"), nlp.WithScorer(exact)))
	path := writeCSV(t, row{ts: "2024/01/05 10:00:00", name: "n", email: "e", tech: "rust, go, zig"})

	res, err := p.Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Go, Rust", res.Records[0].Technologies)
	assert.Equal(t, 2, res.Stats.MatchedTokens)
	assert.Equal(t, 1, res.Stats.UnmatchedTokens)
}

func TestRun_CustomLayouts(t *testing.T) {
	p := New(nlp.NewResolver(vocabulary.Default()), WithLayouts([]string{"02.01.2006 15h04"}))
	path := writeCSV(t, row{ts: "05.01.2024 10h30", name: "n", email: "e"})

	res, err := p.Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "05/01/2024 - 10:30:00", res.Records[0].Timestamp)
}

func TestRun_LogsThroughContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	path := writeCSV(t, row{ts: "2024/01/05 10:00:00", name: "n", email: "e"})
	_, err := newPipeline().Run(ctx, path)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "transform finished")
}

func TestRun_SourceFailures(t *testing.T) {
	dir := t.TempDir()
	header := strings.Join(quoteAll(exportHeader()), ",")

	tests := []struct {
		name string
		path string
		kind error
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.csv"), kind: ErrSourceNotFound},
		{name: "zero bytes", path: writeFile(t, ""), kind: ErrSourceEmpty},
		{name: "header only", path: writeFile(t, header+"\n"), kind: ErrSourceEmpty},
		{name: "bare quote", path: writeFile(t, header+"\n2024/01/05,a\"b,c\n"), kind: ErrSourceMalformed},
		{name: "missing column", path: writeFile(t, "Timestamp,Nome Completo\n2024/01/05,ana\n"), kind: ErrSourceMalformed},
		{name: "too many fields", path: writeFile(t, header+"\n"+strings.Repeat("x,", 12)+"x\n"), kind: ErrSourceMalformed},
		{name: "directory", path: dir, kind: ErrSourceUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newPipeline().Run(context.Background(), tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Empty(t, res.Records, "no partial table")

			var srcErr *SourceError
			require.True(t, errors.As(err, &srcErr))
			assert.Equal(t, tt.path, srcErr.Path)
			assert.NotEmpty(t, srcErr.Error())
		})
	}
}

func TestSourceError_KindsAreDistinct(t *testing.T) {
	kinds := []error{ErrSourceNotFound, ErrSourceEmpty, ErrSourceMalformed, ErrSourceUnexpected}
	names := map[string]struct{}{}
	for _, k := range kinds {
		e := &SourceError{Path: "p", Kind: k}
		for _, other := range kinds {
			if other != k {
				assert.NotErrorIs(t, e, other)
			}
		}
		names[e.KindName()] = struct{}{}
	}
	assert.Len(t, names, len(kinds))
}

func TestReadCSV_ToleratesBOMAndShortRows(t *testing.T) {
	header := strings.Join(quoteAll(exportHeader()), ",")
	content := "\ufeff" + header + "\n" + "2024/01/05 10:00:00,Ana,a@x.com\n"

	records, err := ReadCSV(strings.NewReader(content), "upload.csv")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024/01/05 10:00:00", records[0].Timestamp)
	assert.Equal(t, "a@x.com", records[0].Email)
	assert.Equal(t, "", records[0].Teamwork)
	assert.Equal(t, 2, records[0].Line)
}

func TestReadCSV_ColumnOrderDoesNotMatter(t *testing.T) {
	h := exportHeader()
	h[0], h[1] = h[1], h[0]
	content := strings.Join(quoteAll(h), ",") + "\nAna,2024/01/05 10:00:00\n"

	records, err := ReadCSV(strings.NewReader(content), "reordered.csv")
	require.NoError(t, err)
	assert.Equal(t, "Ana", records[0].FullName)
	assert.Equal(t, "2024/01/05 10:00:00", records[0].Timestamp)
}

func quoteAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return out
}
