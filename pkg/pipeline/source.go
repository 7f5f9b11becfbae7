package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/artem13815/hackathon/pkg/registration"
)

type field int

const (
	fieldTimestamp field = iota
	fieldFullName
	fieldEmail
	fieldPhone
	fieldRole
	fieldTrackURL
	fieldArea
	fieldTechnologies
	fieldAvailability
	fieldCommitment
	fieldTeamwork
	fieldCount
)

// Headers are the form export column titles, whitespace-normalized, in export order.
// The export pads some of them with spaces; those are ignored when matching.
var Headers = []struct {
	Title string
	field field
}{
	{"Timestamp", fieldTimestamp},
	{"Nome Completo", fieldFullName},
	{"E-mail", fieldEmail},
	{"Telefone", fieldPhone},
	{"Qual é o seu papel atual na Comunidade?", fieldRole},
	{"Caso você esteja aguardando ser alocado em uma equipe, insira a URL da sua Trilha", fieldTrackURL},
	{"Qual área você gostaria de atuar?", fieldArea},
	{"Qual linguagem e frameworks você tem mais familiaridade? (Liste apenas termos, como [Python, Django, etc.])", fieldTechnologies},
	{"Disponibilidade de Horário:", fieldAvailability},
	{"Você está ciente de que o hackathon exige comprometimento contínuo com sua equipe e o projeto durante as duas próximas semanas?", fieldCommitment},
	{"Você está preparado para trabalhar em equipe, colaborando efetivamente e comunicando-se de forma clara com os membros da sua equipe?", fieldTeamwork},
}

var reHeaderSpaces = regexp.MustCompile(`\s+`)

func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = norm.NFC.String(h)
	return strings.TrimSpace(reHeaderSpaces.ReplaceAllString(h, " "))
}

// ReadSource loads every registration row of a CSV export.
func ReadSource(path string) ([]registration.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, sourceErr(path, ErrSourceNotFound, 0, nil)
		}
		return nil, sourceErr(path, ErrSourceUnexpected, 0, err)
	}
	defer f.Close()
	return ReadCSV(f, path)
}

// ReadCSV is ReadSource over an arbitrary reader; name is used in errors.
// The input must be UTF-8, a byte order mark is tolerated.
func ReadCSV(r io.Reader, name string) ([]registration.Record, error) {
	decoded := transform.NewReader(r, xunicode.BOMOverride(xunicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, sourceErr(name, ErrSourceEmpty, 0, nil)
		}
		return nil, readErr(name, err)
	}
	index, err := mapHeader(header)
	if err != nil {
		return nil, sourceErr(name, ErrSourceMalformed, 1, err)
	}

	var records []registration.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readErr(name, err)
		}
		line, _ := reader.FieldPos(0)
		if len(row) > len(header) {
			return nil, sourceErr(name, ErrSourceMalformed, line,
				fmt.Errorf("expected %d fields, got %d", len(header), len(row)))
		}
		records = append(records, toRecord(row, index, line))
	}
	if len(records) == 0 {
		return nil, sourceErr(name, ErrSourceEmpty, 0, errors.New("header without rows"))
	}
	return records, nil
}

func readErr(name string, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return sourceErr(name, ErrSourceMalformed, perr.Line, perr.Err)
	}
	return sourceErr(name, ErrSourceUnexpected, 0, err)
}

// mapHeader returns, for each field, the column index holding it.
func mapHeader(header []string) ([fieldCount]int, error) {
	var index [fieldCount]int
	for i := range index {
		index[i] = -1
	}
	byTitle := make(map[string]field, len(Headers))
	for _, h := range Headers {
		byTitle[h.Title] = h.field
	}
	for col, title := range header {
		f, ok := byTitle[cleanHeader(title)]
		if !ok {
			continue
		}
		if index[f] >= 0 {
			return index, fmt.Errorf("duplicate column %q", cleanHeader(title))
		}
		index[f] = col
	}
	var missing []string
	for _, h := range Headers {
		if index[h.field] < 0 {
			missing = append(missing, fmt.Sprintf("%q", h.Title))
		}
	}
	if len(missing) > 0 {
		return index, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func toRecord(row []string, index [fieldCount]int, line int) registration.Record {
	get := func(f field) string {
		if col := index[f]; col < len(row) {
			return row[col]
		}
		return "" // short rows are padded
	}
	return registration.Record{
		Line:         line,
		Timestamp:    get(fieldTimestamp),
		FullName:     get(fieldFullName),
		Email:        get(fieldEmail),
		Phone:        get(fieldPhone),
		Role:         get(fieldRole),
		TrackURL:     get(fieldTrackURL),
		Area:         get(fieldArea),
		Technologies: get(fieldTechnologies),
		Availability: get(fieldAvailability),
		Commitment:   get(fieldCommitment),
		Teamwork:     get(fieldTeamwork),
	}
}
