package registration

import (
	"context"
	"time"
)

// Record is one raw form submission, columns already mapped to semantic names.
type Record struct {
	Line         int // 1-based line in the source file, header is line 1
	Timestamp    string
	FullName     string
	Email        string
	Phone        string
	Role         string
	TrackURL     string
	Area         string
	Technologies string
	Availability string
	Commitment   string
	Teamwork     string
}

// Cleaned is a normalized submission ready for persistence. Email and Phone are
// kept for in-memory inspection only and are never persisted.
type Cleaned struct {
	Timestamp    string     `json:"timestamp"`
	SubmittedAt  *time.Time `json:"-"`
	FullName     string     `json:"nome_completo"`
	Role         string     `json:"papel_atual_comunidade"`
	TrackURL     string     `json:"url_trilha_aguardando"`
	Area         string     `json:"area_atuacao"`
	Technologies string     `json:"linguagem_frameworks"`
	Availability string     `json:"disponibilidade_horario"`
	Commitment   string     `json:"comprometimento_hackathon"`
	Teamwork     string     `json:"preparado_trabalhar_em_equipe"`

	Email string `json:"-"`
	Phone string `json:"-"`
}

// Table is the name of the persisted table.
const Table = "respostas_formulario"

// Columns is the persisted projection, in order.
var Columns = []string{
	"timestamp",
	"nome_completo",
	"papel_atual_comunidade",
	"url_trilha_aguardando",
	"area_atuacao",
	"linguagem_frameworks",
	"disponibilidade_horario",
	"comprometimento_hackathon",
	"preparado_trabalhar_em_equipe",
}

// Values returns the persisted projection of c, matching Columns.
func (c Cleaned) Values() []any {
	return []any{
		c.Timestamp,
		c.FullName,
		c.Role,
		c.TrackURL,
		c.Area,
		c.Technologies,
		c.Availability,
		c.Commitment,
		c.Teamwork,
	}
}

// Strings is Values for text outputs such as CSV.
func (c Cleaned) Strings() []string {
	return []string{
		c.Timestamp,
		c.FullName,
		c.Role,
		c.TrackURL,
		c.Area,
		c.Technologies,
		c.Availability,
		c.Commitment,
		c.Teamwork,
	}
}

// Repository is the Loader port: it replaces the whole table atomically and
// serves the read query.
type Repository interface {
	// ReplaceAll makes exactly records visible under Table, or leaves the
	// previous contents untouched on error.
	ReplaceAll(ctx context.Context, records []Cleaned) error
	// Recent returns up to limit rows, newest submission first.
	Recent(ctx context.Context, limit int) ([]Cleaned, error)
}
