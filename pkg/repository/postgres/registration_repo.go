package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/hackathon/pkg/registration"
)

// RegistrationRepository persists cleaned registrations in respostas_formulario.
// The schema is created by the migrations package.
type RegistrationRepository struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

var copyColumns = append([]string{"row_number", "submitted_at"}, registration.Columns...)

// ReplaceAll truncates the table and copies records in within one transaction,
// so readers see either the previous batch or the new one.
func (r *RegistrationRepository) ReplaceAll(ctx context.Context, records []registration.Cleaned) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `TRUNCATE TABLE `+registration.Table); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	rows := make([][]any, len(records))
	for i, c := range records {
		var submitted any
		if c.SubmittedAt != nil {
			submitted = *c.SubmittedAt
		}
		rows[i] = append([]any{i + 1, submitted}, c.Values()...)
	}
	n, err := tx.CopyFrom(ctx, pgx.Identifier{registration.Table}, copyColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy rows: %w", err)
	}
	if int(n) != len(records) {
		return fmt.Errorf("copy rows: wrote %d of %d", n, len(records))
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) Recent(ctx context.Context, limit int) ([]registration.Cleaned, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
SELECT "timestamp", nome_completo, papel_atual_comunidade, url_trilha_aguardando, area_atuacao,
	linguagem_frameworks, disponibilidade_horario, comprometimento_hackathon, preparado_trabalhar_em_equipe
FROM respostas_formulario
ORDER BY submitted_at DESC NULLS LAST, row_number DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []registration.Cleaned{}
	for rows.Next() {
		var c registration.Cleaned
		if err := rows.Scan(&c.Timestamp, &c.FullName, &c.Role, &c.TrackURL, &c.Area,
			&c.Technologies, &c.Availability, &c.Commitment, &c.Teamwork); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}
