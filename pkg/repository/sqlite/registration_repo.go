package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/artem13815/hackathon/pkg/registration"
)

// submittedLayout sorts lexicographically in time order.
const submittedLayout = "2006-01-02T15:04:05"

// RegistrationRepository is the embedded-database Loader, used for local runs.
type RegistrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

var insertSQL = fmt.Sprintf(`INSERT INTO %s (row_number, submitted_at, %s) VALUES (?, ?%s)`,
	registration.Table,
	`"`+strings.Join(registration.Columns, `", "`)+`"`,
	strings.Repeat(", ?", len(registration.Columns)))

// ReplaceAll deletes the previous batch and inserts records in one transaction.
func (r *RegistrationRepository) ReplaceAll(ctx context.Context, records []registration.Cleaned) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+registration.Table); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range records {
		var submitted any
		if c.SubmittedAt != nil {
			submitted = c.SubmittedAt.Format(submittedLayout)
		}
		args := append([]any{i + 1, submitted}, c.Values()...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) Recent(ctx context.Context, limit int) ([]registration.Cleaned, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT "timestamp", nome_completo, papel_atual_comunidade, url_trilha_aguardando, area_atuacao,
	linguagem_frameworks, disponibilidade_horario, comprometimento_hackathon, preparado_trabalhar_em_equipe
FROM respostas_formulario
ORDER BY submitted_at IS NULL, submitted_at DESC, row_number DESC
LIMIT ?
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
