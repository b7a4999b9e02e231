package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"patrimonio/internal/core"
	"patrimonio/internal/records"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an (id, period) pair matches no row.
var ErrNotFound = records.ErrNotFound

// SQLiteRepository is the primary record store. It implements records.Store
// for the five entity tables plus the soft-deleted template set.
type SQLiteRepository struct {
	db *sql.DB
}

// Ensure interface conformance
var (
	_ records.Store         = (*SQLiteRepository)(nil)
	_ records.TemplateStore = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping reports whether the database is reachable. The HTTP readiness
// probe calls it.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Period filters TRIM the stored value: legacy imports carried stray
// whitespace in mes_ano and filtering must still match them.

func (r *SQLiteRepository) Incomes(ctx context.Context, period core.Period) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nome, categoria, valor, frequencia, moeda, confiabilidade, notas, mes_ano
		 FROM receitas WHERE TRIM(mes_ano) = ? ORDER BY created_at DESC`, period.String())
	if err != nil {
		return nil, fmt.Errorf("query receitas: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		var in core.Income
		if err := rows.Scan(&in.ID, &in.Name, &in.Category, &in.Amount, &in.Frequency, &in.Currency, &in.Reliability, &in.Notes, &in.Period); err != nil {
			return nil, fmt.Errorf("scan receita: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Costs(ctx context.Context, period core.Period) ([]core.Cost, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nome, valor, moeda, centro_custo, notas, mes_ano
		 FROM custos WHERE TRIM(mes_ano) = ? ORDER BY created_at DESC`, period.String())
	if err != nil {
		return nil, fmt.Errorf("query custos: %w", err)
	}
	defer rows.Close()

	var out []core.Cost
	for rows.Next() {
		var c core.Cost
		if err := rows.Scan(&c.ID, &c.Name, &c.Amount, &c.Currency, &c.Center, &c.Notes, &c.Period); err != nil {
			return nil, fmt.Errorf("scan custo: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Investments(ctx context.Context, period core.Period) ([]core.Investment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, instituicao, saldo, moeda, rendimento_percentual, liquidez, notas, mes_ano
		 FROM investimentos WHERE TRIM(mes_ano) = ? ORDER BY created_at DESC`, period.String())
	if err != nil {
		return nil, fmt.Errorf("query investimentos: %w", err)
	}
	defer rows.Close()

	var out []core.Investment
	for rows.Next() {
		var inv core.Investment
		if err := rows.Scan(&inv.ID, &inv.Institution, &inv.Balance, &inv.Currency, &inv.YieldPercent, &inv.Liquidity, &inv.Notes, &inv.Period); err != nil {
			return nil, fmt.Errorf("scan investimento: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Assets(ctx context.Context, period core.Period) ([]core.Asset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nome, valor, valorizacao, moeda, notas, mes_ano
		 FROM ativos WHERE TRIM(mes_ano) = ? ORDER BY created_at DESC`, period.String())
	if err != nil {
		return nil, fmt.Errorf("query ativos: %w", err)
	}
	defer rows.Close()

	var out []core.Asset
	for rows.Next() {
		var a core.Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Value, &a.Appreciation, &a.Currency, &a.Notes, &a.Period); err != nil {
			return nil, fmt.Errorf("scan ativo: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Liabilities(ctx context.Context, period core.Period) ([]core.Liability, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nome, valor, notas, mes_ano
		 FROM passivos WHERE TRIM(mes_ano) = ? ORDER BY created_at DESC`, period.String())
	if err != nil {
		return nil, fmt.Errorf("query passivos: %w", err)
	}
	defer rows.Close()

	var out []core.Liability
	for rows.Next() {
		var l core.Liability
		if err := rows.Scan(&l.ID, &l.Name, &l.Value, &l.Notes, &l.Period); err != nil {
			return nil, fmt.Errorf("scan passivo: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateIncome(ctx context.Context, in core.Income) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO receitas (nome, categoria, valor, frequencia, moeda, confiabilidade, notas, mes_ano)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Category, in.Amount, in.Frequency, in.Currency, in.Reliability, in.Notes, in.Period.String())
	if err != nil {
		return 0, fmt.Errorf("insert receita: %w", err)
	}
	return lastID(ctx, res, "receita")
}

func (r *SQLiteRepository) UpdateIncome(ctx context.Context, in core.Income) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE receitas SET nome = ?, categoria = ?, valor = ?, frequencia = ?, moeda = ?, confiabilidade = ?, notas = ?
		 WHERE id = ? AND TRIM(mes_ano) = ?`,
		in.Name, in.Category, in.Amount, in.Frequency, in.Currency, in.Reliability, in.Notes, in.ID, in.Period.String())
	if err != nil {
		return fmt.Errorf("update receita: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id int64, period core.Period) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM receitas WHERE id = ? AND TRIM(mes_ano) = ?`, id, period.String())
	if err != nil {
		return fmt.Errorf("delete receita: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateCost(ctx context.Context, c core.Cost) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO custos (nome, valor, moeda, centro_custo, notas, mes_ano)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.Amount, c.Currency, c.Center, c.Notes, c.Period.String())
	if err != nil {
		return 0, fmt.Errorf("insert custo: %w", err)
	}
	return lastID(ctx, res, "custo")
}

func (r *SQLiteRepository) UpdateCost(ctx context.Context, c core.Cost) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE custos SET nome = ?, valor = ?, moeda = ?, centro_custo = ?, notas = ?
		 WHERE id = ? AND TRIM(mes_ano) = ?`,
		c.Name, c.Amount, c.Currency, c.Center, c.Notes, c.ID, c.Period.String())
	if err != nil {
		return fmt.Errorf("update custo: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteCost(ctx context.Context, id int64, period core.Period) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM custos WHERE id = ? AND TRIM(mes_ano) = ?`, id, period.String())
	if err != nil {
		return fmt.Errorf("delete custo: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateInvestment(ctx context.Context, inv core.Investment) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO investimentos (instituicao, saldo, moeda, rendimento_percentual, liquidez, notas, mes_ano)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.Institution, inv.Balance, inv.Currency, inv.YieldPercent, inv.Liquidity, inv.Notes, inv.Period.String())
	if err != nil {
		return 0, fmt.Errorf("insert investimento: %w", err)
	}
	return lastID(ctx, res, "investimento")
}

func (r *SQLiteRepository) UpdateInvestment(ctx context.Context, inv core.Investment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE investimentos SET instituicao = ?, saldo = ?, moeda = ?, rendimento_percentual = ?, liquidez = ?, notas = ?
		 WHERE id = ? AND TRIM(mes_ano) = ?`,
		inv.Institution, inv.Balance, inv.Currency, inv.YieldPercent, inv.Liquidity, inv.Notes, inv.ID, inv.Period.String())
	if err != nil {
		return fmt.Errorf("update investimento: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteInvestment(ctx context.Context, id int64, period core.Period) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM investimentos WHERE id = ? AND TRIM(mes_ano) = ?`, id, period.String())
	if err != nil {
		return fmt.Errorf("delete investimento: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateAsset(ctx context.Context, a core.Asset) (int64, error) {
	currency := a.Currency
	if currency == "" {
		currency = core.BRL
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ativos (nome, valor, valorizacao, moeda, notas, mes_ano)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.Name, a.Value, a.Appreciation, currency, a.Notes, a.Period.String())
	if err != nil {
		return 0, fmt.Errorf("insert ativo: %w", err)
	}
	return lastID(ctx, res, "ativo")
}

func (r *SQLiteRepository) UpdateAsset(ctx context.Context, a core.Asset) error {
	currency := a.Currency
	if currency == "" {
		currency = core.BRL
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE ativos SET nome = ?, valor = ?, valorizacao = ?, moeda = ?, notas = ?
		 WHERE id = ? AND TRIM(mes_ano) = ?`,
		a.Name, a.Value, a.Appreciation, currency, a.Notes, a.ID, a.Period.String())
	if err != nil {
		return fmt.Errorf("update ativo: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteAsset(ctx context.Context, id int64, period core.Period) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM ativos WHERE id = ? AND TRIM(mes_ano) = ?`, id, period.String())
	if err != nil {
		return fmt.Errorf("delete ativo: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateLiability(ctx context.Context, l core.Liability) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO passivos (nome, valor, notas, mes_ano) VALUES (?, ?, ?, ?)`,
		l.Name, l.Value, l.Notes, l.Period.String())
	if err != nil {
		return 0, fmt.Errorf("insert passivo: %w", err)
	}
	return lastID(ctx, res, "passivo")
}

func (r *SQLiteRepository) UpdateLiability(ctx context.Context, l core.Liability) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE passivos SET nome = ?, valor = ?, notas = ? WHERE id = ? AND TRIM(mes_ano) = ?`,
		l.Name, l.Value, l.Notes, l.ID, l.Period.String())
	if err != nil {
		return fmt.Errorf("update passivo: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteLiability(ctx context.Context, id int64, period core.Period) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM passivos WHERE id = ? AND TRIM(mes_ano) = ?`, id, period.String())
	if err != nil {
		return fmt.Errorf("delete passivo: %w", err)
	}
	return requireRow(res)
}

const templateColumns = `id, nome, categoria, valor, frequencia, moeda, confiabilidade,
	centro_custo, rendimento_percentual, liquidez, valorizacao, notas, ativo`

// ListTemplates returns the active templates of one kind, ordered by name.
func (r *SQLiteRepository) ListTemplates(ctx context.Context, kind records.Kind) ([]core.Template, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE tipo = ? AND ativo = 1 ORDER BY nome ASC`,
		kind.String())
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	var out []core.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTemplate(ctx context.Context, kind records.Kind, id int64) (core.Template, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE tipo = ? AND id = ? AND ativo = 1`,
		kind.String(), id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Template{}, ErrNotFound
	}
	return t, err
}

func (r *SQLiteRepository) CreateTemplate(ctx context.Context, kind records.Kind, t core.Template) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO templates (tipo, nome, categoria, valor, frequencia, moeda, confiabilidade,
		 centro_custo, rendimento_percentual, liquidez, valorizacao, notas, ativo)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		kind.String(), t.Name, t.Category, t.Value, t.Frequency, t.Currency, t.Reliability,
		t.Center, t.YieldPercent, t.Liquidity, t.Appreciation, t.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert template: %w", err)
	}
	return lastID(ctx, res, "template")
}

func (r *SQLiteRepository) UpdateTemplate(ctx context.Context, kind records.Kind, t core.Template) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE templates SET nome = ?, categoria = ?, valor = ?, frequencia = ?, moeda = ?,
		 confiabilidade = ?, centro_custo = ?, rendimento_percentual = ?, liquidez = ?,
		 valorizacao = ?, notas = ?
		 WHERE tipo = ? AND id = ? AND ativo = 1`,
		t.Name, t.Category, t.Value, t.Frequency, t.Currency, t.Reliability,
		t.Center, t.YieldPercent, t.Liquidity, t.Appreciation, t.Notes,
		kind.String(), t.ID)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return requireRow(res)
}

// SoftDeleteTemplate retires a template without removing it. Records that
// referenced it keep working.
func (r *SQLiteRepository) SoftDeleteTemplate(ctx context.Context, kind records.Kind, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE templates SET ativo = 0 WHERE tipo = ? AND id = ? AND ativo = 1`,
		kind.String(), id)
	if err != nil {
		return fmt.Errorf("soft delete template: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (core.Template, error) {
	var t core.Template
	var active int64
	err := row.Scan(&t.ID, &t.Name, &t.Category, &t.Value, &t.Frequency, &t.Currency,
		&t.Reliability, &t.Center, &t.YieldPercent, &t.Liquidity, &t.Appreciation, &t.Notes, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Template{}, err
		}
		return core.Template{}, fmt.Errorf("scan template: %w", err)
	}
	t.Active = active != 0
	return t, nil
}

func lastID(ctx context.Context, res sql.Result, entity string) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	slog.DebugContext(ctx, "Record saved", "entity", entity, "id", id)
	return id, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
