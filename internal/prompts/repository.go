package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/remit/pkg/pagination"
	"github.com/JaimeStill/remit/pkg/query"
	"github.com/JaimeStill/remit/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New returns a Postgres-backed System.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "prompts"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort...).
		WhereSearch(page.Search, "Name", "Description")
	filters.apply(qb)
	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)
	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd Command) (*Prompt, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := "INSERT INTO prompts(name, stage, instructions, description) VALUES ($1, $2, $3, $4) " + returning
	p, err := r.one(ctx, q, cmd.Name, string(cmd.Stage), cmd.Instructions, cmd.Description)
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "prompt created", "id", p.ID, "name", p.Name, "stage", p.Stage)
	return p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd Command) (*Prompt, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := "UPDATE prompts SET name = $1, stage = $2, instructions = $3, description = $4 WHERE id = $5 " + returning
	p, err := r.one(ctx, q, cmd.Name, string(cmd.Stage), cmd.Instructions, cmd.Description, id)
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "prompt updated", "id", p.ID, "name", p.Name)
	return p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM prompts WHERE id = $1", id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	r.logger.InfoContext(ctx, "prompt deleted", "id", id)
	return nil
}

// Activate makes id the active override for its stage, deactivating the
// previous one in the same transaction.
func (r *repo) Activate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		_, err := tx.ExecContext(ctx, `
			UPDATE prompts SET active = false
			WHERE active AND stage = (SELECT stage FROM prompts WHERE id = $1) AND id <> $1`, id)
		if err != nil {
			return Prompt{}, fmt.Errorf("deactivate current: %w", err)
		}
		return repository.QueryOne(ctx, tx, "UPDATE prompts SET active = true WHERE id = $1 "+returning, []any{id}, scanPrompt)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.InfoContext(ctx, "prompt activated", "id", p.ID, "stage", p.Stage)
	return &p, nil
}

func (r *repo) Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	p, err := r.one(ctx, "UPDATE prompts SET active = false WHERE id = $1 "+returning, id)
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "prompt deactivated", "id", p.ID, "stage", p.Stage)
	return p, nil
}

// Instructions returns the active override for stage, or the built-in
// instructions when none is active.
func (r *repo) Instructions(ctx context.Context, stage Stage) (string, error) {
	if _, err := ParseStage(string(stage)); err != nil {
		return "", err
	}

	var text string
	err := r.db.QueryRowContext(ctx,
		"SELECT instructions FROM prompts WHERE stage = $1 AND active",
		string(stage),
	).Scan(&text)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return DefaultInstructions(stage)
	case err != nil:
		return "", fmt.Errorf("active %s prompt: %w", stage, err)
	}
	return text, nil
}

func (r *repo) Spec(_ context.Context, stage Stage) (string, error) {
	return Spec(stage)
}

func (r *repo) one(ctx context.Context, q string, args ...any) (*Prompt, error) {
	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}
