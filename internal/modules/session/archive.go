// README: Append-only audit archive backed by PostgreSQL.
package session

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Archive records turns and function requests for offline audit. It is
// best-effort: callers log failures and carry on, a lost audit row never
// fails a conversation turn.
//
// Expected schema:
//
//	CREATE TABLE conversation_turns (
//	    id          BIGSERIAL PRIMARY KEY,
//	    session_id  TEXT NOT NULL,
//	    role        TEXT NOT NULL,
//	    text        TEXT NOT NULL,
//	    created_at  TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE function_requests (
//	    request_id   TEXT PRIMARY KEY,
//	    session_id   TEXT NOT NULL,
//	    name         TEXT NOT NULL,
//	    params       JSONB NOT NULL,
//	    result       JSONB,
//	    result_short TEXT,
//	    created_at   TIMESTAMPTZ NOT NULL,
//	    resolved_at  TIMESTAMPTZ
//	);
type Archive struct {
	db *pgxpool.Pool
}

func NewArchive(db *pgxpool.Pool) *Archive {
	return &Archive{db: db}
}

func (a *Archive) AppendTurn(ctx context.Context, sessionID string, t Turn) error {
	_, err := a.db.Exec(ctx, `
        INSERT INTO conversation_turns (session_id, role, text, created_at)
        VALUES ($1, $2, $3, $4)`,
		sessionID, string(t.Role), t.Text, t.At,
	)
	if err != nil {
		return fmt.Errorf("archive turn: %w", err)
	}
	return nil
}

func (a *Archive) AppendFunctionRequest(ctx context.Context, sessionID string, req FunctionRequest) error {
	_, err := a.db.Exec(ctx, `
        INSERT INTO function_requests (request_id, session_id, name, params, created_at)
        VALUES ($1, $2, $3, $4, $5)`,
		req.RequestID, sessionID, req.Name, []byte(req.Params), req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("archive function request: %w", err)
	}
	return nil
}

func (a *Archive) ResolveFunctionRequest(ctx context.Context, req FunctionRequest) error {
	tag, err := a.db.Exec(ctx, `
        UPDATE function_requests
        SET result = $2, result_short = $3, resolved_at = $4
        WHERE request_id = $1`,
		req.RequestID, []byte(req.Result), req.ResultShort, req.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("archive resolve: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("archive resolve: unknown request %s", req.RequestID)
	}
	return nil
}
