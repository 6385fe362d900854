package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/eatery/internal/dbx"
	"github.com/dmitrijs2005/eatery/internal/server/repositories/users"
	"github.com/dmitrijs2005/eatery/internal/server/repositories/verifications"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// path works against the pool or an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Verifications(db dbx.DBTX) verifications.Repository
}
