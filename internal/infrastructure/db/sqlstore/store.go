// Package sqlstore implements the ports.Store record store on top of sqlx,
// backed by SQLite (modernc.org/sqlite) or PostgreSQL (lib/pq).
package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/clientops/hub/internal/core/ports"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultTimeout = 10 * time.Second
)

// DefaultSQLiteDSN is a local database file with foreign keys enforced.
const DefaultSQLiteDSN = "file:clientops.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"

// Config captures the settings required to open the record store.
type Config struct {
	Driver  string
	DSN     string
	Timeout time.Duration
}

// Store implements ports.Store. A Store created by WithTx is bound to that
// transaction; every repository it hands out runs inside it.
type Store struct {
	db *sqlx.DB
	q  sqlx.ExtContext
	tx *sqlx.Tx
}

var _ ports.Store = (*Store)(nil)

// Open connects to the database and verifies connectivity with a ping. A
// default timeout is applied when none is provided.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
	dsn := cfg.DSN
	if dsn == "" && driver == DriverSQLite {
		dsn = DefaultSQLiteDSN
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore open: %w", err)
	}
	if driver == DriverSQLite {
		// one writer at a time; also keeps :memory: databases on a single connection
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore ping: %w", err)
	}

	return newStore(db), nil
}

func newStore(db *sqlx.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DriverName reports the database/sql driver in use.
func (s *Store) DriverName() string { return s.db.DriverName() }

// WithTx executes fn within a transaction. fn's error rolls the transaction
// back; a nil return commits it. Calling WithTx on a transaction-scoped Store
// joins the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx ports.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(&Store{db: s.db, q: tx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) Users() ports.UserRepository       { return &userRepo{q: s.q} }
func (s *Store) Clients() ports.ClientRepository   { return &clientRepo{q: s.q} }
func (s *Store) Leads() ports.LeadRepository       { return &leadRepo{q: s.q} }
func (s *Store) Invoices() ports.InvoiceRepository { return &invoiceRepo{q: s.q} }

// Audit returns the SQL audit trail. It always writes outside any transaction
// the Store may be bound to.
func (s *Store) Audit() ports.AuditRepository { return &auditRepo{q: s.db} }
