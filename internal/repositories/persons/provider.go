package persons

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gotrepository/internal/logging"
)

// Provider hands out one shared PostgresRepository, built on first use.
// Concurrent first callers wait for a single initialisation and all get the
// same instance. A failed initialisation is retried on the next Get.
type Provider struct {
	db  *sql.DB
	log logging.Logger

	// sem guards repo; a one-slot channel so waiters can give up on ctx.
	sem  chan struct{}
	repo *PostgresRepository
}

func NewProvider(db *sql.DB, log logging.Logger) *Provider {
	return &Provider{db: db, log: log, sem: make(chan struct{}, 1)}
}

// Get returns the shared repository, building it if needed. A caller whose
// ctx ends while another caller is still building gets ctx.Err().
func (p *Provider) Get(ctx context.Context) (*PostgresRepository, error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.sem }()

	if p.repo != nil {
		return p.repo, nil
	}

	repo, err := NewPostgresRepository(ctx, p.db, p.log)
	if err != nil {
		return nil, err
	}

	p.repo = repo
	return repo, nil
}

// Reset drops the shared instance; the next Get rebuilds it and checks the
// table again.
func (p *Provider) Reset() {
	p.sem <- struct{}{}
	p.repo = nil
	<-p.sem
}
