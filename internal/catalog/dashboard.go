package catalog

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BalanceReader reports a user's credit balance.
type BalanceReader interface {
	Balance(ctx context.Context, userID string) (int, error)
}

type Dashboard struct {
	Counts          map[string]int `json:"counts"`
	UnreadEnquiries int            `json:"unread_enquiries"`
	CreditBalance   int            `json:"credit_balance"`
}

// Dashboard gathers the per-collection counts, the unread enquiry count
// and the credit balance concurrently. credits may be nil.
func (s *Store) Dashboard(ctx context.Context, userID string, credits BalanceReader) (*Dashboard, error) {
	d := &Dashboard{Counts: make(map[string]int, len(entities))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, e := range All() {
		g.Go(func() error {
			n, err := s.Count(gctx, e, userID)
			if err != nil {
				return err
			}
			mu.Lock()
			d.Counts[e.Name] = n
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		n, err := s.CountUnreadEnquiries(gctx, userID)
		d.UnreadEnquiries = n
		return err
	})
	if credits != nil {
		g.Go(func() error {
			n, err := credits.Balance(gctx, userID)
			d.CreditBalance = n
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
