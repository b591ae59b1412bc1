// Package servicetest provides in-memory implementations of the stores and publishers
// the services depend on.
package servicetest

import (
	"context"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"exusiai.dev/pocketstats/internal/model"
)

type FilterStore struct {
	mu      sync.Mutex
	Filters map[string]model.Filters
	Saves   int
}

func NewFilterStore() *FilterStore {
	return &FilterStore{Filters: map[string]model.Filters{}}
}

func (s *FilterStore) Load(_ context.Context, collectorID string) (model.Filters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.Filters[collectorID]; ok {
		return f, nil
	}
	return model.DefaultFilters(), nil
}

func (s *FilterStore) Save(_ context.Context, collectorID string, f model.Filters) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Filters[collectorID] = f
	s.Saves++
	return nil
}

type OwnedCardStore struct {
	mu    sync.Mutex
	Cards map[string]map[string]int
	Reads int
	Err   error
}

func NewOwnedCardStore() *OwnedCardStore {
	return &OwnedCardStore{Cards: map[string]map[string]int{}}
}

func (s *OwnedCardStore) GetOwnedCards(_ context.Context, collectorID string) ([]*model.OwnedCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	out := []*model.OwnedCard{}
	for id, n := range s.Cards[collectorID] {
		out = append(out, &model.OwnedCard{CollectorID: collectorID, CardID: id, AmountOwned: n})
	}
	return out, nil
}

func (s *OwnedCardStore) UpsertOwnedCards(_ context.Context, collectorID string, cards []*model.OwnedCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.Cards[collectorID] == nil {
		s.Cards[collectorID] = map[string]int{}
	}
	for _, c := range cards {
		s.Cards[collectorID][c.CardID] = c.AmountOwned
	}
	return nil
}

type RevisionStore struct {
	mu   sync.Mutex
	Revs map[string]int64
}

func NewRevisionStore() *RevisionStore {
	return &RevisionStore{Revs: map[string]int64{}}
}

func (s *RevisionStore) Current(_ context.Context, collectorID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Revs[collectorID], nil
}

func (s *RevisionStore) Bump(_ context.Context, collectorID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Revs[collectorID]++
	return s.Revs[collectorID], nil
}

type Published struct {
	Subject string
	Data    []byte
	MsgID   string
}

// Publisher records published messages instead of sending them.
type Publisher struct {
	mu   sync.Mutex
	Msgs []Published
	Err  error
}

func (p *Publisher) PublishMsg(m *nats.Msg, _ ...nats.PubOpt) (*nats.PubAck, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	p.Msgs = append(p.Msgs, Published{Subject: m.Subject, Data: m.Data, MsgID: m.Header.Get(nats.MsgIdHdr)})
	return &nats.PubAck{Stream: "pocketstats-collection", Sequence: uint64(len(p.Msgs))}, nil
}

// Memo never expires entries.
type Memo struct {
	mu     sync.Mutex
	Values map[string]*model.Overview
}

func NewMemo() *Memo {
	return &Memo{Values: map[string]*model.Overview{}}
}

func (m *Memo) MutexGetSet(_ context.Context, key string, valueFunc func() (*model.Overview, error), _ time.Duration) (*model.Overview, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.Values[key]; ok {
		return v, false, nil
	}
	v, err := valueFunc()
	if err != nil {
		return nil, true, err
	}
	m.Values[key] = v
	return v, true, nil
}

func (m *Memo) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Values = map[string]*model.Overview{}
	return nil
}

func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Values)
}

type SiteStats model.SiteStats

func (s SiteStats) Get(context.Context) model.SiteStats {
	return model.SiteStats(s)
}
