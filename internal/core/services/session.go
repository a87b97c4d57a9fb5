package services

import (
	"context"
	"slices"
	"sync"

	"github.com/facebookgo/clock"
	"github.com/sourcegraph/conc"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/reposearch-cli/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SearchSession = (*Session)(nil)

type commandKind int

const (
	cmdStart commandKind = iota
	cmdRefresh
	cmdReachedBottom
	cmdDebounceElapsed
	cmdCooldownElapsed
	cmdFetchDone
)

type fetchKind int

const (
	fetchRefresh fetchKind = iota
	fetchNextPage
)

// command is a unit of work for the session loop.
type command struct {
	kind commandKind

	// generation tags timer and fetch commands; stale ones are discarded.
	generation uint64

	fetch fetchKind
	page  *domain.Page
	err   error

	// done is closed once the command has been applied.
	done chan struct{}
}

// Session aggregates paginated search results for one query.
//
// All state is owned by a single loop goroutine. Command methods post into the
// loop and wait for the synchronous part of the transition; fetches run on
// their own goroutines and post their outcome back, tagged with the
// generation they were issued under.
type Session struct {
	id     string
	query  string
	cfg    domain.SearchConfig
	client driven.SearchClient
	clock  clock.Clock
	log    logger.Scoped

	ctx      context.Context
	cancel   context.CancelFunc
	cmds     chan command
	loopDone chan struct{}
	fetches  conc.WaitGroup

	// Owned by the loop goroutine.
	state       domain.AggregateState
	seen        map[int64]struct{}
	generation  uint64
	fetchCancel context.CancelFunc
	debounce    *clock.Timer
	cooldown    *clock.Timer

	mu        sync.Mutex
	snapshot  domain.AggregateState
	subs      map[int]chan domain.AggregateState
	nextSub   int
	closed    bool
	closeOnce sync.Once
}

// NewSession creates an idle session and starts its loop.
// The session is torn down when ctx is cancelled; Close must still be called
// to release subscribers.
func NewSession(
	ctx context.Context,
	id, query string,
	cfg domain.SearchConfig,
	client driven.SearchClient,
	clk clock.Clock,
) *Session {
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		id:       id,
		query:    query,
		cfg:      cfg,
		client:   client,
		clock:    clk,
		log:      logger.With("session " + id),
		ctx:      ctx,
		cancel:   cancel,
		cmds:     make(chan command),
		loopDone: make(chan struct{}),
		state:    domain.NewAggregateState(query),
		seen:     make(map[int64]struct{}),
		subs:     make(map[int]chan domain.AggregateState),
	}
	s.snapshot = s.state
	go s.run()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Query returns the query the session is bound to.
func (s *Session) Query() string {
	return s.query
}

// Start loads the first page. Calls after the first are ignored.
func (s *Session) Start() {
	s.send(command{kind: cmdStart})
}

// Refresh reloads from page 1, superseding any in-flight fetch.
func (s *Session) Refresh() {
	s.send(command{kind: cmdRefresh})
}

// ReachedBottom requests the next page once the debounce window closes.
func (s *Session) ReachedBottom() {
	s.send(command{kind: cmdReachedBottom})
}

// Snapshot returns the most recently published state.
func (s *Session) Snapshot() domain.AggregateState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Subscribe returns a conflating stream of states. The channel holds at most
// one pending value, which is always the newest.
func (s *Session) Subscribe() (<-chan domain.AggregateState, func()) {
	ch := make(chan domain.AggregateState, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.snapshot

	return ch, func() { s.unsubscribe(id) }
}

func (s *Session) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

// Close cancels in-flight work and waits for the session goroutines to exit.
// It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.loopDone
		s.fetches.Wait()

		s.mu.Lock()
		s.closed = true
		for id, ch := range s.subs {
			delete(s.subs, id)
			close(ch)
		}
		s.mu.Unlock()

		s.log.Debug("closed")
	})
}

// send posts cmd and waits until the loop has applied it.
func (s *Session) send(cmd command) {
	cmd.done = make(chan struct{})
	if !s.post(cmd) {
		return
	}
	select {
	case <-cmd.done:
	case <-s.loopDone:
	}
}

// post hands cmd to the loop. It reports false once the session is shut down.
func (s *Session) post(cmd command) bool {
	select {
	case s.cmds <- cmd:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *Session) run() {
	defer close(s.loopDone)
	defer s.stopTimers()

	for {
		select {
		case <-s.ctx.Done():
			return
		case cmd := <-s.cmds:
			if s.ctx.Err() == nil && s.apply(cmd) {
				s.publish()
			}
			if cmd.done != nil {
				close(cmd.done)
			}
		}
	}
}

// apply performs one transition and reports whether the state changed.
func (s *Session) apply(cmd command) bool {
	switch cmd.kind {
	case cmdStart:
		if s.state.Started {
			return false
		}
		s.log.Debug("start q=%q", s.query)
		s.state.Started = true
		s.beginRefresh()
		return true

	case cmdRefresh:
		if !s.state.Started {
			s.log.Debug("refresh before start, starting")
			s.state.Started = true
		}
		s.beginRefresh()
		return true

	case cmdReachedBottom:
		return s.reachedBottom()

	case cmdDebounceElapsed:
		if cmd.generation != s.generation {
			return false
		}
		s.debounce = nil
		return s.beginNextPage()

	case cmdCooldownElapsed:
		if cmd.generation != s.generation || s.cooldown == nil {
			return false
		}
		s.cooldown = nil
		s.state.IsLoadingNextPage = false
		return true

	case cmdFetchDone:
		return s.fetchDone(cmd)
	}
	return false
}

// beginRefresh supersedes all outstanding work and fetches page 1.
func (s *Session) beginRefresh() {
	s.stopTimers()
	s.state.CurrentPage = 1
	s.state.IsRefreshing = true
	s.state.IsLoadingNextPage = false
	s.issueFetch(fetchRefresh, 1)
}

func (s *Session) reachedBottom() bool {
	if !s.canLoadNextPage() {
		s.log.Debug("reached bottom ignored (started=%t refreshing=%t loading=%t)",
			s.state.Started, s.state.IsRefreshing, s.state.IsLoadingNextPage)
		return false
	}
	if s.debounce != nil {
		return false
	}
	if s.cfg.DebounceWindow <= 0 {
		return s.beginNextPage()
	}

	gen := s.generation
	s.debounce = s.clock.AfterFunc(s.cfg.DebounceWindow, func() {
		s.send(command{kind: cmdDebounceElapsed, generation: gen})
	})
	return false
}

func (s *Session) canLoadNextPage() bool {
	return s.state.Started && !s.state.IsBusy()
}

func (s *Session) beginNextPage() bool {
	if !s.canLoadNextPage() {
		return false
	}
	s.state.IsLoadingNextPage = true
	s.state.CurrentPage++
	s.issueFetch(fetchNextPage, s.state.CurrentPage)
	return true
}

// issueFetch cancels any in-flight fetch and starts a new one under a fresh generation.
func (s *Session) issueFetch(kind fetchKind, page int) {
	if s.fetchCancel != nil {
		s.fetchCancel()
	}
	s.generation++
	gen := s.generation

	ctx, cancel := context.WithCancel(s.ctx)
	s.fetchCancel = cancel

	s.log.Debug("fetch page=%d gen=%d", page, gen)
	s.fetches.Go(func() {
		defer cancel()
		result, err := s.client.Fetch(ctx, s.query, s.cfg.PageSize, page)
		s.post(command{
			kind:       cmdFetchDone,
			generation: gen,
			fetch:      kind,
			page:       result,
			err:        err,
		})
	})
}

func (s *Session) fetchDone(cmd command) bool {
	if cmd.generation != s.generation {
		s.log.Debug("discarding superseded result gen=%d", cmd.generation)
		return false
	}
	s.fetchCancel = nil

	if cmd.err == nil && cmd.page == nil {
		cmd.err = domain.NewDecodeError(nil)
	}

	switch cmd.fetch {
	case fetchRefresh:
		s.state.IsRefreshing = false
		s.state.Loaded = true
		if cmd.err != nil {
			s.log.Warn("refresh failed: %v", cmd.err)
			s.state.HasError = true
			return true
		}
		s.replaceItems(cmd.page.Repositories)
		s.state.HasError = false
		s.log.Debug("refreshed: %d items (total %d)", len(s.state.Items), cmd.page.TotalCount)

	case fetchNextPage:
		if cmd.err != nil {
			s.log.Warn("page %d failed: %v", s.state.CurrentPage, cmd.err)
			s.state.IsLoadingNextPage = false
			s.state.HasError = true
			return true
		}
		added := s.appendItems(cmd.page.Repositories)
		s.state.HasError = false
		s.log.Debug("page %d: %d new items", s.state.CurrentPage, added)
		s.startCooldown()
	}
	return true
}

// startCooldown keeps IsLoadingNextPage raised for the configured delay.
func (s *Session) startCooldown() {
	if s.cfg.CooldownDelay <= 0 {
		s.state.IsLoadingNextPage = false
		return
	}
	gen := s.generation
	s.cooldown = s.clock.AfterFunc(s.cfg.CooldownDelay, func() {
		s.send(command{kind: cmdCooldownElapsed, generation: gen})
	})
}

func (s *Session) stopTimers() {
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
	if s.cooldown != nil {
		s.cooldown.Stop()
		s.cooldown = nil
	}
}

func (s *Session) replaceItems(repos []domain.Repository) {
	s.seen = make(map[int64]struct{}, len(repos))
	items := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		if _, dup := s.seen[repo.ID]; dup {
			continue
		}
		s.seen[repo.ID] = struct{}{}
		items = append(items, repo)
	}
	s.state.Items = items
}

func (s *Session) appendItems(repos []domain.Repository) int {
	added := 0
	for _, repo := range repos {
		if _, dup := s.seen[repo.ID]; dup {
			continue
		}
		s.seen[repo.ID] = struct{}{}
		s.state.Items = append(s.state.Items, repo)
		added++
	}
	return added
}

// publish stores a copy of the state and offers it to every subscriber.
// Items are clipped so appends on either side never write into shared memory.
func (s *Session) publish() {
	snap := s.state
	snap.Items = slices.Clip(s.state.Items)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snap
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
