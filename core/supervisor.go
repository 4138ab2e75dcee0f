package core

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// ChainStatus is the supervisor's view of one chain's event subscription.
type ChainStatus int

const (
	ChainStatusDisconnected ChainStatus = iota
	ChainStatusConnecting
	ChainStatusSubscribed
)

func (s ChainStatus) String() string {
	switch s {
	case ChainStatusDisconnected:
		return "disconnected"
	case ChainStatusConnecting:
		return "connecting"
	case ChainStatusSubscribed:
		return "subscribed"
	default:
		return "unknown"
	}
}

type SupervisorConfig struct {
	// ReconnectInterval is the pause between subscription attempts after a
	// connection loss.
	ReconnectInterval time.Duration `yaml:"reconnect-interval" json:"reconnect-interval"`

	// DispatchBuffer is the capacity of the shared dispatch channel.
	DispatchBuffer int `yaml:"dispatch-buffer" json:"dispatch-buffer"`
}

const (
	defaultReconnectInterval = 5 * time.Second
	defaultDispatchBuffer    = 64
)

func (cfg *SupervisorConfig) FillDefaults() {
	if cfg.ReconnectInterval == 0 {
		cfg.ReconnectInterval = defaultReconnectInterval
	}
	if cfg.DispatchBuffer == 0 {
		cfg.DispatchBuffer = defaultDispatchBuffer
	}
}

// Supervisor owns the event subscriptions of all registered chains and routes
// their batches to the link workers. One subscription is held per chain no
// matter how many paths touch it; a lost subscription affects only that
// chain's links while the rest keep relaying.
type Supervisor struct {
	cfg SupervisorConfig

	mu     sync.RWMutex
	chains map[string]*ProvableChain
	links  map[string][]*Link
	status map[string]ChainStatus

	dispatch chan EventBatch

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewSupervisor(cfg SupervisorConfig) *Supervisor {
	cfg.FillDefaults()
	return &Supervisor{
		cfg:      cfg,
		chains:   make(map[string]*ProvableChain),
		links:    make(map[string][]*Link),
		status:   make(map[string]ChainStatus),
		dispatch: make(chan EventBatch, cfg.DispatchBuffer),
	}
}

// AddPath registers a relay path, wiring both chains with their relay info and
// creating the two links of the pair. Must be called before Start.
func (s *Supervisor) AddPath(src, dst *ProvableChain, path *Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("cannot add a path to a started supervisor")
	}
	if err := path.Validate(); err != nil {
		return err
	}
	if err := src.SetRelayInfo(path.Src, dst, path.Dst); err != nil {
		return err
	}
	if err := dst.SetRelayInfo(path.Dst, src, path.Src); err != nil {
		return err
	}

	s.registerChain(src)
	s.registerChain(dst)

	// the two directions of the pair; transaction result events of one flow
	// back through the dispatch channel into the other
	s.links[src.ChainID()] = append(s.links[src.ChainID()], NewLink(src, dst, path.Config, s.dispatch))
	s.links[dst.ChainID()] = append(s.links[dst.ChainID()], NewLink(dst, src, path.Config, s.dispatch))
	return nil
}

func (s *Supervisor) registerChain(chain *ProvableChain) {
	id := chain.ChainID()
	if _, ok := s.chains[id]; ok {
		return
	}
	s.chains[id] = chain
	s.status[id] = ChainStatusDisconnected
}

// Status returns the subscription status of a chain.
func (s *Supervisor) Status(chainID string) ChainStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[chainID]
}

func (s *Supervisor) setStatus(chainID string, status ChainStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[chainID] = status
}

func (s *Supervisor) linksFor(chainID string) []*Link {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.links[chainID]
}

// Start launches the link workers, per-chain monitor loops, per-link
// maintenance loops, and the dispatcher. It returns immediately; use Shutdown
// to stop everything.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("supervisor already started")
	}
	s.started = true
	chains := make([]*ProvableChain, 0, len(s.chains))
	for _, chain := range s.chains {
		chains = append(chains, chain)
	}
	var links []*Link
	seen := make(map[*Link]bool)
	for _, ls := range s.links {
		for _, l := range ls {
			if !seen[l] {
				seen[l] = true
				links = append(links, l)
			}
		}
	}
	s.mu.Unlock()

	for _, chain := range chains {
		if err := chain.SetupForRelay(ctx); err != nil {
			return err
		}
	}

	ctx, s.cancel = context.WithCancel(ctx)

	for _, link := range links {
		link := link
		s.wg.Add(2)
		go func() {
			defer s.wg.Done()
			if err := link.Run(ctx); err != nil {
				GetChainLogger(link.src).Error("link worker terminated", err,
					"dst_chain_id", link.DstChainID(),
				)
			}
		}()
		go func() {
			defer s.wg.Done()
			s.maintenanceLoop(ctx, link)
		}()
	}

	for _, chain := range chains {
		chain := chain
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.monitorLoop(ctx, chain)
		}()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatchLoop(ctx)
	}()

	return nil
}

// Shutdown stops all loops and waits for them to drain.
func (s *Supervisor) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// monitorLoop holds the chain's event subscription, forwarding batches to the
// dispatcher and resubscribing after connection losses.
func (s *Supervisor) monitorLoop(ctx context.Context, chain *ProvableChain) {
	logger := GetChainLogger(chain)
	chainID := chain.ChainID()
	for {
		s.setStatus(chainID, ChainStatusConnecting)
		batches, err := chain.Subscribe(ctx)
		if err != nil {
			s.setStatus(chainID, ChainStatusDisconnected)
			if ctx.Err() != nil {
				return
			}
			logger.Error("failed to subscribe to event stream", err)
			if !wait(ctx, s.cfg.ReconnectInterval) {
				return
			}
			continue
		}

		s.setStatus(chainID, ChainStatusSubscribed)
		logger.Info("subscribed to event stream")

	recv:
		for {
			select {
			case <-ctx.Done():
				s.setStatus(chainID, ChainStatusDisconnected)
				return
			case batch, ok := <-batches:
				if !ok {
					break recv
				}
				select {
				case s.dispatch <- batch:
				case <-ctx.Done():
					s.setStatus(chainID, ChainStatusDisconnected)
					return
				}
			}
		}

		s.setStatus(chainID, ChainStatusDisconnected)
		if ctx.Err() != nil {
			return
		}
		if err := chain.SubscriptionError(); err != nil {
			logger.Error("event subscription lost", err)
		} else {
			logger.Info("event subscription closed")
		}
		if !wait(ctx, s.cfg.ReconnectInterval) {
			return
		}
	}
}

// dispatchLoop routes event batches to every link sourced on the emitting
// chain. Delivery blocks when a link's queue is full, so backpressure reaches
// the monitors.
func (s *Supervisor) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-s.dispatch:
			for _, link := range s.linksFor(batch.ChainID) {
				if link.Disabled() {
					continue
				}
				if err := link.Deliver(ctx, batch); err != nil {
					return
				}
			}
		}
	}
}

// maintenanceLoop schedules the link's periodic backlog clearing and client
// refresh. An initial clearing pass picks up whatever was pending before the
// process started.
func (s *Supervisor) maintenanceLoop(ctx context.Context, link *Link) {
	if err := link.TriggerClear(ctx); err != nil {
		return
	}

	clearTicker := time.NewTicker(link.cfg.ClearInterval)
	defer clearTicker.Stop()
	refreshTicker := time.NewTicker(link.cfg.RefreshInterval)
	defer refreshTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-clearTicker.C:
			if err := link.TriggerClear(ctx); err != nil {
				return
			}
		case <-refreshTicker.C:
			if err := link.TriggerRefresh(ctx); err != nil {
				return
			}
		}
	}
}

func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
