package core

import (
	"fmt"
	"time"

	chantypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
)

// Paths represent relay paths between chains, keyed by name
type Paths map[string]*Path

// Get returns the configuration for a given path
func (p Paths) Get(name string) (path *Path, err error) {
	if pth, ok := p[name]; ok {
		path = pth
	} else {
		err = fmt.Errorf("path with name %s does not exist", name)
	}
	return
}

// MustGet panics if path is not found
func (p Paths) MustGet(name string) *Path {
	pth, err := p.Get(name)
	if err != nil {
		panic(err)
	}
	return pth
}

// Add adds a path by its name
func (p Paths) Add(name string, path *Path) error {
	if err := path.Validate(); err != nil {
		return err
	}
	if _, found := p[name]; found {
		return fmt.Errorf("path with name %s already exists", name)
	}
	p[name] = path
	return nil
}

// Path represents a pair of chains and the identifiers needed to relay over
// them, plus the relay tuning for the pair.
type Path struct {
	Src    *PathEnd    `yaml:"src" json:"src"`
	Dst    *PathEnd    `yaml:"dst" json:"dst"`
	Config *LinkConfig `yaml:"config" json:"config"`
}

// Ordered returns true if the path is ordered and false if otherwise
func (p *Path) Ordered() bool {
	return p.Src.ChannelOrder() == chantypes.ORDERED
}

// Validate checks that a path is valid
func (p *Path) Validate() (err error) {
	if err = p.Src.Validate(); err != nil {
		return err
	}
	if err = p.Dst.Validate(); err != nil {
		return err
	}
	if p.Src.ChannelOrder() != p.Dst.ChannelOrder() {
		return fmt.Errorf("both sides must have same order ('ORDERED' or 'UNORDERED'), got src(%s) and dst(%s)",
			p.Src.ChannelOrder(), p.Dst.ChannelOrder())
	}
	if p.Config == nil {
		p.Config = DefaultLinkConfig()
	} else {
		p.Config.FillDefaults()
	}
	return nil
}

// End returns the proper end given a chainID
func (p *Path) End(chainID string) *PathEnd {
	if p.Dst.ChainID == chainID {
		return p.Dst
	}
	if p.Src.ChainID == chainID {
		return p.Src
	}
	return &PathEnd{}
}

func (p *Path) String() string {
	return fmt.Sprintf("[ ] %s ->\n %s", p.Src.String(), p.Dst.String())
}

// LinkConfig carries the per-path relay tuning. Zero values are replaced with
// defaults by FillDefaults.
type LinkConfig struct {
	// MaxBatchSize caps the number of packet messages accumulated into one
	// OperationalData batch (and therefore one transaction).
	MaxBatchSize uint64 `yaml:"max-batch-size" json:"max-batch-size"`

	// MaxBatchAge forces submission of a batch that has not filled up.
	MaxBatchAge time.Duration `yaml:"max-batch-age" json:"max-batch-age"`

	// MaxRetryAttempts bounds submission retries for transient failures.
	MaxRetryAttempts uint `yaml:"max-retry-attempts" json:"max-retry-attempts"`

	// RetryInterval is the initial delay of the submission retry backoff.
	RetryInterval time.Duration `yaml:"retry-interval" json:"retry-interval"`

	// SubmitTimeout is the deadline of a single submission attempt.
	SubmitTimeout time.Duration `yaml:"submit-timeout" json:"submit-timeout"`

	// ConnectionDelay is the minimum wall-clock time between the proof height's
	// timestamp and eligibility to submit.
	ConnectionDelay time.Duration `yaml:"connection-delay" json:"connection-delay"`

	// ClearInterval is the period of the backlog-clearing pass.
	ClearInterval time.Duration `yaml:"clear-interval" json:"clear-interval"`

	// RefreshInterval is the period of the client-refresh check.
	RefreshInterval time.Duration `yaml:"refresh-interval" json:"refresh-interval"`

	// QueueSize is the capacity of the dispatch-to-submission queue. Dispatch
	// blocks while the queue is full.
	QueueSize int `yaml:"queue-size" json:"queue-size"`
}

const (
	defaultMaxBatchSize     = 32
	defaultMaxBatchAge      = 10 * time.Second
	defaultMaxRetryAttempts = 10
	defaultRetryInterval    = time.Second
	defaultSubmitTimeout    = 30 * time.Second
	defaultClearInterval    = 100 * time.Second
	defaultRefreshInterval  = 5 * time.Minute
	defaultQueueSize        = 64
)

func DefaultLinkConfig() *LinkConfig {
	cfg := &LinkConfig{}
	cfg.FillDefaults()
	return cfg
}

func (cfg *LinkConfig) FillDefaults() {
	if cfg.MaxBatchSize == 0 {
		cfg.MaxBatchSize = defaultMaxBatchSize
	}
	if cfg.MaxBatchAge == 0 {
		cfg.MaxBatchAge = defaultMaxBatchAge
	}
	if cfg.MaxRetryAttempts == 0 {
		cfg.MaxRetryAttempts = defaultMaxRetryAttempts
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = defaultRetryInterval
	}
	if cfg.SubmitTimeout == 0 {
		cfg.SubmitTimeout = defaultSubmitTimeout
	}
	if cfg.ClearInterval == 0 {
		cfg.ClearInterval = defaultClearInterval
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = defaultQueueSize
	}
}
