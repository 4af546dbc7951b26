// Package manager loads every registered feed for one accession and lays the
// results out on a display surface.
//
// A load runs through four states. In [Fetching] the sequence and every
// source are requested in parallel, and each source response is parsed as
// soon as it arrives. Once all of them have settled the load moves to
// [Aggregating]: sources that failed or had nothing to show are dropped, the
// remaining containers are mounted in registration order, and only then is
// data bound to them. The load ends in [Populated].
//
// Nothing that happens to an individual feed is fatal. A load always
// completes, in the worst case with only the sequence length set.
package manager

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqtracks/pkg/container"
	apperrors "github.com/matzehuels/seqtracks/pkg/errors"
	"github.com/matzehuels/seqtracks/pkg/feeds"
	"github.com/matzehuels/seqtracks/pkg/observability"
	"github.com/matzehuels/seqtracks/pkg/source"
)

// DefaultSequenceURL serves FASTA for an accession.
const DefaultSequenceURL = "https://rest.uniprot.org/uniprotkb/{accession}.fasta"

// State is the phase of a load.
type State int

// Load states, in order.
const (
	Idle State = iota
	Fetching
	Aggregating
	Populated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Aggregating:
		return "aggregating"
	case Populated:
		return "populated"
	}
	return "unknown"
}

// Surface is where a load is displayed.
type Surface interface {
	container.Target
	SetLength(n int)
}

// Container is one source's mounted tree.
type Container struct {
	Source string
	Node   container.Node
}

// Result summarises a completed load.
type Result struct {
	Accession  string
	Length     int
	Containers []Container
	Empty      []string
	Failed     map[string]error
	Duration   time.Duration
}

// Manager runs loads against a registry. It holds no per-load state, so one
// Manager may run any number of loads concurrently.
type Manager struct {
	registry    *source.Registry
	fetcher     feeds.Fetcher
	logger      *log.Logger
	sequenceURL string
	onState     func(accession string, s State)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. Nil selects log.Default().
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSequenceURL sets the FASTA endpoint template. It must contain
// source.Placeholder.
func WithSequenceURL(url string) Option {
	return func(m *Manager) { m.sequenceURL = url }
}

// WithStateHook registers fn to observe state transitions of every load.
func WithStateHook(fn func(accession string, s State)) Option {
	return func(m *Manager) { m.onState = fn }
}

// New creates a Manager that fetches through f the sources listed in reg.
func New(reg *source.Registry, f feeds.Fetcher, opts ...Option) *Manager {
	m := &Manager{
		registry:    reg,
		fetcher:     f,
		logger:      log.Default(),
		sequenceURL: DefaultSequenceURL,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Registry returns the registry the manager loads from.
func (m *Manager) Registry() *source.Registry { return m.registry }

// outcome is the settled result of one source.
type outcome struct {
	node container.Node
	err  error
}

// Load fetches everything known about accession and displays it on s. The
// only error is a malformed accession; feed failures are reported in the
// result.
func (m *Manager) Load(ctx context.Context, accession string, s Surface) (*Result, error) {
	accession = apperrors.NormalizeAccession(accession)
	if err := apperrors.ValidateAccession(accession); err != nil {
		return nil, err
	}

	start := time.Now()
	m.transition(accession, Fetching)

	regs := m.registry.All()
	outcomes := make([]outcome, len(regs))
	var length int

	var wg sync.WaitGroup
	wg.Add(len(regs) + 1)
	go func() {
		defer wg.Done()
		length = m.sequenceLength(ctx, accession)
	}()
	for i, reg := range regs {
		go func() {
			defer wg.Done()
			began := time.Now()
			outcomes[i] = m.loadSource(ctx, accession, reg)
			observability.Load().OnSourceComplete(ctx, reg.Name, accession, time.Since(began), outcomes[i].err)
		}()
	}
	wg.Wait()

	m.transition(accession, Aggregating)
	res := &Result{Accession: accession, Length: length, Failed: make(map[string]error)}
	for i, o := range outcomes {
		name := regs[i].Name
		switch {
		case o.err != nil:
			res.Failed[name] = o.err
		case o.node == nil:
			res.Empty = append(res.Empty, name)
		default:
			res.Containers = append(res.Containers, Container{Source: name, Node: o.node})
		}
	}

	s.SetLength(length)
	for _, c := range res.Containers {
		container.Mount(c.Node, s, "")
	}
	for _, c := range res.Containers {
		container.Populate(c.Node, s)
	}
	m.transition(accession, Populated)

	res.Duration = time.Since(start)
	observability.Load().OnLoadComplete(ctx, accession, len(res.Containers), len(res.Failed), res.Duration)
	m.logger.Info("loaded tracks",
		"accession", accession,
		"length", length,
		"containers", len(res.Containers),
		"empty", len(res.Empty),
		"failed", len(res.Failed),
		"duration", res.Duration)
	return res, nil
}

func (m *Manager) loadSource(ctx context.Context, accession string, reg source.Registration) outcome {
	start := time.Now()
	raw, err := m.fetcher.Fetch(ctx, reg.URL(accession))
	if err != nil {
		m.logFailure(reg.Name, accession, err)
		return outcome{err: classify(err, "fetch %s", reg.Name)}
	}

	node, err := reg.Parser.Parse(ctx, accession, raw)
	if err != nil {
		m.logFailure(reg.Name, accession, err)
		return outcome{err: apperrors.Wrap(apperrors.ErrCodeParse, err, "parse %s", reg.Name)}
	}
	if node == nil {
		m.logger.Debug("source empty", "source", reg.Name, "accession", accession)
		return outcome{}
	}

	m.logger.Debug("source parsed",
		"source", reg.Name,
		"accession", accession,
		"leaves", len(container.Collect(node)),
		"duration", time.Since(start))
	return outcome{node: node}
}

// logFailure keeps a missing feed at debug level; it usually just means the
// accession has no entry there.
func (m *Manager) logFailure(name, accession string, err error) {
	if errors.Is(err, feeds.ErrNotFound) {
		m.logger.Debug("source not found", "source", name, "accession", accession)
		return
	}
	m.logger.Warn("source failed", "source", name, "accession", accession, "error", err)
}

// classify attaches an error code to a fetch failure.
func classify(err error, format string, args ...any) error {
	code := apperrors.ErrCodeNetwork
	switch {
	case errors.Is(err, feeds.ErrNotFound):
		code = apperrors.ErrCodeNotFound
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		code = apperrors.ErrCodeTimeout
	}
	return apperrors.Wrap(code, err, format, args...)
}

// isTimeout catches client timeouts that surface as a net.Error rather than a
// context error.
func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func (m *Manager) sequenceLength(ctx context.Context, accession string) int {
	reg := source.Registration{Name: "sequence", Endpoint: m.sequenceURL}
	raw, err := m.fetcher.Fetch(ctx, reg.URL(accession))
	if err != nil {
		m.logger.Warn("sequence unavailable", "accession", accession, "error", err)
		return 0
	}
	return len(feeds.ParseSequence(string(raw)))
}

func (m *Manager) transition(accession string, s State) {
	m.logger.Debug("load state", "accession", accession, "state", s)
	if m.onState != nil {
		m.onState(accession, s)
	}
}
