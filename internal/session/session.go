// Package session binds one register store, parser and evaluator into an
// interpreter session identified by a UUID.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"
	mdwlog "github.com/msto63/fanucmacro/foundation/core/log"
	"github.com/msto63/fanucmacro/foundation/macro/ast"
	"github.com/msto63/fanucmacro/foundation/macro/evaluator"
	"github.com/msto63/fanucmacro/foundation/macro/parser"
	"github.com/msto63/fanucmacro/foundation/macro/variables"
	"github.com/msto63/fanucmacro/internal/session/store"
)

// Options configures a session
type Options struct {
	ID     string // default: new UUID
	Min    variables.Register
	Max    variables.Register
	Logger *mdwlog.Logger
}

// Session owns one variable store for its whole lifetime
type Session struct {
	id        string
	variables *variables.Store
	parser    *parser.Parser
	evaluator *evaluator.Evaluator
	logger    *mdwlog.Logger
	mu        sync.Mutex
}

// New creates a session with an empty store covering opts.Min..opts.Max
func New(opts Options) (*Session, error) {
	if opts.ID == "" {
		opts.ID = uuid.New().String()
	}
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}

	vars, err := variables.New(opts.Min, opts.Max)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger.WithField("session", opts.ID)
	return &Session{
		id:        opts.ID,
		variables: vars,
		parser:    parser.New(parser.Options{Logger: logger}),
		evaluator: evaluator.New(vars, evaluator.Options{Logger: logger}),
		logger:    logger.WithField("component", "session"),
	}, nil
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Bounds returns the register range of the session store
func (s *Session) Bounds() (variables.Register, variables.Register) {
	return s.variables.Bounds()
}

// Parse parses source without executing it
func (s *Session) Parse(source string) (*ast.Program, error) {
	return s.parser.Parse(source)
}

// Exec parses and runs source. Results of statements that completed before
// a failure are returned together with the error.
func (s *Session) Exec(ctx context.Context, source string) ([]evaluator.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prog, err := s.parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, prog)
}

// Run executes an already parsed program
func (s *Session) Run(ctx context.Context, prog *ast.Program) ([]evaluator.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	timer := s.logger.StartTimer("session.run").WithField("statements", len(prog.Statements))
	results, err := s.evaluator.Execute(prog)
	if err != nil {
		timer.StopWithError(err)
		return results, err
	}
	timer.Stop()
	return results, nil
}

// Eval evaluates a single expression without assigning
func (s *Session) Eval(source string) (evaluator.Value, error) {
	expr, err := s.parser.ParseExpression(source)
	if err != nil {
		return evaluator.Value{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluator.Eval(expr)
}

// Snapshot returns a copy of every set register
func (s *Session) Snapshot() map[variables.Register]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.variables.Snapshot()
}

// Record captures the current registers as a snapshot ready to be saved
func (s *Session) Record(label string) *store.Snapshot {
	min, max := s.variables.Bounds()
	return &store.Snapshot{
		ID:        uuid.New().String(),
		SessionID: s.id,
		Label:     label,
		Min:       min,
		Max:       max,
		Registers: s.Snapshot(),
	}
}

// Restore writes every register of values into the store. Nothing is
// written when any register lies outside the session bounds.
func (s *Session) Restore(values map[variables.Register]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.variables.Load(values); err != nil {
		return mdwerror.Wrap(err, "failed to restore registers").
			WithOperation("session.Restore").
			WithDetail("registers", len(values))
	}

	s.logger.Debug("Registers restored", mdwlog.Fields{"registers": len(values)})
	return nil
}

// Reset unsets every register
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.variables.Clear()
}
