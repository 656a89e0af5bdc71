// Package stack holds the context constructs are provisioned into: the
// engine, a logger, the working directory and the outputs constructs emit.
package stack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alex-sviridov/webserver/internal/connector"
)

var ErrDuplicateOutput = errors.New("duplicate output")

// Output is a named, human-readable value emitted by a construct.
type Output struct {
	Construct string `json:"construct" yaml:"construct"`
	Name      string `json:"name" yaml:"name"`
	Value     string `json:"value" yaml:"value"`
}

func (o Output) String() string {
	return fmt.Sprintf("%s.%s = %s", o.Construct, o.Name, o.Value)
}

type Stack struct {
	name    string
	conn    connector.Connector
	log     *slog.Logger
	workDir string
	ctx     context.Context

	mu      sync.Mutex
	outputs []Output
}

type Option func(*Stack)

// WithWorkDir sets the directory relative paths such as the bootstrap
// script are resolved against. Defaults to the process working directory.
func WithWorkDir(dir string) Option {
	return func(s *Stack) {
		s.workDir = dir
	}
}

func WithContext(ctx context.Context) Option {
	return func(s *Stack) {
		s.ctx = ctx
	}
}

func New(name string, conn connector.Connector, log *slog.Logger, opts ...Option) (*Stack, error) {
	if name == "" {
		return nil, fmt.Errorf("stack name is required")
	}
	if conn == nil {
		return nil, fmt.Errorf("stack %s: connector is required", name)
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Stack{
		name:    name,
		conn:    conn,
		log:     log.With("stack", name, "engine", conn.Name()),
		workDir: ".",
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Stack) Name() string {
	return s.name
}

func (s *Stack) Connector() connector.Connector {
	return s.conn
}

func (s *Stack) Logger() *slog.Logger {
	return s.log
}

func (s *Stack) WorkDir() string {
	return s.workDir
}

func (s *Stack) Context() context.Context {
	return s.ctx
}

// AddOutput registers an output of construct. Names are unique per construct.
func (s *Stack) AddOutput(construct, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.outputs {
		if o.Construct == construct && o.Name == name {
			return fmt.Errorf("%w: %s/%s", ErrDuplicateOutput, construct, name)
		}
	}
	s.outputs = append(s.outputs, Output{Construct: construct, Name: name, Value: value})
	s.log.Info("output registered", "construct", construct, "name", name, "value", value)
	return nil
}

// Outputs returns a copy of all outputs in registration order.
func (s *Stack) Outputs() []Output {
	s.mu.Lock()
	defer s.mu.Unlock()

	outputs := make([]Output, len(s.outputs))
	copy(outputs, s.outputs)
	return outputs
}

func (s *Stack) Output(construct, name string) (Output, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.outputs {
		if o.Construct == construct && o.Name == name {
			return o, true
		}
	}
	return Output{}, false
}
