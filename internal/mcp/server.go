// Package mcp exposes the batch engine over the Model Context Protocol so an
// agent can drive experiment runs through tool calls: start_run launches a
// batch in the background, get_status polls it, get_results reads the
// accumulated verdicts.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"sway/internal/batch"
	"sway/internal/config"
	"sway/internal/discover"
	"sway/internal/judge"
	"sway/internal/logging"
	"sway/internal/persona"
	"sway/internal/retry"
	"sway/internal/store"
)

// run states
const (
	stateRunning = "running"
	stateDone    = "done"
	stateFailed  = "failed"
)

type runState struct {
	ID       string
	State    string
	Total    int
	Recorded int
	Records  []store.Record
	Err      string
	cancel   context.CancelFunc
}

// Server wraps the MCP SDK server and manages a single experiment run at a
// time. One run is the whole point of the tool surface; concurrent batches
// would fight over the rate limit and the result sink.
type Server struct {
	MCPServer *sdkmcp.Server

	// NewInvoker builds the judge client for a run. Tests replace it with a
	// stub so no network is involved.
	NewInvoker func(config.Config) batch.Invoker

	// OpenStore builds the durable sink for a run. Tests replace it with an
	// in-memory store.
	OpenStore func(config.Config) (store.Store, error)

	cfg config.Config

	mu  sync.Mutex
	run *runState
	log *slog.Logger
}

// NewServer creates a sway MCP server with the run tools registered.
func NewServer(cfg config.Config, version string) *Server {
	s := &Server{
		MCPServer: sdkmcp.NewServer(
			&sdkmcp.Implementation{Name: "sway", Version: version},
			nil,
		),
		cfg: cfg,
		log: logging.New("mcp"),
	}
	s.NewInvoker = func(c config.Config) batch.Invoker {
		return judge.NewClient(judge.ClientConfig{
			BaseURL:     c.BaseURL,
			APIKey:      c.APIKey,
			Model:       c.Model,
			Temperature: c.Temperature,
		})
	}
	s.OpenStore = func(c config.Config) (store.Store, error) {
		if c.Store == "sqlite" {
			return store.OpenSQLite(c.DBPath())
		}
		return store.OpenCSV(c.CSVPath())
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "start_run",
		Description: "Start a batch evaluation run in the background. Returns run ID and task count.",
	}, s.handleStartRun)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_status",
		Description: "Get the state of a run: running, done, or failed, with progress counts.",
	}, s.handleGetStatus)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_results",
		Description: "Get the verdicts recorded so far for a run, one row per pair/persona judgment.",
	}, s.handleGetResults)
}

// --- Tool input/output types ---

type startRunInput struct {
	ImageDir    string `json:"image_dir,omitempty" jsonschema:"directory holding image pairs (default from config)"`
	ResultsDir  string `json:"results_dir,omitempty" jsonschema:"directory for the result sink (default from config)"`
	Model       string `json:"model,omitempty" jsonschema:"model identifier (default from config)"`
	Store       string `json:"store,omitempty" jsonschema:"result sink backend: csv or sqlite"`
	MaxAttempts int    `json:"max_attempts,omitempty" jsonschema:"per-task retry budget (default from config)"`
}

type startRunOutput struct {
	RunID  string `json:"run_id"`
	Pairs  int    `json:"pairs"`
	Tasks  int    `json:"tasks"`
	Status string `json:"status"`
}

type getStatusInput struct {
	RunID string `json:"run_id" jsonschema:"run ID from start_run"`
}

type getStatusOutput struct {
	RunID    string `json:"run_id"`
	Status   string `json:"status"`
	Total    int    `json:"total"`
	Recorded int    `json:"recorded"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

type getResultsInput struct {
	RunID string `json:"run_id" jsonschema:"run ID from start_run"`
}

type resultRow struct {
	PairID     int    `json:"pair_id"`
	Strategy   string `json:"strategy"`
	PersonaID  string `json:"persona_id"`
	Choice     string `json:"choice"`
	Rationale  string `json:"rationale"`
	Difficulty string `json:"difficulty"`
}

type getResultsOutput struct {
	RunID  string      `json:"run_id"`
	Status string      `json:"status"`
	Rows   []resultRow `json:"rows"`
	Total  int         `json:"total"`
}

// --- Tool handlers ---

func (s *Server) handleStartRun(_ context.Context, _ *sdkmcp.CallToolRequest, input startRunInput) (*sdkmcp.CallToolResult, startRunOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run != nil && s.run.State == stateRunning {
		return nil, startRunOutput{}, fmt.Errorf("a run is already in progress (id=%s)", s.run.ID)
	}

	cfg := s.cfg
	if input.ImageDir != "" {
		cfg.ImageDir = input.ImageDir
	}
	if input.ResultsDir != "" {
		cfg.ResultsDir = input.ResultsDir
	}
	if input.Model != "" {
		cfg.Model = input.Model
	}
	if input.Store != "" {
		cfg.Store = input.Store
	}
	if input.MaxAttempts > 0 {
		cfg.MaxAttempts = input.MaxAttempts
	}

	pairs, err := discover.Scan(cfg.ImageDir)
	if err != nil {
		return nil, startRunOutput{}, fmt.Errorf("start_run: %w", err)
	}
	tasks := batch.Enumerate(pairs, persona.Roster())
	if len(tasks) == 0 {
		return nil, startRunOutput{}, fmt.Errorf("start_run: no eligible pairs under %q", cfg.ImageDir)
	}

	sink, err := s.OpenStore(cfg)
	if err != nil {
		return nil, startRunOutput{}, fmt.Errorf("start_run: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	run := &runState{
		ID:     fmt.Sprintf("run-%d", time.Now().UnixNano()),
		State:  stateRunning,
		Total:  len(tasks),
		cancel: cancel,
	}
	s.run = run
	s.log.Info("run started", "id", run.ID, "pairs", len(pairs), "tasks", len(tasks))

	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.MaxAttempts
	driver := batch.NewDriver(batch.Config{
		Invoker: s.NewInvoker(cfg),
		Store:   sink,
		Policy:  policy,
		Pacing:  cfg.Pacing.Std(),
		OnVerdict: func(batch.Task, *judge.Verdict) {
			s.mu.Lock()
			run.Recorded++
			s.mu.Unlock()
		},
	})

	go func() {
		defer sink.Close()
		records, runErr := driver.Run(ctx, tasks)

		s.mu.Lock()
		defer s.mu.Unlock()
		run.Records = records
		run.Recorded = len(records)
		if runErr != nil {
			run.State = stateFailed
			run.Err = runErr.Error()
			s.log.Error("run failed", "id", run.ID, "err", runErr)
			return
		}
		run.State = stateDone
		s.log.Info("run complete", "id", run.ID, "recorded", len(records), "skipped", run.Total-len(records))
	}()

	return nil, startRunOutput{
		RunID:  run.ID,
		Pairs:  len(pairs),
		Tasks:  len(tasks),
		Status: stateRunning,
	}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *sdkmcp.CallToolRequest, input getStatusInput) (*sdkmcp.CallToolResult, getStatusOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.getRunLocked(input.RunID)
	if err != nil {
		return nil, getStatusOutput{}, err
	}

	out := getStatusOutput{
		RunID:    run.ID,
		Status:   run.State,
		Total:    run.Total,
		Recorded: run.Recorded,
		Error:    run.Err,
	}
	if run.State != stateRunning {
		out.Skipped = run.Total - len(run.Records)
	}
	return nil, out, nil
}

func (s *Server) handleGetResults(_ context.Context, _ *sdkmcp.CallToolRequest, input getResultsInput) (*sdkmcp.CallToolResult, getResultsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.getRunLocked(input.RunID)
	if err != nil {
		return nil, getResultsOutput{}, err
	}

	rows := make([]resultRow, 0, len(run.Records))
	for _, rec := range run.Records {
		rows = append(rows, resultRow{
			PairID:     rec.PairID,
			Strategy:   rec.Strategy,
			PersonaID:  rec.PersonaID,
			Choice:     rec.Choice,
			Rationale:  rec.Rationale,
			Difficulty: rec.Difficulty,
		})
	}
	return nil, getResultsOutput{
		RunID:  run.ID,
		Status: run.State,
		Rows:   rows,
		Total:  len(rows),
	}, nil
}

// Shutdown cancels any in-flight run.
func (s *Server) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run != nil && s.run.cancel != nil {
		s.run.cancel()
	}
}

func (s *Server) getRunLocked(id string) (*runState, error) {
	if s.run == nil {
		return nil, fmt.Errorf("no run started (call start_run first)")
	}
	if s.run.ID != id {
		return nil, fmt.Errorf("run_id mismatch: have %s, got %s", s.run.ID, id)
	}
	return s.run, nil
}
