package rules

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store caches the loaded ruleset process-wide. Reference tables are large
// relative to a single evaluation, so they are loaded once and swapped
// atomically only on explicit reload.
type Store struct {
	manifestPath string
	logger       *zap.Logger

	mu      sync.RWMutex
	current *Ruleset
}

func NewStore(manifestPath string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{manifestPath: manifestPath, logger: logger}
}

// Load (re)loads the ruleset from the manifest. On failure the previously
// loaded ruleset, if any, stays in place.
func (s *Store) Load() error {
	rs, err := LoadRuleset(s.manifestPath)
	if err != nil {
		s.logger.Error("ruleset load failed", zap.String("manifest", s.manifestPath), zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.current = rs
	s.mu.Unlock()

	s.logger.Info("ruleset loaded",
		zap.String("manifest", s.manifestPath),
		zap.Int("nature_rows", len(rs.Nature.Table.Rows)),
		zap.Int("activity_rows", len(rs.Activity.Table.Rows)),
		zap.Int("exception_rows", len(rs.Exception.Table.Rows)),
	)
	return nil
}

// Current returns the cached ruleset, or nil if none was loaded yet.
func (s *Store) Current() *Ruleset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// TableStatus summarizes one loaded table.
type TableStatus struct {
	Source string `json:"source"`
	Rows   int    `json:"rows"`
}

// Status reports what is currently loaded, for the ruleset status endpoint.
type Status struct {
	Loaded    bool        `json:"loaded"`
	LoadedAt  time.Time   `json:"loaded_at,omitempty"`
	Nature    TableStatus `json:"nature"`
	Activity  TableStatus `json:"activity"`
	Exception TableStatus `json:"exception"`
}

func (s *Store) Status() Status {
	rs := s.Current()
	if rs == nil {
		return Status{}
	}
	return Status{
		Loaded:    true,
		LoadedAt:  rs.LoadedAt,
		Nature:    TableStatus{Source: rs.Nature.Table.Source, Rows: len(rs.Nature.Table.Rows)},
		Activity:  TableStatus{Source: rs.Activity.Table.Source, Rows: len(rs.Activity.Table.Rows)},
		Exception: TableStatus{Source: rs.Exception.Table.Source, Rows: len(rs.Exception.Table.Rows)},
	}
}
