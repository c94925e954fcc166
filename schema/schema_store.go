package schema

import "time"

// RunStatus represents the status of the run store.
type RunStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TotalRuns      int              `json:"total_runs"`
	LastRunID      int64            `json:"last_run_id"`
	LastRunTime    time.Time        `json:"last_run_time"`
	OldestRunTime  time.Time        `json:"oldest_run_time"`
	TotalMolecules int              `json:"total_molecules"`
	TableSizes     map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the retroscreen_runs table.
type RunRecord struct {
	RunID      int64
	StartTime  time.Time
	EndTime    *time.Time
	Strategy   string
	NMolecules int32
	NActives   int32
	NInactives int32
	ConfigJSON *string
	AUC        *float64
	Threshold  *float64
}

// MoleculeScoreRecord represents a row from the retroscreen_molecule_scores table.
type MoleculeScoreRecord struct {
	RunID      int64
	MoleculeID string
	SMILES     string
	Label      int32
	Score      float64
	ScoredAt   time.Time
}
