package contract

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/pharmakit/retroscreen/schema"
)

// Default values for configuration.
const (
	DefaultPrecision  = 3
	DefaultEmbedCount = 10

	// DefaultPIC50Threshold splits ChEMBL bioactivity records into actives
	// and inactives. 6.3 corresponds to roughly 500 nM IC50.
	DefaultPIC50Threshold = 6.3
)

// DefaultWorkers is the default number of concurrent scoring workers.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DefaultEFPercentages is the default set of enrichment factor cutoffs.
var DefaultEFPercentages = []float64{1, 5, 10, 25}

// Config holds the fully processed and validated application configuration.
type Config struct {
	// Dataset and pharmacophore inputs.
	DatasetPath  string
	ModelFile    string
	RefSMILES    string
	LabelColumn  string
	SMILESColumn string

	// Scoring parameters.
	Strategy     schema.ScoringStrategy
	Similarity   schema.SimilarityKind
	Threshold    float64
	HasThreshold bool
	EmbedCount   int

	// Metric parameters.
	EFPercentages []float64

	// Execution parameters.
	Workers   int
	Precision int

	// Output parameters.
	Output     schema.OutputMode
	OutputFile string
	Width      int
	UseColors  bool
	WithCurves bool

	// Run store parameters.
	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string

	// Bioactivity source parameters.
	TargetID       string
	AssayID        int
	PIC50Threshold float64
}

// Clone returns a copy of the config for per-request mutation.
func (c *Config) Clone() *Config {
	clone := *c
	clone.EFPercentages = append([]float64(nil), c.EFPercentages...)
	return &clone
}

// RevalidateScreening re-resolves the scoring strategy after per-request
// overrides to the pharmacophore input fields (e.g. from MCP tool calls).
func RevalidateScreening(cfg *Config) error {
	switch {
	case cfg.ModelFile != "" && cfg.RefSMILES != "":
		return fmt.Errorf("model and ref_smiles are mutually exclusive")
	case cfg.ModelFile != "":
		cfg.Strategy = schema.SSDStrategy
	case cfg.RefSMILES != "":
		cfg.Strategy = schema.SimilarityStrategy
	default:
		return fmt.Errorf("must specify either model (3D alignment) or ref_smiles (fingerprint similarity)")
	}
	if cfg.Strategy == schema.SimilarityStrategy && !cfg.HasThreshold {
		return fmt.Errorf("threshold is required for fingerprint similarity screening")
	}
	if cfg.TargetID != "" && cfg.AssayID != 0 {
		return fmt.Errorf("target and assay are mutually exclusive")
	}
	return nil
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ConfigRawInput holds the raw, unprocessed values bound from cobra flags
// and the viper config file. ProcessAndValidate converts it into a Config.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`

	// --- Fields from screenCmd.Flags() ---
	Dataset        string  `mapstructure:"dataset"`
	Model          string  `mapstructure:"model"`
	RefSMILES      string  `mapstructure:"ref-smiles"`
	LabelColumn    string  `mapstructure:"label-column"`
	SMILESColumn   string  `mapstructure:"smiles-column"`
	Similarity     string  `mapstructure:"similarity"`
	Threshold      string  `mapstructure:"threshold"`
	EmbedCount     int     `mapstructure:"embed-count"`
	EFPercentages  string  `mapstructure:"ef-percentages"`
	WithCurves     bool    `mapstructure:"with-curves"`
	Target         string  `mapstructure:"target"`
	Assay          string  `mapstructure:"assay"`
	PIC50Threshold float64 `mapstructure:"pic50-threshold"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := ProcessAndValidateBase(cfg, input); err != nil {
		return err
	}
	return processScreeningInputs(cfg, input)
}

// ProcessAndValidateBase validates everything except the pharmacophore input
// mode. Commands that do not screen anything up front (metrics, runs, mcp)
// use this so they do not demand --model or --ref-smiles.
func ProcessAndValidateBase(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processScoringParams(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// validateSimpleInputs processes and validates execution and output fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.WithCurves = input.WithCurves

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 6 {
		return fmt.Errorf("precision must be between 1 and 6 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	return nil
}

// processScoringParams validates the scoring parameters that are meaningful
// regardless of the pharmacophore input mode.
func processScoringParams(cfg *Config, input *ConfigRawInput) error {
	cfg.LabelColumn = strings.TrimSpace(input.LabelColumn)
	cfg.SMILESColumn = strings.TrimSpace(input.SMILESColumn)

	// --- 1. Similarity Validation ---
	cfg.Similarity = schema.SimilarityKind(strings.ToLower(input.Similarity))
	if _, ok := schema.ValidSimilarityKinds[cfg.Similarity]; !ok {
		return fmt.Errorf("invalid similarity function '%s'. must be tanimoto, dice", input.Similarity)
	}

	// --- 2. Threshold Validation ---
	if input.Threshold != "" {
		t, err := strconv.ParseFloat(input.Threshold, 64)
		if err != nil {
			return fmt.Errorf("invalid --threshold value %q: %w", input.Threshold, err)
		}
		if t < 0 || t > 1 {
			return fmt.Errorf("threshold must be between 0 and 1 (received %v)", t)
		}
		cfg.Threshold = t
		cfg.HasThreshold = true
	}

	// --- 3. Embed Count Validation ---
	if input.EmbedCount <= 0 {
		return fmt.Errorf("embed-count must be greater than 0 (received %d)", input.EmbedCount)
	}
	cfg.EmbedCount = input.EmbedCount

	// --- 4. Enrichment Factor Percentages ---
	if input.EFPercentages == "" {
		cfg.EFPercentages = append([]float64(nil), DefaultEFPercentages...)
	} else {
		percentages, err := ParsePercentageList(input.EFPercentages)
		if err != nil {
			return fmt.Errorf("invalid --ef-percentages value: %w", err)
		}
		cfg.EFPercentages = percentages
	}

	// --- 5. Bioactivity Threshold Validation ---
	if input.PIC50Threshold <= 0 {
		return fmt.Errorf("pic50-threshold must be greater than 0 (received %v)", input.PIC50Threshold)
	}
	cfg.PIC50Threshold = input.PIC50Threshold

	return nil
}

// processScreeningInputs resolves the pharmacophore input mode. A 3D model
// file selects geometric alignment scoring; a reference SMILES selects
// fingerprint similarity scoring.
func processScreeningInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.DatasetPath = strings.TrimSpace(input.Dataset)
	cfg.ModelFile = strings.TrimSpace(input.Model)
	cfg.RefSMILES = strings.TrimSpace(input.RefSMILES)
	cfg.TargetID = strings.TrimSpace(input.Target)

	if assay := strings.TrimSpace(input.Assay); assay != "" {
		id, err := strconv.Atoi(assay)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid --assay value %q: expected a positive bioassay ID", assay)
		}
		cfg.AssayID = id
	}

	// --- 1. Strategy resolution ---
	switch {
	case cfg.ModelFile != "" && cfg.RefSMILES != "":
		return fmt.Errorf("--model and --ref-smiles are mutually exclusive")
	case cfg.ModelFile != "":
		cfg.Strategy = schema.SSDStrategy
	case cfg.RefSMILES != "":
		cfg.Strategy = schema.SimilarityStrategy
	default:
		return fmt.Errorf("must specify either --model (3D alignment) or --ref-smiles (fingerprint similarity)")
	}

	// --- 2. Threshold Requirement ---
	// The geometric strategy pins its threshold at 0.0, so an explicit
	// threshold is only required for similarity screening.
	if cfg.Strategy == schema.SimilarityStrategy && !cfg.HasThreshold {
		return fmt.Errorf("--threshold is required for fingerprint similarity screening")
	}

	if cfg.TargetID != "" && cfg.AssayID != 0 {
		return fmt.Errorf("--target and --assay are mutually exclusive")
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the run store backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}
