package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Screening quality label constants, keyed on AUC.
const (
	ExcellentValue = "Excellent" // Near-perfect ranking
	GoodValue      = "Good"      // Useful discriminative power
	FairValue      = "Fair"      // Marginal discriminative power
	PoorValue      = "Poor"      // No better than random
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold)
	GoodColor      = color.New(color.FgGreen)
	FairColor      = color.New(color.FgYellow)
	PoorColor      = color.New(color.FgRed, color.Bold)
)

// GetPlainLabel returns a plain text label indicating a model's screening
// quality based on its AUC. This is the core logic used for CSV, JSON, and
// table printing.
func GetPlainLabel(auc float64) string {
	switch {
	case auc >= 0.9:
		return ExcellentValue
	case auc >= 0.8:
		return GoodValue
	case auc >= 0.7:
		return FairValue
	default:
		return PoorValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(auc float64) string {
	text := GetPlainLabel(auc)

	switch text {
	case ExcellentValue:
		return ExcellentColor.Sprint(text)
	case GoodValue:
		return GoodColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "❌ %s: %v\n", msg, err)
	os.Exit(1)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for run storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".retroscreen_runs.db"
	}
	return filepath.Join(homeDir, ".retroscreen_runs.db")
}

// ParseBoolString parses a yes/no style string into a bool.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ParsePercentageList parses a comma-separated list of enrichment factor
// percentages into a sorted float slice. Each value must be in (0, 100].
func ParsePercentageList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid percentage %q: %w", trimmed, err)
		}
		if v <= 0 || v > 100 {
			return nil, fmt.Errorf("percentage %v out of range (0, 100]", v)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no percentages provided")
	}
	sort.Float64s(out)
	return out, nil
}

// TruncateSMILES shortens a SMILES string for table display. The head of the
// string is kept because it carries the scaffold.
func TruncateSMILES(smiles string, maxWidth int) string {
	runes := []rune(smiles)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return smiles
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  %s: %v\n", msg, err)
		return
	}
	fmt.Fprintf(os.Stderr, "⚠️  %s\n", msg)
}
