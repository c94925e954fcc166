package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pharmakit/retroscreen/core"
	"github.com/pharmakit/retroscreen/internal/contract"
	"github.com/pharmakit/retroscreen/internal/outwriter"
	"github.com/pharmakit/retroscreen/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// applyPharmacophoreParams copies the shared pharmacophore and scoring
// parameters from a tool request onto a cloned config.
func applyPharmacophoreParams(cfg *contract.Config, request mcp.CallToolRequest) error {
	if m := request.GetString("model", ""); m != "" {
		cfg.ModelFile = m
	}
	if r := request.GetString("ref_smiles", ""); r != "" {
		cfg.RefSMILES = r
	}
	if s := request.GetString("similarity", ""); s != "" {
		cfg.Similarity = schema.SimilarityKind(s)
		if _, ok := schema.ValidSimilarityKinds[cfg.Similarity]; !ok {
			return fmt.Errorf("invalid similarity function %q: must be tanimoto, dice", s)
		}
	}
	if t := request.GetFloat("threshold", -1); t >= 0 {
		if t > 1 {
			return fmt.Errorf("threshold must be between 0 and 1 (received %v)", t)
		}
		cfg.Threshold = t
		cfg.HasThreshold = true
	}
	return nil
}

// reportPayload mirrors the JSON report shape used by the CLI output path,
// attaching the AUC quality label to the raw report.
type reportPayload struct {
	*schema.ScreeningReport
	Label string `json:"label"`
}

func (h *toolHandler) runAndMarshal(ctx context.Context, cfg *contract.Config) (*mcp.CallToolResult, error) {
	if err := contract.RevalidateScreening(cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid screening parameters: %v", err)), nil
	}

	report, err := core.GetScreeningReport(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("screening failed: %v", err)), nil
	}

	payload := reportPayload{ScreeningReport: report, Label: contract.GetPlainLabel(report.AUC)}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRunScreening(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.TargetID = ""
	cfg.AssayID = 0
	cfg.DatasetPath = request.GetString("dataset", "")
	if cfg.DatasetPath == "" {
		return mcp.NewToolResultError("dataset is required"), nil
	}
	if c := request.GetString("smiles_column", ""); c != "" {
		cfg.SMILESColumn = c
	}
	if c := request.GetString("label_column", ""); c != "" {
		cfg.LabelColumn = c
	}
	if err := applyPharmacophoreParams(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return h.runAndMarshal(ctx, cfg)
}

func (h *toolHandler) handleScreenBioactivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.DatasetPath = ""
	cfg.TargetID = request.GetString("target", "")
	cfg.AssayID = request.GetInt("assay", 0)
	if cfg.TargetID == "" && cfg.AssayID == 0 {
		return mcp.NewToolResultError("one of target or assay is required"), nil
	}
	if p := request.GetFloat("pic50_threshold", 0); p > 0 {
		cfg.PIC50Threshold = p
	}
	if err := applyPharmacophoreParams(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return h.runAndMarshal(ctx, cfg)
}

func (h *toolHandler) handleListScreeningRuns(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	runStore := h.mgr.GetRunStore()
	if runStore == nil {
		return mcp.NewToolResultError("run tracking is disabled: configure a store backend"), nil
	}

	limit := request.GetInt("limit", 0)
	runs, err := runStore.ListRuns(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list runs: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetMoleculeScores(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	runStore := h.mgr.GetRunStore()
	if runStore == nil {
		return mcp.NewToolResultError("run tracking is disabled: configure a store backend"), nil
	}

	runID := request.GetInt("run_id", 0)
	if runID <= 0 {
		return mcp.NewToolResultError("run_id must be a positive run ID"), nil
	}

	scores, err := runStore.ListScores(int64(runID))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list scores: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(scores, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetMetricDefinitions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(outwriter.BuildMetricsRenderModel(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
