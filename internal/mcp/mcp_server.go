// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pharmakit/retroscreen/internal/contract"
)

// NewMCPServer initializes and configures the Retroscreen MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Retroscreen Screening Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: run_screening ---
	s.AddTool(mcp.NewTool("run_screening",
		mcp.WithDescription("Run a retrospective pharmacophore screening against a labeled CSV dataset and return the metric report."),
		mcp.WithString("dataset", mcp.Description("Path to a CSV file with SMILES and binary activity labels."), mcp.Required()),
		mcp.WithString("model", mcp.Description("Path to a mol2 pharmacophore model for 3D geometric scoring.")),
		mcp.WithString("ref_smiles", mcp.Description("Reference molecule SMILES for 2D fingerprint similarity scoring.")),
		mcp.WithString("similarity", mcp.Description("Fingerprint similarity function. Defaults to 'tanimoto'."), mcp.Enum("tanimoto", "dice")),
		mcp.WithNumber("threshold", mcp.Description("Classification threshold in [0, 1]. Required for similarity scoring.")),
		mcp.WithString("smiles_column", mcp.Description("Name of the SMILES column in the dataset.")),
		mcp.WithString("label_column", mcp.Description("Name of the activity label column in the dataset.")),
	), h.handleRunScreening)

	// --- 2. Tool: screen_bioactivity ---
	s.AddTool(mcp.NewTool("screen_bioactivity",
		mcp.WithDescription("Run a retrospective screening against molecules fetched from ChEMBL (by target) or PubChem (by bioassay)."),
		mcp.WithString("target", mcp.Description("ChEMBL target ID (e.g. CHEMBL2095173).")),
		mcp.WithNumber("assay", mcp.Description("PubChem bioassay ID.")),
		mcp.WithNumber("pic50_threshold", mcp.Description("pIC50 cutoff used to label ChEMBL molecules active. Defaults to 6.3.")),
		mcp.WithString("model", mcp.Description("Path to a mol2 pharmacophore model for 3D geometric scoring.")),
		mcp.WithString("ref_smiles", mcp.Description("Reference molecule SMILES for 2D fingerprint similarity scoring.")),
		mcp.WithString("similarity", mcp.Description("Fingerprint similarity function."), mcp.Enum("tanimoto", "dice")),
		mcp.WithNumber("threshold", mcp.Description("Classification threshold in [0, 1]. Required for similarity scoring.")),
	), h.handleScreenBioactivity)

	// --- 3. Tool: list_screening_runs ---
	s.AddTool(mcp.NewTool("list_screening_runs",
		mcp.WithDescription("List stored screening runs, newest first. Requires a configured store backend."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of runs returned.")),
	), h.handleListScreeningRuns)

	// --- 4. Tool: get_molecule_scores ---
	s.AddTool(mcp.NewTool("get_molecule_scores",
		mcp.WithDescription("Fetch the per-molecule scores recorded for a stored screening run."),
		mcp.WithNumber("run_id", mcp.Description("The run ID to fetch scores for."), mcp.Required()),
	), h.handleGetMoleculeScores)

	// --- 5. Tool: get_metric_definitions ---
	s.AddTool(mcp.NewTool("get_metric_definitions",
		mcp.WithDescription("Return the formal definitions of the scoring strategies and evaluation metrics."),
	), h.handleGetMetricDefinitions)

	return s
}

// StartMCPServer starts the Retroscreen MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
