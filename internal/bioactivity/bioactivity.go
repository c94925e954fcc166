// Package bioactivity fetches labeled training data from public bioactivity
// databases: ChEMBL activity records keyed by target, and PubChem bioassay
// outcomes keyed by assay ID.
package bioactivity

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pharmakit/retroscreen/internal/contract"
)

// Public REST endpoints.
const (
	DefaultChEMBLBaseURL  = "https://www.ebi.ac.uk/chembl/api/data"
	DefaultPubChemBaseURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"
)

// Request tuning.
const (
	chemblPageSize   = 1000
	pubchemBatchSize = 100
	requestTimeout   = 60 * time.Second
)

// Client fetches labeled molecules from ChEMBL and PubChem. It implements
// the bioactivity source interface of the screening session.
type Client struct {
	ChEMBLBaseURL  string
	PubChemBaseURL string
	HTTPClient     *http.Client
}

// NewClient returns a client wired to the public endpoints.
func NewClient() *Client {
	return &Client{
		ChEMBLBaseURL:  DefaultChEMBLBaseURL,
		PubChemBaseURL: DefaultPubChemBaseURL,
		HTTPClient:     &http.Client{Timeout: requestTimeout},
	}
}

// chemblActivityPage mirrors one page of the ChEMBL activity resource.
type chemblActivityPage struct {
	Activities []chemblActivity `json:"activities"`
	PageMeta   struct {
		Next string `json:"next"`
	} `json:"page_meta"`
}

// chemblActivity is one IC50 measurement for a molecule against the target.
type chemblActivity struct {
	MoleculeChEMBLID string `json:"molecule_chembl_id"`
	CanonicalSMILES  string `json:"canonical_smiles"`
	StandardValue    string `json:"standard_value"`
	StandardUnits    string `json:"standard_units"`
}

// FetchTargetData pulls IC50 activities for the target and binarizes potency
// at the pIC50 threshold: molecules at or above the threshold are labeled
// active. Records without a parseable nanomolar IC50 are dropped.
func (c *Client) FetchTargetData(ctx context.Context, targetID string, pIC50Threshold float64) ([]contract.MoleculeInput, []int, error) {
	query := url.Values{
		"target_chembl_id": {targetID},
		"standard_type":    {"IC50"},
		"limit":            {strconv.Itoa(chemblPageSize)},
	}
	next := fmt.Sprintf("%s/activity.json?%s", c.ChEMBLBaseURL, query.Encode())

	var (
		inputs []contract.MoleculeInput
		labels []int
	)
	for next != "" {
		var page chemblActivityPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, nil, fmt.Errorf("chembl activities for %s: %w", targetID, err)
		}

		for _, act := range page.Activities {
			pIC50, ok := pIC50FromActivity(act)
			if !ok {
				continue
			}
			inputs = append(inputs, contract.MoleculeInput{
				ID:     act.MoleculeChEMBLID,
				SMILES: act.CanonicalSMILES,
			})
			if pIC50 >= pIC50Threshold {
				labels = append(labels, 1)
			} else {
				labels = append(labels, 0)
			}
		}

		// ChEMBL paginates with a server-relative next link.
		next = ""
		if rel := page.PageMeta.Next; rel != "" {
			next = chemblAbsoluteURL(c.ChEMBLBaseURL, rel)
		}
	}

	if len(inputs) == 0 {
		return nil, nil, fmt.Errorf("no usable IC50 activities found for target %s", targetID)
	}
	return inputs, labels, nil
}

// pIC50FromActivity converts a nanomolar IC50 record into pIC50.
func pIC50FromActivity(act chemblActivity) (float64, bool) {
	if act.CanonicalSMILES == "" || !strings.EqualFold(act.StandardUnits, "nM") {
		return 0, false
	}
	value, err := strconv.ParseFloat(act.StandardValue, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	// pIC50 = -log10(IC50 in molar); nM values shift the exponent by 9.
	return 9 - math.Log10(value), true
}

// chemblAbsoluteURL resolves the page_meta.next link against the base URL.
// The API returns paths like "/chembl/api/data/activity.json?offset=1000".
func chemblAbsoluteURL(baseURL, next string) string {
	if strings.HasPrefix(next, "http://") || strings.HasPrefix(next, "https://") {
		return next
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(next)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// pubchemCIDList mirrors the PubChem assay CID listing.
type pubchemCIDList struct {
	InformationList struct {
		Information []struct {
			CID []int64 `json:"CID"`
		} `json:"Information"`
	} `json:"InformationList"`
}

// pubchemPropertyTable mirrors the PubChem compound property resource.
type pubchemPropertyTable struct {
	PropertyTable struct {
		Properties []struct {
			CID             int64  `json:"CID"`
			CanonicalSMILES string `json:"CanonicalSMILES"`
		} `json:"Properties"`
	} `json:"PropertyTable"`
}

// FetchAssayData pulls the active and inactive compound sets of a bioassay
// and resolves their SMILES. Assay outcomes carry their own labels, so no
// potency threshold applies.
func (c *Client) FetchAssayData(ctx context.Context, assayID int) ([]contract.MoleculeInput, []int, error) {
	activeCIDs, err := c.assayCIDs(ctx, assayID, "active")
	if err != nil {
		return nil, nil, err
	}
	inactiveCIDs, err := c.assayCIDs(ctx, assayID, "inactive")
	if err != nil {
		return nil, nil, err
	}
	if len(activeCIDs)+len(inactiveCIDs) == 0 {
		return nil, nil, fmt.Errorf("bioassay %d has no tested compounds", assayID)
	}

	var (
		inputs []contract.MoleculeInput
		labels []int
	)
	for _, batch := range []struct {
		cids  []int64
		label int
	}{
		{activeCIDs, 1},
		{inactiveCIDs, 0},
	} {
		resolved, err := c.compoundSMILES(ctx, batch.cids)
		if err != nil {
			return nil, nil, fmt.Errorf("bioassay %d: %w", assayID, err)
		}
		for _, in := range resolved {
			inputs = append(inputs, in)
			labels = append(labels, batch.label)
		}
	}
	return inputs, labels, nil
}

// assayCIDs lists the compound IDs with the given activity outcome.
func (c *Client) assayCIDs(ctx context.Context, assayID int, outcome string) ([]int64, error) {
	u := fmt.Sprintf("%s/assay/aid/%d/cids/JSON?cids_type=%s", c.PubChemBaseURL, assayID, outcome)
	var list pubchemCIDList
	if err := c.getJSON(ctx, u, &list); err != nil {
		return nil, fmt.Errorf("bioassay %d %s compounds: %w", assayID, outcome, err)
	}
	var cids []int64
	for _, info := range list.InformationList.Information {
		cids = append(cids, info.CID...)
	}
	return cids, nil
}

// compoundSMILES resolves canonical SMILES for the compounds in batches.
func (c *Client) compoundSMILES(ctx context.Context, cids []int64) ([]contract.MoleculeInput, error) {
	var inputs []contract.MoleculeInput
	for start := 0; start < len(cids); start += pubchemBatchSize {
		end := min(start+pubchemBatchSize, len(cids))

		ids := make([]string, 0, end-start)
		for _, cid := range cids[start:end] {
			ids = append(ids, strconv.FormatInt(cid, 10))
		}
		u := fmt.Sprintf("%s/compound/cid/%s/property/CanonicalSMILES/JSON", c.PubChemBaseURL, strings.Join(ids, ","))

		var table pubchemPropertyTable
		if err := c.getJSON(ctx, u, &table); err != nil {
			return nil, err
		}
		for _, prop := range table.PropertyTable.Properties {
			if prop.CanonicalSMILES == "" {
				continue
			}
			inputs = append(inputs, contract.MoleculeInput{
				ID:     fmt.Sprintf("CID%d", prop.CID),
				SMILES: prop.CanonicalSMILES,
			})
		}
	}
	return inputs, nil
}

// getJSON performs one GET request and decodes the JSON response body.
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %s", u, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
