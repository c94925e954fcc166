package bioactivity

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient()
	client.ChEMBLBaseURL = server.URL
	client.PubChemBaseURL = server.URL
	client.HTTPClient = server.Client()
	return client, server
}

func TestFetchTargetData(t *testing.T) {
	page2 := `{
		"activities": [
			{"molecule_chembl_id": "CHEMBL3", "canonical_smiles": "CCN", "standard_value": "10000", "standard_units": "nM"}
		],
		"page_meta": {"next": ""}
	}`

	mux := http.NewServeMux()
	mux.HandleFunc("/activity.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "CHEMBL2095173", r.URL.Query().Get("target_chembl_id"))
		assert.Equal(t, "IC50", r.URL.Query().Get("standard_type"))

		if r.URL.Query().Get("offset") == "1000" {
			fmt.Fprint(w, page2)
			return
		}
		fmt.Fprint(w, `{
			"activities": [
				{"molecule_chembl_id": "CHEMBL1", "canonical_smiles": "CCO", "standard_value": "50", "standard_units": "nM"},
				{"molecule_chembl_id": "CHEMBL2", "canonical_smiles": "CCC", "standard_value": "not-a-number", "standard_units": "nM"},
				{"molecule_chembl_id": "CHEMBL4", "canonical_smiles": "", "standard_value": "50", "standard_units": "nM"},
				{"molecule_chembl_id": "CHEMBL5", "canonical_smiles": "CCCl", "standard_value": "50", "standard_units": "ug.mL-1"}
			],
			"page_meta": {"next": "/activity.json?offset=1000"}
		}`)
	})

	client, server := newTestClient(mux)
	defer server.Close()

	inputs, labels, err := client.FetchTargetData(context.Background(), "CHEMBL2095173", 6.3)
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	require.Len(t, labels, 2)

	// 50 nM -> pIC50 ~ 7.3 (active); 10000 nM -> pIC50 5.0 (inactive).
	assert.Equal(t, "CHEMBL1", inputs[0].ID)
	assert.Equal(t, 1, labels[0])
	assert.Equal(t, "CHEMBL3", inputs[1].ID)
	assert.Equal(t, 0, labels[1])
}

func TestFetchTargetDataNoUsableRecords(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/activity.json", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"activities": [], "page_meta": {"next": ""}}`)
	})

	client, server := newTestClient(mux)
	defer server.Close()

	_, _, err := client.FetchTargetData(context.Background(), "CHEMBL0", 6.3)
	assert.Error(t, err)
}

func TestFetchTargetDataServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/activity.json", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	client, server := newTestClient(mux)
	defer server.Close()

	_, _, err := client.FetchTargetData(context.Background(), "CHEMBL1", 6.3)
	assert.Error(t, err)
}

func TestFetchAssayData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/assay/aid/504466/cids/JSON", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("cids_type") {
		case "active":
			fmt.Fprint(w, `{"InformationList": {"Information": [{"CID": [11, 22]}]}}`)
		case "inactive":
			fmt.Fprint(w, `{"InformationList": {"Information": [{"CID": [33]}]}}`)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/compound/cid/11,22/property/CanonicalSMILES/JSON", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"PropertyTable": {"Properties": [
			{"CID": 11, "CanonicalSMILES": "CCO"},
			{"CID": 22, "CanonicalSMILES": "c1ccccc1"}
		]}}`)
	})
	mux.HandleFunc("/compound/cid/33/property/CanonicalSMILES/JSON", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"PropertyTable": {"Properties": [
			{"CID": 33, "CanonicalSMILES": "CCCC"}
		]}}`)
	})

	client, server := newTestClient(mux)
	defer server.Close()

	inputs, labels, err := client.FetchAssayData(context.Background(), 504466)
	require.NoError(t, err)
	require.Len(t, inputs, 3)
	assert.Equal(t, []int{1, 1, 0}, labels)
	assert.Equal(t, "CID11", inputs[0].ID)
	assert.Equal(t, "CID33", inputs[2].ID)
}

func TestFetchAssayDataEmptyAssay(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/assay/aid/1/cids/JSON", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"InformationList": {"Information": []}}`)
	})

	client, server := newTestClient(mux)
	defer server.Close()

	_, _, err := client.FetchAssayData(context.Background(), 1)
	assert.Error(t, err)
}

func TestPIC50FromActivity(t *testing.T) {
	tests := []struct {
		name     string
		activity chemblActivity
		expected float64
		ok       bool
	}{
		{
			name:     "micromolar potency",
			activity: chemblActivity{CanonicalSMILES: "CCO", StandardValue: "1000", StandardUnits: "nM"},
			expected: 6.0,
			ok:       true,
		},
		{
			name:     "nanomolar potency",
			activity: chemblActivity{CanonicalSMILES: "CCO", StandardValue: "1", StandardUnits: "nM"},
			expected: 9.0,
			ok:       true,
		},
		{
			name:     "wrong units",
			activity: chemblActivity{CanonicalSMILES: "CCO", StandardValue: "1", StandardUnits: "ug.mL-1"},
			ok:       false,
		},
		{
			name:     "negative value",
			activity: chemblActivity{CanonicalSMILES: "CCO", StandardValue: "-5", StandardUnits: "nM"},
			ok:       false,
		},
		{
			name:     "missing smiles",
			activity: chemblActivity{StandardValue: "1", StandardUnits: "nM"},
			ok:       false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := pIC50FromActivity(tc.activity)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.InDelta(t, tc.expected, got, 1e-9)
			}
		})
	}
}
