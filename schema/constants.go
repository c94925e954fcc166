package schema

// Custom string types for type safety.
type (
	// ScoringStrategy identifies how molecules were scored against the pharmacophore.
	ScoringStrategy string

	// SimilarityKind represents the bit-vector similarity function for fingerprint screening.
	SimilarityKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run tracking.
	DatabaseBackend string

	// FeatureKind represents a pharmacophoric feature type.
	FeatureKind string
)

// All scoring strategies supported.
const (
	// SSDStrategy scores by geometric alignment: the reciprocal of the best
	// sum-of-squared-deviations fit of the molecule against a 3D model.
	SSDStrategy ScoringStrategy = "SSD"

	// SimilarityStrategy scores by 2D pharmacophore fingerprint similarity.
	SimilarityStrategy ScoringStrategy = "Similarity"
)

// All similarity kinds supported.
const (
	TanimotoSimilarity SimilarityKind = "tanimoto" // default
	DiceSimilarity     SimilarityKind = "dice"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All pharmacophoric feature kinds supported. The three-letter codes follow
// the pharmagist mol2 convention.
const (
	AromaticRing   FeatureKind = "aromatic ring"
	Hydrophobic    FeatureKind = "hydrophobicity"
	HBAcceptor     FeatureKind = "hb acceptor"
	HBDonor        FeatureKind = "hb donor"
	PositiveCharge FeatureKind = "positive charge"
	NegativeCharge FeatureKind = "negative charge"
)

// ValidSimilarityKinds lists all valid similarity kinds.
var ValidSimilarityKinds = map[SimilarityKind]struct{}{
	TanimotoSimilarity: {},
	DiceSimilarity:     {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
