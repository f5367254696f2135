package graph

// Node types. Each label carries exactly one unique key, enforced by the
// constraints declared in schema.go.

// Drug is a ChEMBL molecule keyed by chembl_id
type Drug struct {
	ChemblID string `json:"chembl_id"`
	Name     string `json:"name"`
}

// Target is a protein target keyed by uniprot_id
type Target struct {
	UniprotID string `json:"uniprot_id"`
	Name      string `json:"name"`
}

// Gene is keyed by entrez_id
type Gene struct {
	EntrezID string `json:"entrez_id"`
	Symbol   string `json:"symbol"`
}

// Disease is keyed by doid (Disease Ontology ID)
type Disease struct {
	DOID string `json:"doid"`
	Name string `json:"name"`
}

// SideEffect is keyed by umls_cui
type SideEffect struct {
	UmlsCUI string `json:"umls_cui"`
	Name    string `json:"name"`
}

// Compound is a DrugBank compound keyed by drugbank_id
type Compound struct {
	DrugbankID string `json:"drugbank_id"`
	Name       string `json:"name"`
}

// Stitch is a bridge node keyed by stitch_id, linking SIDER records to
// ChEMBL drugs via the embedded PubChem CID
type Stitch struct {
	StitchID   string `json:"stitch_id"`
	PubchemCID int64  `json:"pubchem_cid"`
}

// Relationship rows. Field names mirror the processed edge CSVs.

// DrugTarget is a (Drug)-[:TARGETS]->(Target) row from ChEMBL drug mechanisms
type DrugTarget struct {
	ChemblID   string
	UniprotID  string
	Mechanism  string
	ActionType string
}

// TargetGene is a (Target)-[:ENCODED_BY]->(Gene) row from the UniProt id mapping
type TargetGene struct {
	UniprotID string
	EntrezID  string
}

// GeneDisease is a (Gene)-[:ASSOCIATES]->(Disease) row from Hetionet
type GeneDisease struct {
	EntrezID string
	DOID     string
	Evidence string
}

// CompoundDisease is a (Compound)-[:TREATS]->(Disease) row from Hetionet
type CompoundDisease struct {
	DrugbankID string
	DOID       string
	Evidence   string
}

// CompoundGene is a (Compound)-[:BINDS]->(Gene) row from Hetionet
type CompoundGene struct {
	DrugbankID string
	EntrezID   string
	Evidence   string
}

// CompoundSideEffect is a (Compound)-[:CAUSES]->(SideEffect) row from Hetionet
type CompoundSideEffect struct {
	DrugbankID string
	UmlsCUI    string
	Evidence   string
}

// StitchSideEffect is a (Stitch)-[:REPORTS]->(SideEffect) row from SIDER.
// Frequencies are nil when SIDER carries no frequency data for the pair.
type StitchSideEffect struct {
	StitchID  string
	UmlsCUI   string
	FreqLower *float64
	FreqUpper *float64
}

// DrugCompound is a (Drug)-[:SAME_AS]->(Compound) row from the UniChem
// ChEMBL to DrugBank dump
type DrugCompound struct {
	ChemblID   string
	DrugbankID string
}

// StitchDrug is a (Stitch)-[:RESOLVES_TO]->(Drug) row from the PubChem CID
// bridge between SIDER and ChEMBL
type StitchDrug struct {
	StitchID string
	ChemblID string
}
