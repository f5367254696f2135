package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Upserts MERGE on each label's unique key. The constraints from schema.go
// make concurrent MERGEs on the same key converge on a single node.

// UpsertDrugs creates or updates a batch of Drug nodes
func (r *Repository) UpsertDrugs(ctx context.Context, drugs []Drug) error {
	rows := make([]map[string]interface{}, 0, len(drugs))
	for _, d := range drugs {
		rows = append(rows, map[string]interface{}{"chembl_id": d.ChemblID, "name": d.Name})
	}
	return r.runBatch(ctx, "Drug", `
		UNWIND $rows AS row
		MERGE (d:Drug {chembl_id: row.chembl_id})
		SET d.name = row.name
	`, rows)
}

// UpsertTargets creates or updates a batch of Target nodes
func (r *Repository) UpsertTargets(ctx context.Context, targets []Target) error {
	rows := make([]map[string]interface{}, 0, len(targets))
	for _, t := range targets {
		rows = append(rows, map[string]interface{}{"uniprot_id": t.UniprotID, "name": t.Name})
	}
	return r.runBatch(ctx, "Target", `
		UNWIND $rows AS row
		MERGE (t:Target {uniprot_id: row.uniprot_id})
		SET t.name = row.name
	`, rows)
}

// UpsertGenes creates or updates a batch of Gene nodes
func (r *Repository) UpsertGenes(ctx context.Context, genes []Gene) error {
	rows := make([]map[string]interface{}, 0, len(genes))
	for _, g := range genes {
		rows = append(rows, map[string]interface{}{"entrez_id": g.EntrezID, "symbol": g.Symbol})
	}
	return r.runBatch(ctx, "Gene", `
		UNWIND $rows AS row
		MERGE (g:Gene {entrez_id: row.entrez_id})
		SET g.symbol = row.symbol
	`, rows)
}

// UpsertDiseases creates or updates a batch of Disease nodes
func (r *Repository) UpsertDiseases(ctx context.Context, diseases []Disease) error {
	rows := make([]map[string]interface{}, 0, len(diseases))
	for _, d := range diseases {
		rows = append(rows, map[string]interface{}{"doid": d.DOID, "name": d.Name})
	}
	return r.runBatch(ctx, "Disease", `
		UNWIND $rows AS row
		MERGE (d:Disease {doid: row.doid})
		SET d.name = row.name
	`, rows)
}

// UpsertSideEffects creates or updates a batch of SideEffect nodes.
// Hetionet and SIDER both contribute side effects; whichever loads second
// must not blank out a name the first already set.
func (r *Repository) UpsertSideEffects(ctx context.Context, effects []SideEffect) error {
	rows := make([]map[string]interface{}, 0, len(effects))
	for _, s := range effects {
		rows = append(rows, map[string]interface{}{"umls_cui": s.UmlsCUI, "name": s.Name})
	}
	return r.runBatch(ctx, "SideEffect", `
		UNWIND $rows AS row
		MERGE (s:SideEffect {umls_cui: row.umls_cui})
		SET s.name = CASE WHEN row.name <> '' THEN row.name ELSE s.name END
	`, rows)
}

// UpsertCompounds creates or updates a batch of Compound nodes
func (r *Repository) UpsertCompounds(ctx context.Context, compounds []Compound) error {
	rows := make([]map[string]interface{}, 0, len(compounds))
	for _, c := range compounds {
		rows = append(rows, map[string]interface{}{"drugbank_id": c.DrugbankID, "name": c.Name})
	}
	return r.runBatch(ctx, "Compound", `
		UNWIND $rows AS row
		MERGE (c:Compound {drugbank_id: row.drugbank_id})
		SET c.name = row.name
	`, rows)
}

// UpsertStitches creates or updates a batch of Stitch bridge nodes
func (r *Repository) UpsertStitches(ctx context.Context, stitches []Stitch) error {
	rows := make([]map[string]interface{}, 0, len(stitches))
	for _, s := range stitches {
		rows = append(rows, map[string]interface{}{"stitch_id": s.StitchID, "pubchem_cid": s.PubchemCID})
	}
	return r.runBatch(ctx, "Stitch", `
		UNWIND $rows AS row
		MERGE (s:Stitch {stitch_id: row.stitch_id})
		SET s.pubchem_cid = row.pubchem_cid
	`, rows)
}

func (r *Repository) runBatch(ctx context.Context, label, query string, rows []map[string]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	session := r.writeSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]interface{}{"rows": rows})
	if err != nil {
		return fmt.Errorf("failed to upsert %s batch: %w", label, err)
	}
	if _, err := result.Consume(ctx); err != nil {
		return fmt.Errorf("failed to upsert %s batch: %w", label, err)
	}

	r.logger.Debug("Batch upserted",
		zap.String("label", label),
		zap.Int("rows", len(rows)),
	)
	return nil
}

// Lookups

// GetDrug fetches a Drug by its ChEMBL ID
func (r *Repository) GetDrug(ctx context.Context, chemblID string) (*Drug, error) {
	record, err := r.fetchOne(ctx,
		"MATCH (d:Drug {chembl_id: $key}) RETURN d.chembl_id AS chembl_id, d.name AS name",
		"Drug", chemblID)
	if err != nil {
		return nil, err
	}
	return &Drug{
		ChemblID: getStringFromRecord(record, "chembl_id"),
		Name:     getStringFromRecord(record, "name"),
	}, nil
}

// GetTarget fetches a Target by its UniProt accession
func (r *Repository) GetTarget(ctx context.Context, uniprotID string) (*Target, error) {
	record, err := r.fetchOne(ctx,
		"MATCH (t:Target {uniprot_id: $key}) RETURN t.uniprot_id AS uniprot_id, t.name AS name",
		"Target", uniprotID)
	if err != nil {
		return nil, err
	}
	return &Target{
		UniprotID: getStringFromRecord(record, "uniprot_id"),
		Name:      getStringFromRecord(record, "name"),
	}, nil
}

// GetGene fetches a Gene by its Entrez ID
func (r *Repository) GetGene(ctx context.Context, entrezID string) (*Gene, error) {
	record, err := r.fetchOne(ctx,
		"MATCH (g:Gene {entrez_id: $key}) RETURN g.entrez_id AS entrez_id, g.symbol AS symbol",
		"Gene", entrezID)
	if err != nil {
		return nil, err
	}
	return &Gene{
		EntrezID: getStringFromRecord(record, "entrez_id"),
		Symbol:   getStringFromRecord(record, "symbol"),
	}, nil
}

// GetDisease fetches a Disease by its Disease Ontology ID
func (r *Repository) GetDisease(ctx context.Context, doid string) (*Disease, error) {
	record, err := r.fetchOne(ctx,
		"MATCH (d:Disease {doid: $key}) RETURN d.doid AS doid, d.name AS name",
		"Disease", doid)
	if err != nil {
		return nil, err
	}
	return &Disease{
		DOID: getStringFromRecord(record, "doid"),
		Name: getStringFromRecord(record, "name"),
	}, nil
}

// GetSideEffect fetches a SideEffect by its UMLS CUI
func (r *Repository) GetSideEffect(ctx context.Context, umlsCUI string) (*SideEffect, error) {
	record, err := r.fetchOne(ctx,
		"MATCH (s:SideEffect {umls_cui: $key}) RETURN s.umls_cui AS umls_cui, s.name AS name",
		"SideEffect", umlsCUI)
	if err != nil {
		return nil, err
	}
	return &SideEffect{
		UmlsCUI: getStringFromRecord(record, "umls_cui"),
		Name:    getStringFromRecord(record, "name"),
	}, nil
}

// GetCompound fetches a Compound by its DrugBank ID
func (r *Repository) GetCompound(ctx context.Context, drugbankID string) (*Compound, error) {
	record, err := r.fetchOne(ctx,
		"MATCH (c:Compound {drugbank_id: $key}) RETURN c.drugbank_id AS drugbank_id, c.name AS name",
		"Compound", drugbankID)
	if err != nil {
		return nil, err
	}
	return &Compound{
		DrugbankID: getStringFromRecord(record, "drugbank_id"),
		Name:       getStringFromRecord(record, "name"),
	}, nil
}

// GetStitch fetches a Stitch bridge node by its STITCH ID
func (r *Repository) GetStitch(ctx context.Context, stitchID string) (*Stitch, error) {
	record, err := r.fetchOne(ctx,
		"MATCH (s:Stitch {stitch_id: $key}) RETURN s.stitch_id AS stitch_id, s.pubchem_cid AS pubchem_cid",
		"Stitch", stitchID)
	if err != nil {
		return nil, err
	}
	return &Stitch{
		StitchID:   getStringFromRecord(record, "stitch_id"),
		PubchemCID: getInt64FromRecord(record, "pubchem_cid"),
	}, nil
}

func (r *Repository) fetchOne(ctx context.Context, query, label, key string) (*neo4j.Record, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]interface{}{"key": key})
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to fetch record: %w", err)
		}
		return nil, ErrNodeNotFound{Label: label, Key: key}
	}

	return result.Record(), nil
}

// CountsByLabel returns node counts per declared label, for status reporting
func (r *Repository) CountsByLabel(ctx context.Context) (map[string]int64, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	counts := make(map[string]int64, len(UniqueConstraints))
	for _, c := range UniqueConstraints {
		query := fmt.Sprintf("MATCH (n:%s) RETURN count(n) AS count", c.Label)
		result, err := session.Run(ctx, query, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s nodes: %w", c.Label, err)
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s nodes: %w", c.Label, err)
		}
		counts[c.Label] = getInt64FromRecord(record, "count")
	}
	return counts, nil
}

// Errors

// ErrNodeNotFound is returned when no node with the given key exists
type ErrNodeNotFound struct {
	Label string
	Key   string
}

func (e ErrNodeNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Label, e.Key)
}
