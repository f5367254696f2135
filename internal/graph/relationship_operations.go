package graph

import (
	"context"
)

// Relationship batches. Endpoints are MATCHed, not MERGEd, so an edge row
// referencing an unknown node is silently skipped; the loaders write all
// node files before any edge file.

// LinkDrugTargets creates (Drug)-[:TARGETS]->(Target) edges from ChEMBL
// drug mechanism rows
func (r *Repository) LinkDrugTargets(ctx context.Context, links []DrugTarget) error {
	rows := make([]map[string]interface{}, 0, len(links))
	for _, l := range links {
		rows = append(rows, map[string]interface{}{
			"chembl_id":   l.ChemblID,
			"uniprot_id":  l.UniprotID,
			"mechanism":   l.Mechanism,
			"action_type": l.ActionType,
		})
	}
	return r.runBatch(ctx, "TARGETS", `
		UNWIND $rows AS row
		MATCH (d:Drug {chembl_id: row.chembl_id})
		MATCH (t:Target {uniprot_id: row.uniprot_id})
		MERGE (d)-[rel:TARGETS]->(t)
		SET rel.mechanism = row.mechanism,
		    rel.action_type = row.action_type
	`, rows)
}

// LinkTargetGenes creates (Target)-[:ENCODED_BY]->(Gene) edges from the
// UniProt to Entrez id mapping
func (r *Repository) LinkTargetGenes(ctx context.Context, links []TargetGene) error {
	rows := make([]map[string]interface{}, 0, len(links))
	for _, l := range links {
		rows = append(rows, map[string]interface{}{
			"uniprot_id": l.UniprotID,
			"entrez_id":  l.EntrezID,
		})
	}
	return r.runBatch(ctx, "ENCODED_BY", `
		UNWIND $rows AS row
		MATCH (t:Target {uniprot_id: row.uniprot_id})
		MATCH (g:Gene {entrez_id: row.entrez_id})
		MERGE (t)-[:ENCODED_BY]->(g)
	`, rows)
}

// LinkGeneDiseases creates (Gene)-[:ASSOCIATES]->(Disease) edges from
// Hetionet gene-disease associations
func (r *Repository) LinkGeneDiseases(ctx context.Context, links []GeneDisease) error {
	rows := make([]map[string]interface{}, 0, len(links))
	for _, l := range links {
		rows = append(rows, map[string]interface{}{
			"entrez_id": l.EntrezID,
			"doid":      l.DOID,
			"evidence":  l.Evidence,
		})
	}
	return r.runBatch(ctx, "ASSOCIATES", `
		UNWIND $rows AS row
		MATCH (g:Gene {entrez_id: row.entrez_id})
		MATCH (d:Disease {doid: row.doid})
		MERGE (g)-[rel:ASSOCIATES]->(d)
		SET rel.evidence = row.evidence
	`, rows)
}

// LinkCompoundDiseases creates (Compound)-[:TREATS]->(Disease) edges from
// Hetionet treatment edges
func (r *Repository) LinkCompoundDiseases(ctx context.Context, links []CompoundDisease) error {
	rows := make([]map[string]interface{}, 0, len(links))
	for _, l := range links {
		rows = append(rows, map[string]interface{}{
			"drugbank_id": l.DrugbankID,
			"doid":        l.DOID,
			"evidence":    l.Evidence,
		})
	}
	return r.runBatch(ctx, "TREATS", `
		UNWIND $rows AS row
		MATCH (c:Compound {drugbank_id: row.drugbank_id})
		MATCH (d:Disease {doid: row.doid})
		MERGE (c)-[rel:TREATS]->(d)
		SET rel.evidence = row.evidence
	`, rows)
}

// LinkCompoundGenes creates (Compound)-[:BINDS]->(Gene) edges from Hetionet
// compound-binds-gene edges
func (r *Repository) LinkCompoundGenes(ctx context.Context, links []CompoundGene) error {
	rows := make([]map[string]interface{}, 0, len(links))
	for _, l := range links {
		rows = append(rows, map[string]interface{}{
			"drugbank_id": l.DrugbankID,
			"entrez_id":   l.EntrezID,
			"evidence":    l.Evidence,
		})
	}
	return r.runBatch(ctx, "BINDS", `
		UNWIND $rows AS row
		MATCH (c:Compound {drugbank_id: row.drugbank_id})
		MATCH (g:Gene {entrez_id: row.entrez_id})
		MERGE (c)-[rel:BINDS]->(g)
		SET rel.evidence = row.evidence
	`, rows)
}

// LinkCompoundSideEffects creates (Compound)-[:CAUSES]->(SideEffect) edges
// from Hetionet
func (r *Repository) LinkCompoundSideEffects(ctx context.Context, links []CompoundSideEffect) error {
	rows := make([]map[string]interface{}, 0, len(links))
	for _, l := range links {
		rows = append(rows, map[string]interface{}{
			"drugbank_id": l.DrugbankID,
			"umls_cui":    l.UmlsCUI,
			"evidence":    l.Evidence,
		})
	}
	return r.runBatch(ctx, "CAUSES", `
		UNWIND $rows AS row
		MATCH (c:Compound {drugbank_id: row.drugbank_id})
		MATCH (s:SideEffect {umls_cui: row.umls_cui})
		MERGE (c)-[rel:CAUSES]->(s)
		SET rel.evidence = row.evidence
	`, rows)
}

// LinkStitchSideEffects creates (Stitch)-[:REPORTS]->(SideEffect) edges from
// SIDER, carrying reported frequency bounds when present
func (r *Repository) LinkStitchSideEffects(ctx context.Context, links []StitchSideEffect) error {
	rows := make([]map[string]interface{}, 0, len(links))
	for _, l := range links {
		rows = append(rows, map[string]interface{}{
			"stitch_id":  l.StitchID,
			"umls_cui":   l.UmlsCUI,
			"freq_lower": floatOrNil(l.FreqLower),
			"freq_upper": floatOrNil(l.FreqUpper),
		})
	}
	return r.runBatch(ctx, "REPORTS", `
		UNWIND $rows AS row
		MATCH (st:Stitch {stitch_id: row.stitch_id})
		MATCH (se:SideEffect {umls_cui: row.umls_cui})
		MERGE (st)-[rel:REPORTS]->(se)
		SET rel.freq_lower = row.freq_lower,
		    rel.freq_upper = row.freq_upper
	`, rows)
}

// LinkDrugCompounds creates (Drug)-[:SAME_AS]->(Compound) edges from the
// UniChem ChEMBL to DrugBank dump
func (r *Repository) LinkDrugCompounds(ctx context.Context, links []DrugCompound) error {
	rows := make([]map[string]interface{}, 0, len(links))
	for _, l := range links {
		rows = append(rows, map[string]interface{}{
			"chembl_id":   l.ChemblID,
			"drugbank_id": l.DrugbankID,
		})
	}
	return r.runBatch(ctx, "SAME_AS", `
		UNWIND $rows AS row
		MATCH (d:Drug {chembl_id: row.chembl_id})
		MATCH (c:Compound {drugbank_id: row.drugbank_id})
		MERGE (d)-[:SAME_AS]->(c)
	`, rows)
}

// LinkStitchDrugs creates (Stitch)-[:RESOLVES_TO]->(Drug) edges from the
// PubChem CID bridge between SIDER and ChEMBL
func (r *Repository) LinkStitchDrugs(ctx context.Context, links []StitchDrug) error {
	rows := make([]map[string]interface{}, 0, len(links))
	for _, l := range links {
		rows = append(rows, map[string]interface{}{
			"stitch_id": l.StitchID,
			"chembl_id": l.ChemblID,
		})
	}
	return r.runBatch(ctx, "RESOLVES_TO", `
		UNWIND $rows AS row
		MATCH (st:Stitch {stitch_id: row.stitch_id})
		MATCH (d:Drug {chembl_id: row.chembl_id})
		MERGE (st)-[:RESOLVES_TO]->(d)
	`, rows)
}
