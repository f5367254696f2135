package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biograph/internal/graph"
)

// fakeStore records everything the loader writes
type fakeStore struct {
	drugs       []graph.Drug
	targets     []graph.Target
	genes       []graph.Gene
	diseases    []graph.Disease
	sideEffects []graph.SideEffect
	compounds   []graph.Compound
	stitches    []graph.Stitch

	drugTargets        []graph.DrugTarget
	targetGenes        []graph.TargetGene
	geneDiseases       []graph.GeneDisease
	compoundDiseases   []graph.CompoundDisease
	compoundGenes      []graph.CompoundGene
	compoundSideFX     []graph.CompoundSideEffect
	stitchSideFX       []graph.StitchSideEffect
	drugCompounds      []graph.DrugCompound
	stitchDrugs        []graph.StitchDrug
	drugFlushes        int
}

func (f *fakeStore) UpsertDrugs(_ context.Context, d []graph.Drug) error {
	f.drugs = append(f.drugs, d...)
	f.drugFlushes++
	return nil
}
func (f *fakeStore) UpsertTargets(_ context.Context, t []graph.Target) error {
	f.targets = append(f.targets, t...)
	return nil
}
func (f *fakeStore) UpsertGenes(_ context.Context, g []graph.Gene) error {
	f.genes = append(f.genes, g...)
	return nil
}
func (f *fakeStore) UpsertDiseases(_ context.Context, d []graph.Disease) error {
	f.diseases = append(f.diseases, d...)
	return nil
}
func (f *fakeStore) UpsertSideEffects(_ context.Context, s []graph.SideEffect) error {
	f.sideEffects = append(f.sideEffects, s...)
	return nil
}
func (f *fakeStore) UpsertCompounds(_ context.Context, c []graph.Compound) error {
	f.compounds = append(f.compounds, c...)
	return nil
}
func (f *fakeStore) UpsertStitches(_ context.Context, s []graph.Stitch) error {
	f.stitches = append(f.stitches, s...)
	return nil
}
func (f *fakeStore) LinkDrugTargets(_ context.Context, l []graph.DrugTarget) error {
	f.drugTargets = append(f.drugTargets, l...)
	return nil
}
func (f *fakeStore) LinkTargetGenes(_ context.Context, l []graph.TargetGene) error {
	f.targetGenes = append(f.targetGenes, l...)
	return nil
}
func (f *fakeStore) LinkGeneDiseases(_ context.Context, l []graph.GeneDisease) error {
	f.geneDiseases = append(f.geneDiseases, l...)
	return nil
}
func (f *fakeStore) LinkCompoundDiseases(_ context.Context, l []graph.CompoundDisease) error {
	f.compoundDiseases = append(f.compoundDiseases, l...)
	return nil
}
func (f *fakeStore) LinkCompoundGenes(_ context.Context, l []graph.CompoundGene) error {
	f.compoundGenes = append(f.compoundGenes, l...)
	return nil
}
func (f *fakeStore) LinkCompoundSideEffects(_ context.Context, l []graph.CompoundSideEffect) error {
	f.compoundSideFX = append(f.compoundSideFX, l...)
	return nil
}
func (f *fakeStore) LinkStitchSideEffects(_ context.Context, l []graph.StitchSideEffect) error {
	f.stitchSideFX = append(f.stitchSideFX, l...)
	return nil
}
func (f *fakeStore) LinkDrugCompounds(_ context.Context, l []graph.DrugCompound) error {
	f.drugCompounds = append(f.drugCompounds, l...)
	return nil
}
func (f *fakeStore) LinkStitchDrugs(_ context.Context, l []graph.StitchDrug) error {
	f.stitchDrugs = append(f.stitchDrugs, l...)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoader_LoadNodes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, fileDrugNodes,
		"chembl_id,name\nCHEMBL25,ASPIRIN\nCHEMBL192,SILDENAFIL\nCHEMBL1201583,ADALIMUMAB\n")
	writeFile(t, dir, fileGeneNodes,
		"entrez_id,symbol\n5743,PTGS2\n1636,ACE\n")
	writeFile(t, dir, fileSideEffectNodes,
		"umls_cui,name\nC0027497,Nausea\n")
	writeFile(t, dir, fileSiderSideEffect,
		"umls_cui,name\nC0027497,Nausea\nC0018681,Headache\n")
	writeFile(t, dir, fileSiderEdges,
		"stitch_id,umls_cui,frequency_lower,frequency_upper\nCID000010917,C0027497,0.01,0.1\nCID000010917,C0018681,,\nnot-a-stitch-id,C0018681,,\n")

	store := &fakeStore{}
	loader := NewLoader(store, dir, 2)

	require.NoError(t, loader.LoadNodes(context.Background()))

	// Three drugs with batch size two means two flushes
	assert.Len(t, store.drugs, 3)
	assert.Equal(t, 2, store.drugFlushes)
	assert.Equal(t, graph.Drug{ChemblID: "CHEMBL25", Name: "ASPIRIN"}, store.drugs[0])

	assert.Len(t, store.genes, 2)

	// Both side effect files contribute rows; the MERGE dedupes server-side
	assert.Len(t, store.sideEffects, 3)

	// Stitch nodes derive from the SIDER edge file: one valid ID, deduped
	require.Len(t, store.stitches, 1)
	assert.Equal(t, graph.Stitch{StitchID: "CID000010917", PubchemCID: 10917}, store.stitches[0])

	// Missing files (targets, diseases, compounds) are skipped, not fatal
	assert.Empty(t, store.targets)
	assert.Empty(t, store.diseases)
	assert.Empty(t, store.compounds)
}

func TestLoader_LoadEdges(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, fileDrugTargetEdges,
		"chembl_id,uniprot,mechanism,action_type\nCHEMBL25,P23219,Cyclooxygenase inhibitor,INHIBITOR\n")
	writeFile(t, dir, fileUniprotEntrez,
		"uniprot,entrez_id\nP23219,5742\n")
	writeFile(t, dir, fileSiderEdges,
		"stitch_id,umls_cui,frequency_lower,frequency_upper\nCID000010917,C0027497,0.01,0.1\nCID000010917,C0018681,,\n")
	writeFile(t, dir, fileChemblDrugbank,
		"chembl_id,drugbank_id\nCHEMBL25,DB00945\n")
	writeFile(t, dir, fileStitchChembl,
		"stitch_id,pubchem_cid,chembl_id,umls_cui\nCID000010917,10917,CHEMBL25,C0027497\n")

	store := &fakeStore{}
	loader := NewLoader(store, dir, 100)

	require.NoError(t, loader.LoadEdges(context.Background()))

	require.Len(t, store.drugTargets, 1)
	assert.Equal(t, graph.DrugTarget{
		ChemblID:   "CHEMBL25",
		UniprotID:  "P23219",
		Mechanism:  "Cyclooxygenase inhibitor",
		ActionType: "INHIBITOR",
	}, store.drugTargets[0])

	require.Len(t, store.targetGenes, 1)
	assert.Equal(t, graph.TargetGene{UniprotID: "P23219", EntrezID: "5742"}, store.targetGenes[0])

	require.Len(t, store.stitchSideFX, 2)
	withFreq := store.stitchSideFX[0]
	require.NotNil(t, withFreq.FreqLower)
	assert.Equal(t, 0.01, *withFreq.FreqLower)
	assert.Nil(t, store.stitchSideFX[1].FreqLower)
	assert.Nil(t, store.stitchSideFX[1].FreqUpper)

	require.Len(t, store.drugCompounds, 1)
	require.Len(t, store.stitchDrugs, 1)
	assert.Equal(t, graph.StitchDrug{StitchID: "CID000010917", ChemblID: "CHEMBL25"}, store.stitchDrugs[0])
}

func TestLoader_SkipsRowsWithMissingKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, fileDrugNodes,
		"chembl_id,name\n,NAMELESS\nCHEMBL25,ASPIRIN\n")

	store := &fakeStore{}
	loader := NewLoader(store, dir, 100)

	require.NoError(t, loader.LoadNodes(context.Background()))
	require.Len(t, store.drugs, 1)
	assert.Equal(t, "CHEMBL25", store.drugs[0].ChemblID)
}

func TestReadCSV_RaggedRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ragged.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1,2\n4,5,6,7\n"), 0o644))

	var rows []map[string]string
	n, err := readCSV(path, func(row map[string]string) error {
		rows = append(rows, row)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	// Short rows pad with empty strings, long rows drop extras
	assert.Equal(t, "", rows[0]["c"])
	assert.Equal(t, "6", rows[1]["c"])
}
