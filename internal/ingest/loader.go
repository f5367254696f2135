package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"biograph/internal/graph"
	"biograph/pkg/logger"
)

// Processed CSV files produced by the upstream extraction pipeline
// (ChEMBL sqlite dump, Hetionet JSON, SIDER TSVs, UniChem/UniProt mappings).
const (
	fileDrugNodes       = "nodes_drug_chembl_phase4.csv"
	fileTargetNodes     = "nodes_target_uniprot_phase4.csv"
	fileGeneNodes       = "nodes_gene.csv"
	fileDiseaseNodes    = "nodes_disease.csv"
	fileSideEffectNodes = "nodes_sideeffect.csv"
	fileSiderSideEffect = "nodes_side_effect_sider.csv"
	fileCompoundNodes   = "nodes_compound.csv"

	fileDrugTargetEdges  = "edges_drug_targets_chembl_phase4.csv"
	fileUniprotEntrez    = "uniprot_to_entrez.csv"
	fileGeneDiseaseEdges = "edges_gene_disease.csv"
	fileTreatsEdges      = "edges_drug_treats.csv"
	fileCausesEdges      = "edges_drug_sideeffect.csv"
	fileBindsEdges       = "edges_drug_targets.csv"
	fileSiderEdges       = "edges_drug_sideeffect_stitch.csv"
	fileChemblDrugbank   = "chembl_to_drugbank.csv"
	fileStitchChembl     = "sider_stitch_to_chembl_full.csv"
)

// Store is the subset of repository operations the loader writes through
type Store interface {
	UpsertDrugs(ctx context.Context, drugs []graph.Drug) error
	UpsertTargets(ctx context.Context, targets []graph.Target) error
	UpsertGenes(ctx context.Context, genes []graph.Gene) error
	UpsertDiseases(ctx context.Context, diseases []graph.Disease) error
	UpsertSideEffects(ctx context.Context, effects []graph.SideEffect) error
	UpsertCompounds(ctx context.Context, compounds []graph.Compound) error
	UpsertStitches(ctx context.Context, stitches []graph.Stitch) error

	LinkDrugTargets(ctx context.Context, links []graph.DrugTarget) error
	LinkTargetGenes(ctx context.Context, links []graph.TargetGene) error
	LinkGeneDiseases(ctx context.Context, links []graph.GeneDisease) error
	LinkCompoundDiseases(ctx context.Context, links []graph.CompoundDisease) error
	LinkCompoundGenes(ctx context.Context, links []graph.CompoundGene) error
	LinkCompoundSideEffects(ctx context.Context, links []graph.CompoundSideEffect) error
	LinkStitchSideEffects(ctx context.Context, links []graph.StitchSideEffect) error
	LinkDrugCompounds(ctx context.Context, links []graph.DrugCompound) error
	LinkStitchDrugs(ctx context.Context, links []graph.StitchDrug) error
}

// Loader streams the processed CSVs into the graph in batches
type Loader struct {
	store     Store
	dataDir   string
	batchSize int
	runID     string
	logger    *zap.Logger
}

// NewLoader creates a loader reading from dataDir
func NewLoader(store Store, dataDir string, batchSize int) *Loader {
	return &Loader{
		store:     store,
		dataDir:   dataDir,
		batchSize: batchSize,
		runID:     uuid.NewString(),
		logger:    logger.Get(),
	}
}

// RunID identifies this load run in logs
func (l *Loader) RunID() string {
	return l.runID
}

// Run loads all node files, then all edge files. Edges MATCH their
// endpoints, so the two phases must not overlap.
func (l *Loader) Run(ctx context.Context) error {
	l.logger.Info("Starting graph load",
		zap.String("run_id", l.runID),
		zap.String("data_dir", l.dataDir),
		zap.Int("batch_size", l.batchSize),
	)

	if err := l.LoadNodes(ctx); err != nil {
		return err
	}
	return l.LoadEdges(ctx)
}

// LoadNodes loads every node file concurrently
func (l *Loader) LoadNodes(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.loadDrugs(ctx) })
	g.Go(func() error { return l.loadTargets(ctx) })
	g.Go(func() error { return l.loadGenes(ctx) })
	g.Go(func() error { return l.loadDiseases(ctx) })
	g.Go(func() error { return l.loadSideEffects(ctx) })
	g.Go(func() error { return l.loadCompounds(ctx) })
	g.Go(func() error { return l.loadStitches(ctx) })
	return g.Wait()
}

// LoadEdges loads every edge file concurrently
func (l *Loader) LoadEdges(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loadBatched(ctx, l, fileDrugTargetEdges, parseDrugTarget, l.store.LinkDrugTargets)
	})
	g.Go(func() error {
		return loadBatched(ctx, l, fileUniprotEntrez, parseTargetGene, l.store.LinkTargetGenes)
	})
	g.Go(func() error {
		return loadBatched(ctx, l, fileGeneDiseaseEdges, parseGeneDisease, l.store.LinkGeneDiseases)
	})
	g.Go(func() error {
		return loadBatched(ctx, l, fileTreatsEdges, parseCompoundDisease, l.store.LinkCompoundDiseases)
	})
	g.Go(func() error {
		return loadBatched(ctx, l, fileBindsEdges, parseCompoundGene, l.store.LinkCompoundGenes)
	})
	g.Go(func() error {
		return loadBatched(ctx, l, fileCausesEdges, parseCompoundSideEffect, l.store.LinkCompoundSideEffects)
	})
	g.Go(func() error {
		return loadBatched(ctx, l, fileSiderEdges, parseStitchSideEffect, l.store.LinkStitchSideEffects)
	})
	g.Go(func() error {
		return loadBatched(ctx, l, fileChemblDrugbank, parseDrugCompound, l.store.LinkDrugCompounds)
	})
	g.Go(func() error {
		return loadBatched(ctx, l, fileStitchChembl, parseStitchDrug, l.store.LinkStitchDrugs)
	})
	return g.Wait()
}

func (l *Loader) loadDrugs(ctx context.Context) error {
	return loadBatched(ctx, l, fileDrugNodes, func(row map[string]string) (graph.Drug, bool) {
		if row["chembl_id"] == "" {
			return graph.Drug{}, false
		}
		return graph.Drug{ChemblID: row["chembl_id"], Name: row["name"]}, true
	}, l.store.UpsertDrugs)
}

func (l *Loader) loadTargets(ctx context.Context) error {
	return loadBatched(ctx, l, fileTargetNodes, func(row map[string]string) (graph.Target, bool) {
		if row["uniprot"] == "" {
			return graph.Target{}, false
		}
		return graph.Target{UniprotID: row["uniprot"], Name: row["target_name"]}, true
	}, l.store.UpsertTargets)
}

func (l *Loader) loadGenes(ctx context.Context) error {
	return loadBatched(ctx, l, fileGeneNodes, func(row map[string]string) (graph.Gene, bool) {
		if row["entrez_id"] == "" {
			return graph.Gene{}, false
		}
		return graph.Gene{EntrezID: row["entrez_id"], Symbol: row["symbol"]}, true
	}, l.store.UpsertGenes)
}

func (l *Loader) loadDiseases(ctx context.Context) error {
	return loadBatched(ctx, l, fileDiseaseNodes, func(row map[string]string) (graph.Disease, bool) {
		if row["doid"] == "" {
			return graph.Disease{}, false
		}
		return graph.Disease{DOID: row["doid"], Name: row["name"]}, true
	}, l.store.UpsertDiseases)
}

// loadSideEffects loads Hetionet side effects first, then the SIDER file;
// the upsert keeps whichever name arrived non-empty
func (l *Loader) loadSideEffects(ctx context.Context) error {
	parse := func(row map[string]string) (graph.SideEffect, bool) {
		if row["umls_cui"] == "" {
			return graph.SideEffect{}, false
		}
		return graph.SideEffect{UmlsCUI: row["umls_cui"], Name: row["name"]}, true
	}
	if err := loadBatched(ctx, l, fileSideEffectNodes, parse, l.store.UpsertSideEffects); err != nil {
		return err
	}
	return loadBatched(ctx, l, fileSiderSideEffect, parse, l.store.UpsertSideEffects)
}

func (l *Loader) loadCompounds(ctx context.Context) error {
	return loadBatched(ctx, l, fileCompoundNodes, func(row map[string]string) (graph.Compound, bool) {
		if row["drugbank_id"] == "" {
			return graph.Compound{}, false
		}
		return graph.Compound{DrugbankID: row["drugbank_id"], Name: row["name"]}, true
	}, l.store.UpsertCompounds)
}

// loadStitches derives Stitch bridge nodes from the two files carrying
// STITCH IDs. Duplicates across files are deduped per file; the MERGE in the
// store absorbs cross-file repeats.
func (l *Loader) loadStitches(ctx context.Context) error {
	for _, file := range []string{fileSiderEdges, fileStitchChembl} {
		seen := make(map[string]bool)
		err := loadBatched(ctx, l, file, func(row map[string]string) (graph.Stitch, bool) {
			id := row["stitch_id"]
			if id == "" || seen[id] {
				return graph.Stitch{}, false
			}
			cid, ok := ParsePubchemCID(id)
			if !ok {
				return graph.Stitch{}, false
			}
			seen[id] = true
			return graph.Stitch{StitchID: id, PubchemCID: cid}, true
		}, l.store.UpsertStitches)
		if err != nil {
			return err
		}
	}
	return nil
}

// Edge row parsers

func parseDrugTarget(row map[string]string) (graph.DrugTarget, bool) {
	if row["chembl_id"] == "" || row["uniprot"] == "" {
		return graph.DrugTarget{}, false
	}
	return graph.DrugTarget{
		ChemblID:   row["chembl_id"],
		UniprotID:  row["uniprot"],
		Mechanism:  row["mechanism"],
		ActionType: row["action_type"],
	}, true
}

func parseTargetGene(row map[string]string) (graph.TargetGene, bool) {
	if row["uniprot"] == "" || row["entrez_id"] == "" {
		return graph.TargetGene{}, false
	}
	return graph.TargetGene{UniprotID: row["uniprot"], EntrezID: row["entrez_id"]}, true
}

func parseGeneDisease(row map[string]string) (graph.GeneDisease, bool) {
	if row["entrez_id"] == "" || row["doid"] == "" {
		return graph.GeneDisease{}, false
	}
	return graph.GeneDisease{
		EntrezID: row["entrez_id"],
		DOID:     row["doid"],
		Evidence: row["evidence"],
	}, true
}

func parseCompoundDisease(row map[string]string) (graph.CompoundDisease, bool) {
	if row["drugbank_id"] == "" || row["doid"] == "" {
		return graph.CompoundDisease{}, false
	}
	return graph.CompoundDisease{
		DrugbankID: row["drugbank_id"],
		DOID:       row["doid"],
		Evidence:   row["evidence"],
	}, true
}

func parseCompoundGene(row map[string]string) (graph.CompoundGene, bool) {
	if row["drugbank_id"] == "" || row["entrez_id"] == "" {
		return graph.CompoundGene{}, false
	}
	return graph.CompoundGene{
		DrugbankID: row["drugbank_id"],
		EntrezID:   row["entrez_id"],
		Evidence:   row["evidence"],
	}, true
}

func parseCompoundSideEffect(row map[string]string) (graph.CompoundSideEffect, bool) {
	if row["drugbank_id"] == "" || row["umls_cui"] == "" {
		return graph.CompoundSideEffect{}, false
	}
	return graph.CompoundSideEffect{
		DrugbankID: row["drugbank_id"],
		UmlsCUI:    row["umls_cui"],
		Evidence:   row["evidence"],
	}, true
}

func parseStitchSideEffect(row map[string]string) (graph.StitchSideEffect, bool) {
	if row["stitch_id"] == "" || row["umls_cui"] == "" {
		return graph.StitchSideEffect{}, false
	}
	return graph.StitchSideEffect{
		StitchID:  row["stitch_id"],
		UmlsCUI:   row["umls_cui"],
		FreqLower: parseOptionalFloat(row["frequency_lower"]),
		FreqUpper: parseOptionalFloat(row["frequency_upper"]),
	}, true
}

func parseDrugCompound(row map[string]string) (graph.DrugCompound, bool) {
	if row["chembl_id"] == "" || row["drugbank_id"] == "" {
		return graph.DrugCompound{}, false
	}
	return graph.DrugCompound{ChemblID: row["chembl_id"], DrugbankID: row["drugbank_id"]}, true
}

func parseStitchDrug(row map[string]string) (graph.StitchDrug, bool) {
	if row["stitch_id"] == "" || row["chembl_id"] == "" {
		return graph.StitchDrug{}, false
	}
	return graph.StitchDrug{StitchID: row["stitch_id"], ChemblID: row["chembl_id"]}, true
}

func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// loadBatched streams one CSV file through parse, flushing accumulated rows
// every batchSize items. A missing file is skipped with a warning so partial
// pipeline outputs still load.
func loadBatched[T any](ctx context.Context, l *Loader, file string, parse func(map[string]string) (T, bool), flush func(context.Context, []T) error) error {
	path := filepath.Join(l.dataDir, file)
	batch := make([]T, 0, l.batchSize)

	n, err := readCSV(path, func(row map[string]string) error {
		item, ok := parse(row)
		if !ok {
			return nil
		}
		batch = append(batch, item)
		if len(batch) >= l.batchSize {
			if err := flush(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("Input file missing, skipped",
				zap.String("run_id", l.runID),
				zap.String("file", file),
			)
			return nil
		}
		return err
	}

	if len(batch) > 0 {
		if err := flush(ctx, batch); err != nil {
			return err
		}
	}

	l.logger.Info("File loaded",
		zap.String("run_id", l.runID),
		zap.String("file", file),
		zap.Int("rows", n),
	)
	return nil
}
