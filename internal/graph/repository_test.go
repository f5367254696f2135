package graph

import (
	"context"
	"os"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// These tests require a running Neo4j instance.
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables.

func TestRepository_UpsertAndGetDrug(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver, "")
	if err := repo.EnsureConstraints(ctx); err != nil {
		t.Fatalf("EnsureConstraints failed: %v", err)
	}

	const chemblID = "CHEMBL_TEST_ASPIRIN"

	// Clean up
	defer func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx, "MATCH (d:Drug {chembl_id: $id}) DETACH DELETE d", map[string]interface{}{"id": chemblID})
	}()

	err = repo.UpsertDrugs(ctx, []Drug{{ChemblID: chemblID, Name: "ASPIRIN"}})
	if err != nil {
		t.Fatalf("UpsertDrugs failed: %v", err)
	}

	drug, err := repo.GetDrug(ctx, chemblID)
	if err != nil {
		t.Fatalf("GetDrug failed: %v", err)
	}
	if drug.Name != "ASPIRIN" {
		t.Errorf("Expected name 'ASPIRIN', got '%s'", drug.Name)
	}

	// Upserting the same key again must update in place, not duplicate
	err = repo.UpsertDrugs(ctx, []Drug{{ChemblID: chemblID, Name: "ACETYLSALICYLIC ACID"}})
	if err != nil {
		t.Fatalf("Second UpsertDrugs failed: %v", err)
	}

	drug, err = repo.GetDrug(ctx, chemblID)
	if err != nil {
		t.Fatalf("GetDrug after update failed: %v", err)
	}
	if drug.Name != "ACETYLSALICYLIC ACID" {
		t.Errorf("Expected updated name, got '%s'", drug.Name)
	}
}

func TestRepository_LinkStitchSideEffects(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver, "")
	if err := repo.EnsureConstraints(ctx); err != nil {
		t.Fatalf("EnsureConstraints failed: %v", err)
	}

	const (
		stitchID = "CID000999999"
		umlsCUI  = "C_TEST_0042"
	)

	defer func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx, "MATCH (s:Stitch {stitch_id: $id}) DETACH DELETE s", map[string]interface{}{"id": stitchID})
		_, _ = session.Run(ctx, "MATCH (se:SideEffect {umls_cui: $id}) DETACH DELETE se", map[string]interface{}{"id": umlsCUI})
	}()

	if err := repo.UpsertStitches(ctx, []Stitch{{StitchID: stitchID, PubchemCID: 999999}}); err != nil {
		t.Fatalf("UpsertStitches failed: %v", err)
	}
	if err := repo.UpsertSideEffects(ctx, []SideEffect{{UmlsCUI: umlsCUI, Name: "Test nausea"}}); err != nil {
		t.Fatalf("UpsertSideEffects failed: %v", err)
	}

	lower := 0.01
	err = repo.LinkStitchSideEffects(ctx, []StitchSideEffect{{
		StitchID:  stitchID,
		UmlsCUI:   umlsCUI,
		FreqLower: &lower,
		FreqUpper: nil,
	}})
	if err != nil {
		t.Fatalf("LinkStitchSideEffects failed: %v", err)
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		"MATCH (:Stitch {stitch_id: $id})-[r:REPORTS]->(:SideEffect) RETURN r.freq_lower AS lower, r.freq_upper AS upper",
		map[string]interface{}{"id": stitchID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		t.Fatalf("Expected one REPORTS edge: %v", err)
	}
	if got, _ := record.Get("lower"); got != 0.01 {
		t.Errorf("Expected freq_lower 0.01, got %v", got)
	}
	if got, _ := record.Get("upper"); got != nil {
		t.Errorf("Expected nil freq_upper, got %v", got)
	}
}

func TestRepository_GetDrug_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver, "")
	_, err = repo.GetDrug(ctx, "CHEMBL_DOES_NOT_EXIST")
	if err == nil {
		t.Error("Expected error for non-existent drug")
	}
	if _, ok := err.(ErrNodeNotFound); !ok {
		t.Errorf("Expected ErrNodeNotFound, got %T", err)
	}
}

func createTestDriver() (neo4j.DriverWithContext, error) {
	uri := getenvDefault("NEO4J_URI", "bolt://localhost:7687")
	user := getenvDefault("NEO4J_USER", "neo4j")
	password := getenvDefault("NEO4J_PASSWORD", "password")

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}
