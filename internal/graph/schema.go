package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "biograph/pkg/errors"
)

// UniqueConstraint declares that Property must be unique across all nodes
// carrying Label
type UniqueConstraint struct {
	Name     string
	Label    string
	Property string
}

// Statement renders the idempotent Cypher declaration for the constraint
func (c UniqueConstraint) Statement() string {
	return fmt.Sprintf(
		"CREATE CONSTRAINT %s IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE",
		c.Name, c.Label, c.Property,
	)
}

// UniqueConstraints is the full schema contract: one unique key per label.
// Statements are independent and commutative; order is fixed only for
// readable logs.
var UniqueConstraints = []UniqueConstraint{
	{Name: "drug_chembl_id_unique", Label: "Drug", Property: "chembl_id"},
	{Name: "target_uniprot_id_unique", Label: "Target", Property: "uniprot_id"},
	{Name: "gene_entrez_id_unique", Label: "Gene", Property: "entrez_id"},
	{Name: "disease_doid_unique", Label: "Disease", Property: "doid"},
	{Name: "sideeffect_umls_cui_unique", Label: "SideEffect", Property: "umls_cui"},
	{Name: "compound_drugbank_id_unique", Label: "Compound", Property: "drugbank_id"},
	{Name: "stitch_stitch_id_unique", Label: "Stitch", Property: "stitch_id"},
}

// EnsureConstraints applies every unique constraint, skipping any that
// already exist. Safe to re-run; a rerun after a mid-sequence interruption
// converges on the full set.
func (r *Repository) EnsureConstraints(ctx context.Context) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	for _, c := range UniqueConstraints {
		stmt := c.Statement()
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return classifySchemaError(c, stmt, err)
		}
		r.logger.Info("Constraint ensured",
			zap.String("name", c.Name),
			zap.String("label", c.Label),
			zap.String("property", c.Property),
		)
	}

	return nil
}

// MissingConstraints introspects the live schema and returns the declared
// constraints not yet present, matched by label and property rather than
// name so pre-existing equivalent constraints count as satisfied.
func (r *Repository) MissingConstraints(ctx context.Context) ([]UniqueConstraint, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, "SHOW CONSTRAINTS YIELD name, type, labelsOrTypes, properties", nil)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("SHOW CONSTRAINTS", err)
	}

	type labelProp struct{ label, prop string }
	existing := make(map[labelProp]bool)

	for result.Next(ctx) {
		record := result.Record()
		if !strings.Contains(strings.ToUpper(getStringFromRecord(record, "type")), "UNIQUE") {
			continue
		}
		labels := getStringSliceFromRecord(record, "labelsOrTypes")
		props := getStringSliceFromRecord(record, "properties")
		if len(labels) != 1 || len(props) != 1 {
			continue
		}
		existing[labelProp{labels[0], props[0]}] = true
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("SHOW CONSTRAINTS", err)
	}

	var missing []UniqueConstraint
	for _, c := range UniqueConstraints {
		if !existing[labelProp{c.Label, c.Property}] {
			missing = append(missing, c)
		}
	}
	return missing, nil
}

// classifySchemaError maps driver failures onto the setup error taxonomy:
// permission problems, irreconcilable existing constraints, or an
// unreachable server.
func classifySchemaError(c UniqueConstraint, stmt string, err error) error {
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) {
		switch {
		case strings.HasPrefix(neoErr.Code, "Neo.ClientError.Security."):
			return apperrors.NewSchemaPermission(stmt, err)
		case strings.HasPrefix(neoErr.Code, "Neo.ClientError.Schema."):
			return apperrors.NewSchemaConstraintConflict(c.Label, c.Property, err)
		default:
			return apperrors.NewGraphQueryFailed(stmt, err)
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	// Non-server errors from the driver mean we never reached the database
	return apperrors.NewGraphConnectionFailed("", err)
}
