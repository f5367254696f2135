package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseError_Format(t *testing.T) {
	err := NewBaseError(ErrorTypeSchema, "setup failed", nil)
	assert.Equal(t, "[schema] setup failed", err.Error())

	wrapped := NewBaseError(ErrorTypeGraph, "query failed", errors.New("boom"))
	assert.Equal(t, "[graph] query failed: boom", wrapped.Error())
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewGraphConnectionFailed("bolt://localhost:7687", inner)
	assert.ErrorIs(t, err, inner)
}

func TestIsErrorType(t *testing.T) {
	assert.True(t, IsErrorType(NewSchemaPermission("CREATE CONSTRAINT ...", nil), ErrorTypeSchema))
	assert.True(t, IsErrorType(NewSchemaConstraintConflict("Drug", "chembl_id", nil), ErrorTypeSchema))
	assert.True(t, IsErrorType(NewGraphConnectionFailed("bolt://x", nil), ErrorTypeGraph))
	assert.True(t, IsErrorType(NewIngestFileFailed("nodes_gene.csv", 3, nil), ErrorTypeIngest))
	assert.True(t, IsErrorType(NewConfigMissingRequired("NEO4J_URI"), ErrorTypeConfig))

	assert.False(t, IsErrorType(NewSchemaPermission("x", nil), ErrorTypeGraph))
	assert.False(t, IsErrorType(errors.New("plain"), ErrorTypeSchema))
}

func TestIsErrorType_WrappedOnce(t *testing.T) {
	inner := NewSchemaConstraintConflict("Drug", "chembl_id", nil)
	wrapped := fmt.Errorf("running setup: %w", inner)
	assert.True(t, IsErrorType(wrapped, ErrorTypeSchema))
}
