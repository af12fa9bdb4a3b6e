package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"castgraph/backend/pkg/config"
)

func TestNewExporter_DisabledWithoutURI(t *testing.T) {
	exporter, closeFn := newExporter(&config.Config{}, zap.NewNop())
	defer closeFn()

	assert.Nil(t, exporter)
}

func TestNewExporter_UnreachableDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping test that dials a network address")
	}

	cfg := &config.Config{
		Neo4jURI:      "bolt://127.0.0.1:1",
		Neo4jUser:     "neo4j",
		Neo4jPassword: "password",
	}
	exporter, closeFn := newExporter(cfg, zap.NewNop())
	defer closeFn()

	assert.Nil(t, exporter)
}
