package export

import (
	"context"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"castgraph/backend/internal/graphview"
	"castgraph/backend/internal/roster"
)

func TestChapterParams(t *testing.T) {
	g := graphview.Graph{
		Nodes: []graphview.Node{{ID: 0, Label: "Alice"}},
		Edges: []graphview.Edge{{From: 0, To: 5, Label: "misses", Arrows: graphview.ArrowTo}},
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	params := chapterParams(3, g, now)

	assert.Equal(t, int64(3), params["chapter"])
	assert.Equal(t, "2024-05-01T12:00:00Z", params["now"])
	assert.Equal(t, []map[string]any{{"id": int64(0), "label": "Alice"}}, params["nodes"])
	assert.Equal(t, []map[string]any{{"from": int64(0), "to": int64(5), "label": "misses"}}, params["edges"])
}

func TestChapterParams_EmptyGraph(t *testing.T) {
	params := chapterParams(0, graphview.Project(nil), time.Now())
	assert.Empty(t, params["nodes"])
	assert.Empty(t, params["edges"])
}

// TestRepository_ExportAll requires a running Neo4j instance
func TestRepository_ExportAll(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Skipf("Neo4j unavailable: %v", err)
	}
	defer driver.Close(ctx)

	// Chapters far from anything a developer would export by hand.
	base := 100000 + int(time.Now().Unix()%1000)*10
	store := roster.NewStore()
	store.Add(base)
	store.Add(base)
	store.Add(base + 1)
	store.Modify(base, roster.ID(0), func(c roster.Character) roster.Character {
		return c.WithRelationship(roster.Relationship{ToID: 1, Description: "is a rival"}).
			WithRelationship(roster.Relationship{ToID: 77, Description: "remembers"})
	})

	defer func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx, "MATCH (c:Character) WHERE c.chapter IN $chapters DETACH DELETE c",
			map[string]any{"chapters": []int64{int64(base), int64(base + 1)}})
	}()

	repo := NewRepository(driver)
	results, err := repo.ExportAll(ctx, store)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].Nodes)
	assert.Equal(t, 2, results[0].Edges)
	assert.Equal(t, 1, results[0].Dangling)

	nodes, edges, err := repo.CountChapter(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, int64(2), nodes)
	assert.Equal(t, int64(2), edges)

	// Exporting again replaces the snapshot instead of duplicating it.
	_, err = repo.ExportChapter(ctx, base, graphview.Project(store.List(base)))
	require.NoError(t, err)
	nodes, _, err = repo.CountChapter(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, int64(2), nodes)
}

func createTestDriver() (neo4j.DriverWithContext, error) {
	uri := "bolt://localhost:7687"
	user := "neo4j"
	password := "password"

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
