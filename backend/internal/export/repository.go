package export

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"castgraph/backend/internal/graphview"
	"castgraph/backend/internal/roster"
	apperrors "castgraph/backend/pkg/errors"
	"castgraph/backend/pkg/logger"
)

// MaxConcurrentExports bounds how many chapters are written at once.
const MaxConcurrentExports = 4

// Repository writes projected chapter graphs to Neo4j.
// Each export replaces the chapter's previous snapshot.
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new export repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Named("export"),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// Result summarises one chapter export.
type Result struct {
	Chapter  int       `json:"chapter"`
	Nodes    int       `json:"nodes"`
	Edges    int       `json:"edges"`
	Dangling int       `json:"dangling"`
	At       time.Time `json:"exported_at"`
}

const clearChapterQuery = `
	MATCH (c:Character {chapter: $chapter})
	DETACH DELETE c
`

const writeNodesQuery = `
	UNWIND $nodes AS n
	CREATE (:Character {chapter: $chapter, id: n.id, name: n.label, exported_at: datetime($now)})
`

// Dangling edges get a placeholder node so the relationship survives the export.
const writeEdgesQuery = `
	UNWIND $edges AS e
	MATCH (a:Character {chapter: $chapter, id: e.from})
	MERGE (b:Character {chapter: $chapter, id: e.to})
	ON CREATE SET b.missing = true, b.exported_at = datetime($now)
	CREATE (a)-[:RELATES_TO {description: e.label}]->(b)
`

// ExportChapter replaces the chapter's snapshot with g.
func (r *Repository) ExportChapter(ctx context.Context, chapter int, g graphview.Graph) (*Result, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	now := time.Now().UTC()
	params := chapterParams(chapter, g, now)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, query := range []string{clearChapterQuery, writeNodesQuery, writeEdgesQuery} {
			if _, err := tx.Run(ctx, query, params); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, apperrors.NewGraphExportFailed(chapter, err)
	}

	result := &Result{
		Chapter:  chapter,
		Nodes:    len(g.Nodes),
		Edges:    len(g.Edges),
		Dangling: len(g.Dangling()),
		At:       now,
	}
	r.logger.Info("Chapter exported",
		zap.Int("chapter", chapter),
		zap.Int("nodes", result.Nodes),
		zap.Int("edges", result.Edges),
		zap.Int("dangling", result.Dangling),
	)
	return result, nil
}

// ExportAll exports every chapter the store has written to, concurrently.
func (r *Repository) ExportAll(ctx context.Context, store *roster.Store) ([]Result, error) {
	chapters := store.Chapters()
	results := make([]Result, len(chapters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentExports)

	for i, chapter := range chapters {
		idx := i
		ch := chapter
		graph := graphview.Project(store.List(ch))
		g.Go(func() error {
			res, err := r.ExportChapter(gctx, ch, graph)
			if err != nil {
				return err
			}
			results[idx] = *res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}
	return results, nil
}

// chapterParams converts a graph into Cypher parameters.
func chapterParams(chapter int, g graphview.Graph, now time.Time) map[string]any {
	nodes := make([]map[string]any, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, map[string]any{
			"id":    int64(n.ID),
			"label": n.Label,
		})
	}
	edges := make([]map[string]any, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, map[string]any{
			"from":  int64(e.From),
			"to":    int64(e.To),
			"label": e.Label,
		})
	}
	return map[string]any{
		"chapter": int64(chapter),
		"nodes":   nodes,
		"edges":   edges,
		"now":     now.Format(time.RFC3339),
	}
}

// CountChapter reads back how many characters and relationships a chapter snapshot holds.
func (r *Repository) CountChapter(ctx context.Context, chapter int) (nodes, edges int64, err error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (c:Character {chapter: $chapter})
		WHERE c.missing IS NULL
		OPTIONAL MATCH (c)-[r:RELATES_TO]->()
		RETURN count(DISTINCT c) AS nodes, count(r) AS edges
	`

	result, err := session.Run(ctx, query, map[string]any{"chapter": int64(chapter)})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to execute query: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return 0, 0, fmt.Errorf("failed to fetch record: %w", err)
		}
		return 0, 0, nil
	}

	record := result.Record()
	return getInt64FromRecord(record, "nodes"), getInt64FromRecord(record, "edges"), nil
}

func getInt64FromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	return 0
}
