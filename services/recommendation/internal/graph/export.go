// Package graph projects completed orders into Neo4j for offline co-purchase analysis.
// The recommendation engine never reads from it.
package graph

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/dishonline/pkg/logging"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/repo"
)

const DefaultBatchSize = 500

// Writer is the part of Client the exporter needs.
type Writer interface {
	Write(ctx context.Context, cypher string, params map[string]any) (map[string]any, error)
}

type LineSource interface {
	CompletedLinesAfter(ctx context.Context, afterID uint, batch int) ([]repo.GraphLine, error)
}

var constraints = []string{
	`CREATE CONSTRAINT user_db_id IF NOT EXISTS FOR (u:User) REQUIRE u.db_id IS UNIQUE`,
	`CREATE CONSTRAINT order_db_id IF NOT EXISTS FOR (o:Order) REQUIRE o.db_id IS UNIQUE`,
	`CREATE CONSTRAINT item_db_id IF NOT EXISTS FOR (i:Item) REQUIRE i.db_id IS UNIQUE`,
}

const (
	clearCypher = `MATCH (n) WHERE n:User OR n:Order OR n:Item DETACH DELETE n`

	linesCypher = `
UNWIND $rows AS row
MERGE (u:User {db_id: row.user_id})
  SET u.name = row.username
MERGE (o:Order {db_id: row.order_id})
  SET o.order_number = row.order_number, o.created_at = row.ordered_at
MERGE (i:Item {db_id: row.item_id})
  SET i.name = row.item_title, i.vendor_id = row.vendor_id
MERGE (u)-[:HAS_MADE]->(o)
MERGE (o)-[h:HAS_ITEM {line_id: row.line_id}]->(i)
  SET h.quantity = row.quantity`

	dropAlongCypher = `MATCH ()-[r:ORDERED_ALONG_WITH]->() DELETE r`

	alongCypher = `
MATCH (o:Order)-[:HAS_ITEM]->(i1:Item)
MATCH (o)-[:HAS_ITEM]->(i2:Item)
WHERE i1.db_id < i2.db_id
WITH i1, i2, count(DISTINCT o) AS orders
MERGE (i1)-[a:ORDERED_ALONG_WITH]->(i2)
  SET a.times = orders
MERGE (i2)-[b:ORDERED_ALONG_WITH]->(i1)
  SET b.times = orders
RETURN count(a) AS pairs`
)

type Stats struct {
	Lines   int
	Batches int
	Pairs   int64
}

type Exporter struct {
	Source    LineSource
	Graph     Writer
	BatchSize int
	// Clear wipes previously exported nodes first, dropping ones whose rows are gone from the database.
	Clear bool
}

// Run exports every completed line and rebuilds the co-occurrence edges.
func (e *Exporter) Run(ctx context.Context) (Stats, error) {
	l := logging.FromContext(ctx).With("svc", "graphexport")
	var st Stats

	for _, c := range constraints {
		if _, err := e.Graph.Write(ctx, c, nil); err != nil {
			return st, fmt.Errorf("create constraint: %w", err)
		}
	}
	if e.Clear {
		if _, err := e.Graph.Write(ctx, clearCypher, nil); err != nil {
			return st, fmt.Errorf("clear graph: %w", err)
		}
	}

	batch := e.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	var after uint
	for {
		lines, err := e.Source.CompletedLinesAfter(ctx, after, batch)
		if err != nil {
			return st, fmt.Errorf("read lines after %d: %w", after, err)
		}
		if len(lines) == 0 {
			break
		}
		if _, err := e.Graph.Write(ctx, linesCypher, map[string]any{"rows": Rows(lines)}); err != nil {
			return st, fmt.Errorf("write batch %d: %w", st.Batches+1, err)
		}
		st.Lines += len(lines)
		st.Batches++
		after = lines[len(lines)-1].LineID
		l.Debug("graph_batch_written", "batch", st.Batches, "lines", len(lines), "last_line_id", after)

		if len(lines) < batch {
			break
		}
	}

	if _, err := e.Graph.Write(ctx, dropAlongCypher, nil); err != nil {
		return st, fmt.Errorf("drop co-occurrence edges: %w", err)
	}
	rec, err := e.Graph.Write(ctx, alongCypher, nil)
	if err != nil {
		return st, fmt.Errorf("build co-occurrence edges: %w", err)
	}
	if n, ok := rec["pairs"].(int64); ok {
		st.Pairs = n
	}

	l.Info("graph_export_done", "lines", st.Lines, "batches", st.Batches, "pairs", st.Pairs)
	return st, nil
}

// Rows converts lines into Cypher parameters. Neo4j has no unsigned integers, so ids go over as int64.
func Rows(lines []repo.GraphLine) []map[string]any {
	out := make([]map[string]any, len(lines))
	for i, ln := range lines {
		out[i] = map[string]any{
			"line_id":      int64(ln.LineID),
			"user_id":      int64(ln.UserID),
			"username":     ln.Username,
			"order_id":     int64(ln.OrderID),
			"order_number": ln.OrderNumber,
			"ordered_at":   ln.OrderedAt.UTC(),
			"item_id":      int64(ln.ItemID),
			"item_title":   ln.ItemTitle,
			"vendor_id":    int64(ln.VendorID),
			"quantity":     int64(ln.Quantity),
		}
	}
	return out
}
