// internal/elastic/index.go
package elastic

import (
	"bytes"
	"context"
	"fmt"

	es "github.com/elastic/go-elasticsearch/v8"
)

const IdxSnapshots = "leaderboard_snapshots_v1"

func EnsureIndexes(ctx context.Context, c *es.Client) error {
	mapping := `{"settings":{"number_of_shards":1},"mappings":{"dynamic":"strict","properties":{
		"period_start":{"type":"date"},"period_end":{"type":"date"},"created_at":{"type":"date"},
		"entry_count":{"type":"integer"},
		"entries":{"type":"nested","properties":{
			"user_id":{"type":"keyword"},"handle":{"type":"keyword"},
			"solved_count":{"type":"integer"},"total_time_ms":{"type":"long"},"rank":{"type":"integer"}
		}}
	}}}`
	return ensure(ctx, c, IdxSnapshots, mapping)
}

func ensure(ctx context.Context, c *es.Client, index, body string) error {
	exists, _ := c.Indices.Exists([]string{index})
	if exists.StatusCode == 200 { return nil }
	_, err := c.Indices.Create(index, c.Indices.Create.WithBody(bytes.NewBufferString(body)), c.Indices.Create.WithContext(ctx))
	if err != nil { return fmt.Errorf("create index %s: %w", index, err) }
	return nil
}
