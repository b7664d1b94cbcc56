// Package lodestone provides an embedded Go client for the lodestone
// schema registry and hybrid retrieval engine backed by Redis.
//
// The client wires the full pipeline in-process: documents are validated
// against their registered schema, embedded, and indexed; queries fuse
// vector and keyword relevance into one ranked list.
//
//	client, _ := lodestone.New(ctx,
//	    lodestone.WithRedis("localhost:6379", ""),
//	    lodestone.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	receipt, created, _ := client.Documents().Upsert(ctx, lodestone.Document{
//	    ID:      "chunk-1",
//	    Type:    "model_chunk",
//	    Content: "attention block weights",
//	    Metadata: map[string]any{"model_id": "m-7", "chunk_id": 1},
//	}, "")
//
//	res, _ := client.Query().Search(ctx, "attention weights", lodestone.QueryOptions{
//	    DocType: "model_chunk",
//	    TopK:    5,
//	})
package lodestone
