// Package sluice provides the normalization and environment-partitioning
// engine behind the batch pipeline, for embedding in other programs.
//
// Quick start:
//
//	s := sluice.New()
//
//	result := s.Process([]map[string]any{
//	    {"$insert_id": "a1", "event_properties": map[string]any{
//	        "url": "https://studio.masterwizr.com/rooms/42",
//	    }},
//	})
//	for _, p := range result.Partitions {
//	    fmt.Println(p.Bucket, len(p.Records)) // production 1
//	}
//
// A Sluice instance is safe for concurrent use. See the README for full
// documentation.
package sluice
