package sluice_test

import (
	"fmt"

	"github.com/masterwizr/sluice/pkg/sluice"
)

func Example() {
	s := sluice.New()

	result := s.Process([]map[string]any{
		{"$insert_id": "a1", "event_properties": map[string]any{
			"url": "https://studio.masterwizr.com/rooms/42",
		}},
		{"$insert_id": "b2", "event_properties": map[string]any{
			"url": "https://beta-studio.mwstream.com/home",
		}},
	})

	for _, p := range result.Partitions {
		fmt.Printf("%s: %d\n", p.Bucket, len(p.Records))
	}
	fmt.Printf("unmatched: %d\n", result.Unmatched)
	// Output:
	// staging: 0
	// beta: 1
	// production: 1
	// unmatched: 0
}
