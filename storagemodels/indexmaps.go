/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"github.com/suparena/pipequeue/registry"
)

// RegisterIndexMaps registers the key templates for all three record shapes.
//
// The macro names refer to persisted attribute names (dynamodbav tags), and
// the pk/sk layout matches the production table exactly:
//
//	QueueItem:     pk QUEUE#<queue_name>  sk ITEM#<id>
//	QueueMetadata: pk QUEUE#<queue_name>  sk METADATA
//	PipeStatus:    pk STATUS#<pipe_id>    sk INFO
//
// Safe to call more than once; later calls replace the same maps.
func RegisterIndexMaps() {
	registry.RegisterIndexMap[QueueItem](map[string]string{
		"pk": "QUEUE#{queue_name}",
		"sk": "ITEM#{id}",
	})

	registry.RegisterIndexMap[QueueMetadata](map[string]string{
		"pk": "QUEUE#{queue_name}",
		"sk": MetadataSK,
	})

	registry.RegisterIndexMap[PipeStatus](map[string]string{
		"pk": "STATUS#{pipe_id}",
		"sk": InfoSK,
	})
}
