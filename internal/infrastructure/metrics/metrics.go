package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

var (
	StoredBlobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blobs_stored_total",
		Help:      "Number of uploaded files written to the blob store.",
	}, []string{"resource"})

	BlobDeleteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blob_delete_failures_total",
		Help:      "Number of blob deletions that failed and were skipped.",
	}, []string{"resource"})

	// OrphanedBlobs counts blobs left in the store after the record that would
	// have referenced them failed to persist.
	OrphanedBlobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphaned_blobs_total",
		Help:      "Number of stored blobs not referenced by any record.",
	}, []string{"resource"})

	PublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_publish_failures_total",
		Help:      "Number of domain events dropped after retries were exhausted.",
	}, []string{"event_type"})
)
