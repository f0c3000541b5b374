// Package metrics exposes ethpoc's operational counters and gauges over
// Prometheus's exposition format. Naming follows the teacher's
// state_metrics.go convention (dotted subsystem.field names translated to
// Prometheus's underscore style) but the collection itself is backed
// directly by client_golang rather than a hand-rolled registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the namespace all ethpoc metrics register into. A dedicated
// registry (rather than prometheus.DefaultRegisterer) keeps Handler's
// output scoped to this process's metrics only.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		StateAccountReads, StateAccountWrites,
		StateStorageReads, StateStorageWrites,
		StateCodeLookups, StateCodeWrites,
		StateCommits, StateCommitDuration,
		StateSnapshots, StateReverts,
		StateCacheHits, StateCacheMisses,
		VMSteps, VMGasUsed, VMCalls, VMCreates,
		MiningBlocksCommitted, MiningBlocksSealed, MiningSealDuration,
		SyncBlocksPlayed,
	)
}

const namespace = "ethpoc"

var (
	// State-ledger metrics, one per State operation the teacher's
	// state_metrics.go instruments.
	StateAccountReads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "state", Name: "account_reads_total",
		Help: "Account lookups served from cache or trie.",
	})
	StateAccountWrites = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "state", Name: "account_writes_total",
		Help: "Account balance/nonce/code/storage mutations.",
	})
	StateStorageReads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "state", Name: "storage_reads_total",
		Help: "Contract storage slot reads.",
	})
	StateStorageWrites = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "state", Name: "storage_writes_total",
		Help: "Contract storage slot writes.",
	})
	StateCodeLookups = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "state", Name: "code_lookups_total",
		Help: "Contract code fetches from the overlay DB.",
	})
	StateCodeWrites = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "state", Name: "code_writes_total",
		Help: "Contract code deposits during CREATE.",
	})
	StateCommits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "state", Name: "commits_total",
		Help: "Calls to State.Commit that flushed the account cache to the trie.",
	})
	StateCommitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "state", Name: "commit_duration_seconds",
		Help:    "Wall time of State.Commit calls.",
		Buckets: prometheus.DefBuckets,
	})
	StateSnapshots = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "state", Name: "snapshots_total",
		Help: "Calls to State.Snapshot.",
	})
	StateReverts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "state", Name: "reverts_total",
		Help: "Calls to State.RevertToSnapshot.",
	})
	StateCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "state", Name: "cache_hits_total",
		Help: "Account lookups satisfied without a trie read.",
	})
	StateCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "state", Name: "cache_misses_total",
		Help: "Account lookups that fell through to the trie.",
	})

	// VM execution metrics.
	VMSteps = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "vm", Name: "steps_total",
		Help: "Interpreter instructions executed.",
	})
	VMGasUsed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "vm", Name: "gas_used_total",
		Help: "Gas consumed across all executed transactions.",
	})
	VMCalls = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "vm", Name: "calls_total",
		Help: "CALL/CALLCODE invocations.",
	})
	VMCreates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "vm", Name: "creates_total",
		Help: "CREATE invocations.",
	})

	// Mining session metrics.
	MiningBlocksCommitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "mining", Name: "blocks_committed_total",
		Help: "CommitToMine calls that produced a reward-applied candidate block.",
	})
	MiningBlocksSealed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "mining", Name: "blocks_sealed_total",
		Help: "Mine calls whose Sealer found a nonce before timeout.",
	})
	MiningSealDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "mining", Name: "seal_duration_seconds",
		Help:    "Wall time spent in Sealer.Seal, successful or not.",
		Buckets: prometheus.DefBuckets,
	})

	// Chain sync metrics.
	SyncBlocksPlayed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "sync", Name: "blocks_played_total",
		Help: "Blocks replayed by State.Sync / PlaybackRaw.",
	})
)

// Handler returns the http.Handler that serves Registry in Prometheus text
// exposition format, for mounting at a path like /metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
