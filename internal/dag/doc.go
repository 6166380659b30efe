// Package dag builds and executes the operator dependency graph.
//
// The builder consumes an ordered list of operator descriptors and infers
// ordering constraints from their declared blob reads and writes, plus any
// explicit control inputs. Read-after-write, write-after-read and
// write-after-write accesses to a blob produce edges; read-after-read does
// not, which is what lets independent consumers of shared data run
// concurrently. The resulting graph is the only concurrency-control
// mechanism a run needs: two operators without a dependency path between
// them never touch the same blob in a conflicting way.
//
// Two executors share the graph's operator list. Executor dispatches ready
// nodes across a fixed pool of workers; SimpleExecutor runs operators
// strictly in declaration order and serves as the semantic baseline the
// concurrent executor must match.
package dag
