// Package memory implements long-term semantic memory for agents: vector
// embeddings, similarity-searchable stores and the LongTermMemory façade that
// agents use for storage and recall across sessions.
//
// The VectorStore contract is defined here; the default implementation is the
// process-local InMemoryStore. Persistent backends live in subpackages
// (sqlitevec, pgvector) and can be swapped in at wiring time.
//
// Rationale: keeps the domain contract centralized while allowing pluggable
// backends (vector databases, embedding providers) to be added without
// introducing dependency cycles.
package memory
