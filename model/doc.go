// Package model defines the minimal language model contract consumed by
// agents and routers, plus a deterministic mock for tests and examples.
// Provider adapters live in subpackages (anthropic, openai); any value
// satisfying Model is accepted, the core never depends on a concrete vendor.
package model
