// Package agent implements the single-agent execution loop: a persona-bound
// generate → parse → act cycle that detects tool calls in untrusted model
// output, executes them, and iterates until a stop condition (or the hard
// step cap) terminates the run.
package agent
