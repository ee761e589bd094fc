// Package pool composes multiple agents under a pluggable routing policy.
// A Pool repeatedly asks its Router which agent runs next on the shared
// conversation state, executes it, and appends the output to the shared
// history until the router terminates or max iterations are exhausted.
// Turns execute strictly sequentially; history order is exactly the router's
// decision order.
package pool
