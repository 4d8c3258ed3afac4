// Package engine is the Tandy lifecycle shim. Main owns process bootstrap for
// exactly one application: it readies the logging context, builds the
// application through a caller-supplied Factory, optionally delivers the
// startup notification, runs the loop, and releases the instance on every exit
// path. State transitions are published on an EventBus.
package engine
