// Package watch reports debounced change notifications for a lab directory
// so verification can re-run while a learner works through the tasks.
package watch
