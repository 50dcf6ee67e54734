// Package pipeline folds an ordered list of stages over a threaded State.
//
// Each stage sees the State left by the last enabled stage before it. A
// disabled stage returns the State unchanged: it appends no nodes and moves
// neither the head pointer nor any wire. Run finishes with a terminal stage
// bound to the final head.
package pipeline
