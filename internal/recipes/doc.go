// Package recipes declares the concrete workflows as data over the
// assembly engine: a parameter spec, an ordered stage list and a terminal
// save node per recipe.
//
// Every recipe follows the same stage order: loaders, model adaptation,
// encoding, sampling, resolution stages, detail repair, post-processing and
// save. Stages communicate only through the pipeline head and named wires.
package recipes
