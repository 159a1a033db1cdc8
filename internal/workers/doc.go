// Package workers provides the bounded fan-out/fan-in pool the pipeline
// runs track processing on.
package workers
