// Package tracker implements the logging of metrics during a continual
// learning run.
//
// Metrics are stored in epochs. During an epoch, any number of values
// may be stored under each key. When the epoch is dumped, the mean,
// standard deviation, minimum, and maximum of the values of each key are
// written as a single row to every Output.
package tracker

// Tracker keeps track of the metrics of a run
type Tracker interface {
	// Store records values under key for the current epoch
	Store(key string, values ...float64)

	// Dump writes the statistics of the current epoch, logged at the
	// given environment step, and starts a new epoch
	Dump(step int) error

	// Close flushes and closes all outputs
	Close() error
}

// Output writes rows of epoch statistics to some destination
type Output interface {
	// Write writes a row. Columns are the names of the statistics in
	// the order they should be written, and values maps each column to
	// its value. Columns absent from values were not logged this epoch.
	Write(step int, columns []string, values map[string]float64) error
	Close() error
}
