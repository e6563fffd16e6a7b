package metrics

// Config carries the const labels stamped on every metric.
type Config struct {
	ServiceName string
	Environment string
}
