package cmd

// Config carries all environment-driven settings of the tracking service.
//
// Flow settings are optional: non-positive values fall back to the built-in
// timetable (48h second-scan gate, auto-received after 15 days, local hub
// after 5 days with classification 2 hours later) and the default sweep
// cadence.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	SecondScanDelayHours    int
	ReceivedAfterDays       int
	LocalHubAfterDays       int
	LocalClassifyAfterHours int

	SweepSchedule  string
	SweepBatchSize int
}
