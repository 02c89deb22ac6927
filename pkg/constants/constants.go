// Package constants provides shared constants for the roi-forecast application.
package constants

import "time"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Projection constants
const (
	// HomeownerProjectionYears is the length of the homeowner yearly projection.
	HomeownerProjectionYears = 10

	// ProviderProjectionYears is the length of the provider yearly projection.
	ProviderProjectionYears = 5

	// QuoteSeriesYears is the length of the quote savings series.
	QuoteSeriesYears = 10

	// MaxBreakEvenMonths caps the break-even search at 30 years.
	MaxBreakEvenMonths = 360

	// ProviderAnnualGrowth is the fixed yearly growth applied to provider
	// revenue and expenses.
	ProviderAnnualGrowth = 0.05
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatXLSX is the Excel workbook output format
	OutputFormatXLSX = "xlsx"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides for the inputs file.
	EnvPrefix = "ROI"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRequestsPerSecond is the default per-client request rate.
	DefaultRequestsPerSecond = 10.0

	// DefaultBurst is the default per-client burst size.
	DefaultBurst = 20

	// DefaultCacheTTLSeconds is how long cached calculation responses live.
	DefaultCacheTTLSeconds = 3600

	// CacheBackendMemory keeps cached responses in process memory.
	CacheBackendMemory = "memory"

	// CacheBackendRedis keeps cached responses in Redis.
	CacheBackendRedis = "redis"

	// SessionHeader carries the session ID on API requests.
	SessionHeader = "X-Session-ID"

	// SessionIdleTimeout is how long an unused session stays signed in.
	SessionIdleTimeout = 24 * time.Hour
)
