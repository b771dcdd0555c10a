package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// LowRetryMax is the default maximum number of retries.
	LowRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Client identification.
const (
	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "concourse-client-go/1.0.0"

	// DefaultTeam is used when no team is configured.
	DefaultTeam = "main"
)

// Pagination and display limits.
const (
	// DefaultPageSize is the default number of builds listed.
	DefaultPageSize = 25

	// StringTruncationLength is the default length for truncating strings.
	StringTruncationLength = 60
)

// UI and display constants.
const (
	// CheckMarkSymbol is used to indicate current/active items.
	CheckMarkSymbol = "✓"

	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// None is used when no value is present.
	None = "none"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"
)

// Boolean string constants.
const (
	// BooleanTrue string representation.
	BooleanTrue = "true"

	// BooleanOne is the numeric true representation accepted for env flags.
	BooleanOne = "1"
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// Environment variables.
const (
	// EnvDevMode enables development-only options such as skipping TLS verification.
	EnvDevMode = "CONCOURSE_DEV_MODE"

	// EnvPrefix is the viper environment prefix.
	EnvPrefix = "CONCOURSE"
)

// CLI configuration file location.
const (
	// ConfigDirName is the directory under $HOME holding the CLI config.
	ConfigDirName = ".concourse-client"

	// ConfigFileName is the CLI config file name.
	ConfigFileName = "config.yml"

	// DefaultTargetName is used by login when no target is named.
	DefaultTargetName = "default"
)
