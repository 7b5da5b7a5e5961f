// Package analytics implements opt-out, PII-free usage telemetry for the
// CLI: an anonymous per-machine install ID persisted to a dotfile, and a
// handful of named events reported to PostHog (SPEC_FULL.md §2 "Analytics
// opt-out and .env-backed anonymous install ID follow the teacher's
// analytics package unchanged in shape, retargeted at analyzer events").
package analytics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/posthog/posthog-go"
)

const (
	// AnalyzedFile fires once per translation unit the scan command
	// finishes tokenizing, simplifying, and running checks against.
	AnalyzedFile = "cppcheck:analyzed_file"
	// EmittedDiagnostic fires once per scan invocation with the total
	// diagnostic count and severity breakdown, never file paths or code.
	EmittedDiagnostic = "cppcheck:emitted_diagnostic"
	// FatalError fires when a translation unit is abandoned after an
	// unmatched bracket or other unrecoverable parse failure.
	FatalError = "cppcheck:fatal_error"
	// VersionCommand fires when the version subcommand runs.
	VersionCommand = "cppcheck:executed_version_command"
)

var (
	PublicKey     string
	enableMetrics bool
	appVersion    string
)

// Init records whether telemetry is enabled for this run (spec's
// --disable-metrics flag, mirroring the teacher's cmd/root.go).
func Init(disableMetrics bool) {
	enableMetrics = !disableMetrics
}

// SetVersion stamps the running binary's version onto every event
// reported afterward.
func SetVersion(version string) {
	appVersion = version
}

func createEnvFile() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Println("Error getting user home directory:", err)
		return
	}
	envFile := filepath.Join(homeDir, ".cppcheck-go", ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(envFile), os.ModePerm); err != nil {
			fmt.Println("Error creating directory:", err)
			return
		}
		env := map[string]string{"uuid": uuid.New().String()}
		if err := godotenv.Write(env, envFile); err != nil {
			fmt.Println("Error writing to .env file:", err)
		}
	}
}

// LoadEnvFile ensures the anonymous install ID exists and loads it into
// the process environment, so ReportEvent can read it back via os.Getenv.
func LoadEnvFile() {
	createEnvFile()
	envFile := filepath.Join(os.Getenv("HOME"), ".cppcheck-go", ".env")
	if err := godotenv.Load(envFile); err != nil {
		return
	}
}

// ReportEvent reports event with no extra properties.
func ReportEvent(event string) {
	ReportEventWithProperties(event, nil)
}

// ReportEventWithProperties sends event to PostHog along with properties
// and automatic platform metadata. properties must never carry file paths,
// source text, or any other user-identifying data.
func ReportEventWithProperties(event string, properties map[string]interface{}) {
	if !enableMetrics || PublicKey == "" {
		return
	}
	client, err := posthog.NewWithConfig(
		PublicKey,
		posthog.Config{Endpoint: "https://us.i.posthog.com"},
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer client.Close()

	capture := posthog.Capture{
		DistinctId: os.Getenv("uuid"),
		Event:      event,
	}

	props := posthog.NewProperties()
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("go_version", runtime.Version())
	if appVersion != "" {
		props.Set("cppcheck_version", appVersion)
	}
	for k, v := range properties {
		props.Set(k, v)
	}
	capture.Properties = props

	if err := client.Enqueue(capture); err != nil {
		fmt.Println(err)
	}
}
