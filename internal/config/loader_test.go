package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/scoutmap/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"SCOUTMAP_CONFIG", "SCOUTMAP_ADDR", "SCOUTMAP_LOG_LEVEL", "SCOUTMAP_LOG_FORMAT",
	"SCOUTMAP_DATA_PATH", "SCOUTMAP_QUEUE_SIZE", "SCOUTMAP_DEDUPE_SIZE",
	"SCOUTMAP_PROJECTION_MIN_POPULATION", "SCOUTMAP_PROJECTION_SEED",
	"SCOUTMAP_MAX_FINDER_LIMIT", "SCOUTMAP_RECLUSTER_RPS", "SCOUTMAP_RECLUSTER_BURST",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 16)
				convey.So(cfg.ReclusterRPS, convey.ShouldEqual, 2.0)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SCOUTMAP_ADDR", ":8080")
			_ = os.Setenv("SCOUTMAP_QUEUE_SIZE", "64")
			_ = os.Setenv("SCOUTMAP_PROJECTION_SEED", "42")
			_ = os.Setenv("SCOUTMAP_RECLUSTER_RPS", "0.5")
			_ = os.Setenv("SCOUTMAP_DATA_PATH", "/srv/players.csv")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.ProjectionSeed, convey.ShouldEqual, 42)
				convey.So(cfg.ReclusterRPS, convey.ShouldEqual, 0.5)
				convey.So(cfg.DataPath, convey.ShouldEqual, "/srv/players.csv")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			_ = os.Setenv("SCOUTMAP_CONFIG", createTempConfigFile(t, `
addr: ":9090"
queue_size: 32
log_format: json
max_finder_limit: 25
`))
			_ = os.Setenv("SCOUTMAP_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")    // Overridden by env
				convey.So(cfg.QueueSize, convey.ShouldEqual, 32)    // From file
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json") // From file
				convey.So(cfg.MaxFinderLimit, convey.ShouldEqual, 25)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 4096) // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			_ = os.Setenv("SCOUTMAP_CONFIG", createTempConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SCOUTMAP_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SCOUTMAP_QUEUE_SIZE", "invalid")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a loaded value fails validation", func() {
			_ = os.Setenv("SCOUTMAP_PROJECTION_MIN_POPULATION", "1")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "projection_min_population")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
