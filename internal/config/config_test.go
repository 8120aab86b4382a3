package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/scoutmap/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.DataPath, convey.ShouldEqual, "data/players.csv")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 16)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 4096)
			convey.So(cfg.ProjectionMinPopulation, convey.ShouldEqual, 20)
			convey.So(cfg.ProjectionSeed, convey.ShouldEqual, 0)
			convey.So(cfg.MaxFinderLimit, convey.ShouldEqual, 50)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad field each", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":         func(c *config.Config) { c.Addr = " " },
			"unknown log format": func(c *config.Config) { c.LogFormat = "xml" },
			"zero queue":         func(c *config.Config) { c.QueueSize = 0 },
			"negative dedupe":    func(c *config.Config) { c.DedupeSize = -1 },
			"tiny projection":    func(c *config.Config) { c.ProjectionMinPopulation = 1 },
			"zero finder limit":  func(c *config.Config) { c.MaxFinderLimit = 0 },
			"zero burst":         func(c *config.Config) { c.ReclusterBurst = 0 },
		}

		for name, mutate := range cases {
			cfg := config.New(context.Background())
			mutate(cfg)
			convey.Convey("Then "+name+" is rejected", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
