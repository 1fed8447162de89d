package pfx

import (
	"fmt"
	"os"
	"strconv"

	"github.com/TheBitDrifter/table"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultMinFPS = 4.0
	defaultMaxFPS = 120.0
)

// Config holds global configuration for compilation and component storage
var Config config = config{
	minFPS: defaultMinFPS,
	maxFPS: defaultMaxFPS,
	logger: logrus.StandardLogger(),
}

type config struct {
	debug       bool
	minFPS      float32
	maxFPS      float32
	logger      *logrus.Logger
	tableEvents table.TableEvents
}

// SetDebug turns stale reads of compiled state into panics instead of logged warnings
func (c *config) SetDebug(debug bool) {
	c.debug = debug
}

func (c *config) Debug() bool {
	return c.debug
}

// SetFrameRates sets the frame rate bounds used for particle count estimation
func (c *config) SetFrameRates(minFPS, maxFPS float32) error {
	if minFPS <= 0 || maxFPS < minFPS {
		return fmt.Errorf("invalid frame rate bounds [%v, %v]", minFPS, maxFPS)
	}
	c.minFPS, c.maxFPS = minFPS, maxFPS
	return nil
}

func (c *config) FrameRates() (minFPS, maxFPS float32) {
	return c.minFPS, c.maxFPS
}

func (c *config) SetLogger(logger *logrus.Logger) {
	c.logger = logger
}

func (c *config) Logger() *logrus.Logger {
	return c.logger
}

// SetTableEvents configures the table event callbacks of component arenas
func (c *config) SetTableEvents(te table.TableEvents) {
	c.tableEvents = te
}

// LoadEnv loads .env files (or ".env" when none are given) and applies the
// PFX_DEBUG, PFX_MIN_FPS, PFX_MAX_FPS and PFX_LOG_LEVEL settings.
// Variables already present in the environment win over file values.
func (c *config) LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		c.logger.WithError(err).Debug("no env file loaded, using process environment")
	}
	if v, ok := os.LookupEnv("PFX_DEBUG"); ok {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PFX_DEBUG: %w", err)
		}
		c.debug = debug
	}
	minFPS, maxFPS := c.minFPS, c.maxFPS
	if v, ok := os.LookupEnv("PFX_MIN_FPS"); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("PFX_MIN_FPS: %w", err)
		}
		minFPS = float32(f)
	}
	if v, ok := os.LookupEnv("PFX_MAX_FPS"); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("PFX_MAX_FPS: %w", err)
		}
		maxFPS = float32(f)
	}
	if err := c.SetFrameRates(minFPS, maxFPS); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("PFX_LOG_LEVEL"); ok {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return fmt.Errorf("PFX_LOG_LEVEL: %w", err)
		}
		c.logger.SetLevel(level)
	}
	return nil
}
