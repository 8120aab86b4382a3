package squadgen

// Default generator configuration constants.
const (
	defaultPlayers = 500
	defaultWorkers = 4
)

// Config holds configuration for a generated squad.
type Config struct {
	Players int      // Number of players to generate
	Seed    int64    // Base seed; the same seed always yields the same squad
	Workers int      // Number of concurrent generators
	Nations []string // Nations cycled through; defaults to DefaultNations
}

// DefaultNations is the nation pool used when Config.Nations is empty.
var DefaultNations = []string{
	"England", "France", "Brazil", "Côte d'Ivoire", "Türkiye", "Argentina",
	"Spain", "Germany", "United States", "Japan",
}

func (c Config) withDefaults() Config {
	if c.Players <= 0 {
		c.Players = defaultPlayers
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if len(c.Nations) == 0 {
		c.Nations = DefaultNations
	}
	return c
}
