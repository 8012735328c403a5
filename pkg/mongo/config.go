package mongo

import "time"

// Config represents the configuration for the database connection.
type Config struct {
	ConnectionURL          string        `env:"MONGODB_URI,required"`                              // ConnectionURL is the URL of the database.
	Database               string        `env:"MONGODB_DATABASE" envDefault:"authgate"`            // Database is the default database name.
	ServerSelectionTimeout time.Duration `env:"MONGODB_SERVER_SELECTION_TIMEOUT" envDefault:"10s"` // ServerSelectionTimeout bounds a single connect attempt.
	ConnectTimeout         time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`          // ConnectTimeout is the timeout for opening a socket.
	SocketTimeout          time.Duration `env:"MONGODB_SOCKET_TIMEOUT" envDefault:"45s"`           // SocketTimeout bounds every operation issued through the client.
	MaxPoolSize            uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"10"`             // MaxPoolSize is the maximum number of connections in the pool.
	MinPoolSize            uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"5"`              // MinPoolSize is the number of connections kept warm.
	MaxConnIdleTime        time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"30s"`       // MaxConnIdleTime evicts pooled connections idle for longer.
	RetryWrites            bool          `env:"MONGODB_RETRY_WRITES" envDefault:"true"`            // RetryWrites specifies whether the driver retries writes.
	RetryReads             bool          `env:"MONGODB_RETRY_READS" envDefault:"true"`             // RetryReads specifies whether the driver retries reads.
}

// DefaultConfig returns the reliability parameters used when a field is left zero.
func DefaultConfig() Config {
	return Config{
		Database:               "authgate",
		ServerSelectionTimeout: 10 * time.Second,
		ConnectTimeout:         10 * time.Second,
		SocketTimeout:          45 * time.Second,
		MaxPoolSize:            10,
		MinPoolSize:            5,
		MaxConnIdleTime:        30 * time.Second,
		RetryWrites:            true,
		RetryReads:             true,
	}
}

// withDefaults fills zero fields from DefaultConfig so a hand-built Config
// never dials without bounded timeouts.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Database == "" {
		c.Database = d.Database
	}
	if c.ServerSelectionTimeout <= 0 {
		c.ServerSelectionTimeout = d.ServerSelectionTimeout
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = d.ConnectTimeout
	}
	if c.SocketTimeout <= 0 {
		c.SocketTimeout = d.SocketTimeout
	}
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = d.MaxPoolSize
	}
	if c.MinPoolSize == 0 {
		c.MinPoolSize = d.MinPoolSize
	}
	if c.MinPoolSize > c.MaxPoolSize {
		c.MinPoolSize = c.MaxPoolSize
	}
	if c.MaxConnIdleTime <= 0 {
		c.MaxConnIdleTime = d.MaxConnIdleTime
	}
	return c
}
