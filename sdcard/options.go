package sdcard

import "time"

// Config holds the driver configuration.
type Config struct {
	// Logger is used for logging operations (optional)
	Logger Logger

	// Clock returns the current time; busy-polling loops measure their
	// timeouts against it. Injectable so tests can expire timeouts
	// without real delay. Defaults to time.Now.
	Clock func() time.Time

	// ReadTimeout bounds the wait for a data-start token
	ReadTimeout time.Duration

	// WriteTimeout bounds the busy wait after writing a block
	WriteTimeout time.Duration

	// InitTimeout bounds the ACMD41/CMD1 initialization loop
	InitTimeout time.Duration

	// ResetAttempts is the number of CMD0 attempts before the card is
	// declared absent
	ResetAttempts int

	// CRCCheck enables verification of the CRC16 trailing each read
	// data block. The two CRC bytes are always clocked either way.
	CRCCheck bool

	// FullRateHz is the bus clock rate requested after a successful
	// handshake, applied only when the transport implements ClockRater.
	// Zero leaves the rate alone.
	FullRateHz uint32
}

// defaultConfig returns the default configuration. The timeout values are
// the protocol-recommended bounds: 100 ms for read, 500 ms for write
// completion, 1 s for the initialization loop.
func defaultConfig() Config {
	return Config{
		Clock:         time.Now,
		ReadTimeout:   100 * time.Millisecond,
		WriteTimeout:  500 * time.Millisecond,
		InitTimeout:   time.Second,
		ResetAttempts: 32,
	}
}

// Option is a functional option for configuring the Card.
type Option func(*Config)

// WithLogger sets a logger for driver operations.
//
// Example:
//
//	card := sdcard.New(bus, sdcard.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithClock sets the time source used by busy-polling loops.
// Tests inject a fake clock to make timeouts expire instantly.
func WithClock(clock func() time.Time) Option {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

// WithReadTimeout sets the bound on waiting for a data-start token.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.ReadTimeout = timeout
		}
	}
}

// WithWriteTimeout sets the bound on the busy wait after a write.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.WriteTimeout = timeout
		}
	}
}

// WithInitTimeout sets the bound on the initialization loop.
func WithInitTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.InitTimeout = timeout
		}
	}
}

// WithResetAttempts sets how many times the reset command is retried
// before the card is declared absent.
func WithResetAttempts(attempts int) Option {
	return func(c *Config) {
		if attempts > 0 {
			c.ResetAttempts = attempts
		}
	}
}

// WithCRCCheck enables or disables CRC16 verification of read data blocks.
// Default is off; most SPI-mode hosts rely on the command CRC only.
func WithCRCCheck(check bool) Option {
	return func(c *Config) {
		c.CRCCheck = check
	}
}

// WithFullRate sets the bus clock rate requested once initialization
// completes. Ignored unless the transport implements ClockRater.
func WithFullRate(hz uint32) Option {
	return func(c *Config) {
		c.FullRateHz = hz
	}
}
