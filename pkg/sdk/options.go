package lodestone

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	redisDB  int

	keyPrefix string

	embedder Embedder

	vectorDimensions int
	typeTable        map[string]string

	vectorWeight  float64
	keywordWeight float64
	oversampling  int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisAuth sets the username for Redis ACL authentication.
func WithRedisAuth(username string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
	})
}

// WithRedisDB selects a logical Redis database. Default 0.
func WithRedisDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisDB = db
	})
}

// WithKeyPrefix overrides the Redis key prefix. Default "lodestone:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithEmbedder sets the text embedding provider.
// Required for ingestion and text queries.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithVectorDimensions pins the index vector dimension. When set, upserts
// carrying a vector of a different length fail with ErrVectorDimMismatch.
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithTypeTable overrides the document-type to schema-id table.
// Defaults to the built-in catalog table.
func WithTypeTable(table map[string]string) Option {
	return optionFunc(func(c *clientConfig) {
		c.typeTable = table
	})
}

// WithFusion tunes hybrid ranking: sub-search score weights and the
// candidate oversampling factor. Defaults: 0.7 / 0.3 / 3.
func WithFusion(vectorWeight, keywordWeight float64, oversampling int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorWeight = vectorWeight
		c.keywordWeight = keywordWeight
		c.oversampling = oversampling
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
