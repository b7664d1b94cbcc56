package domain

// DefaultKeyPrefix namespaces storage keys when no prefix is configured.
// Deployments sharing one database pick distinct prefixes via config.
const DefaultKeyPrefix = "lodestone:"
