// Package rediscache decorates stores with a Redis read-through cache. Cache
// failures never fail a request: they are logged and the inner store answers.
package rediscache
