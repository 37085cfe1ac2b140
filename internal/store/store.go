// Package store persists small string values under well-known keys.
package store

// Store is a durable key-value area. Load reports whether the key exists.
// SaveAll writes every value or none of them.
type Store interface {
	Load(key string) (string, bool, error)
	Save(key, value string) error
	SaveAll(values map[string]string) error
	Clear(keys ...string) error
}
