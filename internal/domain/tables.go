package domain

import (
	"fmt"
	"log/slog"
	"strconv"
)

// ConfigEntry is the public-facing triple configured for a catalog key.
type ConfigEntry struct {
	// Code is the stable internal code exposed to callers (e.g. "MC004").
	Code string

	// Description is the human-readable default message.
	Description string

	// HTTPStatus is the status responses carry for this key.
	HTTPStatus int
}

// builtinUnexpected is the last-resort entry used when even the
// UNEXPECTED key is missing from configuration. The catalog layer must
// never fail to produce an entry, so this one is compiled in.
var builtinUnexpected = ConfigEntry{
	Code:        "MC003",
	Description: "Unexpected error",
	HTTPStatus:  500,
}

// BuiltinUnexpected returns the compiled-in default entry.
func BuiltinUnexpected() ConfigEntry {
	return builtinUnexpected
}

// Validate reports whether the entry is well formed. Malformed entries
// fail process startup, not individual requests.
func (e ConfigEntry) Validate() error {
	if e.Code == "" {
		return fmt.Errorf("entry has empty code")
	}

	if e.HTTPStatus < 100 || e.HTTPStatus > 599 {
		return fmt.Errorf("entry %q has invalid http status %d", e.Code, e.HTTPStatus)
	}

	return nil
}

// Tables holds the error configuration and resolver lookups.
// Built once at startup and read-only afterwards, so concurrent reads
// from request goroutines need no locking.
type Tables struct {
	entries  map[Key]ConfigEntry
	services map[string]map[string]Key
	statuses map[string]Key
	logger   *slog.Logger
}

// NewTables builds the immutable lookup tables. All maps are copied;
// callers may discard or mutate their arguments afterwards. Entries are
// validated here so a malformed table can never reach the request path.
func NewTables(
	entries map[Key]ConfigEntry,
	services map[string]map[string]Key,
	statuses map[string]Key,
	logger *slog.Logger,
) (*Tables, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entriesCopy := make(map[Key]ConfigEntry, len(entries))

	for key, entry := range entries {
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("error table entry %s: %w", key, err)
		}

		entriesCopy[key] = entry
	}

	servicesCopy := make(map[string]map[string]Key, len(services))
	for service, codes := range services {
		inner := make(map[string]Key, len(codes))
		for code, key := range codes {
			inner[code] = key
		}

		servicesCopy[service] = inner
	}

	statusesCopy := make(map[string]Key, len(statuses))
	for status, key := range statuses {
		statusesCopy[status] = key
	}

	return &Tables{
		entries:  entriesCopy,
		services: servicesCopy,
		statuses: statusesCopy,
		logger:   logger.With(slog.String("component", "domain.Tables")),
	}, nil
}

// Lookup returns the configured entry for key, walking the fallback
// chain when configuration is incomplete: missing key → UNEXPECTED
// entry → compiled-in default. It always returns a valid entry.
func (t *Tables) Lookup(key Key) ConfigEntry {
	if entry, ok := t.entries[key]; ok {
		return entry
	}

	t.logger.Warn("error key missing from configuration, substituting UNEXPECTED",
		slog.String("key", key.String()),
	)

	if entry, ok := t.entries[KeyUnexpected]; ok {
		return entry
	}

	t.logger.Warn("UNEXPECTED entry missing from configuration, using built-in default")

	return builtinUnexpected
}

// ResolveService maps a (service, external code) pair to a catalog key.
// A missing service or code returns false; callers resolve from the
// transport status instead.
func (t *Tables) ResolveService(service, code string) (Key, bool) {
	codes, ok := t.services[service]
	if !ok {
		return "", false
	}

	key, ok := codes[code]

	return key, ok
}

// ResolveStatus maps a raw HTTP status to a catalog key through the
// configured status resolver. A missing entry returns false; callers
// apply the default status policy.
func (t *Tables) ResolveStatus(status int) (Key, bool) {
	key, ok := t.statuses[strconv.Itoa(status)]

	return key, ok
}
