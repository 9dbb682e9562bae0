// Package domain contains the canonical error model of the gateway.
// Every failure the request path can encounter (internal validation,
// raw HTTP statuses from failed peer calls, structured error bodies)
// is normalized into a StandardError carrying a small, stable set of
// internal codes. The catalog below is that set.
package domain

// Key identifies one kind of error condition in the internal catalog.
// The set is closed: new keys ship with configuration and a redeploy,
// never at runtime. Equality is by name.
type Key string

const (
	// KeyUnauthorized indicates missing or invalid credentials.
	KeyUnauthorized Key = "UNAUTHORIZED"

	// KeyForbidden indicates the caller is authenticated but not allowed.
	KeyForbidden Key = "FORBIDDEN"

	// KeyUnexpected is the universal fallback for unclassified failures.
	// Its configuration entry backs the fallback chain; see Tables.Lookup.
	KeyUnexpected Key = "UNEXPECTED"

	// KeyNotFound indicates the requested entity does not exist.
	KeyNotFound Key = "NOT_FOUND"

	// KeyBadRequest indicates a malformed request.
	KeyBadRequest Key = "BAD_REQUEST"

	// KeyValidationError indicates a request that parsed but violates
	// business validation rules.
	KeyValidationError Key = "VALIDATION_ERROR"

	// KeyServiceUnavailable indicates a required peer is unreachable.
	KeyServiceUnavailable Key = "SERVICE_UNAVAILABLE"

	// KeyInsufficientStock indicates a sale requested more units than
	// the product has available.
	KeyInsufficientStock Key = "INSUFFICIENT_STOCK"

	// KeySaleNotAllowed indicates the client may not perform the sale
	// (blocked client, closed account, region restriction).
	KeySaleNotAllowed Key = "SALE_NOT_ALLOWED"
)

// catalog is the closed key set, used to validate configured names.
var catalog = map[Key]struct{}{
	KeyUnauthorized:       {},
	KeyForbidden:          {},
	KeyUnexpected:         {},
	KeyNotFound:           {},
	KeyBadRequest:         {},
	KeyValidationError:    {},
	KeyInsufficientStock:  {},
	KeySaleNotAllowed:     {},
	KeyServiceUnavailable: {},
}

// Keys returns every key in the catalog. The order is unspecified.
func Keys() []Key {
	keys := make([]Key, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}

	return keys
}

// ParseKey maps a configured name to a catalog key.
// Unknown names return false; callers degrade through the fallback
// chain rather than failing.
func ParseKey(name string) (Key, bool) {
	k := Key(name)
	_, ok := catalog[k]

	return k, ok
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return string(k)
}
