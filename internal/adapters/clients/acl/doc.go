// Package acl implements the Anti-Corruption Layer for the downstream
// marketplace services. Adapters translate between peer API models and
// domain models, and the Translator normalizes every peer failure into
// a *domain.StandardError so nothing upstream ever sees a raw peer
// response.
package acl
