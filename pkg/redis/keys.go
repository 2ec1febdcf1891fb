package redis

import "strings"

// Keyspace prefixes every key the API writes.
type Keyspace string

const DefaultKeyspace Keyspace = "dv"

// Join drops blank parts so optional segments never produce "a::b".
func (k Keyspace) Join(parts ...string) string {
	var b strings.Builder
	b.WriteString(string(k))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			b.WriteByte(':')
			b.WriteString(p)
		}
	}
	return b.String()
}

func (c *Client) keyspace() Keyspace {
	if c == nil || c.keys == "" {
		return DefaultKeyspace
	}
	return c.keys
}

// IdempotencyKey namespaces a stored response by caller scope and the
// client supplied Idempotency-Key.
func (c *Client) IdempotencyKey(scope, id string) string {
	return c.keyspace().Join("idempotency", scope, id)
}

// RateLimitKey namespaces a login throttling counter.
func (c *Client) RateLimitKey(scope string) string {
	return c.keyspace().Join("rate_limit", scope)
}

// AccessSessionKey is where the session for a token jti lives.
func (c *Client) AccessSessionKey(accessID string) string {
	return c.keyspace().Join("session", "access", accessID)
}
