package cache

// Refresh launches fetch in the background and, on success, overwrites the
// entry under key with a fresh default TTL. The caller is never blocked and
// never sees the outcome: failures are logged and dropped, not retried —
// retry is the resilience layer's job, not this primitive's.
func Refresh[T any](c *Cache, key string, fetch func() (T, error)) {
	c.refreshWG.Add(1)
	go func() {
		defer c.refreshWG.Done()

		v, err := fetch()
		if err != nil {
			c.log.Warn().Str("key", key).Err(err).Msg("background refresh failed")
			return
		}
		if err := Set(c, key, v); err != nil {
			c.log.Warn().Str("key", key).Err(err).Msg("background refresh produced an unencodable value")
			return
		}
		c.log.Debug().Str("key", key).Msg("background refresh completed")
	}()
}
