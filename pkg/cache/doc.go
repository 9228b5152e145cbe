// Package cache stores PokeAPI responses in Redis.
//
// PokeAPI data is static and served with long max-age values and ETags.
// The client looks up every GET here first: a fresh entry answers
// directly, a stale entry with validators is revalidated with
// If-None-Match or If-Modified-Since, and a 304 extends it via Refresh.
// Entries without validators expire from Redis with their freshness.
//
//	store := cache.NewStore(rdb)
//	key := cache.KeyFor(req)
//
//	entry, err := store.Lookup(ctx, key)
//	switch {
//	case err == nil && entry.Fresh(time.Now()):
//		return entry.Response(req), nil
//	case err == nil:
//		entry.ApplyValidators(req)
//	}
package cache
