package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Open returns the backend named by rawURL:
//
//	""  or "none"                 NullCache
//	/path or file:///path         FileCache
//	redis://host:6379/0           RedisCache
//	mongodb://host/db?collection= MongoCache
func Open(ctx context.Context, rawURL string) (Cache, error) {
	switch {
	case rawURL == "" || rawURL == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(rawURL, "redis://"), strings.HasPrefix(rawURL, "rediss://"):
		return nonNil(NewRedisCache(ctx, rawURL, WithRedisPrefix("tableheatmap:")))
	case strings.HasPrefix(rawURL, "mongodb://"), strings.HasPrefix(rawURL, "mongodb+srv://"):
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, err
		}
		coll := u.Query().Get("collection")
		q := u.Query()
		q.Del("collection")
		u.RawQuery = q.Encode()
		return nonNil(NewMongoCache(ctx, u.String(), strings.TrimPrefix(u.Path, "/"), coll))
	case strings.HasPrefix(rawURL, "file://"):
		return nonNil(NewFileCache(strings.TrimPrefix(rawURL, "file://")))
	case !strings.Contains(rawURL, "://"):
		return nonNil(NewFileCache(rawURL))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, rawURL)
	}
}

// nonNil keeps a failed constructor from yielding a non-nil interface
// holding a nil pointer.
func nonNil[C Cache](c C, err error) (Cache, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
