// Package redis connects the optional Redis backend used to share rate limit
// buckets between gateway instances.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	if cfg.Enabled() {
//		client, err := redis.Connect(ctx, cfg)
//		if err != nil {
//			return err
//		}
//		defer client.Close()
//	}
//
// Healthcheck adapts a client to the readiness probe signature.
package redis
