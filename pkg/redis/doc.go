// Package redis connects to Redis and stores sessions in it.
//
// Connect retries the initial ping using Config, Healthcheck adapts a client
// to a liveness check, and Backend implements session.Backend with one key
// per session:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	backend, err := redis.NewBackendFromConfig(client, cfg)
//	if err != nil {
//	    return err
//	}
//	manager := session.New(
//	    session.WithBackend(backend),
//	    session.WithCookieManager(cookies),
//	)
//
// Payloads are encoded with codec.JSON unless WithCodec or Config.Codec
// selects codec.MsgPack, which keeps integer types across round trips.
// Expiry uses Redis TTLs, so the backend needs no cleanup loop.
//
// Sentinel errors wrap go-redis errors with errors.Join and can be matched
// with errors.Is.
package redis
