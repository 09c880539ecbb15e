// Package pg wires PostgreSQL connectivity for the persistent stores:
// pool setup with retry, goose schema migrations, a healthcheck probe,
// and error classification helpers the stores use to map driver errors
// to their own sentinels.
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, logger); err != nil {
//		log.Fatal(err)
//	}
package pg
