// Package frostflake generates Snowflake style 64-bit identifiers: elapsed
// clock ticks since a configurable epoch, an operator assigned node field and
// an in-tick sequence, packed with configurable widths.
//
// The codec lives in package flake; the service packages share generators
// between goroutines in four ways (locked, dispatch, checkout and actor). The
// root Service facade picks one of them from a Config and adds logging,
// metrics and tracing:
//
//	cfg, _ := frostflake.LoadConfig(ctx, "frostflake.yaml")
//	srv, _ := frostflake.New(frostflake.WithConfig(cfg))
//	defer srv.Close()
//	id, err := srv.Generate(ctx)
package frostflake
