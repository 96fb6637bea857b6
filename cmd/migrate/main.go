package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"sitewise.dev/internal/store/pg"
)

func main() {
	log.SetFlags(0)
	dsn := flag.String("dsn", os.Getenv("SITEWISE_PG_DSN"), "PostgreSQL DSN")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing DSN: provide via -dsn or SITEWISE_PG_DSN")
	}
	if len(flag.Args()) == 0 {
		log.Fatal("usage: migrate [up|down|version]")
	}

	store, err := pg.Open(*dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	m, err := store.Migrator()
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = m.Up()
	case "down":
		// One step at a time; a full rollback is never what anyone means.
		err = m.Steps(-1)
	case "version":
		var v uint
		var dirty bool
		v, dirty, err = m.Version()
		if err == nil {
			fmt.Printf("version=%d dirty=%v\n", v, dirty)
		}
	default:
		log.Fatalf("unknown command %q", cmd)
	}
	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
}
