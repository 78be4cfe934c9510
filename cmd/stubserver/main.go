package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/financaspro/finance-core/internal/infrastructure/stub"
)

func main() {
	addr := flag.String("addr", ":3000", "listen address")
	seed := flag.Bool("seed", false, "seed a demo account (ana / segredo1)")
	flag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	server := stub.NewServer(log)
	if *seed {
		server.SeedUser("Ana", "Souza", "ana", "ana@example.com", "segredo1")
		log.Info().Str("username", "ana").Msg("demo account seeded")
	}

	log.Info().Str("addr", *addr).Msg("stub backend listening")
	if err := http.ListenAndServe(*addr, server.Router()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
