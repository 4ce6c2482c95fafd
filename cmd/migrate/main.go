package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Estoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Estoque-api/pkg/config"
	"github.com/jhoicas/Estoque-api/pkg/logger"
	"github.com/jhoicas/Estoque-api/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "comando goose: up|down|status|version|redo|reset|validate")
	version := flag.String("version", "", "versão alvo (YYYYMMDDHHMMSS) para up-to/down-to")
	flag.Parse()

	// validate no necesita base de datos.
	if *cmd == "validate" {
		if err := migrate.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "validação das migrações falhou: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migrações válidas")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "carregar configuração: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com PostgreSQL")
	}
	defer pool.Close()

	db := postgres.SQLDB(pool)
	defer db.Close()

	var args []string
	if *version != "" {
		args = append(args, *version)
	}
	if err := migrate.Run(ctx, db, *cmd, args...); err != nil {
		log.Error().Err(err).Str("cmd", *cmd).Msg("migração falhou")
		os.Exit(1)
	}
	log.Info().Str("cmd", *cmd).Msg("migração concluída")
}
