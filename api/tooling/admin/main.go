// Binário administrativo: migração de schema, seed de dados e emissão de
// tokens para desenvolvimento local.
package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/app/sdk/auth"
	"github.com/jcpaschoal/agendex/business/sdk/sqldb"
	"github.com/jcpaschoal/agendex/business/types/role"
	"github.com/jcpaschoal/agendex/foundation/keystore"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
)

//go:embed sql/schema.sql sql/seed.sql
var sqlFS embed.FS

// Config replicates necessary DB and key config structure.
type Config struct {
	DB struct {
		User         string `envconfig:"DB_USER" default:"postgres"`
		Password     string `envconfig:"DB_PASSWORD" default:"postgres"`
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Name         string `envconfig:"DB_NAME" default:"agendex"`
		MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"0"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"0"`
		DisableTLS   bool   `envconfig:"DB_DISABLE_TLS" default:"true"`
	}
	Auth struct {
		KeysFolder string `envconfig:"AUTH_KEYS_FOLDER" default:"zarf/keys"`
		Issuer     string `envconfig:"AUTH_ISSUER" default:"agendex"`
	}
}

func main() {
	log := logger.New(os.Stdout, logger.LevelInfo, "ADMIN-TOOL", nil)
	ctx := context.Background()

	if err := run(ctx, log); err != nil {
		log.Error(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("processing config: %w", err)
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: migrate, seed, gentoken")
		return nil
	}

	switch os.Args[1] {
	case "migrate":
		return runSQL(ctx, cfg, "sql/schema.sql")
	case "seed":
		return runSQL(ctx, cfg, "sql/seed.sql")
	case "gentoken":
		return runGenToken(cfg, os.Args[2:])
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

func runSQL(ctx context.Context, cfg Config, file string) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqldb.StatusCheck(ctx, db); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	script, err := sqlFS.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	if _, err := db.ExecContext(ctx, string(script)); err != nil {
		return fmt.Errorf("executing %s: %w", file, err)
	}

	fmt.Printf("\nSUCCESS: %s applied\n", file)
	return nil
}

func runGenToken(cfg Config, args []string) error {
	cmd := flag.NewFlagSet("gentoken", flag.ExitOnError)
	tenantStr := cmd.String("tenant-id", "", "Tenant UUID (Required)")
	subjectStr := cmd.String("subject-id", "", "Subject UUID (defaults to a new UUID)")
	roleStr := cmd.String("role", "ADMIN", "Role (ADMIN, OPERATOR)")
	kidStr := cmd.String("kid", "", "Key id, the PEM file name without extension (Required)")
	cmd.Parse(args)

	if *tenantStr == "" || *kidStr == "" {
		cmd.PrintDefaults()
		return fmt.Errorf("missing required fields")
	}

	tenantID, err := uuid.Parse(*tenantStr)
	if err != nil {
		return fmt.Errorf("invalid tenant uuid: %w", err)
	}

	subjectID := uuid.New()
	if *subjectStr != "" {
		subjectID, err = uuid.Parse(*subjectStr)
		if err != nil {
			return fmt.Errorf("invalid subject uuid: %w", err)
		}
	}

	r, err := role.Parse(*roleStr)
	if err != nil {
		return fmt.Errorf("invalid role: %w", err)
	}

	ks := keystore.New()
	n, err := ks.LoadByFileSystem(os.DirFS(cfg.Auth.KeysFolder))
	if err != nil {
		return fmt.Errorf("loading keys from %q: %w", cfg.Auth.KeysFolder, err)
	}
	if n == 0 {
		return fmt.Errorf("no keys found in %q", cfg.Auth.KeysFolder)
	}

	// TenantBus nil: o token é emitido sem consultar o banco.
	ath := auth.New(auth.Config{
		Log:       logger.New(os.Stdout, logger.LevelInfo, "ADMIN-TOOL", nil),
		KeyLookup: ks,
		Issuer:    cfg.Auth.Issuer,
	})

	token, err := ath.GenerateToken(*kidStr, tenantID, subjectID, r)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	fmt.Printf("\nSUCCESS: token generated\nTenant: %s\nSubject: %s\nRole: %s\n\n%s\n", tenantID, subjectID, r, token)
	return nil
}

func openDB(cfg Config) (*sqlx.DB, error) {
	db, err := sqldb.Open(sqldb.Config{
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Host:         cfg.DB.Host,
		Name:         cfg.DB.Name,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		DisableTLS:   cfg.DB.DisableTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}

	return db, nil
}

//go run api/tooling/admin/main.go migrate
//go run api/tooling/admin/main.go seed
//go run api/tooling/admin/main.go gentoken -tenant-id "11111111-1111-1111-1111-111111111111" -kid "dev" -role "ADMIN"
