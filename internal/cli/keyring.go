package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Status KeyringStatusCmd `cmd:"" help:"Report keyring availability and where the connection comes from."`
}

type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store."`
}

func (cmd *KeyringSetCmd) Run(ctx *Context) error {
	if !isPostgres(cmd.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		ctx.println("⚠️  Warning: Connection string contains embedded credentials.")
		ctx.println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	ctx.println("✓ Connection string stored in OS keyring")
	ctx.println("  habitlit will use it when --config is not given")
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'habitlit keyring set' to store one")
		}
		return err
	}
	ctx.println(keyring.MaskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.println("✓ Connection string removed from OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		ctx.println("✗ OS keyring is not available on this system")
		ctx.printf("  Set %s or pass --config instead\n", constants.ConnectionEnvVar)
		return nil
	}
	ctx.println("✓ OS keyring is available")

	if _, err := keyring.GetConnectionString(); err == nil {
		ctx.println("✓ A connection string is stored")
	} else {
		ctx.println("  No connection string is stored")
	}
	ctx.printf("  Active database: %s\n", keyring.MaskPassword(ctx.Provider.GetConfigPath()))
	return nil
}
