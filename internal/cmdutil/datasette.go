package cmdutil

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/lepinkainen/meeple/internal/datastore"
)

const datastoreName = "meeple"

// WriteToDatastore stores records in the configured Datasette target,
// either a local SQLite file or a remote instance. It is a no-op when
// Datasette output is disabled. The description is only used in logs.
func WriteToDatastore[T any](items []T, schema, table, description string, toMap func(T) map[string]any) error {
	if !viper.GetBool("datasette.enabled") {
		return nil
	}

	slog.Info("Writing to Datasette", "records", description)

	records := make([]map[string]any, len(items))
	for i, item := range items {
		records[i] = toMap(item)
	}

	mode := viper.GetString("datasette.mode")
	if mode == "" {
		mode = "local"
	}

	switch mode {
	case "local":
		store := datastore.NewSQLiteStore(viper.GetString("datasette.dbfile"))
		if err := store.Connect(); err != nil {
			slog.Error("Failed to connect to SQLite database", "error", err)
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.CreateTable(schema); err != nil {
			slog.Error("Failed to create table", "table", table, "error", err)
			return err
		}

		if err := store.BatchInsert(datastoreName, table, records); err != nil {
			slog.Error("Failed to insert records", "table", table, "error", err)
			return err
		}
		slog.Info("Successfully wrote to SQLite database", "records", description, "count", len(records))
	case "remote":
		client := datastore.NewDatasetteClient(
			viper.GetString("datasette.remote_url"),
			viper.GetString("datasette.api_token"),
		)
		if err := client.Connect(); err != nil {
			slog.Error("Failed to connect to remote Datasette", "error", err)
			return err
		}
		defer func() { _ = client.Close() }()

		if err := client.BatchInsert(datastoreName, table, records); err != nil {
			slog.Error("Failed to insert records to remote Datasette", "table", table, "error", err)
			return err
		}
		slog.Info("Successfully wrote to remote Datasette", "records", description, "count", len(records))
	default:
		slog.Error("Invalid Datasette mode", "mode", mode)
		return fmt.Errorf("invalid Datasette mode: %s", mode)
	}

	return nil
}
