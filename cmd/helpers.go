package main

import (
	"fmt"
	"log/slog"

	"drivebox/internal/auth"
	"drivebox/internal/config"
	"drivebox/internal/gdrive"
)

// newClient loads configuration, authenticates, and builds the Drive
// client every command works through.
func newClient() (*gdrive.Client, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	httpClient, err := auth.GetClient(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("authentication failed: %w", err)
	}

	client := gdrive.New(httpClient,
		gdrive.WithLogger(slog.Default()),
		gdrive.WithPageSize(cfg.PageSize),
	)

	return client, cfg, nil
}

// resolveRef turns a Drive URL, bare id, or name into an object.
// Names are looked up first as files, then as folders.
func resolveRef(client *gdrive.Client, ref string) (*gdrive.Object, error) {
	if id, err := gdrive.ExtractFileID(ref); err == nil {
		if obj, err := client.ByID(id); err != nil || obj != nil {
			return obj, err
		}
	}

	obj, err := client.File(ref, "")
	if err != nil || obj != nil {
		return obj, err
	}

	return client.Folder(ref)
}
