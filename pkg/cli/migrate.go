package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/memora-app/memora/pkg/cli/config"
	"github.com/memora-app/memora/pkg/repository/neo4j"
	"github.com/memora-app/memora/pkg/repository/pinecone"
	"github.com/memora-app/memora/pkg/utils/logging"
)

func cmdMigrate() *cli.Command {
	var remoteCfg config.Remote
	var vectorCfg config.Vector
	var graphCfg config.Graph
	var embedCfg config.Embed

	var flags []cli.Flag
	flags = append(flags, remoteCfg.Flags()...)
	flags = append(flags, vectorCfg.Flags()...)
	flags = append(flags, graphCfg.Flags()...)
	flags = append(flags, embedCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create the Pinecone index and Neo4j schema",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			logger.Info("Migrate configuration",
				"vectorBackend", vectorCfg.Backend(),
				"graphBackend", graphCfg.Backend(),
				"dimension", embedCfg.Dimension())

			if vectorCfg.Backend() == "pinecone" {
				if vectorCfg.APIKey() == "" {
					return goerr.New("pinecone-api-key is required when using pinecone backend")
				}
				if err := pinecone.EnsureIndex(ctx,
					vectorCfg.APIKey(), vectorCfg.IndexName(),
					int32(embedCfg.Dimension()),
					vectorCfg.Cloud(), vectorCfg.Region(),
				); err != nil {
					return goerr.Wrap(err, "failed to ensure pinecone index")
				}
				logger.Info("Pinecone index ready", "index", vectorCfg.IndexName())
			} else {
				logger.Info("Skipping vector migration", "backend", vectorCfg.Backend())
			}

			if graphCfg.Backend() == "neo4j" {
				store, err := graphCfg.Configure(ctx, remoteCfg.Policy())
				if err != nil {
					return goerr.Wrap(err, "failed to initialize neo4j store")
				}
				defer func() {
					if err := store.Close(ctx); err != nil {
						logger.Error("failed to close graph store", "error", err.Error())
					}
				}()

				neoStore, ok := store.(*neo4j.Store)
				if !ok {
					return goerr.New("graph store does not support schema migration")
				}
				if err := neoStore.CreateSchema(ctx); err != nil {
					return goerr.Wrap(err, "failed to create neo4j schema")
				}
				logger.Info("Neo4j schema ready")
			} else {
				logger.Info("Skipping graph migration", "backend", graphCfg.Backend())
			}

			return nil
		},
	}
}
