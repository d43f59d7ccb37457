package main

import (
	"context"

	"github.com/tanpawarit/chatfood/agent/catalog"
	"github.com/tanpawarit/chatfood/agent/knowledge"
	configx "github.com/tanpawarit/chatfood/pkg/config"
	databasex "github.com/tanpawarit/chatfood/pkg/database"
	logx "github.com/tanpawarit/chatfood/pkg/logger"
	_ "github.com/tanpawarit/chatfood/pkg/logger/autoload"
)

type SeedConfig struct {
	ResetOrders bool `split_words:"true" default:"true"`
}

// seed creates the schema, fills the menu when empty and restores the sample
// order history.
func main() {
	ctx := context.Background()

	cfg := configx.MustNew[SeedConfig]("SEED")
	dbCfg := configx.MustNew[databasex.Config]("DATABASE")
	db := dbCfg.MustNew()
	defer db.Close()

	if err := catalog.Migrate(ctx, db); err != nil {
		logx.Fatal().Err(err).Msg("catalog migrate failed")
	}
	if err := knowledge.Migrate(ctx, db); err != nil {
		logx.Fatal().Err(err).Msg("knowledge migrate failed")
	}

	seeded, err := catalog.SeedFoods(ctx, db)
	if err != nil {
		logx.Fatal().Err(err).Msg("seed foods failed")
	}
	logx.Info().Bool("inserted", seeded).Int("foods", len(catalog.SampleFoods())).Msg("menu ready")

	if cfg.ResetOrders {
		if err := catalog.ResetSampleOrders(ctx, db); err != nil {
			logx.Fatal().Err(err).Msg("reset orders failed")
		}
		logx.Info().Int("orders", len(catalog.SampleOrders())).Msg("sample orders restored")
	}
}
