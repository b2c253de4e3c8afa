package config

import (
	"github.com/gaze-network/near-balance-indexer/core/datasources"
	"github.com/gaze-network/near-balance-indexer/internal/postgres"
	"github.com/gaze-network/near-balance-indexer/pkg/nearrpc"
)

type Config struct {
	Datasource    string                     `mapstructure:"datasource"` // Datasource to fetch NEAR blocks e.g. `near-lake`
	NearLake      datasources.NearLakeConfig `mapstructure:"near_lake"`
	NearRPC       nearrpc.Config             `mapstructure:"near_rpc"` // Archival node answering previous balances on cache miss.
	Database      string                     `mapstructure:"database"` // Database to store balance changes.
	Postgres      postgres.Config            `mapstructure:"postgres"`
	CacheCapacity int                        `mapstructure:"cache_capacity"`
	APIHandlers   []string                   `mapstructure:"api_handlers"` // List of API handlers to enable. (e.g. `http`)
}
