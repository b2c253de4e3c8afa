package migrate

import (
	"fmt"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	balanceChangesMigrationSource = "modules/balancechanges/database/postgresql/migrations"
	balanceChangesMigrationTable  = "balance_changes_schema_migrations"
)

var supportedDrivers = map[string]struct{}{
	"postgres":   {},
	"postgresql": {},
}

func parseDatabaseURL(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, errors.New("--database is required")
	}
	databaseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse database URL")
	}
	if _, ok := supportedDrivers[databaseURL.Scheme]; !ok {
		return nil, errors.Errorf("unsupported database driver: %s", databaseURL.Scheme)
	}
	return databaseURL, nil
}

func cloneURLWithQuery(u *url.URL, newQuery url.Values) *url.URL {
	clone := *u
	query := clone.Query()
	for key, values := range newQuery {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	clone.RawQuery = query.Encode()
	return &clone
}

// newMigrate opens a migrate instance that records its version in migrationTable.
func newMigrate(module string, databaseURL *url.URL, sourcePath string, migrationTable string) (*migrate.Migrate, error) {
	newDatabaseURL := cloneURLWithQuery(databaseURL, url.Values{"x-migrations-table": {migrationTable}})
	m, err := migrate.New("file://"+sourcePath, newDatabaseURL.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Migrate instance")
	}
	m.Log = &consoleLogger{
		prefix: fmt.Sprintf("[%s] ", module),
	}
	return m, nil
}
