package dataset

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zoobzio/dataset/mssql"
	"github.com/zoobzio/dataset/mysql"
	"github.com/zoobzio/dataset/postgres"
	"github.com/zoobzio/dataset/sqlite"
)

type registration struct {
	driver string
	new    func() Dialect
}

var (
	registryMu sync.RWMutex
	registry   = map[string]registration{
		"sqlite":   {driver: sqlite.DriverName, new: func() Dialect { return sqlite.New() }},
		"postgres": {driver: postgres.DriverName, new: func() Dialect { return postgres.New() }},
		"mysql":    {driver: mysql.DriverName, new: func() Dialect { return mysql.New() }},
		"mariadb":  {driver: mysql.DriverName, new: func() Dialect { return mysql.NewMariaDB() }},
		"mssql":    {driver: mssql.DriverName, new: func() Dialect { return mssql.New() }},
		"generic":  {new: NewGeneric},
	}
)

// RegisterDialect makes a dialect available to LookupDialect and Connect
// under name. driver is the database/sql driver name; it may be empty for
// render-only dialects.
func RegisterDialect(name, driver string, factory func() Dialect) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = registration{driver: driver, new: factory}
}

// LookupDialect returns a new instance of the named dialect and its
// database/sql driver name.
func LookupDialect(name string) (Dialect, string, error) {
	registryMu.RLock()
	reg, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, "", fmt.Errorf("unknown dialect %q (available: %v)", name, Dialects())
	}
	return reg.new(), reg.driver, nil
}

// Dialects returns the registered dialect names, sorted.
func Dialects() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
