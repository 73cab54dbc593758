package history

import (
	"fmt"

	"github.com/dtnitsch/portfolio-thumbs/internal/common"
	dbpkg "github.com/dtnitsch/portfolio-thumbs/pkg/db"
	"github.com/urfave/cli/v2"
)

// openDB opens the history database named by --db or the config file,
// falling back to the default database next to the executable.
func openDB(c *cli.Context) (*dbpkg.DB, error) {
	cfg, err := common.ConfigFromContext(c)
	if err != nil {
		return nil, err
	}
	path := cfg.DBPath
	if path == "" {
		path = dbpkg.DefaultDBName
	}
	database, err := dbpkg.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// GetRunIDOrLatest returns the run ID from args, or the latest run if not provided
func GetRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		runs, err := database.ListRuns(1)
		if err != nil {
			return 0, fmt.Errorf("failed to get latest run: %w", err)
		}
		if len(runs) == 0 {
			return 0, fmt.Errorf("no runs found. Run 'portfolio-thumbs generate --db ...' first")
		}
		return runs[0].RunID, nil
	}

	var runID int64
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &runID); err != nil {
		return 0, fmt.Errorf("invalid run ID: %s", c.Args().First())
	}
	return runID, nil
}
