package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiscoverDatabase looks for .natapm/*.db in the current directory only.
// Returns the absolute path to the database file, or an error if not found.
//
// Only the current directory is checked, never parents. Walking up the tree
// risks picking up an unrelated project's plan database when one project is
// nested inside another.
//
// The NATAPM_DB_PATH environment variable takes precedence over discovery,
// which also gives tests a clean way to isolate themselves.
func DiscoverDatabase() (string, error) {
	if dbPath := os.Getenv("NATAPM_DB_PATH"); dbPath != "" {
		// Allow special values like ":memory:" or explicit paths
		return dbPath, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return discoverDatabaseInDir(dir)
}

// discoverDatabaseInDir checks for .natapm/*.db in the specified directory
// only. Does NOT walk up the directory tree.
func discoverDatabaseInDir(dir string) (string, error) {
	planDir := filepath.Join(dir, ".natapm")

	if info, err := os.Stat(planDir); err == nil && info.IsDir() {
		entries, err := os.ReadDir(planDir)
		if err == nil {
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".db") {
					dbPath := filepath.Join(planDir, entry.Name())
					absPath, err := filepath.Abs(dbPath)
					if err != nil {
						return "", fmt.Errorf("failed to get absolute path: %w", err)
					}
					return absPath, nil
				}
			}
		}
	}

	return "", fmt.Errorf(
		"no .natapm/*.db found in %s\n"+
			"  Run 'natapm init' to initialize a plan database in this directory\n"+
			"  Or use --db flag to specify database path explicitly",
		dir)
}

// InitProject creates the .natapm/ directory under projectDir and returns the
// path the plan database should live at. The database file itself is created
// on first connection. Fails if a database with that name already exists.
func InitProject(projectDir, projectName string) (string, error) {
	if _, err := os.Stat(projectDir); os.IsNotExist(err) {
		return "", fmt.Errorf("project directory does not exist: %s", projectDir)
	}

	planDir := filepath.Join(projectDir, ".natapm")
	if err := os.MkdirAll(planDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create .natapm directory: %w", err)
	}

	dbName := projectName
	if dbName == "" {
		dbName = "natapm"
	}
	if !strings.HasSuffix(dbName, ".db") {
		dbName += ".db"
	}

	dbPath := filepath.Join(planDir, dbName)
	if _, err := os.Stat(dbPath); err == nil {
		return "", fmt.Errorf("database already exists: %s", dbPath)
	}

	return dbPath, nil
}
