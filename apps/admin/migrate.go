package main

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/trezcool/goose"

	appfs "github.com/startsmart/property/fs"
	"github.com/startsmart/property/storage/database"
)

var gooseRunFunc = runGoose // mockable

func (cli *commandLine) migrate(args []string) error {
	return gooseRunFunc(args[0], cli.db, args[1:]...)
}

func runGoose(command string, db *sql.DB, args ...string) error {
	dir := database.MigrationsDir()

	switch command {
	case "up":
		return goose.Up(db, appfs.FS, dir)
	case "up-by-one":
		return goose.UpByOne(db, appfs.FS, dir)
	case "up-to":
		version, err := parseVersion(command, args)
		if err != nil {
			return err
		}
		return goose.UpTo(db, appfs.FS, dir, version)
	case "down":
		return goose.Down(db, appfs.FS, dir)
	case "down-to":
		version, err := parseVersion(command, args)
		if err != nil {
			return err
		}
		return goose.DownTo(db, appfs.FS, dir, version)
	case "redo":
		return goose.Redo(db, appfs.FS, dir)
	case "version":
		current, err := goose.GetDBVersion(db)
		if err != nil {
			return err
		}
		fmt.Printf("goose: version %d\n", current)
		return nil
	default:
		return fmt.Errorf("%q: no such command", command)
	}
}

func parseVersion(command string, args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s must be of form: admin migrate %s VERSION", command, command)
	}
	version, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("version must be a number (got '%s')", args[0])
	}
	return version, nil
}
