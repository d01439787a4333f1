package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"newsportal/app/config"
	"newsportal/app/repositories"

	"github.com/dgraph-io/badger/v4"
)

const restoreMaxPendingWrites = 256

var errCancelled = errors.New("operation cancelled")

// dbCommand runs maintenance on the session store. Prompts are read from in
// and everything is reported to out.
type dbCommand struct {
	path      string
	backupDir string
	in        *bufio.Reader
	out       io.Writer
}

// HandleCommand handles db subcommands and returns an exit code. Prompts
// are answered from in.
func HandleCommand(cfg *config.Config, args []string, in io.Reader, out io.Writer) int {
	configure(cfg)
	cmd := &dbCommand{
		path:      dbPath,
		backupDir: backupDir,
		in:        bufio.NewReader(in),
		out:       out,
	}
	return cmd.run(args)
}

func (c *dbCommand) run(args []string) int {
	if len(args) < 1 {
		c.help()
		return 1
	}

	var err error
	switch name := args[0]; name {
	case "init":
		err = c.init()
	case "clean":
		err = c.clean()
	case "stats":
		err = c.stats()
	case "gc":
		err = c.gc()
	case "backup":
		_, err = c.backup()
	case "restore":
		if len(args) < 2 {
			fmt.Fprintln(c.out, "Error: backup file path required for restore")
			return 1
		}
		err = c.restore(args[1])
	case "help":
		c.help()
	default:
		fmt.Fprintf(c.out, "Unknown db command: %s\n\n", name)
		c.help()
		return 1
	}

	switch {
	case errors.Is(err, errCancelled):
		fmt.Fprintln(c.out, "Operation cancelled")
		return 1
	case err != nil:
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *dbCommand) help() {
	fmt.Fprintln(c.out, `Usage: newsportal db <command>

Commands:
  init                            Create an empty session database
  clean                           Remove the session database
  stats                           Count live sessions and pending uploads
  gc                              Reclaim space left by expired entries
  backup                          Write a backup to the backup directory
  restore <file>                  Replace the session database from a backup
  help                            Display this help message`)
}

func (c *dbCommand) exists() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

// confirm asks a yes/no question; anything but y or yes is a no.
func (c *dbCommand) confirm(question string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", question)
	answer, _ := c.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// open runs fn against the existing database.
func (c *dbCommand) open(fn func(db *badger.DB) error) error {
	if !c.exists() {
		return fmt.Errorf("no database at %s", c.path)
	}
	db, err := repositories.OpenDB(c.path)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func (c *dbCommand) init() error {
	if c.exists() {
		return fmt.Errorf("database already exists at %s, run clean first", c.path)
	}
	db, err := repositories.OpenDB(c.path)
	if err != nil {
		return err
	}
	if err := db.Close(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Database initialized at %s\n", c.path)
	return nil
}

func (c *dbCommand) clean() error {
	if !c.exists() {
		fmt.Fprintln(c.out, "Nothing to clean")
		return nil
	}
	if !c.confirm("Remove every stored session and upload?") {
		return errCancelled
	}
	if err := os.RemoveAll(c.path); err != nil {
		return fmt.Errorf("failed to remove database: %w", err)
	}
	fmt.Fprintln(c.out, "Database removed")
	return nil
}

func (c *dbCommand) stats() error {
	return c.open(func(db *badger.DB) error {
		stats, err := repositories.ReadStats(db)
		if err != nil {
			return err
		}
		lsm, vlog := db.Size()
		fmt.Fprintf(c.out, "Sessions: %d\nUploads:  %d\nSize:     %d bytes\n", stats.Sessions, stats.Uploads, lsm+vlog)
		return nil
	})
}

func (c *dbCommand) gc() error {
	return c.open(func(db *badger.DB) error {
		runs := 0
		for db.RunValueLogGC(gcDiscardRatio) == nil {
			runs++
		}
		fmt.Fprintf(c.out, "Rewrote %d value log files\n", runs)
		return nil
	})
}

// backup writes a full backup and returns its path. Expired entries are
// left out.
func (c *dbCommand) backup() (string, error) {
	var file string
	err := c.open(func(db *badger.DB) error {
		if err := os.MkdirAll(c.backupDir, 0755); err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
		file = filepath.Join(c.backupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
		f, err := os.Create(file)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := db.Backup(f, 0); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
		stats, err := repositories.ReadStats(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Backed up %d sessions and %d uploads to %s\n", stats.Sessions, stats.Uploads, file)
		return nil
	})
	return file, err
}

func (c *dbCommand) restore(file string) error {
	fi, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("cannot read backup: %w", err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", file)
	}

	if c.exists() {
		if !c.confirm("Replace the existing database?") {
			return errCancelled
		}
		if err := os.RemoveAll(c.path); err != nil {
			return fmt.Errorf("failed to remove database: %w", err)
		}
	}

	db, err := repositories.OpenDB(c.path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := load(db, file); err != nil {
		return fmt.Errorf("failed to restore: %w", err)
	}
	stats, err := repositories.ReadStats(db)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Restored %d sessions and %d uploads\n", stats.Sessions, stats.Uploads)
	return nil
}

// load feeds a backup into db. Badger panics on some corrupt input, which
// is reported as an error.
func load(db *badger.DB, file string) (err error) {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("corrupt backup: %v", r)
		}
	}()
	return db.Load(f, restoreMaxPendingWrites)
}
