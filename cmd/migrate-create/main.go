package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

func main() {
	name := flag.String("name", "", "migration name, e.g. add_room_theme")
	dir := flag.String("dir", filepath.Join("db", "migrations"), "migrations directory")
	flag.Parse()

	log := logrus.New()
	if err := validName(*name); err != nil {
		log.WithError(err).Fatal("invalid migration name")
	}

	version := time.Now().UTC().Format("20060102150405")
	base := fmt.Sprintf("%s_%s", version, *name)
	upPath := filepath.Join(*dir, base+".up.sql")
	downPath := filepath.Join(*dir, base+".down.sql")

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.WithError(err).Fatal("create migrations dir")
	}
	if err := writeFile(upPath, "-- "+*name+" (up)\n"); err != nil {
		log.WithError(err).Fatal("create up migration")
	}
	if err := writeFile(downPath, "-- "+*name+" (down)\n"); err != nil {
		log.WithError(err).Fatal("create down migration")
	}
	log.WithFields(logrus.Fields{"up": upPath, "down": downPath}).Info("migration created")
}

// validName accepts lower-case snake_case names.
func validName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return fmt.Errorf("%q must be lower-case snake_case", name)
		}
	}
	return nil
}

func writeFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file already exists: %s", path)
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
