// Package importer parses a curriculum context document and reports its
// contents, optionally re-parsing whenever the document changes. With a
// snapshot database configured it also reports the persisted context tree.
package importer

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/classbridge/classbridge/internal/context/parser"
	"github.com/classbridge/classbridge/internal/context/watch"
	"github.com/classbridge/classbridge/internal/platform/config"
	"github.com/classbridge/classbridge/internal/storage"
	"github.com/classbridge/classbridge/internal/storage/sqlite"
)

// Config holds importer command configuration.
type Config struct {
	DocumentPath string `env:"CLASSBRIDGE_CONTEXTS_FILE" envDefault:"contexts.xml"`
	Watch        bool   `env:"CLASSBRIDGE_IMPORTER_WATCH"`
	DBPath       string `env:"CLASSBRIDGE_DB_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DocumentPath, "contexts-file", cfg.DocumentPath, "path to the curriculum context document")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "re-parse whenever the document changes")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "snapshot database to report persisted contexts from")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run parses the document once and, in watch mode, keeps re-parsing on
// change until the context is cancelled.
func Run(ctx context.Context, cfg Config) error {
	if err := importDocument(cfg.DocumentPath); err != nil {
		if !cfg.Watch {
			return err
		}
		// In watch mode a broken document is reported but not fatal; the
		// next write gets another chance.
		log.Printf("import %s: %v", cfg.DocumentPath, err)
	}

	if cfg.DBPath != "" {
		snapshots, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() { _ = snapshots.Close() }()
		if err := reportSnapshot(ctx, snapshots); err != nil {
			return err
		}
	}

	if !cfg.Watch {
		return nil
	}

	watcher, err := watch.New(cfg.DocumentPath, func(path string) {
		if err := importDocument(path); err != nil {
			log.Printf("import %s: %v", path, err)
		}
	})
	if err != nil {
		return err
	}

	log.Printf("watching %s for changes", cfg.DocumentPath)
	return watcher.Run(ctx)
}

// importDocument parses the document and logs every declared context.
func importDocument(path string) error {
	set, err := parser.ParseFile(path)
	if err != nil {
		return err
	}

	for _, element := range set.Elements() {
		log.Printf("context %s (%s)", strings.Join(element.IdentifierPath, "/"), element.Title)
	}
	log.Printf("parsed %d contexts from %s", set.Len(), path)
	return nil
}

// reportSnapshot logs the persisted context tree alongside the document so
// drift between the two is visible.
func reportSnapshot(ctx context.Context, snapshots storage.SnapshotStore) error {
	nodes, err := snapshots.ListNodes(ctx)
	if err != nil {
		return err
	}
	activities, err := snapshots.ListActivities(ctx)
	if err != nil {
		return err
	}

	byPath := make(map[string]storage.ActivitySnapshot, len(activities))
	for _, activity := range activities {
		byPath[activity.NodePath] = activity
	}
	for _, node := range nodes {
		if activity, ok := byPath[node.Path]; ok {
			log.Printf("persisted context %s (%s), progress %.2f", node.Path, node.Title, activity.Progress)
			continue
		}
		log.Printf("persisted context %s (%s)", node.Path, node.Title)
	}
	log.Printf("%d persisted contexts, %d with activities", len(nodes), len(activities))
	return nil
}
