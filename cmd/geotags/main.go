// geotags inspects and repairs the geotags kept in a photomap bolt database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"bitbucket.org/kleinnic74/photomap/consts"
	"bitbucket.org/kleinnic74/photomap/geotag"
	"bitbucket.org/kleinnic74/photomap/kvstore/boltkv"
	"bitbucket.org/kleinnic74/photomap/media"
	bolt "go.etcd.io/bbolt"
)

var (
	dbName = "photomap.db"

	dataDir string

	albumDir string

	exe command

	args []string

	commands = []command{
		{"records", listRecords, func() *flag.FlagSet { return nil }, true},
		{"groups", listGroups, func() *flag.FlagSet { return nil }, true},
		{"markers", listMarkers, func() *flag.FlagSet { return nil }, true},
		{"prune", prune, func() *flag.FlagSet {
			flags := flag.NewFlagSet("prune", flag.ExitOnError)
			flags.StringVar(&albumDir, "a", "", "Album directory, defaults to the album of the data directory")
			return flags
		}, false},
	}
)

type cmdFunc func(context.Context, *geotag.Store) error

type flagSetFunc func() *flag.FlagSet

type command struct {
	name     string
	run      cmdFunc
	flags    flagSetFunc
	readonly bool
}

func getCommand(args []string) (command, *flag.FlagSet, error) {
	if len(args) == 0 {
		return commands[0], commands[0].flags(), nil
	}
	for i := range commands {
		if args[0] == commands[i].name {
			return commands[i], commands[i].flags(), nil
		}
	}
	return command{}, nil, fmt.Errorf("No such command: %s", args[0])
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [command] [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "[command] is one of\n")
		for _, c := range commands {
			fmt.Fprintf(os.Stderr, "\t%s\n", c.name)
		}
		flag.PrintDefaults()
	}
	flag.StringVar(&dataDir, "dir", "gophotos", "Path to the photomap data directory")
}

func output(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func listRecords(ctx context.Context, store *geotag.Store) error {
	return output(store.Load(ctx))
}

func listGroups(ctx context.Context, store *geotag.Store) error {
	return output(geotag.Group(store.Load(ctx)))
}

func listMarkers(ctx context.Context, store *geotag.Store) error {
	return output(geotag.Group(store.Load(ctx)).Markers())
}

// openExistingAlbum refuses to create the album, pruning against an empty
// album would drop every geotag
func openExistingAlbum(dir string) (*media.Album, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("album %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("album %s is not a directory", dir)
	}
	return media.OpenAlbum(dir, consts.AlbumName)
}

func prune(ctx context.Context, store *geotag.Store) error {
	dir := albumDir
	if dir == "" {
		dir = filepath.Join(dataDir, "album")
	}
	album, err := openExistingAlbum(dir)
	if err != nil {
		return err
	}
	ids, err := album.IDs(ctx)
	if err != nil {
		return err
	}
	before := len(store.Load(ctx))
	changed, err := store.PruneToExisting(ctx, ids)
	if err != nil {
		return err
	}
	if changed {
		fmt.Fprintf(os.Stderr, "Pruned %d geotags\n", before-len(store.Load(ctx)))
	} else {
		fmt.Fprintln(os.Stderr, "Nothing to prune")
	}
	return nil
}

func main() {
	flag.Parse()

	var err error
	var flags *flag.FlagSet
	exe, flags, err = getCommand(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		flag.Usage()
		os.Exit(1)
	}
	if flag.NArg() > 0 {
		args = flag.Args()[1:]
	}
	if flags != nil {
		flags.Parse(args)
	}

	db, err := bolt.Open(filepath.Join(dataDir, dbName), 0600, &bolt.Options{ReadOnly: exe.readonly})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open DB: %s\n", err)
		os.Exit(1)
	}
	defer db.Close()

	kv, err := boltkv.NewStore(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
	if err := exe.run(context.Background(), geotag.NewStore(kv)); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", exe.name, err)
		os.Exit(1)
	}
}
