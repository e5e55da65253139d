// Command artid is the command-line entry point for the versioned,
// symlink-deduplicating backup engine implemented by this module.
package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/gabo01/artid/cli"
)

func main() {
	app := kingpin.New("artid", "Versioned, symlink-sharing backup and restore.")

	a := cli.NewApp()
	a.Attach(app)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}
