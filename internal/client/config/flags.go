package config

import (
	"flag"
	"os"
	"time"

	"github.com/eventhive/mediakit/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-u string   upload endpoint URL
//	-d string   delete endpoint URL
//	-m int      maximum images per collection
//	-auto       upload automatically on ingest
//	-e string   parent event identifier
//	-t int      request timeout in seconds
//
// The function filters os.Args to the flags it owns, via flagx.FilterArgs,
// so it does not interfere with flags defined by other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-d", "-m", "-auto", "-e", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.UploadURL, "u", cfg.UploadURL, "upload endpoint URL")
	fs.StringVar(&cfg.DeleteURL, "d", cfg.DeleteURL, "delete endpoint URL")
	fs.IntVar(&cfg.MaxImages, "m", cfg.MaxImages, "maximum images per collection")
	fs.BoolVar(&cfg.AutoUpload, "auto", cfg.AutoUpload, "upload automatically on ingest")
	fs.StringVar(&cfg.EventID, "e", cfg.EventID, "parent event identifier")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
