// Command lvssbench checks that the exhaustive and the streaming match
// finders produce identical encodings and measures the lvss codecs against
// other compressors.
//
// Usage:
//
//	lvssbench [-suite file.yaml] [-codecs a,b] [-d 1s] [-json] [-v] [files...]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ulikunitz/lvss/conformance"
)

func fatalf(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

func main() {
	var (
		suiteFile string
		codecs    string
		dur       time.Duration
		asJSON    bool
		verbose   bool
	)
	flag.StringVar(&suiteFile, "suite", "", "YAML suite file")
	flag.StringVar(&codecs, "codecs", "",
		"comma-separated codecs; supported: "+
			strings.Join(conformance.CodecNames(), ", "))
	flag.DurationVar(&dur, "d", 0, "measurement duration per codec and case")
	flag.BoolVar(&asJSON, "json", false, "write the report in JSON format")
	flag.BoolVar(&verbose, "v", false, "log progress to stderr")
	flag.Parse()

	args := flag.Args()
	var (
		s   *conformance.Suite
		dir string
		err error
	)
	switch {
	case suiteFile != "" && len(args) > 0:
		fatalf("usage: %s: files and -suite are exclusive", os.Args[0])
	case suiteFile != "":
		if s, err = conformance.LoadSuite(suiteFile); err != nil {
			fatalf("loading suite: %s", err)
		}
		dir = filepath.Dir(suiteFile)
	case len(args) > 0:
		s = conformance.FileSuite(args...)
	default:
		fatalf("usage: %s [-suite file.yaml] [-codecs a,b] [-d 1s] [-json] [-v] [files...]",
			os.Args[0])
	}

	r := conformance.Runner{Duration: dur}
	if codecs != "" {
		r.Codecs = strings.Split(codecs, ",")
	}
	if verbose {
		r.Logger = log.New(os.Stderr, "lvssbench: ", log.Ltime)
	} else {
		r.Logger = log.New(io.Discard, "", 0)
	}
	rep, err := r.Run(s, dir)
	if err != nil {
		fatalf("%s", err)
	}
	if asJSON {
		err = rep.WriteJSON(os.Stdout)
	} else {
		err = rep.WriteText(os.Stdout)
	}
	if err != nil {
		fatalf("writing report: %s", err)
	}
	if n := rep.Failed(); n > 0 {
		fatalf("%d of %d cases failed", n, len(rep.Cases))
	}
}
