// Command bspdump inspects a bsp file: it prints the header fields and a
// per-lump table with each lump's location, metadata, and content digest.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/bsptools/bsp"
	"github.com/bsptools/bsp/endian"
)

func main() {
	var (
		asJSON       bool
		includeEmpty bool
	)

	app := &cli.Command{
		Name:      "bspdump",
		Usage:     "Dump the lump directory of a bsp file",
		ArgsUsage: "<file.bsp>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "emit the report as JSON", Destination: &asJSON},
			&cli.BoolFlag{Name: "empty", Usage: "include zero-length lumps in the table", Destination: &includeEmpty},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return run(cmd, asJSON, includeEmpty)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type lumpReport struct {
	Index      int    `json:"index"`
	Offset     uint32 `json:"offset"`
	Length     uint32 `json:"length"`
	Version    uint32 `json:"version"`
	Identifier string `json:"identifier"`
	Digest     string `json:"digest"`
}

type fileReport struct {
	Path       string       `json:"path"`
	Identifier string       `json:"identifier"`
	Version    uint32       `json:"version"`
	Revision   int32        `json:"revision"`
	Lumps      []lumpReport `json:"lumps"`
}

func run(cmd *cli.Command, asJSON, includeEmpty bool) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("usage: bspdump [--json] [--empty] <file.bsp>", 2)
	}
	path := cmd.Args().First()

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dir, err := bsp.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	report, err := buildReport(path, dir, includeEmpty)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(report)
	}

	printReport(report)

	return nil
}

func buildReport(path string, dir *bsp.Directory, includeEmpty bool) (*fileReport, error) {
	header := dir.Header()

	report := &fileReport{
		Path:       path,
		Identifier: tagString(header.Identifier),
		Version:    header.Version,
		Revision:   header.Revision,
	}

	for i := range header.Lumps {
		desc := &header.Lumps[i]
		if desc.Length == 0 && !includeEmpty {
			continue
		}

		g, err := dir.Read(i)
		if err != nil {
			return nil, err
		}
		digest := xxhash.Sum64(g.Bytes())
		meta := g.Metadata()
		g.Release()

		report.Lumps = append(report.Lumps, lumpReport{
			Index:      i,
			Offset:     desc.Offset,
			Length:     desc.Length,
			Version:    meta.Version,
			Identifier: tagString(meta.Identifier),
			Digest:     fmt.Sprintf("%016x", digest),
		})
	}

	return report, nil
}

func printReport(r *fileReport) {
	fmt.Printf("File: %s\n", r.Path)
	fmt.Printf("identifier=%s | version=%d | revision=%d | host_order=%v\n",
		r.Identifier, r.Version, r.Revision, endian.Native())
	fmt.Println()

	fmt.Printf("%5s %10s %10s %8s %-10s %s\n",
		"lump", "offset", "length", "version", "ident", "xxh64")
	for _, l := range r.Lumps {
		fmt.Printf("%5d %10d %10d %8d %-10s %s\n",
			l.Index, l.Offset, l.Length, l.Version, l.Identifier, l.Digest)
	}
}

// tagString renders a four-byte tag as text when printable, otherwise as a
// quoted escape so arbitrary bytes survive the report.
func tagString(tag [4]byte) string {
	printable := true
	for _, b := range tag {
		if b < 0x20 || b > 0x7E {
			printable = false
			break
		}
	}
	if printable {
		return string(tag[:])
	}

	return strconv.Quote(string(tag[:]))
}
