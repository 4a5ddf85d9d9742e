// Command extlikefs formats and drives a single in-file Unix-style
// filesystem image: a "mkfs" subcommand to lay one out, then an
// interactive REPL over it.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mihailBz/ExtLikeFS/internal/blockdev"
	"github.com/mihailBz/ExtLikeFS/internal/fserrors"
	"github.com/mihailBz/ExtLikeFS/internal/presets"
	"github.com/mihailBz/ExtLikeFS/fs"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "extlikefs",
		Usage: "format and drive an in-file Unix-style filesystem image",
		Commands: []*cli.Command{
			{
				Name:      "mkfs",
				Usage:     "format a new image and start an interactive session",
				ArgsUsage: "INODES",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "image", Value: "storage", Usage: "path to the backing file"},
					&cli.IntFlag{Name: "block-size", Value: 4096, Usage: "bytes per data block"},
					&cli.IntFlag{Name: "blocks", Value: 50, Usage: "candidate data block count"},
					&cli.StringFlag{Name: "preset", Usage: "named layout from internal/presets, overrides block-size/blocks/inodes"},
				},
				Action: runMkfs,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("extlikefs: %s", err.Error())
	}
}

func runMkfs(c *cli.Context) error {
	blockSize := c.Int("block-size")
	dataBlocks := c.Int("blocks")
	inodesN := 0

	if c.Args().Present() {
		n, err := strconv.Atoi(c.Args().First())
		if err != nil {
			return fmt.Errorf("INODES must be an integer: %w", err)
		}
		inodesN = n
	}

	if slug := c.String("preset"); slug != "" {
		p, err := presets.Get(slug)
		if err != nil {
			return err
		}
		blockSize, dataBlocks, inodesN = p.BlockSize, p.DataBlocks, p.Inodes
	}

	if inodesN <= 0 {
		return fmt.Errorf("inode count must be positive (pass it as an argument or via --preset)")
	}

	size := fs.RequiredSize(blockSize, inodesN, dataBlocks)
	device, err := blockdev.Create(c.String("image"), size)
	if err != nil {
		return err
	}
	defer device.Close()

	fsys, err := fs.Mkfs(device, blockSize, inodesN, dataBlocks)
	if err != nil {
		return err
	}

	startSession(fsys)
	return nil
}

var (
	writeCmdPattern    = regexp.MustCompile(`^write\s+(\S+)\s+(\S+)\s+(\d+)$`)
	closeCmdPattern    = regexp.MustCompile(`^close\s+(\S+)$`)
	truncateCmdPattern = regexp.MustCompile(`^truncate\s+(\S+)\s+(\d+)$`)
	seekOrReadPattern  = regexp.MustCompile(`^(seek|read)\s+(\S+)\s+(\d+)$`)
	twoArgCmdPattern   = regexp.MustCompile(`^(link|symlink)\s+(\S+)\s+(\S+)$`)
	oneArgCmdPattern   = regexp.MustCompile(`^(stat|create|unlink|mkdir|rmdir|cd)\s+(\S+)$`)
	openCmdPattern     = regexp.MustCompile(`^(\w+)\s*=\s*open\s+(\S+)$`)
)

// startSession runs the interactive REPL loop: a regex-matched command
// grammar, descriptors addressed by the name bound at "fd = open ...", the
// "fs@fs:<cwd>$ " prompt, and printing an error's sentinel name instead of
// its full message.
func startSession(fsys *fs.FileSystem) {
	scanner := bufio.NewScanner(os.Stdin)
	descriptors := make(map[string]int)

	for {
		fmt.Printf("fs@fs:%s$ ", fsys.Cwd())
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := dispatch(fsys, descriptors, line); err != nil {
			if name := fserrors.NameOf(err); name != "" {
				fmt.Println(name)
			} else {
				fmt.Println(fserrors.InvalidInput.Name())
			}
		}
	}
}

func dispatch(fsys *fs.FileSystem, descriptors map[string]int, line string) error {
	switch {
	case line == "ls":
		out, err := fsys.Ls()
		if err != nil {
			return err
		}
		fmt.Println(out)

	case openCmdPattern.MatchString(line):
		m := openCmdPattern.FindStringSubmatch(line)
		fd, err := fsys.Open(m[2])
		if err != nil {
			return err
		}
		descriptors[m[1]] = fd

	case writeCmdPattern.MatchString(line):
		m := writeCmdPattern.FindStringSubmatch(line)
		fd, ok := descriptors[m[1]]
		if !ok {
			return fserrors.InvalidInput
		}
		size, _ := strconv.Atoi(m[3])
		return fsys.Write(fd, []byte(m[2]), size)

	case closeCmdPattern.MatchString(line):
		m := closeCmdPattern.FindStringSubmatch(line)
		fd, ok := descriptors[m[1]]
		if !ok {
			return fserrors.InvalidInput
		}
		return fsys.Close(fd)

	case truncateCmdPattern.MatchString(line):
		m := truncateCmdPattern.FindStringSubmatch(line)
		size, _ := strconv.Atoi(m[2])
		return fsys.Truncate(m[1], size)

	case seekOrReadPattern.MatchString(line):
		m := seekOrReadPattern.FindStringSubmatch(line)
		fd, ok := descriptors[m[2]]
		if !ok {
			return fserrors.InvalidInput
		}
		size, _ := strconv.Atoi(m[3])
		if m[1] == "seek" {
			return fsys.Seek(fd, size)
		}
		data, err := fsys.Read(fd, size)
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case twoArgCmdPattern.MatchString(line):
		m := twoArgCmdPattern.FindStringSubmatch(line)
		if m[1] == "link" {
			return fsys.Link(m[2], m[3])
		}
		return fsys.Symlink(m[2], m[3])

	case oneArgCmdPattern.MatchString(line):
		m := oneArgCmdPattern.FindStringSubmatch(line)
		switch m[1] {
		case "stat":
			record, err := fsys.Stat(m[2])
			if err != nil {
				return err
			}
			fmt.Println(fs.FormatInode(record))
		case "create":
			return fsys.Create(m[2])
		case "unlink":
			return fsys.Unlink(m[2])
		case "mkdir":
			return fsys.Mkdir(m[2])
		case "rmdir":
			return fsys.Rmdir(m[2])
		case "cd":
			fsys.Cd(m[2])
		}

	default:
		return fserrors.InvalidInput
	}
	return nil
}
