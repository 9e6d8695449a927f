// Command memfilecli is an interactive shell for exploring a single
// MemFile: allocate, read, write, free and sync blocks by hand.
//
// Grounded on cmd/repl/main.go's interactive loop: flag-configured
// startup, a bufio.Scanner reading commands from stdin, and plain
// fmt.Println output (no table formatting, no grpc/http surface).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/willruggiano/memfile/internal/memfile"
)

func main() {
	swapPath := flag.String("swap", "", "swap file path (empty = memory-only)")
	flag.Parse()

	logger := log.New(os.Stderr, "memfilecli: ", log.LstdFlags)

	var flags memfile.OpenFlag
	if *swapPath != "" {
		flags = memfile.OpenCreate | memfile.OpenExcl
	}

	mf, err := memfile.Open(*swapPath, flags, logger)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer mf.Close(false)

	fmt.Println("memfilecli ready. Type 'help' for commands.")
	held := map[int64]*memfile.BlockHeader{}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			printHelp()

		case "new":
			pages := uint32(1)
			negative := false
			for _, f := range fields[1:] {
				if f == "neg" {
					negative = true
					continue
				}
				if n, err := strconv.Atoi(f); err == nil {
					pages = uint32(n)
				}
			}
			h := mf.New(negative, pages)
			held[int64(h.BlockNr())] = h
			fmt.Printf("allocated block %d (%d pages)\n", h.BlockNr(), h.PageCount())

		case "get":
			if len(fields) < 2 {
				fmt.Println("usage: get <bnum> [pages]")
				continue
			}
			nr, _ := strconv.ParseInt(fields[1], 10, 64)
			pages := uint32(1)
			if len(fields) >= 3 {
				if n, err := strconv.Atoi(fields[2]); err == nil {
					pages = uint32(n)
				}
			}
			h := mf.Get(memfile.BlockNr(nr), pages)
			if h == nil {
				fmt.Println("no such block")
				continue
			}
			held[nr] = h
			fmt.Printf("block %d: %q\n", nr, trimNulls(h.Data()))

		case "write":
			if len(fields) < 3 {
				fmt.Println("usage: write <bnum> <text...>")
				continue
			}
			nr, _ := strconv.ParseInt(fields[1], 10, 64)
			h, ok := held[nr]
			if !ok {
				fmt.Println("block not held; get or new it first")
				continue
			}
			text := strings.Join(fields[2:], " ")
			n := copy(h.Data(), text)
			for i := n; i < len(h.Data()); i++ {
				h.Data()[i] = 0
			}
			fmt.Printf("wrote %d bytes to block %d\n", n, nr)

		case "put":
			if len(fields) < 2 {
				fmt.Println("usage: put <bnum> [dirty] [infile]")
				continue
			}
			nr, _ := strconv.ParseInt(fields[1], 10, 64)
			h, ok := held[nr]
			if !ok {
				fmt.Println("block not held")
				continue
			}
			dirty := contains(fields[2:], "dirty")
			infile := contains(fields[2:], "infile")
			if err := mf.Put(h, dirty, infile); err != nil {
				fmt.Printf("put failed: %v\n", err)
				continue
			}
			delete(held, nr)
			fmt.Printf("put block %d (now numbered %d)\n", nr, h.BlockNr())

		case "free":
			if len(fields) < 2 {
				fmt.Println("usage: free <bnum>")
				continue
			}
			nr, _ := strconv.ParseInt(fields[1], 10, 64)
			h, ok := held[nr]
			if !ok {
				fmt.Println("block not held")
				continue
			}
			mf.Free(h)
			delete(held, nr)
			fmt.Printf("freed block %d\n", nr)

		case "sync":
			flags := memfile.SyncAll
			if contains(fields[1:], "flush") {
				flags |= memfile.SyncFlush
			}
			if err := mf.Sync(flags, nil); err != nil {
				fmt.Printf("sync failed: %v\n", err)
				continue
			}
			fmt.Println("sync ok")

		case "status":
			fmt.Printf("page_size=%d dirty=%v has_file=%v held=%d\n",
				mf.PageSize(), mf.Dirty(), mf.HasFile(), len(held))

		case "close":
			fmt.Println("closing")
			return

		default:
			fmt.Printf("unknown command %q (try 'help')\n", fields[0])
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  new [pages] [neg]        allocate a block
  get <bnum> [pages]       fetch and lock a block
  write <bnum> <text>      overwrite a held block's data
  put <bnum> [dirty] [infile]  release a held block
  free <bnum>              release a held block's storage
  sync [flush]             flush dirty blocks to the swap file
  status                   show MemFile summary
  close                    exit`)
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

func trimNulls(b []byte) string {
	i := 0
	for i < len(b) && b[i] != 0 {
		i++
	}
	return string(b[:i])
}
