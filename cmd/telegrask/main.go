// Command telegrask scaffolds new bot projects:
//
//	telegrask new [-dir .] [-module github.com/me/mybot] mybot
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/telegrask/telegrask/internal/scaffold"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] != "new" {
		usage()
		os.Exit(2)
	}

	fs := flag.NewFlagSet("new", flag.ExitOnError)
	dir := fs.String("dir", ".", "parent directory for the project")
	module := fs.String("module", "", "go module path (default: project name)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	created, err := scaffold.Create(scaffold.Project{
		Name:   fs.Arg(0),
		Root:   *dir,
		Module: *module,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("created %s\n", created)
	fmt.Println("next steps:")
	fmt.Printf("  cd %s\n", created)
	fmt.Println("  cp .env.example .env   # add your bot token")
	fmt.Println("  go mod tidy && go run .")
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: telegrask new [-dir .] [-module path] <name>")
}
