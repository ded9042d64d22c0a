// server/main.go
package main

import (
	"os"

	"github.com/vinizap/shelf/server/cli"
)

func main() {
	os.Exit(cli.Execute())
}
