// Command fnpolicy-schema prints the JSON schema of the fnpolicy
// configuration file.
//
// Usage:
//
//	fnpolicy-schema > fnpolicy.schema.json
package main

import (
	"fmt"
	"os"

	"github.com/mpyw/fnpolicy/internal/config"
)

func main() {
	out, err := config.Schema()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
