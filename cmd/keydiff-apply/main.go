// Command keydiff-apply reads a JSON array of records and a JSON-encoded
// patch script and prints the JSON array produced by applying the script.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wharfdale/keydiff"
)

func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(v)
}

func run(fromPath, patchPath string) error {
	var from []interface{}
	if err := readJSON(fromPath, &from); err != nil {
		return err
	}

	var patches keydiff.PatchList
	if err := readJSON(patchPath, &patches); err != nil {
		return err
	}

	result := keydiff.Apply(from, patches)

	return json.NewEncoder(os.Stdout).Encode(result)
}

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: keydiff-apply from.json patches.json\n")
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
