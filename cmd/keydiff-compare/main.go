// Command keydiff-compare reads two JSON arrays of keyed records and
// prints the JSON-encoded patch script that transforms the first into the
// second.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/wharfdale/keydiff"
)

func readJSONArray(path string) ([]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var list []interface{}
	if err := json.NewDecoder(f).Decode(&list); err != nil {
		return nil, err
	}
	return list, nil
}

func run(leftPath, rightPath, keyField string) error {
	from, err := readJSONArray(leftPath)
	if err != nil {
		return err
	}
	to, err := readJSONArray(rightPath)
	if err != nil {
		return err
	}

	runner := keydiff.NewRunner(keyField)
	patches, err := runner.Compare(from, to)
	if err != nil {
		return err
	}

	return json.NewEncoder(os.Stdout).Encode(keydiff.PatchList(patches))
}

func main() {
	keyField := flag.String("key", "id", "record field used as the match key")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: keydiff-compare [--key=id] from.json to.json\n")
		os.Exit(2)
	}

	if err := run(args[0], args[1], *keyField); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
