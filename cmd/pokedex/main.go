// Command pokedex serves and browses the PokeAPI catalog.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
