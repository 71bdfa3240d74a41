package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hupe1980/bitgo"
)

func main() {
	fmt.Println("--- Build ---")

	b, err := bitgo.Pack("uint:12, hex:2, bool, pad:3, ue", 1600, "4f", true, 9)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Packed:", b)
	fmt.Println("Length:", b.Len(), "bits")

	fmt.Println()
	fmt.Println("--- Search ---")

	hay := bitgo.MustFromHex("0x00f4700ff4")
	needle := bitgo.MustFromBin("0b11110100")

	pos, found, err := hay.Find(needle)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("First %s at bit %d (found=%v)\n", needle, pos, found)

	all, err := hay.FindAll(needle)
	if err != nil {
		log.Fatal(err)
	}
	for p := range all {
		fmt.Println("Occurrence at", p)
	}

	fmt.Println()
	fmt.Println("--- Read ---")

	r := bitgo.NewReader(b)
	vals, err := r.ReadSpec("uint:12, hex:2, bool, pad:3, ue")
	if err != nil {
		log.Fatal(err)
	}
	for i, v := range vals {
		fmt.Printf("Field %d: %s\n", i, v)
	}

	fmt.Println()
	fmt.Println("--- Print ---")

	if err := hay.PP(os.Stdout, "bin, hex", 60); err != nil {
		log.Fatal(err)
	}
}
