package main

import (
	"fmt"
	"log"
	"os"

	"rental-inventory/core/config"
	"rental-inventory/core/database"
	"rental-inventory/core/rules"
	"rental-inventory/core/utils"
	"rental-inventory/feature/correlation"
)

// Probe for matching questions: feed it a catalog name and it shows the
// normalized form plus the similarity against every tracking class.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_match <catalog item name>")
	}
	name := os.Args[1]

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Input:      %q\n", name)
	fmt.Printf("Normalized: %q\n", correlation.NormalizeName(name))
	fmt.Printf("Item key:   %q\n\n", utils.NormalizeItemKey(name))

	var classes []correlation.TrackingClass
	if err := db.Order("class_id asc").Find(&classes).Error; err != nil {
		log.Fatal(err)
	}

	threshold := cfg.Rules.FuzzyThreshold
	if threshold == 0 {
		threshold = rules.Default().FuzzyThreshold
	}

	fmt.Printf("%d tracking classes, fuzzy threshold %.2f\n", len(classes), threshold)
	for _, class := range classes {
		sim := correlation.Similarity(name, class.Name)
		marker := " "
		if sim >= threshold {
			marker = "*"
		}
		fmt.Printf("%s %.3f  %-10s %q -> %q\n", marker, sim, class.ClassID, class.Name, correlation.NormalizeName(class.Name))
	}
}
