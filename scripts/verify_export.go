package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Checks an exported report for rows that should never reach the Projects
// sheet: placeholder names, unknown status lanes, and months written as text.
func main() {
	filename := "output/capacity-report.xlsx"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	f, err := excelize.OpenFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sheetName := "Projects"
	rows, err := f.GetRows(sheetName)
	if err != nil {
		log.Fatal(err)
	}
	if len(rows) == 0 {
		log.Fatalf("sheet %s is empty", sheetName)
	}

	header := rows[0]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		log.Fatalf("column %q missing from header", name)
		return -1
	}
	nameCol := col("Project Name")
	statusCol := col("Plan / Actual")
	aprCol := col("Apr")

	placeholders := map[string]bool{"nan": true, "none": true, "null": true, "n/a": true, "s.no": true, "s.no.": true}
	statuses := map[string]bool{"Plan": true, "Rephase": true, "Actual": true}

	fmt.Printf("=== EXPORT CHECK: %s ===\n", filename)
	fmt.Printf("Total rows: %d\n\n", len(rows)-1)

	problems := 0
	blankMonths, zeroMonths := 0, 0
	for i, row := range rows {
		if i == 0 || len(row) <= statusCol {
			continue // header or separator
		}

		name := strings.TrimSpace(row[nameCol])
		if len([]rune(name)) <= 2 || placeholders[strings.ToLower(name)] {
			fmt.Printf("❌ PLACEHOLDER NAME at row %d: '%s'\n", i+1, name)
			problems++
		}
		if !statuses[row[statusCol]] {
			fmt.Printf("❌ UNKNOWN STATUS at row %d: '%s'\n", i+1, row[statusCol])
			problems++
		}

		for m := 0; m < 12; m++ {
			axis, _ := excelize.CoordinatesToCellName(aprCol+m+1, i+1)
			cellType, _ := f.GetCellType(sheetName, axis)
			value, _ := f.GetCellValue(sheetName, axis)
			switch {
			case value == "":
				blankMonths++
			case cellType == excelize.CellTypeSharedString || cellType == excelize.CellTypeInlineString:
				fmt.Printf("❌ TEXT MONTH at %s: '%s'\n", axis, value)
				problems++
			case strings.Trim(value, "0.,") == "":
				zeroMonths++
			}
		}
	}

	fmt.Printf("\nBlank month cells: %d, zero month cells: %d\n", blankMonths, zeroMonths)
	if problems > 0 {
		fmt.Printf("❌ %d problem(s) found\n", problems)
		os.Exit(1)
	}
	fmt.Println("✅ No problems found")
}
