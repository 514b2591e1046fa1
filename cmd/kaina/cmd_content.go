package main

import "fmt"

// cmdContent lists loaded packs or catalog rows
func cmdContent(args []string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'kaina start' first)")
	}

	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "list", "":
		return cmdContentList()
	case "rows":
		return cmdContentRows()
	default:
		return fmt.Errorf("unknown content command: %s (valid: list, rows)", sub)
	}
}

func cmdContentList() error {
	var resp struct {
		Packs []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Version  string `json:"version"`
			Language string `json:"language"`
			RowCount int    `json:"row_count"`
		} `json:"packs"`
	}
	if err := apiGet("/v1/content/packs", &resp); err != nil {
		return fmt.Errorf("list packs: %w", err)
	}

	if len(resp.Packs) == 0 {
		fmt.Println("No content packs loaded. Run 'kaina init' to seed the starter pack.")
		return nil
	}

	fmt.Println("Content Packs")
	fmt.Println("=============")
	for _, pack := range resp.Packs {
		fmt.Printf("%-20s %s (v%s, %s, %d rows)\n",
			pack.ID, pack.Name, pack.Version, pack.Language, pack.RowCount)
	}
	return nil
}

func cmdContentRows() error {
	var resp struct {
		Rows []struct {
			Number     int    `json:"number"`
			KokiaKaina string `json:"kokia_kaina"`
			EuroNom    string `json:"euro_nom"`
		} `json:"rows"`
	}
	if err := apiGet("/v1/content/rows", &resp); err != nil {
		return fmt.Errorf("list rows: %w", err)
	}

	if len(resp.Rows) == 0 {
		fmt.Println("Catalog is empty.")
		return nil
	}

	fmt.Println("Catalog Rows")
	fmt.Println("============")
	for _, row := range resp.Rows {
		fmt.Printf("€%-3d %s %s\n", row.Number, row.KokiaKaina, row.EuroNom)
	}
	return nil
}
