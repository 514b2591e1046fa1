package content

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PackFile is the YAML structure for a content pack.
type PackFile struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
	Rows        []Row  `yaml:"rows"`
}

// Pack is a loaded content pack.
type Pack struct {
	ID          string
	Name        string
	Version     string
	Description string
	Language    string
	Rows        []Row
}

// datedCSVPattern matches legacy CSV drops named numbers_YYYY-MM-DD.csv.
var datedCSVPattern = regexp.MustCompile(`^numbers_(\d{4}-\d{2}-\d{2})\.csv$`)

// Loader reads content packs and legacy CSV drops from a directory.
type Loader struct {
	basePath string
}

// NewLoader creates a content loader rooted at basePath.
func NewLoader(basePath string) *Loader {
	return &Loader{basePath: basePath}
}

// LoadPack loads a single pack file.
func (l *Loader) LoadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pack file: %w", err)
	}

	var packFile PackFile
	if err := yaml.Unmarshal(data, &packFile); err != nil {
		return nil, fmt.Errorf("parse pack file %s: %w", filepath.Base(path), err)
	}
	if packFile.ID == "" {
		return nil, fmt.Errorf("pack file %s has no id", filepath.Base(path))
	}

	return &Pack{
		ID:          packFile.ID,
		Name:        packFile.Name,
		Version:     packFile.Version,
		Description: packFile.Description,
		Language:    packFile.Language,
		Rows:        packFile.Rows,
	}, nil
}

// LoadAllPacks loads every *.yaml pack in the base directory.
func (l *Loader) LoadAllPacks() ([]*Pack, error) {
	entries, err := os.ReadDir(l.basePath)
	if err != nil {
		return nil, fmt.Errorf("read content directory: %w", err)
	}

	var packs []*Pack
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ".yaml" && filepath.Ext(name) != ".yml" {
			continue
		}

		pack, err := l.LoadPack(filepath.Join(l.basePath, name))
		if err != nil {
			return nil, fmt.Errorf("load pack %s: %w", name, err)
		}
		packs = append(packs, pack)
	}

	return packs, nil
}

// LoadLatestCSV finds the most recent dated CSV drop in the base directory
// and loads its rows. It returns nil rows without error when no drop exists.
func (l *Loader) LoadLatestCSV() ([]Row, error) {
	entries, err := os.ReadDir(l.basePath)
	if err != nil {
		return nil, fmt.Errorf("read content directory: %w", err)
	}

	var (
		latest     string
		latestDate time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := datedCSVPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		date, err := time.Parse("2006-01-02", m[1])
		if err != nil {
			continue
		}
		if latest == "" || date.After(latestDate) {
			latest = entry.Name()
			latestDate = date
		}
	}
	if latest == "" {
		return nil, nil
	}

	rows, err := l.loadCSV(filepath.Join(l.basePath, latest))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", latest, err)
	}
	return rows, nil
}

// loadCSV parses a legacy CSV drop. Columns are resolved by header name,
// so extra columns are ignored.
func (l *Loader) loadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	idx := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		idx[strings.TrimSpace(strings.ToLower(col))] = i
	}
	if _, ok := idx["number"]; !ok {
		return nil, fmt.Errorf("csv has no number column")
	}

	field := func(record []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]Row, 0, len(records)-1)
	for n, record := range records[1:] {
		number, err := strconv.Atoi(field(record, "number"))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: bad number: %w", n+2, err)
		}
		rows = append(rows, Row{
			Number:               number,
			Informal:             field(record, "neoficialiai"),
			Compound:             field(record, "compound"),
			KokiaKaina:           field(record, "kokia_kaina"),
			KokiaKainaCompound:   field(record, "kokia_kaina_compound"),
			EuroNom:              field(record, "euro_nom"),
			CentNom:              field(record, "cent_nom"),
			KiekKainuoja:         field(record, "kiek_kainuoja"),
			KiekKainuojaCompound: field(record, "kiek_kainuoja_compound"),
			EuroAcc:              field(record, "euro_acc"),
			CentAcc:              field(record, "cent_acc"),
		})
	}
	return rows, nil
}
