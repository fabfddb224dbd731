package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Friend-list export layout: profile URL in the first column, display
// name in the third.
const (
	urlColumn  = 0
	nameColumn = 2
)

// DefaultOwnerURLTemplate derives the owner's raw reference from a
// filename-embedded numeric profile id.
const DefaultOwnerURLTemplate = "https://facebook.com/profile.php?id=%s"

// WalkCSVFiles lists the CSV files directly under dir, sorted by name.
func WalkCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// UnitReader parses friend-list CSV exports into ingestion units.
type UnitReader struct {
	ownerTemplate string
}

// NewUnitReader creates a reader; an empty template falls back to
// DefaultOwnerURLTemplate.
func NewUnitReader(ownerTemplate string) *UnitReader {
	if ownerTemplate == "" {
		ownerTemplate = DefaultOwnerURLTemplate
	}
	return &UnitReader{ownerTemplate: ownerTemplate}
}

// ReadUnit parses one export file. The owner reference is built from
// the filename basename via the owner URL template; rows missing a URL
// or name are dropped, matching how the exports pad partial rows.
func (r *UnitReader) ReadUnit(path string) (Unit, error) {
	base := filepath.Base(path)
	owner := strings.TrimSuffix(base, filepath.Ext(base))

	unit := Unit{
		Source:    base,
		OwnerRef:  fmt.Sprintf(r.ownerTemplate, owner),
		OwnerName: owner,
	}

	f, err := os.Open(path)
	if err != nil {
		return unit, fmt.Errorf("open unit %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // exports have ragged rows

	// Header row.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return unit, nil
		}
		return unit, fmt.Errorf("read header of %s: %w", path, err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return unit, fmt.Errorf("read row of %s: %w", path, err)
		}
		if len(record) <= nameColumn {
			continue
		}
		url := strings.TrimSpace(record[urlColumn])
		name := strings.TrimSpace(record[nameColumn])
		if url == "" || name == "" {
			continue
		}
		unit.Friends = append(unit.Friends, FriendRow{RawURL: url, Name: name})
	}
	return unit, nil
}
