package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/campfinder/core"
)

// Expected header columns of the initiative export.
const (
	columnCampfireId  = "Campfire_Id"
	columnTitle       = "Title"
	columnOwner       = "Owner"
	columnDescription = "Description"
	columnLink        = "Link"
	columnMaturity    = "Maturity Level"
)

// ReadInitiatives parses a delimited initiative export into raw catalog
// records, one per data row, preserving source order. Every field is
// whitespace-trimmed; a UTF-8 byte order mark on the header is tolerated.
// Columns absent from the header yield empty fields rather than errors, and
// no row filtering happens here; the pipeline decides which rows survive.
func ReadInitiatives(r io.Reader) ([]*core.Initiative, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []*core.Initiative{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[strings.TrimSpace(name)] = i
	}

	field := func(record []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	initiatives := make([]*core.Initiative, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		initiatives = append(initiatives, &core.Initiative{
			Title:       field(record, columnTitle),
			Owner:       field(record, columnOwner),
			CampfireId:  field(record, columnCampfireId),
			Description: field(record, columnDescription),
			Link:        field(record, columnLink),
			Maturity:    field(record, columnMaturity),
		})
	}

	return initiatives, nil
}
