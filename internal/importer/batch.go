package importer

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/cosmogony-cities/internal/domain"
	"github.com/cosmogony-cities/internal/pkg/wkt"
)

const (
	// DefaultBatchSize is the number of regions per INSERT statement.
	DefaultBatchSize = 100

	// FieldsPerRow is the number of bind parameters of one region row.
	FieldsPerRow = 8

	// MaxBatchSize keeps a statement under the 65535 bind parameters Postgres accepts.
	MaxBatchSize = 65535 / FieldsPerRow

	geometrySRID = 4326
)

// Chunk splits regions into consecutive chunks of at most size regions.
// The last chunk may be smaller. size must be positive.
func Chunk(regions []domain.AdministrativeRegion, size int) [][]domain.AdministrativeRegion {
	chunks := make([][]domain.AdministrativeRegion, 0, (len(regions)+size-1)/max(size, 1))
	for chunk := range slices.Chunk(regions, size) {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// QuoteTable quotes a table name, keeping an optional schema prefix.
func QuoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, part := range parts {
		parts[i] = pq.QuoteIdentifier(part)
	}
	return strings.Join(parts, ".")
}

// Render builds one INSERT for the whole chunk. Row i binds $i*8+1 to $i*8+8;
// coord and boundary go through ST_GeomFromText. An empty chunk renders nothing.
func Render(table string, seq int, chunk []domain.AdministrativeRegion) (domain.InsertBatch, bool) {
	if len(chunk) == 0 {
		return domain.InsertBatch{}, false
	}

	var b strings.Builder
	b.Grow(32 + len(chunk)*96)
	b.WriteString("INSERT INTO ")
	b.WriteString(QuoteTable(table))
	b.WriteString(" VALUES ")

	args := make([]interface{}, 0, len(chunk)*FieldsPerRow)
	for i, region := range chunk {
		if i > 0 {
			b.WriteString(", ")
		}
		writeRowPlaceholders(&b, i*FieldsPerRow)
		args = append(args, rowArgs(region)...)
	}

	return domain.InsertBatch{
		Seq:       seq,
		Statement: b.String(),
		Args:      args,
		Rows:      len(chunk),
	}, true
}

func writeRowPlaceholders(b *strings.Builder, base int) {
	b.WriteByte('(')
	for field := 1; field <= FieldsPerRow; field++ {
		if field > 1 {
			b.WriteString(", ")
		}
		placeholder := "$" + strconv.Itoa(base+field)
		if field > FieldsPerRow-2 {
			fmt.Fprintf(b, "ST_GeomFromText(%s, %d)", placeholder, geometrySRID)
			continue
		}
		b.WriteString(placeholder)
	}
	b.WriteByte(')')
}

// rowArgs lists the row parameters in column order. Absent values are untyped nil
// so the driver sends NULL.
func rowArgs(r domain.AdministrativeRegion) []interface{} {
	return []interface{}{
		r.ID,
		r.Name,
		r.URI,
		nullable(r.PostCode),
		nullable(r.Insee),
		r.Level,
		nullable(wkt.EncodePoint(r.Coord)),
		nullable(wkt.EncodeMultiPolygon(r.Boundary)),
	}
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
