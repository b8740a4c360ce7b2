package records

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// LoadPostgres reads the master list from a Postgres table in insertion
// order. The connection is used once at startup and closed; the loaded set
// stays immutable in memory for the lifetime of the process, exactly like the
// file-backed source.
func LoadPostgres(ctx context.Context, dsn string) ([]Record, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, `
		SELECT reference,
		       name,
		       course,
		       lga,
		       COALESCE(education_level, ''),
		       COALESCE(serial, ''),
		       COALESCE(photo_url, '')
		FROM candidates
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Reference, &rec.Name, &rec.Course, &rec.LGA,
			&rec.EducationLevel, &rec.Serial, &rec.PhotoURL); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return recs, nil
}
