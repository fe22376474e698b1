package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type dialect struct {
	driverName string
	schema     string
	singleConn bool
	// numbered placeholders ($1, $2, ...) instead of ?
	numbered bool
}

var sqliteDialect = dialect{
	driverName: "sqlite",
	singleConn: true,
	schema: `
		CREATE TABLE IF NOT EXISTS transcripts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			transcript_text TEXT NOT NULL,
			summary_text TEXT NOT NULL,
			emotion_text TEXT NOT NULL,
			created_at REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_transcripts_created_at ON transcripts(created_at);
	`,
}

var postgresDialect = dialect{
	driverName: "postgres",
	numbered:   true,
	schema: `
		CREATE TABLE IF NOT EXISTS transcripts (
			id BIGSERIAL PRIMARY KEY,
			transcript_text TEXT NOT NULL,
			summary_text TEXT NOT NULL,
			emotion_text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_transcripts_created_at ON transcripts(created_at);
	`,
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "sqlite":
		return sqliteDialect, nil
	case "postgres":
		return postgresDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported sql driver: %s", driver)
	}
}

// rebind rewrites ? placeholders for drivers that use numbered parameters
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// encodeTime converts t to the column representation. SQLite stores unix seconds as REAL.
func (d dialect) encodeTime(t time.Time) interface{} {
	if d.driverName == "sqlite" {
		return float64(t.UnixNano()) / 1e9
	}
	return t
}

func (d dialect) decodeTime(src interface{}) (time.Time, error) {
	switch v := src.(type) {
	case time.Time:
		return v.UTC(), nil
	case float64:
		return timeFromUnix(v), nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case nil:
		return time.Time{}, fmt.Errorf("created_at is null")
	default:
		return time.Time{}, fmt.Errorf("unsupported created_at type %T", src)
	}
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC()
}
