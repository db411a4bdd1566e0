package commit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"swimpipe/internal/stats"
	"swimpipe/internal/store"
	"swimpipe/pkg/records"
)

// AuditLog is the append-only, human-readable SQL trail of a commit run:
// one statement per create/update plus a final summary block. It exists for
// manual review and replay; nothing in the pipeline parses it back.
type AuditLog struct {
	f *os.File
}

// OpenAudit opens (creating or appending) the audit log at path. A blank
// path yields a disabled log whose methods are no-ops.
func OpenAudit(path string) (*AuditLog, error) {
	if strings.TrimSpace(path) == "" {
		return &AuditLog{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("audit: mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	return &AuditLog{f: f}, nil
}

// Close releases the underlying file.
func (a *AuditLog) Close() error {
	if a.f == nil {
		return nil
	}
	return a.f.Close()
}

func (a *AuditLog) write(line string) {
	if a.f == nil {
		return
	}
	fmt.Fprintln(a.f, line)
}

// Begin marks the start of a run.
func (a *AuditLog) Begin(source string) {
	a.write(fmt.Sprintf("-- run %s source=%s", time.Now().UTC().Format(time.RFC3339), source))
}

// Insert appends the INSERT statement for a created entity.
func (a *AuditLog) Insert(kind string, id int64, attrs records.Record) {
	spec := store.Kinds[kind]
	cols, vals := orderedPairs(spec, attrs)
	a.write(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s); -- id=%d",
		spec.Table, strings.Join(cols, ", "), strings.Join(vals, ", "), id))
}

// Update appends the UPDATE statement for a changed entity. Callers only
// invoke it when the diff is non-empty; a no-op diff must leave the log
// untouched.
func (a *AuditLog) Update(kind string, id int64, attrs records.Record) {
	spec := store.Kinds[kind]
	cols, vals := orderedPairs(spec, attrs)
	sets := make([]string, len(cols))
	for i := range cols {
		sets[i] = cols[i] + " = " + vals[i]
	}
	a.write(fmt.Sprintf("UPDATE %s SET %s WHERE id = %d;", spec.Table, strings.Join(sets, ", "), id))
}

// Summary appends the final counters and error list.
func (a *AuditLog) Summary(st *stats.Stats) {
	if a.f == nil {
		return
	}
	a.write(strings.TrimRight(st.Summary(), "\n"))
}

// orderedPairs renders the attrs that belong to the kind's registered
// columns, in registry order, as SQL literals.
func orderedPairs(spec store.KindSpec, attrs records.Record) (cols, vals []string) {
	for _, c := range spec.Columns {
		v, ok := attrs[c]
		if !ok {
			continue
		}
		cols = append(cols, c)
		vals = append(vals, sqlLiteral(v))
	}
	if cols == nil {
		// Unknown kind in tests: deterministic fallback on sorted keys.
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cols = append(cols, k)
			vals = append(vals, sqlLiteral(attrs[k]))
		}
	}
	return cols, vals
}

func sqlLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case time.Time:
		return "'" + x.Format("2006-01-02") + "'"
	default:
		return fmt.Sprintf("%v", x)
	}
}
