package tables

import (
	"vacsift-engine/internal/classify"
	"vacsift-engine/internal/domain"
	"vacsift-engine/internal/store"
)

// BuildEmployers lifts the employer sub-object out of every raw page item
// into its own row set, duplicates removed by employer id.
func BuildEmployers(recs []domain.RawRecord) []domain.Employer {
	seen := make(map[string]bool)
	var out []domain.Employer
	for _, raw := range recs {
		emp := classify.Coerce(raw["employer"])
		if emp.Kind() != classify.KindRecord {
			continue
		}
		id := asString(emp.Field("id"))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, domain.Employer{
			ID:           id,
			Name:         emp.StringField("name"),
			Trusted:      emp.BoolField("trusted"),
			AccreditedIT: emp.BoolField("accredited_it_employer"),
		})
	}
	return out
}

func EmployersTable(rows []domain.Employer) store.Table {
	t := store.Table{
		Name:    "employers",
		Columns: []string{"id", "name", "trusted", "accredited_it"},
		Key:     "id",
	}
	for _, e := range rows {
		t.Rows = append(t.Rows, []any{e.ID, e.Name, e.Trusted, e.AccreditedIT})
	}
	return t
}
