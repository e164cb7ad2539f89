package tables

import (
	"vacsift-engine/internal/classify"
	"vacsift-engine/internal/domain"
	"vacsift-engine/internal/store"
)

// BuildCompanies classifies raw registry documents and keeps the ones whose
// primary code belongs to the configured family. Rejected records are
// dropped silently; callers log counts.
func BuildCompanies(recs []domain.RawRecord, path classify.Path, prefix string) []domain.Company {
	var out []domain.Company
	for _, raw := range recs {
		code, label := classify.Classification(coerceData(raw), path)
		if !classify.KeepCompany(code, prefix) {
			continue
		}
		c := domain.Company{
			OGRN:      asString(raw["ogrn"]),
			INN:       asString(raw["inn"]),
			KPP:       asString(raw["kpp"]),
			Name:      asString(raw["name"]),
			FullName:  asString(raw["full_name"]),
			CodeOKVED: *code,
			TypeOKVED: "Осн",
		}
		if label != nil {
			c.NameOKVED = *label
		}
		out = append(out, c)
	}
	return out
}

// coerceData unwraps the nested data attribute when present; registry dumps
// nest the classification section under "data", page items carry it at the
// top level.
func coerceData(raw domain.RawRecord) domain.RawRecord {
	if v := classify.Coerce(raw["data"]); v.Kind() == classify.KindRecord {
		return v.Record()
	}
	return raw
}

func CompaniesTable(rows []domain.Company) store.Table {
	t := store.Table{
		Name:    "companies",
		Columns: []string{"ogrn", "inn", "kpp", "name", "full_name", "code_okved", "name_okved", "type_okved"},
		Key:     "ogrn",
	}
	for _, c := range rows {
		t.Rows = append(t.Rows, []any{c.OGRN, c.INN, c.KPP, c.Name, c.FullName, c.CodeOKVED, c.NameOKVED, c.TypeOKVED})
	}
	return t
}
