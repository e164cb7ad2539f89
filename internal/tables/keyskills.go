package tables

import (
	"strings"

	"vacsift-engine/internal/classify"
	"vacsift-engine/internal/domain"
	"vacsift-engine/internal/store"
)

// BuildKeySkills expands each vacancy's comma-joined skills into one row
// per atomic value, carrying the parent key, with the canonical form
// alongside the raw one. Exact (vacancy, raw skill) duplicates collapse to
// a single row; output order is not significant.
func BuildKeySkills(vacs []domain.Vacancy) []domain.KeySkill {
	type pair struct{ id, name string }
	seen := make(map[pair]bool)

	var out []domain.KeySkill
	for _, v := range vacs {
		if v.KeySkills == "" {
			continue
		}
		for _, raw := range strings.Split(v.KeySkills, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			k := pair{v.ID, raw}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, domain.KeySkill{
				VacancyID:  v.ID,
				Name:       raw,
				Normalized: classify.NormalizeSkill(raw),
			})
		}
	}
	return out
}

func KeySkillsTable(rows []domain.KeySkill) store.Table {
	t := store.Table{
		Name:    "key_skills",
		Columns: []string{"vacancy_id", "name", "normalized_name"},
		Key:     "vacancy_id",
	}
	for _, s := range rows {
		t.Rows = append(t.Rows, []any{s.VacancyID, s.Name, s.Normalized})
	}
	return t
}
