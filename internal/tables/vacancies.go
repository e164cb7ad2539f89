package tables

import (
	"vacsift-engine/internal/classify"
	"vacsift-engine/internal/domain"
	"vacsift-engine/internal/store"
)

// BuildVacancies flattens raw page items into typed rows. Archived
// vacancies, vacancies from untrusted employers and vacancies without key
// skills are dropped; duplicates (same id) keep the first occurrence.
func BuildVacancies(recs []domain.RawRecord) []domain.Vacancy {
	seen := make(map[string]bool, len(recs))
	var out []domain.Vacancy
	for _, raw := range recs {
		if len(raw) == 0 {
			continue
		}
		id := asString(raw["id"])
		if id == "" || seen[id] {
			continue
		}
		if boolVal(raw["archived"]) {
			continue
		}

		emp := classify.Coerce(raw["employer"])
		sal := classify.Coerce(raw["salary"])

		v := domain.Vacancy{
			ID:               id,
			Position:         liftName(raw["name"]),
			JobDescription:   asString(raw["job_description"]),
			URL:              asString(raw["url"]),
			AlternateURL:     asString(raw["alternate_url"]),
			Area:             liftName(raw["area"]),
			Employment:       liftName(raw["employment"]),
			Experience:       liftName(raw["experience"]),
			ProfessionalRole: liftName(raw["professional_roles"]),
			KeySkills:        asString(raw["key_skills"]),
			SalaryFrom:       floatPtr(sal.Field("from")),
			SalaryTo:         floatPtr(sal.Field("to")),
			SalaryCurrency:   sal.StringField("currency"),
			SalaryGross:      boolPtr(sal.Field("gross")),
			CompanyID:        asString(emp.Field("id")),
			CompanyName:      emp.StringField("name"),
			PublishedAt:      asString(raw["published_at"]),
			CreatedAt:        asString(raw["created_at"]),
		}

		if !emp.BoolField("trusted") || v.KeySkills == "" {
			continue
		}

		seen[id] = true
		out = append(out, v)
	}
	return out
}

func VacanciesTable(rows []domain.Vacancy) store.Table {
	t := store.Table{
		Name: "vacancies",
		Columns: []string{
			"id", "position", "job_description", "url", "alternate_url",
			"area", "employment", "experience", "professional_roles", "key_skills",
			"salary_from", "salary_to", "salary_currency", "salary_gross",
			"company_id", "company_name", "published_at", "created_at", "archived",
		},
		Key: "id",
	}
	for _, v := range rows {
		t.Rows = append(t.Rows, []any{
			v.ID, v.Position, v.JobDescription, v.URL, v.AlternateURL,
			v.Area, v.Employment, v.Experience, v.ProfessionalRole, v.KeySkills,
			anyFloat(v.SalaryFrom), anyFloat(v.SalaryTo), v.SalaryCurrency, anyBool(v.SalaryGross),
			v.CompanyID, v.CompanyName, v.PublishedAt, v.CreatedAt, v.Archived,
		})
	}
	return t
}

func anyFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func anyBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}
