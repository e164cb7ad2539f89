package domain

type Vacancy struct {
	ID               string
	Position         string
	JobDescription   string
	URL              string
	AlternateURL     string
	Area             string
	Employment       string
	Experience       string
	ProfessionalRole string
	KeySkills        string // comma-joined; empty means the source had none

	SalaryFrom     *float64
	SalaryTo       *float64
	SalaryCurrency string
	SalaryGross    *bool

	CompanyID   string
	CompanyName string

	PublishedAt string
	CreatedAt   string
	Archived    bool
}

type Employer struct {
	ID           string
	Name         string
	Trusted      bool
	AccreditedIT bool
}

type KeySkill struct {
	VacancyID  string
	Name       string
	Normalized string
}
